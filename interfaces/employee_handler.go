package interfaces

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"hr-portal/domain"
)

type employeeRequest struct {
	FirstName    string  `json:"firstName" binding:"required,max=100"`
	LastName     string  `json:"lastName" binding:"required,max=100"`
	Email        string  `json:"email" binding:"required,email"`
	Position     string  `json:"position" binding:"required,max=100"`
	Department   string  `json:"department" binding:"required,max=100"`
	JoinDate     string  `json:"joinDate" binding:"required,datetime=2006-01-02"`
	Status       string  `json:"status" binding:"omitempty,oneof=active inactive"`
	ProfileImage *string `json:"profileImage" binding:"omitempty,url"`
}

func (r employeeRequest) toDomain() domain.Employee {
	return domain.Employee{
		FirstName:    strings.TrimSpace(r.FirstName),
		LastName:     strings.TrimSpace(r.LastName),
		Email:        strings.ToLower(strings.TrimSpace(r.Email)),
		Position:     strings.TrimSpace(r.Position),
		Department:   strings.TrimSpace(r.Department),
		JoinDate:     r.JoinDate,
		Status:       r.Status,
		ProfileImage: r.ProfileImage,
	}
}

type bulkEmployeesRequest struct {
	Employees []employeeRequest `json:"employees" binding:"required,min=1,max=500,dive"`
}

type updateEmployeeRequest struct {
	FirstName    *string `json:"firstName" binding:"omitempty,min=1,max=100"`
	LastName     *string `json:"lastName" binding:"omitempty,min=1,max=100"`
	Position     *string `json:"position" binding:"omitempty,min=1,max=100"`
	Department   *string `json:"department" binding:"omitempty,min=1,max=100"`
	Status       *string `json:"status" binding:"omitempty,oneof=active inactive"`
	ProfileImage *string `json:"profileImage" binding:"omitempty,url"`
}

func (h *HTTPHandler) ListEmployees(c *gin.Context) {
	employees, err := h.Employees.ListEmployees(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "failed to list employees")
		return
	}
	c.JSON(http.StatusOK, employees)
}

func (h *HTTPHandler) GetEmployee(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	employee, err := h.Employees.GetEmployee(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err, "failed to get employee")
		return
	}
	c.JSON(http.StatusOK, employee)
}

func (h *HTTPHandler) CreateEmployee(c *gin.Context) {
	var req employeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	employee := req.toDomain()
	if err := h.Employees.CreateEmployee(c.Request.Context(), &employee); err != nil {
		h.respondError(c, err, "failed to create employee")
		return
	}
	c.JSON(http.StatusCreated, employee)
}

// BulkCreateEmployees onboards every employee or none.
func (h *HTTPHandler) BulkCreateEmployees(c *gin.Context) {
	var req bulkEmployeesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	seen := make(map[string]int, len(req.Employees))
	employees := make([]domain.Employee, 0, len(req.Employees))
	for i, r := range req.Employees {
		e := r.toDomain()
		if j, dup := seen[e.Email]; dup {
			respondValidation(c, domain.FieldError{
				Field:   fmt.Sprintf("employees[%d].email", i),
				Message: fmt.Sprintf("duplicates employees[%d].email", j),
			})
			return
		}
		seen[e.Email] = i
		employees = append(employees, e)
	}

	if err := h.Employees.CreateEmployees(c.Request.Context(), employees); err != nil {
		h.respondError(c, err, "failed to create employees")
		return
	}
	c.JSON(http.StatusCreated, employees)
}

func (h *HTTPHandler) UpdateEmployee(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req updateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	employee, err := h.Employees.UpdateEmployee(c.Request.Context(), id, domain.EmployeeUpdate{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Position:     req.Position,
		Department:   req.Department,
		Status:       req.Status,
		ProfileImage: req.ProfileImage,
	})
	if err != nil {
		h.respondError(c, err, "failed to update employee")
		return
	}
	c.JSON(http.StatusOK, employee)
}

func (h *HTTPHandler) ListEmployeeEvaluations(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	evaluations, err := h.Evaluations.ListEvaluations(c.Request.Context(), &id)
	if err != nil {
		h.respondError(c, err, "failed to list evaluations")
		return
	}
	c.JSON(http.StatusOK, evaluations)
}

// requireEmployee answers 400 when the referenced employee does not exist.
func (h *HTTPHandler) requireEmployee(c *gin.Context, field string, id uint) bool {
	if _, err := h.Employees.GetEmployee(c.Request.Context(), id); err != nil {
		if isNotFound(err) {
			respondValidation(c, domain.FieldError{Field: field, Message: "employee does not exist"})
		} else {
			h.respondError(c, err, "failed to load employee")
		}
		return false
	}
	return true
}
