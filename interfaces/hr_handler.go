package interfaces

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"

	"hr-portal/application"
	"hr-portal/domain"
)

type createLeaveRequest struct {
	EmployeeID uint   `json:"employeeId" binding:"required,min=1"`
	StartDate  string `json:"startDate" binding:"required,datetime=2006-01-02"`
	EndDate    string `json:"endDate" binding:"required,datetime=2006-01-02"`
	Type       string `json:"type" binding:"required,max=50"`
	Reason     string `json:"reason" binding:"required"`
}

type updateLeaveStatusRequest struct {
	Status domain.LeaveStatus `json:"status" binding:"required,oneof=pending approved rejected"`
}

type createEvaluationRequest struct {
	EmployeeID     uint     `json:"employeeId" binding:"required,min=1"`
	EvaluationDate string   `json:"evaluationDate" binding:"required,datetime=2006-01-02"`
	Performance    int      `json:"performance" binding:"required,min=1,max=5"`
	Feedback       string   `json:"feedback" binding:"required"`
	Goals          []string `json:"goals" binding:"omitempty,dive,required"`
}

type createCollaborationRequest struct {
	EmployeeID     uint   `json:"employeeId" binding:"required,min=1"`
	CollaboratorID uint   `json:"collaboratorId" binding:"required,min=1,nefield=EmployeeID"`
	Intensity      int    `json:"intensity" binding:"required,min=1,max=10"`
	Type           string `json:"type" binding:"required,max=50"`
	Date           string `json:"date" binding:"required,datetime=2006-01-02"`
}

func (h *HTTPHandler) ListLeaves(c *gin.Context) {
	employeeID, ok := queryID(c, "employeeId")
	if !ok {
		return
	}

	leaves, err := h.Leaves.ListLeaves(c.Request.Context(), employeeID)
	if err != nil {
		h.respondError(c, err, "failed to list leaves")
		return
	}
	c.JSON(http.StatusOK, leaves)
}

func (h *HTTPHandler) CreateLeave(c *gin.Context) {
	var req createLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	// ISO dates order lexically.
	if req.EndDate < req.StartDate {
		respondValidation(c, domain.FieldError{Field: "endDate", Message: "must not be before startDate"})
		return
	}
	if !h.requireEmployee(c, "employeeId", req.EmployeeID) {
		return
	}

	leave := &domain.Leave{
		EmployeeID: req.EmployeeID,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		Type:       req.Type,
		Reason:     req.Reason,
		Status:     domain.LeavePending,
	}
	if err := h.Leaves.CreateLeave(c.Request.Context(), leave); err != nil {
		h.respondError(c, err, "failed to create leave")
		return
	}
	c.JSON(http.StatusCreated, leave)
}

func (h *HTTPHandler) UpdateLeaveStatus(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req updateLeaveStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	leave, err := h.Leaves.UpdateLeaveStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		h.respondError(c, err, "failed to update leave")
		return
	}
	c.JSON(http.StatusOK, leave)
}

func (h *HTTPHandler) ListEvaluations(c *gin.Context) {
	evaluations, err := h.Evaluations.ListEvaluations(c.Request.Context(), nil)
	if err != nil {
		h.respondError(c, err, "failed to list evaluations")
		return
	}
	c.JSON(http.StatusOK, evaluations)
}

func (h *HTTPHandler) CreateEvaluation(c *gin.Context) {
	var req createEvaluationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	if !h.requireEmployee(c, "employeeId", req.EmployeeID) {
		return
	}

	goals := req.Goals
	if goals == nil {
		goals = []string{}
	}
	evaluation := &domain.Evaluation{
		EmployeeID:     req.EmployeeID,
		EvaluationDate: req.EvaluationDate,
		Performance:    req.Performance,
		Feedback:       req.Feedback,
		Goals:          datatypes.JSONSlice[string](goals),
	}
	if err := h.Evaluations.CreateEvaluation(c.Request.Context(), evaluation); err != nil {
		h.respondError(c, err, "failed to create evaluation")
		return
	}
	c.JSON(http.StatusCreated, evaluation)
}

func (h *HTTPHandler) ListCollaborations(c *gin.Context) {
	collaborations, err := h.Collaborations.ListCollaborations(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "failed to list collaborations")
		return
	}
	c.JSON(http.StatusOK, collaborations)
}

func (h *HTTPHandler) CreateCollaboration(c *gin.Context) {
	var req createCollaborationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	if !h.requireEmployee(c, "employeeId", req.EmployeeID) || !h.requireEmployee(c, "collaboratorId", req.CollaboratorID) {
		return
	}

	collaboration := &domain.Collaboration{
		EmployeeID:     req.EmployeeID,
		CollaboratorID: req.CollaboratorID,
		Intensity:      req.Intensity,
		Type:           req.Type,
		Date:           req.Date,
	}
	if err := h.Collaborations.CreateCollaboration(c.Request.Context(), collaboration); err != nil {
		h.respondError(c, err, "failed to create collaboration")
		return
	}
	c.JSON(http.StatusCreated, collaboration)
}

func (h *HTTPHandler) CollaborationHeatmap(c *gin.Context) {
	collaborations, err := h.Collaborations.ListCollaborations(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "failed to build heatmap")
		return
	}
	c.JSON(http.StatusOK, application.BuildHeatmap(collaborations))
}
