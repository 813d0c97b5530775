package domain

import (
	"time"

	"gorm.io/datatypes"
)

type Employee struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	FirstName    string  `gorm:"size:100;not null" json:"firstName"`
	LastName     string  `gorm:"size:100;not null" json:"lastName"`
	Email        string  `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Position     string  `gorm:"size:100;not null" json:"position"`
	Department   string  `gorm:"size:100;not null;index" json:"department"`
	JoinDate     string  `gorm:"size:10;not null" json:"joinDate"`
	Status       string  `gorm:"size:20;not null;default:'active'" json:"status"`
	ProfileImage *string `gorm:"size:2048" json:"profileImage"`
}

func (e *Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}

// EmployeeUpdate holds the fields PATCH /employees/:id may change.
type EmployeeUpdate struct {
	FirstName    *string
	LastName     *string
	Position     *string
	Department   *string
	Status       *string
	ProfileImage *string
}

type LeaveStatus string

const (
	LeavePending  LeaveStatus = "pending"
	LeaveApproved LeaveStatus = "approved"
	LeaveRejected LeaveStatus = "rejected"
)

type Leave struct {
	ID         uint        `gorm:"primaryKey" json:"id"`
	EmployeeID uint        `gorm:"not null;index" json:"employeeId"`
	StartDate  string      `gorm:"size:10;not null" json:"startDate"`
	EndDate    string      `gorm:"size:10;not null" json:"endDate"`
	Type       string      `gorm:"size:50;not null" json:"type"`
	Status     LeaveStatus `gorm:"size:20;not null;default:'pending'" json:"status"`
	Reason     string      `gorm:"type:text;not null" json:"reason"`
}

type Evaluation struct {
	ID             uint                        `gorm:"primaryKey" json:"id"`
	EmployeeID     uint                        `gorm:"not null;index" json:"employeeId"`
	EvaluationDate string                      `gorm:"size:10;not null" json:"evaluationDate"`
	Performance    int                         `gorm:"not null" json:"performance"`
	Feedback       string                      `gorm:"type:text;not null" json:"feedback"`
	Goals          datatypes.JSONSlice[string] `gorm:"not null" json:"goals"`
}

type Collaboration struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	EmployeeID     uint      `gorm:"not null;index" json:"employeeId"`
	CollaboratorID uint      `gorm:"not null;index" json:"collaboratorId"`
	Intensity      int       `gorm:"not null" json:"intensity"`
	Type           string    `gorm:"size:50;not null" json:"type"`
	Date           string    `gorm:"size:10;not null" json:"date"`
	CreatedAt      time.Time `json:"createdAt"`
}

// HeatmapCell is the summed collaboration intensity between two employees,
// counted in both directions.
type HeatmapCell struct {
	EmployeeID     uint `json:"employeeId"`
	CollaboratorID uint `json:"collaboratorId"`
	Intensity      int  `json:"intensity"`
}
