package domain

import (
	"time"

	"gorm.io/datatypes"
)

const (
	NotificationTypeInsight = "insight"
	NotificationTypeResume  = "resume"

	PriorityHigh   = "high"
	PriorityNormal = "normal"
	PriorityLow    = "low"

	CategoryPerformance = "performance"
	CategoryLeave       = "leave"
	CategoryRecruitment = "recruitment"
	CategoryGeneral     = "general"
)

type Notification struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Type      string         `gorm:"size:50;not null" json:"type"`
	Title     string         `gorm:"size:255;not null" json:"title"`
	Message   string         `gorm:"type:text;not null" json:"message"`
	Priority  string         `gorm:"size:20;not null;default:'normal'" json:"priority"`
	Category  string         `gorm:"size:50;not null" json:"category"`
	Metadata  datatypes.JSON `json:"metadata"`
	IsRead    bool           `gorm:"not null;default:false;index" json:"isRead"`
	CreatedAt time.Time      `gorm:"not null" json:"createdAt"`
}

// HRStats is the aggregate snapshot fed to insight generation.
type HRStats struct {
	EmployeeCount          int            `json:"employeeCount"`
	DepartmentDistribution map[string]int `json:"departmentDistribution"`
	PendingLeaves          int            `json:"pendingLeaves"`
	AveragePerformance     float64        `json:"averagePerformance"`
	RecruitmentPipeline    int            `json:"recruitmentPipeline"`
	ProcessedResumes       int            `json:"processedResumes"`
	FailedResumes          int            `json:"failedResumes"`
	OpenJobListings        int            `json:"openJobListings"`
}

const (
	JobGenerateInsights = "insights"
	JobResumeAnalyzed   = "resume_analyzed"
)

// NotificationJob is the message carried on the notification queue.
type NotificationJob struct {
	Type     string       `json:"type"`
	ResumeID uint         `json:"resumeId,omitempty"`
	Status   ResumeStatus `json:"status,omitempty"`
	Score    *int         `json:"score,omitempty"`
}
