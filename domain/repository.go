package domain

import (
	"context"
	"time"
)

// TextGenerator is a single request/response call to an external model.
// The returned text is untrusted.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Name() string
}

type JobListingLookup interface {
	GetJobListing(ctx context.Context, id uint) (*JobListing, error)
}

type JobListingRepository interface {
	JobListingLookup
	CreateJobListing(ctx context.Context, listing *JobListing) error
	ListJobListings(ctx context.Context, status JobListingStatus) ([]JobListing, error)
	UpdateJobListingStatus(ctx context.Context, id uint, status JobListingStatus) (*JobListing, error)
	DeleteJobListing(ctx context.Context, id uint) error
}

type ResumeRepository interface {
	CreateResume(ctx context.Context, resume *Resume) error
	UpdateResumeAnalysis(ctx context.Context, id uint, update ResumeAnalysisUpdate) (*Resume, error)
	GetResume(ctx context.Context, id uint) (*Resume, error)
	ListResumes(ctx context.Context, filter ResumeFilter) ([]Resume, error)
	FailStalePending(ctx context.Context, before time.Time, update ResumeAnalysisUpdate) (int64, error)
}

type EmployeeRepository interface {
	ListEmployees(ctx context.Context) ([]Employee, error)
	GetEmployee(ctx context.Context, id uint) (*Employee, error)
	CreateEmployee(ctx context.Context, employee *Employee) error
	CreateEmployees(ctx context.Context, employees []Employee) error
	UpdateEmployee(ctx context.Context, id uint, update EmployeeUpdate) (*Employee, error)
}

type LeaveRepository interface {
	ListLeaves(ctx context.Context, employeeID *uint) ([]Leave, error)
	CreateLeave(ctx context.Context, leave *Leave) error
	UpdateLeaveStatus(ctx context.Context, id uint, status LeaveStatus) (*Leave, error)
}

type EvaluationRepository interface {
	ListEvaluations(ctx context.Context, employeeID *uint) ([]Evaluation, error)
	CreateEvaluation(ctx context.Context, evaluation *Evaluation) error
}

type CollaborationRepository interface {
	ListCollaborations(ctx context.Context) ([]Collaboration, error)
	CreateCollaboration(ctx context.Context, collaboration *Collaboration) error
}

type NotificationRepository interface {
	ListNotifications(ctx context.Context, unreadOnly bool) ([]Notification, error)
	CreateNotifications(ctx context.Context, notifications []Notification) error
	MarkNotificationRead(ctx context.Context, id uint) (*Notification, error)
	DeleteNotification(ctx context.Context, id uint) error
}

// StatsSource aggregates the HR snapshot used for insight generation.
type StatsSource interface {
	HRStats(ctx context.Context) (*HRStats, error)
}

// JobPublisher hands notification work to a background consumer.
type JobPublisher interface {
	PublishJob(ctx context.Context, job NotificationJob) error
}
