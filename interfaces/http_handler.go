package interfaces

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"hr-portal/domain"
)

// ResumeProcessor runs the create, analyze and update sequence for one submission.
type ResumeProcessor interface {
	ProcessSubmission(ctx context.Context, resume *domain.Resume) (*domain.Resume, error)
}

type InsightService interface {
	GenerateInsights(ctx context.Context) ([]domain.Notification, error)
	HandleJob(ctx context.Context, job domain.NotificationJob) error
}

type DocumentExtractor interface {
	Extract(filename string, data []byte) (string, error)
}

type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependencies wires the handler. Jobs is nil when no broker is configured,
// in which case notification work runs inline.
type Dependencies struct {
	Pipeline       ResumeProcessor
	Resumes        domain.ResumeRepository
	Listings       domain.JobListingRepository
	Employees      domain.EmployeeRepository
	Leaves         domain.LeaveRepository
	Evaluations    domain.EvaluationRepository
	Collaborations domain.CollaborationRepository
	Notifications  domain.NotificationRepository
	Insights       InsightService
	Jobs           domain.JobPublisher
	Extractor      DocumentExtractor
	Health         Pinger
	MaxUploadBytes int64
	Logger         *logrus.Logger
}

type HTTPHandler struct {
	Dependencies
}

func NewHTTPHandler(router *gin.Engine, deps Dependencies) *HTTPHandler {
	configureValidator()
	h := &HTTPHandler{Dependencies: deps}

	router.GET("/health", h.Healthz)

	api := router.Group("/api")

	api.GET("/resumes", h.ListResumes)
	api.POST("/resumes", h.CreateResume)
	api.POST("/resumes/upload", h.UploadResume)
	api.GET("/resumes/:id", h.GetResume)

	api.GET("/job-listings", h.ListJobListings)
	api.POST("/job-listings", h.CreateJobListing)
	api.GET("/job-listings/:id", h.GetJobListing)
	api.PATCH("/job-listings/:id/status", h.UpdateJobListingStatus)
	api.DELETE("/job-listings/:id", h.DeleteJobListing)

	api.GET("/employees", h.ListEmployees)
	api.POST("/employees", h.CreateEmployee)
	api.POST("/employees/bulk", h.BulkCreateEmployees)
	api.GET("/employees/:id", h.GetEmployee)
	api.PATCH("/employees/:id", h.UpdateEmployee)
	api.GET("/employees/:id/evaluations", h.ListEmployeeEvaluations)

	api.GET("/leaves", h.ListLeaves)
	api.POST("/leaves", h.CreateLeave)
	api.PATCH("/leaves/:id/status", h.UpdateLeaveStatus)

	api.GET("/evaluations", h.ListEvaluations)
	api.POST("/evaluations", h.CreateEvaluation)

	api.GET("/collaborations", h.ListCollaborations)
	api.POST("/collaborations", h.CreateCollaboration)
	api.GET("/collaborations/heatmap", h.CollaborationHeatmap)

	api.GET("/notifications", h.ListNotifications)
	api.GET("/notifications/unread", h.ListUnreadNotifications)
	api.POST("/notifications/generate-insights", h.GenerateInsights)
	api.PATCH("/notifications/:id/read", h.MarkNotificationRead)
	api.DELETE("/notifications/:id", h.DeleteNotification)

	return h
}

func (h *HTTPHandler) Healthz(c *gin.Context) {
	if err := h.Health.Ping(c.Request.Context()); err != nil {
		h.Logger.WithError(err).Warn("health check failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// respondError maps domain sentinels onto HTTP statuses.
func (h *HTTPHandler) respondError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": message + ": not found"})
	case errors.Is(err, domain.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"message": message + ": conflict", "error": err.Error()})
	default:
		_ = c.Error(err)
		h.Logger.WithError(err).WithField("request_id", c.GetString("request_id")).Error(message)
		c.JSON(http.StatusInternalServerError, gin.H{"message": message})
	}
}

// pathID parses the :id parameter, answering 400 when it is not a positive integer.
func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(strings.TrimSpace(c.Param("id")), 10, 64)
	if err != nil || id == 0 {
		respondValidation(c, domain.FieldError{Field: "id", Message: "must be a positive integer"})
		return 0, false
	}
	return uint(id), true
}

// queryID parses an optional numeric query parameter.
func queryID(c *gin.Context, name string) (*uint, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		respondValidation(c, domain.FieldError{Field: name, Message: "must be a positive integer"})
		return nil, false
	}
	v := uint(id)
	return &v, true
}

// dispatch sends a notification job to the broker, or runs it inline without one.
// Failures are logged only.
func (h *HTTPHandler) dispatch(ctx context.Context, job domain.NotificationJob) {
	log := h.Logger.WithField("job_type", job.Type)
	if h.Jobs != nil {
		if err := h.Jobs.PublishJob(ctx, job); err != nil {
			log.WithError(err).Warn("failed to publish notification job")
		}
		return
	}
	if h.Insights == nil {
		return
	}
	if err := h.Insights.HandleJob(ctx, job); err != nil {
		log.WithError(err).Warn("inline notification job failed")
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}
