package application

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"hr-portal/domain"
)

const insightsSchemaJSON = `{
  "type": "object",
  "required": ["insights"],
  "properties": {
    "insights": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["title", "message", "priority", "category"],
        "properties": {
          "title": {"type": "string", "minLength": 1},
          "message": {"type": "string", "minLength": 1},
          "priority": {"enum": ["high", "normal", "low"]},
          "category": {"enum": ["performance", "leave", "recruitment", "general"]}
        }
      }
    }
  }
}`

var insightsSchema = mustSchema(insightsSchemaJSON)

type insightWire struct {
	Insights []struct {
		Title    string `json:"title"`
		Message  string `json:"message"`
		Priority string `json:"priority"`
		Category string `json:"category"`
	} `json:"insights"`
}

// NotificationService turns HR aggregates and pipeline outcomes into notifications.
type NotificationService struct {
	generator     domain.TextGenerator
	stats         domain.StatsSource
	notifications domain.NotificationRepository
	timeout       time.Duration
	logger        *logrus.Logger
}

func NewNotificationService(
	generator domain.TextGenerator,
	stats domain.StatsSource,
	notifications domain.NotificationRepository,
	timeout time.Duration,
	logger *logrus.Logger,
) *NotificationService {
	return &NotificationService{
		generator:     generator,
		stats:         stats,
		notifications: notifications,
		timeout:       timeout,
		logger:        logger,
	}
}

// GenerateInsights asks the generator for insights over the current HR
// snapshot and stores each one as a notification.
func (s *NotificationService) GenerateInsights(ctx context.Context) ([]domain.Notification, error) {
	stats, err := s.stats.HRStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load HR stats: %w", err)
	}

	prompt, err := buildInsightsPrompt(stats)
	if err != nil {
		return nil, err
	}

	callCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	raw, err := s.generator.Generate(callCtx, prompt)
	if err != nil {
		return nil, &domain.ServiceError{
			Provider: s.generator.Name(),
			Timeout:  callCtx.Err() == context.DeadlineExceeded,
			Cause:    err,
		}
	}

	notifications, err := ParseInsights(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to generate insights: %w", err)
	}

	if err := s.notifications.CreateNotifications(ctx, notifications); err != nil {
		return nil, fmt.Errorf("failed to store insights: %w", err)
	}

	s.logger.WithField("count", len(notifications)).Info("stored generated insights")
	return notifications, nil
}

// ParseInsights applies the same two-stage contract as resume analysis.
func ParseInsights(raw string) ([]domain.Notification, error) {
	cleaned := stripCodeFences(raw)

	var doc interface{}
	if err := json.Unmarshal([]byte(cleaned), &doc); err != nil {
		return nil, &domain.MalformedResponseError{Excerpt: excerpt(raw, 200), Cause: err}
	}
	if err := validateDocument(insightsSchema, doc); err != nil {
		return nil, err
	}

	var wire insightWire
	if err := json.Unmarshal([]byte(cleaned), &wire); err != nil {
		return nil, &domain.MalformedResponseError{Excerpt: excerpt(raw, 200), Cause: err}
	}

	notifications := make([]domain.Notification, 0, len(wire.Insights))
	for _, in := range wire.Insights {
		notifications = append(notifications, domain.Notification{
			Type:     domain.NotificationTypeInsight,
			Title:    in.Title,
			Message:  in.Message,
			Priority: in.Priority,
			Category: in.Category,
			Metadata: datatypes.JSON(`{}`),
		})
	}
	return notifications, nil
}

// HandleJob is the queue consumer entry point.
func (s *NotificationService) HandleJob(ctx context.Context, job domain.NotificationJob) error {
	log := s.logger.WithField("job_type", job.Type)

	switch job.Type {
	case domain.JobGenerateInsights:
		_, err := s.GenerateInsights(ctx)
		return err
	case domain.JobResumeAnalyzed:
		return s.NotifyResumeAnalyzed(ctx, job)
	default:
		log.Warn("ignoring unknown notification job")
		return nil
	}
}

// NotifyResumeAnalyzed records a recruitment notification for a finished analysis.
func (s *NotificationService) NotifyResumeAnalyzed(ctx context.Context, job domain.NotificationJob) error {
	n := domain.Notification{
		Type:     domain.NotificationTypeResume,
		Category: domain.CategoryRecruitment,
		Priority: domain.PriorityNormal,
	}

	switch {
	case job.Status == domain.ResumeStatusError:
		n.Title = "Resume analysis failed"
		n.Message = fmt.Sprintf("Resume #%d could not be analyzed and needs manual review.", job.ResumeID)
		n.Priority = domain.PriorityHigh
	case job.Score != nil:
		n.Title = "Resume analyzed"
		n.Message = fmt.Sprintf("Resume #%d was scored %d/100.", job.ResumeID, *job.Score)
	default:
		n.Title = "Resume analyzed"
		n.Message = fmt.Sprintf("Resume #%d finished analysis.", job.ResumeID)
	}

	meta, err := json.Marshal(map[string]interface{}{
		"resumeId": job.ResumeID,
		"status":   job.Status,
		"score":    job.Score,
	})
	if err != nil {
		return err
	}
	n.Metadata = datatypes.JSON(meta)

	return s.notifications.CreateNotifications(ctx, []domain.Notification{n})
}

func buildInsightsPrompt(stats *domain.HRStats) (string, error) {
	data, err := json.Marshal(stats)
	if err != nil {
		return "", fmt.Errorf("failed to encode HR stats: %w", err)
	}

	return `You are an expert HR analyst. Analyze the provided HR data and generate important insights and notifications. Focus on:
- Employee performance trends
- Leave patterns and potential issues
- Recruitment pipeline health
- Team composition and department balance

HR data:
` + string(data) + `

Respond with JSON only, in exactly this format:
{"insights": [{"title": "short title", "message": "one or two sentences", "priority": "high|normal|low", "category": "performance|leave|recruitment|general"}]}`, nil
}
