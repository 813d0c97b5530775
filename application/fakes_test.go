package application

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"hr-portal/domain"
)

type fakeGenerator struct {
	GenerateFunc func(ctx context.Context, prompt string) (string, error)

	mu      sync.Mutex
	prompts []string
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()
	return f.GenerateFunc(ctx, prompt)
}

func (f *fakeGenerator) Name() string { return "fake" }

func (f *fakeGenerator) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

func respondWith(body string) *fakeGenerator {
	return &fakeGenerator{GenerateFunc: func(context.Context, string) (string, error) { return body, nil }}
}

type fakeListings struct {
	listings map[uint]*domain.JobListing
	err      error
}

func (f *fakeListings) GetJobListing(_ context.Context, id uint) (*domain.JobListing, error) {
	if f.err != nil {
		return nil, f.err
	}
	l, ok := f.listings[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return l, nil
}

// fakeResumes records every write the pipeline makes.
type fakeResumes struct {
	CreateErr error
	UpdateErr error

	creates []domain.Resume
	updates []domain.ResumeAnalysisUpdate
	stale   []time.Time
}

func (f *fakeResumes) CreateResume(_ context.Context, r *domain.Resume) error {
	if f.CreateErr != nil {
		return f.CreateErr
	}
	r.ID = uint(len(f.creates) + 1)
	r.Status = domain.ResumeStatusPending
	f.creates = append(f.creates, *r)
	return nil
}

func (f *fakeResumes) UpdateResumeAnalysis(_ context.Context, id uint, u domain.ResumeAnalysisUpdate) (*domain.Resume, error) {
	f.updates = append(f.updates, u)
	if f.UpdateErr != nil {
		return nil, f.UpdateErr
	}
	r := f.creates[id-1]
	r.Status = u.Status
	r.AIScore = u.AIScore
	r.MatchScore = u.MatchScore
	r.AIFeedback = u.Feedback
	r.ParsedSkills = u.ParsedSkills
	r.SuggestedQuestions = u.SuggestedQuestions
	r.Education = u.Education
	r.Experience = u.Experience
	return &r, nil
}

func (f *fakeResumes) GetResume(context.Context, uint) (*domain.Resume, error) {
	return nil, domain.ErrNotFound
}

func (f *fakeResumes) ListResumes(context.Context, domain.ResumeFilter) ([]domain.Resume, error) {
	return nil, nil
}

func (f *fakeResumes) FailStalePending(_ context.Context, before time.Time, u domain.ResumeAnalysisUpdate) (int64, error) {
	f.stale = append(f.stale, before)
	f.updates = append(f.updates, u)
	return 2, nil
}

type fakeNotifications struct {
	created []domain.Notification
}

func (f *fakeNotifications) ListNotifications(context.Context, bool) ([]domain.Notification, error) {
	return f.created, nil
}

func (f *fakeNotifications) CreateNotifications(_ context.Context, n []domain.Notification) error {
	f.created = append(f.created, n...)
	return nil
}

func (f *fakeNotifications) MarkNotificationRead(context.Context, uint) (*domain.Notification, error) {
	return nil, domain.ErrNotFound
}

func (f *fakeNotifications) DeleteNotification(context.Context, uint) error {
	return domain.ErrNotFound
}

type fakeStats struct {
	stats *domain.HRStats
	err   error
}

func (f *fakeStats) HRStats(context.Context) (*domain.HRStats, error) {
	return f.stats, f.err
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

const validAnalysis = `{
  "score": 82,
  "matchScore": 74,
  "feedback": {
    "strengths": ["Go services in production", "Clear ownership of projects"],
    "weaknesses": ["Little frontend exposure"],
    "skillsIdentified": ["Go", "PostgreSQL", "RabbitMQ"],
    "recommendation": "Proceed to technical interview"
  },
  "suggestedQuestions": ["How did you size the RabbitMQ cluster?"],
  "experience": [{"title": "Backend Engineer", "company": "Acme", "years": 3.5}],
  "education": [{"degree": "BSc Computer Science", "institution": "State University", "year": 2017}]
}`

const sampleResumeText = "Senior backend engineer with six years of Go, PostgreSQL and RabbitMQ experience."
