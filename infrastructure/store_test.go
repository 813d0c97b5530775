package infrastructure

import (
	"context"
	"errors"
	"io"
	"regexp"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"hr-portal/config"
	"hr-portal/domain"
)

var nonWord = regexp.MustCompile(`[^A-Za-z0-9]+`)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// newTestStore opens a private in-memory SQLite database per test.
func newTestStore(t *testing.T, seed bool) *Store {
	t.Helper()
	db, err := NewDatabase(config.DatabaseConfig{
		Driver:       "sqlite",
		DSN:          "file:" + nonWord.ReplaceAllString(t.Name(), "_") + "?mode=memory&cache=shared",
		AutoMigrate:  true,
		Seed:         seed,
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	}, quietLogger())
	require.NoError(t, err)

	store := NewStore(db)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestNewDatabase_SeedsJobListings(t *testing.T) {
	store := newTestStore(t, true)

	listings, err := store.ListJobListings(context.Background(), domain.JobListingActive)
	require.NoError(t, err)
	assert.Len(t, listings, 2)
	assert.NoError(t, store.Ping(context.Background()))
}

func TestNewDatabase_UnsupportedDriver(t *testing.T) {
	_, err := NewDatabase(config.DatabaseConfig{Driver: "oracle", DSN: "x"}, quietLogger())
	assert.Error(t, err)
}

func TestResumeLifecycle(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, false)

	resume := &domain.Resume{
		CandidateName: "Jane Doe",
		Email:         "jane@example.com",
		Position:      "Backend Engineer",
		ResumeText:    "Senior backend engineer with six years of Go, PostgreSQL and RabbitMQ experience.",
		Status:        domain.ResumeStatusProcessed,
	}
	require.NoError(t, store.CreateResume(ctx, resume))
	require.NotZero(t, resume.ID)

	pending, err := store.GetResume(ctx, resume.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ResumeStatusPending, pending.Status)
	assert.Nil(t, pending.AIScore)
	assert.Nil(t, pending.MatchScore)
	assert.Empty(t, pending.AIFeedback)
	assert.Nil(t, pending.ParsedSkills)
	assert.False(t, pending.SubmittedAt.IsZero())

	score, match := 90, 70
	years := 4.0
	year := 2015
	updated, err := store.UpdateResumeAnalysis(ctx, resume.ID, domain.ResumeAnalysisUpdate{
		Status:             domain.ResumeStatusProcessed,
		AIScore:            &score,
		MatchScore:         &match,
		Feedback:           datatypes.JSON(`{"strengths":["Go"],"weaknesses":[],"skillsIdentified":["Go"],"recommendation":"hire"}`),
		ParsedSkills:       []string{"Go"},
		SuggestedQuestions: []string{"Why Go?"},
		Experience:         []domain.ExperienceEntry{{Title: "Engineer", Company: "Acme", Years: &years}},
		Education:          []domain.EducationEntry{{Degree: "BSc", Institution: "MIT", Year: &year}},
	})
	require.NoError(t, err)

	assert.Equal(t, domain.ResumeStatusProcessed, updated.Status)
	require.NotNil(t, updated.AIScore)
	assert.Equal(t, 90, *updated.AIScore)
	assert.Equal(t, []string{"Go"}, []string(updated.ParsedSkills))
	require.Len(t, updated.Experience, 1)
	assert.Equal(t, "Acme", updated.Experience[0].Company)
	require.Len(t, updated.Education, 1)
	assert.Equal(t, 2015, *updated.Education[0].Year)
	assert.JSONEq(t, `{"strengths":["Go"],"weaknesses":[],"skillsIdentified":["Go"],"recommendation":"hire"}`, string(updated.AIFeedback))
}

func TestUpdateResumeAnalysis_NotFound(t *testing.T) {
	store := newTestStore(t, false)

	_, err := store.UpdateResumeAnalysis(context.Background(), 404, domain.ResumeAnalysisUpdate{Status: domain.ResumeStatusError})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestListResumes_Filters(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, true)

	listingID := uint(1)
	for i, r := range []*domain.Resume{
		{CandidateName: "A", Email: "a@example.com", Position: "Backend Engineer", ResumeText: "text", JobListingID: &listingID},
		{CandidateName: "B", Email: "b@example.com", Position: "Designer", ResumeText: "text"},
	} {
		r.SubmittedAt = time.Now().Add(time.Duration(i) * time.Second)
		require.NoError(t, store.CreateResume(ctx, r))
	}

	all, err := store.ListResumes(ctx, domain.ResumeFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "B", all[0].CandidateName)

	byListing, err := store.ListResumes(ctx, domain.ResumeFilter{JobListingID: &listingID})
	require.NoError(t, err)
	require.Len(t, byListing, 1)
	assert.Equal(t, "A", byListing[0].CandidateName)

	processed, err := store.ListResumes(ctx, domain.ResumeFilter{Status: domain.ResumeStatusProcessed})
	require.NoError(t, err)
	assert.Empty(t, processed)
	assert.NotNil(t, processed)
}

func TestFailStalePending_OnlyOldPendingRows(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, false)

	old := &domain.Resume{CandidateName: "Old", Email: "old@example.com", Position: "P", ResumeText: "t",
		SubmittedAt: time.Now().Add(-time.Hour)}
	fresh := &domain.Resume{CandidateName: "Fresh", Email: "fresh@example.com", Position: "P", ResumeText: "t"}
	done := &domain.Resume{CandidateName: "Done", Email: "done@example.com", Position: "P", ResumeText: "t",
		SubmittedAt: time.Now().Add(-time.Hour)}
	for _, r := range []*domain.Resume{old, fresh, done} {
		require.NoError(t, store.CreateResume(ctx, r))
	}
	score := 50
	_, err := store.UpdateResumeAnalysis(ctx, done.ID, domain.ResumeAnalysisUpdate{Status: domain.ResumeStatusProcessed, AIScore: &score, MatchScore: &score})
	require.NoError(t, err)

	n, err := store.FailStalePending(ctx, time.Now().Add(-15*time.Minute), domain.ResumeAnalysisUpdate{
		Status:   domain.ResumeStatusError,
		Feedback: datatypes.JSON(`{"error":"interrupted","errorKind":"interrupted","retryable":true}`),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := store.GetResume(ctx, old.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ResumeStatusError, got.Status)

	got, err = store.GetResume(ctx, fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ResumeStatusPending, got.Status)

	got, err = store.GetResume(ctx, done.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ResumeStatusProcessed, got.Status)
}

func TestJobListingStatusAndDelete(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, false)

	listing := &domain.JobListing{
		Title:        "SRE",
		Department:   "Engineering",
		Description:  "Keep things up",
		Requirements: datatypes.JSONSlice[string]{"Linux"},
		Status:       domain.JobListingClosed,
	}
	require.NoError(t, store.CreateJobListing(ctx, listing))
	assert.Equal(t, domain.JobListingActive, listing.Status)
	assert.False(t, listing.PostedAt.IsZero())

	closed, err := store.UpdateJobListingStatus(ctx, listing.ID, domain.JobListingClosed)
	require.NoError(t, err)
	assert.False(t, closed.IsActive())

	_, err = store.UpdateJobListingStatus(ctx, 999, domain.JobListingClosed)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	require.NoError(t, store.CreateResume(ctx, &domain.Resume{
		CandidateName: "A", Email: "a@example.com", Position: "SRE", ResumeText: "t", JobListingID: &listing.ID,
	}))

	err = store.DeleteJobListing(ctx, listing.ID)
	assert.True(t, errors.Is(err, domain.ErrConflict))

	other := &domain.JobListing{Title: "QA", Department: "Engineering", Description: "Test", Requirements: datatypes.JSONSlice[string]{"Care"}}
	require.NoError(t, store.CreateJobListing(ctx, other))
	require.NoError(t, store.DeleteJobListing(ctx, other.ID))

	_, err = store.GetJobListing(ctx, other.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.True(t, errors.Is(store.DeleteJobListing(ctx, other.ID), domain.ErrNotFound))
}

func TestEmployees(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, false)

	e := &domain.Employee{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com",
		Position: "Engineer", Department: "Engineering", JoinDate: "2024-01-15"}
	require.NoError(t, store.CreateEmployee(ctx, e))
	assert.Equal(t, "active", e.Status)
	assert.Equal(t, "Ada Lovelace", e.FullName())

	dup := &domain.Employee{FirstName: "Ada", LastName: "Clone", Email: "ada@example.com",
		Position: "Engineer", Department: "Engineering", JoinDate: "2024-01-15"}
	assert.Error(t, store.CreateEmployee(ctx, dup))

	err := store.CreateEmployees(ctx, []domain.Employee{
		{FirstName: "Grace", LastName: "Hopper", Email: "grace@example.com", Position: "Admiral", Department: "Navy", JoinDate: "2024-02-01"},
		{FirstName: "Ada", LastName: "Again", Email: "ada@example.com", Position: "Engineer", Department: "Engineering", JoinDate: "2024-02-01"},
	})
	assert.Error(t, err)

	all, err := store.ListEmployees(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1, "bulk insert must be all or nothing")

	dept := "Research"
	updated, err := store.UpdateEmployee(ctx, e.ID, domain.EmployeeUpdate{Department: &dept})
	require.NoError(t, err)
	assert.Equal(t, "Research", updated.Department)
	assert.Equal(t, "Engineer", updated.Position)

	_, err = store.GetEmployee(ctx, 999)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestLeavesEvaluationsCollaborations(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, false)

	a := &domain.Employee{FirstName: "A", LastName: "A", Email: "a@example.com", Position: "P", Department: "D", JoinDate: "2024-01-01"}
	b := &domain.Employee{FirstName: "B", LastName: "B", Email: "b@example.com", Position: "P", Department: "D", JoinDate: "2024-01-01"}
	require.NoError(t, store.CreateEmployee(ctx, a))
	require.NoError(t, store.CreateEmployee(ctx, b))

	leave := &domain.Leave{EmployeeID: a.ID, StartDate: "2024-03-01", EndDate: "2024-03-05", Type: "vacation", Reason: "trip"}
	require.NoError(t, store.CreateLeave(ctx, leave))
	assert.Equal(t, domain.LeavePending, leave.Status)

	approved, err := store.UpdateLeaveStatus(ctx, leave.ID, domain.LeaveApproved)
	require.NoError(t, err)
	assert.Equal(t, domain.LeaveApproved, approved.Status)

	leaves, err := store.ListLeaves(ctx, &b.ID)
	require.NoError(t, err)
	assert.Empty(t, leaves)

	require.NoError(t, store.CreateEvaluation(ctx, &domain.Evaluation{
		EmployeeID: a.ID, EvaluationDate: "2024-06-30", Performance: 4, Feedback: "solid", Goals: datatypes.JSONSlice[string]{"mentor"},
	}))
	evals, err := store.ListEvaluations(ctx, &a.ID)
	require.NoError(t, err)
	require.Len(t, evals, 1)
	assert.Equal(t, []string{"mentor"}, []string(evals[0].Goals))

	require.NoError(t, store.CreateCollaboration(ctx, &domain.Collaboration{
		EmployeeID: a.ID, CollaboratorID: b.ID, Intensity: 6, Type: "pairing", Date: "2024-04-01",
	}))
	collabs, err := store.ListCollaborations(ctx)
	require.NoError(t, err)
	assert.Len(t, collabs, 1)
}

func TestNotificationsAndStats(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, true)

	require.NoError(t, store.CreateEmployee(ctx, &domain.Employee{FirstName: "A", LastName: "A", Email: "a@example.com",
		Position: "P", Department: "Engineering", JoinDate: "2024-01-01"}))
	require.NoError(t, store.CreateEmployee(ctx, &domain.Employee{FirstName: "B", LastName: "B", Email: "b@example.com",
		Position: "P", Department: "People", JoinDate: "2024-01-01"}))
	require.NoError(t, store.CreateLeave(ctx, &domain.Leave{EmployeeID: 1, StartDate: "2024-03-01", EndDate: "2024-03-02", Type: "sick", Reason: "flu"}))
	require.NoError(t, store.CreateEvaluation(ctx, &domain.Evaluation{EmployeeID: 1, EvaluationDate: "2024-06-30", Performance: 4, Feedback: "ok", Goals: datatypes.JSONSlice[string]{}}))
	require.NoError(t, store.CreateEvaluation(ctx, &domain.Evaluation{EmployeeID: 2, EvaluationDate: "2024-06-30", Performance: 3, Feedback: "ok", Goals: datatypes.JSONSlice[string]{}}))
	require.NoError(t, store.CreateResume(ctx, &domain.Resume{CandidateName: "C", Email: "c@example.com", Position: "P", ResumeText: "t"}))

	stats, err := store.HRStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.EmployeeCount)
	assert.Equal(t, map[string]int{"Engineering": 1, "People": 1}, stats.DepartmentDistribution)
	assert.Equal(t, 1, stats.PendingLeaves)
	assert.InDelta(t, 3.5, stats.AveragePerformance, 0.001)
	assert.Equal(t, 1, stats.RecruitmentPipeline)
	assert.Equal(t, 2, stats.OpenJobListings)

	require.NoError(t, store.CreateNotifications(ctx, []domain.Notification{
		{Type: domain.NotificationTypeInsight, Title: "One", Message: "m", Priority: domain.PriorityHigh, Category: domain.CategoryGeneral, Metadata: datatypes.JSON(`{}`)},
		{Type: domain.NotificationTypeInsight, Title: "Two", Message: "m", Priority: domain.PriorityLow, Category: domain.CategoryLeave, Metadata: datatypes.JSON(`{}`)},
	}))

	unread, err := store.ListNotifications(ctx, true)
	require.NoError(t, err)
	require.Len(t, unread, 2)

	read, err := store.MarkNotificationRead(ctx, unread[0].ID)
	require.NoError(t, err)
	assert.True(t, read.IsRead)

	unread, err = store.ListNotifications(ctx, true)
	require.NoError(t, err)
	assert.Len(t, unread, 1)

	require.NoError(t, store.DeleteNotification(ctx, unread[0].ID))
	assert.True(t, errors.Is(store.DeleteNotification(ctx, unread[0].ID), domain.ErrNotFound))

	all, err := store.ListNotifications(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
