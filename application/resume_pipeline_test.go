package application

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"hr-portal/domain"
)

func newTestPipeline(gen *fakeGenerator, listings *fakeListings, resumes *fakeResumes, mode domain.AnalysisMode) *ResumePipeline {
	if listings == nil {
		listings = &fakeListings{}
	}
	return NewResumePipeline(gen, listings, resumes, PipelineConfig{Mode: mode, Timeout: time.Second}, quietLogger())
}

func backendListing() *domain.JobListing {
	return &domain.JobListing{
		ID:              7,
		Title:           "Backend Engineer",
		Department:      "Engineering",
		Description:     "Build APIs",
		Requirements:    datatypes.JSONSlice[string]{"R1", "R2"},
		PreferredSkills: datatypes.JSONSlice[string]{"S1"},
		Status:          domain.JobListingActive,
	}
}

func decodeErrorFeedback(t *testing.T, raw datatypes.JSON) domain.ErrorFeedback {
	t.Helper()
	var fb domain.ErrorFeedback
	require.NoError(t, json.Unmarshal(raw, &fb))
	return fb
}

func TestBuildJobContext_FromListing(t *testing.T) {
	listingID := uint(7)
	listings := &fakeListings{listings: map[uint]*domain.JobListing{7: backendListing()}}
	p := newTestPipeline(respondWith(validAnalysis), listings, &fakeResumes{}, domain.AnalysisModeEnhanced)

	resume := &domain.Resume{Position: "ignored", JobListingID: &listingID}
	got := p.BuildJobContext(context.Background(), resume)

	assert.Contains(t, got, "Backend Engineer")
	assert.Contains(t, got, "Engineering")
	assert.Contains(t, got, "Build APIs")
	assert.Contains(t, got, "R1, R2")
	assert.Contains(t, got, "S1")
	assert.Equal(t, got, p.BuildJobContext(context.Background(), resume))
}

func TestBuildJobContext_FallsBackToPosition(t *testing.T) {
	missing := uint(99)
	p := newTestPipeline(respondWith(validAnalysis), &fakeListings{}, &fakeResumes{}, domain.AnalysisModeEnhanced)

	assert.Equal(t, "Data Analyst", p.BuildJobContext(context.Background(), &domain.Resume{Position: "Data Analyst"}))
	assert.Equal(t, "Data Analyst", p.BuildJobContext(context.Background(), &domain.Resume{Position: "Data Analyst", JobListingID: &missing}))

	failing := newTestPipeline(respondWith(validAnalysis), &fakeListings{err: errors.New("db down")}, &fakeResumes{}, domain.AnalysisModeEnhanced)
	assert.Equal(t, "Data Analyst", failing.BuildJobContext(context.Background(), &domain.Resume{Position: "Data Analyst", JobListingID: &missing}))
}

func TestRenderJobContext_EmptyPreferredSkills(t *testing.T) {
	listing := backendListing()
	listing.PreferredSkills = nil
	assert.True(t, strings.HasSuffix(RenderJobContext(listing), "Preferred Skills: "))
}

func TestProcessSubmission_Success(t *testing.T) {
	gen := respondWith(validAnalysis)
	resumes := &fakeResumes{}
	p := newTestPipeline(gen, nil, resumes, domain.AnalysisModeEnhanced)

	got, err := p.ProcessSubmission(context.Background(), &domain.Resume{
		CandidateName: "Jane Doe",
		Email:         "jane@example.com",
		Position:      "Backend Engineer",
		ResumeText:    sampleResumeText,
	})
	require.NoError(t, err)

	assert.Len(t, resumes.creates, 1)
	assert.Len(t, resumes.updates, 1)
	assert.Equal(t, 1, gen.calls())

	assert.Equal(t, domain.ResumeStatusProcessed, got.Status)
	require.NotNil(t, got.AIScore)
	assert.Equal(t, 82, *got.AIScore)
	require.NotNil(t, got.MatchScore)
	assert.Equal(t, 74, *got.MatchScore)
	assert.Equal(t, []string{"Go", "PostgreSQL", "RabbitMQ"}, []string(got.ParsedSkills))
	assert.Len(t, got.SuggestedQuestions, 1)
	assert.Len(t, got.Experience, 1)
	assert.Len(t, got.Education, 1)

	var fb domain.AIFeedback
	require.NoError(t, json.Unmarshal(got.AIFeedback, &fb))
	assert.Equal(t, "Proceed to technical interview", fb.Recommendation)
}

func TestProcessSubmission_ClampsOutOfRangeScores(t *testing.T) {
	gen := respondWith(`{"score": 150, "matchScore": -5,
		"feedback": {"strengths": ["a"], "weaknesses": ["b"], "skillsIdentified": ["c"], "recommendation": "hire"},
		"suggestedQuestions": ["q"], "experience": [], "education": []}`)
	p := newTestPipeline(gen, nil, &fakeResumes{}, domain.AnalysisModeEnhanced)

	got, err := p.ProcessSubmission(context.Background(), &domain.Resume{Position: "Backend Engineer", ResumeText: sampleResumeText})
	require.NoError(t, err)
	assert.Equal(t, 100, *got.AIScore)
	assert.Equal(t, 1, *got.MatchScore)
}

func TestProcessSubmission_AnalysisFailures(t *testing.T) {
	tests := []struct {
		name string
		gen  *fakeGenerator
		kind string
	}{
		{
			name: "prose response",
			gen:  respondWith("This candidate looks great, I would hire them."),
			kind: domain.ErrorKindMalformedResponse,
		},
		{
			name: "missing fields",
			gen:  respondWith(`{"score": 80, "matchScore": 70}`),
			kind: domain.ErrorKindInvalidResponseShape,
		},
		{
			name: "missing education",
			gen: respondWith(`{"score": 80, "matchScore": 70,
				"feedback": {"strengths": ["a"], "weaknesses": ["b"], "skillsIdentified": ["c"], "recommendation": "hire"},
				"suggestedQuestions": ["q"], "experience": []}`),
			kind: domain.ErrorKindInvalidResponseShape,
		},
		{
			name: "transport failure",
			gen: &fakeGenerator{GenerateFunc: func(context.Context, string) (string, error) {
				return "", errors.New("connection reset by peer")
			}},
			kind: domain.ErrorKindServiceFailure,
		},
		{
			name: "timeout",
			gen: &fakeGenerator{GenerateFunc: func(ctx context.Context, _ string) (string, error) {
				<-ctx.Done()
				return "", ctx.Err()
			}},
			kind: domain.ErrorKindTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resumes := &fakeResumes{}
			p := NewResumePipeline(tt.gen, &fakeListings{}, resumes,
				PipelineConfig{Mode: domain.AnalysisModeEnhanced, Timeout: 50 * time.Millisecond}, quietLogger())

			got, err := p.ProcessSubmission(context.Background(), &domain.Resume{Position: "Backend Engineer", ResumeText: sampleResumeText})
			require.NoError(t, err)

			assert.Len(t, resumes.creates, 1)
			assert.Len(t, resumes.updates, 1)
			assert.Equal(t, 1, tt.gen.calls())

			assert.Equal(t, domain.ResumeStatusError, got.Status)
			assert.Nil(t, got.AIScore)
			assert.Nil(t, got.MatchScore)

			fb := decodeErrorFeedback(t, got.AIFeedback)
			assert.True(t, fb.Retryable)
			assert.Equal(t, tt.kind, fb.ErrorKind)
			assert.NotEmpty(t, fb.Error)
		})
	}
}

func TestProcessSubmission_CreateFailureSkipsAnalysis(t *testing.T) {
	gen := respondWith(validAnalysis)
	resumes := &fakeResumes{CreateErr: errors.New("disk full")}
	p := newTestPipeline(gen, nil, resumes, domain.AnalysisModeEnhanced)

	got, err := p.ProcessSubmission(context.Background(), &domain.Resume{Position: "Backend Engineer", ResumeText: sampleResumeText})
	require.Error(t, err)
	assert.Nil(t, got)
	assert.Equal(t, 0, gen.calls())
	assert.Empty(t, resumes.updates)
}

func TestProcessSubmission_UpdateFailureReturnsPendingRecord(t *testing.T) {
	resumes := &fakeResumes{UpdateErr: errors.New("lost connection")}
	p := newTestPipeline(respondWith(validAnalysis), nil, resumes, domain.AnalysisModeEnhanced)

	got, err := p.ProcessSubmission(context.Background(), &domain.Resume{Position: "Backend Engineer", ResumeText: sampleResumeText})
	require.Error(t, err)
	require.NotNil(t, got)
	assert.Equal(t, domain.ResumeStatusPending, got.Status)
	assert.Equal(t, uint(1), got.ID)
	assert.Len(t, resumes.updates, 1)
}

func TestProcessSubmission_IgnoresCallerCancellation(t *testing.T) {
	gen := &fakeGenerator{GenerateFunc: func(ctx context.Context, _ string) (string, error) {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		return validAnalysis, nil
	}}
	p := newTestPipeline(gen, nil, &fakeResumes{}, domain.AnalysisModeEnhanced)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got, err := p.ProcessSubmission(ctx, &domain.Resume{Position: "Backend Engineer", ResumeText: sampleResumeText})
	require.NoError(t, err)
	assert.Equal(t, domain.ResumeStatusProcessed, got.Status)
}

func TestAnalyze_PromptCarriesJobContext(t *testing.T) {
	gen := respondWith(validAnalysis)
	p := newTestPipeline(gen, nil, &fakeResumes{}, domain.AnalysisModeEnhanced)

	_, err := p.Analyze(context.Background(), sampleResumeText, RenderJobContext(backendListing()))
	require.NoError(t, err)
	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "R1, R2")
	assert.Contains(t, gen.prompts[0], sampleResumeText)
}

func TestReconcileStale(t *testing.T) {
	resumes := &fakeResumes{}
	p := newTestPipeline(respondWith(validAnalysis), nil, resumes, domain.AnalysisModeEnhanced)

	before := time.Now()
	n, err := p.ReconcileStale(context.Background(), 15*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	require.Len(t, resumes.stale, 1)
	assert.WithinDuration(t, before.Add(-15*time.Minute), resumes.stale[0], time.Second)

	require.Len(t, resumes.updates, 1)
	u := resumes.updates[0]
	assert.Equal(t, domain.ResumeStatusError, u.Status)
	assert.Nil(t, u.AIScore)
	fb := decodeErrorFeedback(t, u.Feedback)
	assert.Equal(t, domain.ErrorKindInterrupted, fb.ErrorKind)
	assert.True(t, fb.Retryable)
}

func TestNewResumePipeline_DefaultsInvalidMode(t *testing.T) {
	p := newTestPipeline(respondWith(validAnalysis), nil, &fakeResumes{}, domain.AnalysisMode("turbo"))
	assert.Equal(t, domain.AnalysisModeEnhanced, p.Mode())
}
