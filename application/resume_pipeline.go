package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"hr-portal/domain"
)

type PipelineConfig struct {
	Mode    domain.AnalysisMode
	Timeout time.Duration
}

// ResumePipeline persists a submission, scores it with the text generator and
// records the outcome. Each run writes the resume exactly twice.
type ResumePipeline struct {
	generator domain.TextGenerator
	listings  domain.JobListingLookup
	resumes   domain.ResumeRepository
	mode      domain.AnalysisMode
	timeout   time.Duration
	logger    *logrus.Logger
}

func NewResumePipeline(
	generator domain.TextGenerator,
	listings domain.JobListingLookup,
	resumes domain.ResumeRepository,
	cfg PipelineConfig,
	logger *logrus.Logger,
) *ResumePipeline {
	mode := cfg.Mode
	if !mode.Valid() {
		mode = domain.AnalysisModeEnhanced
	}
	return &ResumePipeline{
		generator: generator,
		listings:  listings,
		resumes:   resumes,
		mode:      mode,
		timeout:   cfg.Timeout,
		logger:    logger,
	}
}

func (p *ResumePipeline) Mode() domain.AnalysisMode { return p.mode }

// BuildJobContext renders the referenced listing, or falls back to the
// free-text position when there is no resolvable listing.
func (p *ResumePipeline) BuildJobContext(ctx context.Context, resume *domain.Resume) string {
	if resume.JobListingID == nil {
		return resume.Position
	}

	listing, err := p.listings.GetJobListing(ctx, *resume.JobListingID)
	if err != nil {
		entry := p.logger.WithField("job_listing_id", *resume.JobListingID)
		if errors.Is(err, domain.ErrNotFound) {
			entry.Warn("job listing not found, using position as job context")
		} else {
			entry.WithError(err).Error("job listing lookup failed, using position as job context")
		}
		return resume.Position
	}

	return RenderJobContext(listing)
}

// RenderJobContext is deterministic for a given listing state.
func RenderJobContext(listing *domain.JobListing) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Job Title: %s\n", listing.Title)
	fmt.Fprintf(&b, "Department: %s\n", listing.Department)
	fmt.Fprintf(&b, "Description: %s\n", listing.Description)
	fmt.Fprintf(&b, "Requirements: %s\n", strings.Join(listing.Requirements, ", "))
	fmt.Fprintf(&b, "Preferred Skills: %s", strings.Join(listing.PreferredSkills, ", "))
	return b.String()
}

// Analyze issues exactly one generator call and validates its output.
func (p *ResumePipeline) Analyze(ctx context.Context, resumeText, jobContext string) (*domain.AnalysisResult, error) {
	prompt := BuildAnalysisPrompt(p.mode, resumeText, jobContext)

	callCtx := ctx
	if p.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	raw, err := p.generator.Generate(callCtx, prompt)
	if err != nil {
		return nil, &domain.ServiceError{
			Provider: p.generator.Name(),
			Timeout:  errors.Is(err, context.DeadlineExceeded) || errors.Is(callCtx.Err(), context.DeadlineExceeded),
			Cause:    err,
		}
	}

	return ParseAnalysis(raw)
}

// ProcessSubmission runs create, analyze and update for one resume. The
// returned record is processed or error; a non-nil error with a non-nil
// record means the outcome could not be written and the record is still pending.
func (p *ResumePipeline) ProcessSubmission(ctx context.Context, resume *domain.Resume) (*domain.Resume, error) {
	// A client disconnect must not leave the run half done.
	ctx = context.WithoutCancel(ctx)

	if err := p.resumes.CreateResume(ctx, resume); err != nil {
		return nil, fmt.Errorf("failed to persist submission: %w", err)
	}

	log := p.logger.WithFields(logrus.Fields{
		"resume_id": resume.ID,
		"mode":      p.mode,
		"provider":  p.generator.Name(),
	})
	start := time.Now()

	jobContext := p.BuildJobContext(ctx, resume)
	result, err := p.Analyze(ctx, resume.ResumeText, jobContext)

	var update domain.ResumeAnalysisUpdate
	if err != nil {
		log.WithError(err).WithField("error_kind", domain.ErrorKindOf(err)).Warn("resume analysis failed")
		update = FailureUpdate(err)
	} else {
		update = SuccessUpdate(result)
	}

	updated, uerr := p.resumes.UpdateResumeAnalysis(ctx, resume.ID, update)
	if uerr != nil {
		log.WithError(uerr).Error("failed to record analysis outcome")
		return resume, fmt.Errorf("failed to record analysis outcome: %w", uerr)
	}

	log.WithFields(logrus.Fields{
		"status":      updated.Status,
		"duration_ms": time.Since(start).Milliseconds(),
	}).Info("resume processed")
	return updated, nil
}

// ReconcileStale marks resumes pending for longer than olderThan as
// interrupted. Meant to run once at startup.
func (p *ResumePipeline) ReconcileStale(ctx context.Context, olderThan time.Duration) (int64, error) {
	update := errorUpdate(domain.ErrorFeedback{
		Error:     "Analysis was interrupted before completion",
		ErrorKind: domain.ErrorKindInterrupted,
		Retryable: true,
	})

	n, err := p.resumes.FailStalePending(ctx, time.Now().Add(-olderThan), update)
	if err != nil {
		return 0, fmt.Errorf("failed to reconcile stale resumes: %w", err)
	}
	if n > 0 {
		p.logger.WithField("count", n).Warn("marked stale pending resumes as interrupted")
	}
	return n, nil
}

func SuccessUpdate(result *domain.AnalysisResult) domain.ResumeAnalysisUpdate {
	score, match := result.Score, result.MatchScore
	return domain.ResumeAnalysisUpdate{
		Status:             domain.ResumeStatusProcessed,
		AIScore:            &score,
		MatchScore:         &match,
		Feedback:           mustJSON(result.Feedback),
		ParsedSkills:       result.Feedback.SkillsIdentified,
		SuggestedQuestions: result.SuggestedQuestions,
		Education:          result.Education,
		Experience:         result.Experience,
	}
}

// FailureUpdate nulls the scores and records a retryable error descriptor.
func FailureUpdate(err error) domain.ResumeAnalysisUpdate {
	feedback := domain.ErrorFeedback{
		Error:     "AI analysis failed",
		ErrorKind: domain.ErrorKindOf(err),
		Retryable: true,
	}

	var shape *domain.InvalidResponseShapeError
	var malformed *domain.MalformedResponseError
	switch {
	case errors.As(err, &shape):
		feedback.Error = "AI analysis returned an incomplete result"
		for _, f := range shape.Fields {
			feedback.Details = append(feedback.Details, f.String())
		}
	case errors.As(err, &malformed):
		feedback.Error = "AI analysis returned an unreadable result"
		feedback.Details = []string{malformed.Cause.Error()}
	case feedback.ErrorKind == domain.ErrorKindTimeout:
		feedback.Error = "AI analysis timed out"
	default:
		feedback.Details = []string{err.Error()}
	}
	return errorUpdate(feedback)
}

func errorUpdate(feedback domain.ErrorFeedback) domain.ResumeAnalysisUpdate {
	return domain.ResumeAnalysisUpdate{
		Status:   domain.ResumeStatusError,
		Feedback: mustJSON(feedback),
	}
}

func mustJSON(v interface{}) datatypes.JSON {
	b, err := json.Marshal(v)
	if err != nil {
		// Only plain structs of strings and slices reach here.
		panic(fmt.Sprintf("marshal feedback: %v", err))
	}
	return datatypes.JSON(b)
}
