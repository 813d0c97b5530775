package infrastructure

import (
	"context"
	"time"

	"gorm.io/gorm"

	"hr-portal/domain"
)

// CreateResume inserts the submission as pending with every AI field null.
func (s *Store) CreateResume(ctx context.Context, resume *domain.Resume) error {
	resume.ID = 0
	resume.Status = domain.ResumeStatusPending
	resume.AIScore = nil
	resume.MatchScore = nil
	resume.AIFeedback = nil
	resume.ParsedSkills = nil
	resume.SuggestedQuestions = nil
	resume.Education = nil
	resume.Experience = nil
	if resume.SubmittedAt.IsZero() {
		resume.SubmittedAt = time.Now()
	}

	err := s.db.WithContext(ctx).
		Omit("ParsedSkills", "SuggestedQuestions", "Education", "Experience").
		Create(resume).Error
	return translate(err, "create resume")
}

// UpdateResumeAnalysis writes the pipeline outcome in one UPDATE and reloads the row.
func (s *Store) UpdateResumeAnalysis(ctx context.Context, id uint, update domain.ResumeAnalysisUpdate) (*domain.Resume, error) {
	res := s.db.WithContext(ctx).
		Model(&domain.Resume{}).
		Where("id = ?", id).
		Updates(analysisColumns(update))
	if res.Error != nil {
		return nil, translate(res.Error, "update resume analysis")
	}
	if res.RowsAffected == 0 {
		return nil, translate(gorm.ErrRecordNotFound, "update resume analysis")
	}

	return s.GetResume(ctx, id)
}

func (s *Store) GetResume(ctx context.Context, id uint) (*domain.Resume, error) {
	var resume domain.Resume
	if err := s.db.WithContext(ctx).First(&resume, id).Error; err != nil {
		return nil, translate(err, "get resume")
	}
	return &resume, nil
}

func (s *Store) ListResumes(ctx context.Context, filter domain.ResumeFilter) ([]domain.Resume, error) {
	q := s.db.WithContext(ctx).Order("submitted_at DESC, id DESC")
	if filter.JobListingID != nil {
		q = q.Where("job_listing_id = ?", *filter.JobListingID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	resumes := []domain.Resume{}
	if err := q.Find(&resumes).Error; err != nil {
		return nil, translate(err, "list resumes")
	}
	return resumes, nil
}

// FailStalePending moves resumes left pending since before into the given terminal state.
func (s *Store) FailStalePending(ctx context.Context, before time.Time, update domain.ResumeAnalysisUpdate) (int64, error) {
	res := s.db.WithContext(ctx).
		Model(&domain.Resume{}).
		Where("status = ? AND submitted_at < ?", domain.ResumeStatusPending, before).
		Updates(analysisColumns(update))
	if res.Error != nil {
		return 0, translate(res.Error, "fail stale resumes")
	}
	return res.RowsAffected, nil
}

func analysisColumns(update domain.ResumeAnalysisUpdate) map[string]interface{} {
	cols := map[string]interface{}{
		"status":              update.Status,
		"ai_score":            update.AIScore,
		"match_score":         update.MatchScore,
		"parsed_skills":       nullable(update.ParsedSkills),
		"suggested_questions": nullable(update.SuggestedQuestions),
		"education":           nullable(update.Education),
		"experience":          nullable(update.Experience),
		"updated_at":          time.Now(),
	}
	if len(update.Feedback) == 0 {
		cols["ai_feedback"] = nil
	} else {
		cols["ai_feedback"] = update.Feedback
	}
	return cols
}
