package infrastructure

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"hr-portal/domain"
)

func (s *Store) CreateJobListing(ctx context.Context, listing *domain.JobListing) error {
	listing.ID = 0
	listing.Status = domain.JobListingActive
	listing.PostedAt = time.Now()
	return translate(s.db.WithContext(ctx).Create(listing).Error, "create job listing")
}

func (s *Store) GetJobListing(ctx context.Context, id uint) (*domain.JobListing, error) {
	var listing domain.JobListing
	if err := s.db.WithContext(ctx).First(&listing, id).Error; err != nil {
		return nil, translate(err, "get job listing")
	}
	return &listing, nil
}

func (s *Store) ListJobListings(ctx context.Context, status domain.JobListingStatus) ([]domain.JobListing, error) {
	q := s.db.WithContext(ctx).Order("posted_at DESC, id DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}

	listings := []domain.JobListing{}
	if err := q.Find(&listings).Error; err != nil {
		return nil, translate(err, "list job listings")
	}
	return listings, nil
}

func (s *Store) UpdateJobListingStatus(ctx context.Context, id uint, status domain.JobListingStatus) (*domain.JobListing, error) {
	res := s.db.WithContext(ctx).
		Model(&domain.JobListing{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return nil, translate(res.Error, "update job listing status")
	}
	return s.GetJobListing(ctx, id)
}

// DeleteJobListing refuses while any resume still references the listing.
func (s *Store) DeleteJobListing(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var listing domain.JobListing
		if err := tx.First(&listing, id).Error; err != nil {
			return translate(err, "delete job listing")
		}

		var refs int64
		if err := tx.Model(&domain.Resume{}).Where("job_listing_id = ?", id).Count(&refs).Error; err != nil {
			return translate(err, "count listing references")
		}
		if refs > 0 {
			return fmt.Errorf("job listing %d is referenced by %d resumes: %w", id, refs, domain.ErrConflict)
		}

		return translate(tx.Delete(&listing).Error, "delete job listing")
	})
}
