package domain

import (
	"time"

	"gorm.io/datatypes"
)

type JobListingStatus string

const (
	JobListingActive JobListingStatus = "active"
	JobListingClosed JobListingStatus = "closed"
)

// JobListing is an open position on the job board. Only Status changes after creation.
type JobListing struct {
	ID              uint                        `gorm:"primaryKey" json:"id"`
	Title           string                      `gorm:"size:255;not null" json:"title"`
	Department      string                      `gorm:"size:255;not null" json:"department"`
	Description     string                      `gorm:"type:text;not null" json:"description"`
	Requirements    datatypes.JSONSlice[string] `gorm:"not null" json:"requirements"`
	PreferredSkills datatypes.JSONSlice[string] `json:"preferredSkills"`
	Status          JobListingStatus            `gorm:"size:20;not null;default:'active';index" json:"status"`
	PostedAt        time.Time                   `gorm:"not null" json:"postedAt"`
}

func (l *JobListing) IsActive() bool {
	return l.Status == JobListingActive
}
