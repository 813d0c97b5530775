package domain

import (
	"time"

	"gorm.io/datatypes"
)

type ResumeStatus string

const (
	ResumeStatusPending   ResumeStatus = "pending"
	ResumeStatusProcessed ResumeStatus = "processed"
	ResumeStatusError     ResumeStatus = "error"
)

// Terminal reports whether the pipeline is done with the resume.
func (s ResumeStatus) Terminal() bool {
	return s == ResumeStatusProcessed || s == ResumeStatusError
}

// Resume is one candidate application. Every AI-prefixed field, the parsed
// lists and Status are owned by the analysis pipeline.
type Resume struct {
	ID                uint    `gorm:"primaryKey" json:"id"`
	CandidateName     string  `gorm:"size:255;not null" json:"candidateName"`
	Email             string  `gorm:"size:255;not null" json:"email"`
	Phone             *string `gorm:"size:50" json:"phone"`
	Position          string  `gorm:"size:255;not null" json:"position"`
	ResumeText        string  `gorm:"type:text;not null" json:"resumeText"`
	JobDescriptionURL *string `gorm:"size:2048" json:"jobDescriptionUrl"`
	JobListingID      *uint   `gorm:"index" json:"jobListingId"`

	AIScore            *int                                 `json:"aiScore"`
	MatchScore         *int                                 `json:"matchScore"`
	AIFeedback         datatypes.JSON                       `json:"aiFeedback"`
	ParsedSkills       datatypes.JSONSlice[string]          `json:"parsedSkills"`
	SuggestedQuestions datatypes.JSONSlice[string]          `json:"suggestedQuestions"`
	Education          datatypes.JSONSlice[EducationEntry]  `json:"education"`
	Experience         datatypes.JSONSlice[ExperienceEntry] `json:"experience"`

	Status      ResumeStatus `gorm:"size:20;not null;default:'pending';index" json:"status"`
	SubmittedAt time.Time    `gorm:"not null" json:"submittedAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// AIFeedback is the success payload stored in Resume.AIFeedback.
type AIFeedback struct {
	Strengths        []string `json:"strengths"`
	Weaknesses       []string `json:"weaknesses"`
	SkillsIdentified []string `json:"skillsIdentified"`
	Recommendation   string   `json:"recommendation"`
}

// ErrorFeedback replaces AIFeedback when analysis fails. Retryable is advisory
// only; nothing resubmits automatically.
type ErrorFeedback struct {
	Error     string   `json:"error"`
	ErrorKind string   `json:"errorKind"`
	Retryable bool     `json:"retryable"`
	Details   []string `json:"details,omitempty"`
}

// ResumeAnalysisUpdate carries everything the pipeline writes in its single
// update of a resume, on success and on failure alike.
type ResumeAnalysisUpdate struct {
	Status             ResumeStatus
	AIScore            *int
	MatchScore         *int
	Feedback           datatypes.JSON
	ParsedSkills       []string
	SuggestedQuestions []string
	Education          []EducationEntry
	Experience         []ExperienceEntry
}

// ResumeFilter narrows ListResumes. Zero values mean no filter.
type ResumeFilter struct {
	JobListingID *uint
	Status       ResumeStatus
}
