package interfaces

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"hr-portal/domain"
	"hr-portal/infrastructure"
)

type createResumeRequest struct {
	CandidateName     string  `json:"candidateName" binding:"required,notblank,max=255"`
	Email             string  `json:"email" binding:"required,email"`
	Phone             *string `json:"phone" binding:"omitempty,max=50"`
	Position          string  `json:"position" binding:"required_without=JobListingID,omitempty,notblank,max=255"`
	ResumeText        string  `json:"resumeText" binding:"required,notblank,min=50"`
	JobDescriptionURL *string `json:"jobDescriptionUrl" binding:"omitempty,url"`
	JobListingID      *uint   `json:"jobListingId" binding:"omitempty,min=1"`
}

func (h *HTTPHandler) CreateResume(c *gin.Context) {
	var req createResumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	h.submitResume(c, req)
}

// UploadResume accepts the same fields as a multipart form plus a resume file.
func (h *HTTPHandler) UploadResume(c *gin.Context) {
	if h.MaxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes)
	}

	fileHeader, err := c.FormFile("resume")
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		respondValidation(c, domain.FieldError{
			Field:   "resume",
			Message: fmt.Sprintf("upload must be at most %d bytes", tooLarge.Limit),
		})
		return
	}
	if err != nil {
		respondValidation(c, domain.FieldError{Field: "resume", Message: "file is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondValidation(c, domain.FieldError{Field: "resume", Message: "file could not be read"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respondValidation(c, domain.FieldError{Field: "resume", Message: "file could not be read"})
		return
	}

	text, err := h.Extractor.Extract(fileHeader.Filename, data)
	if err != nil {
		msg := "text could not be extracted from the file"
		if errors.Is(err, infrastructure.ErrUnsupportedDocument) {
			msg = "must be a .pdf, .docx or .txt file"
		}
		h.Logger.WithError(err).WithField("file", fileHeader.Filename).Warn("resume extraction failed")
		respondValidation(c, domain.FieldError{Field: "resume", Message: msg})
		return
	}

	req := createResumeRequest{
		CandidateName:     strings.TrimSpace(c.PostForm("candidateName")),
		Email:             strings.TrimSpace(c.PostForm("email")),
		Position:          strings.TrimSpace(c.PostForm("position")),
		ResumeText:        text,
		Phone:             optionalForm(c, "phone"),
		JobDescriptionURL: optionalForm(c, "jobDescriptionUrl"),
	}
	if raw := strings.TrimSpace(c.PostForm("jobListingId")); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			respondValidation(c, domain.FieldError{Field: "jobListingId", Message: "must be a positive integer"})
			return
		}
		v := uint(id)
		req.JobListingID = &v
	}

	if err := binding.Validator.ValidateStruct(&req); err != nil {
		respondBindError(c, err)
		return
	}
	h.submitResume(c, req)
}

// submitResume resolves the job listing and runs the pipeline. Analysis
// failures still answer 201; the status field tells them apart.
func (h *HTTPHandler) submitResume(c *gin.Context, req createResumeRequest) {
	ctx := c.Request.Context()

	resume := &domain.Resume{
		CandidateName:     strings.TrimSpace(req.CandidateName),
		Email:             strings.TrimSpace(req.Email),
		Phone:             req.Phone,
		Position:          strings.TrimSpace(req.Position),
		ResumeText:        req.ResumeText,
		JobDescriptionURL: req.JobDescriptionURL,
		JobListingID:      req.JobListingID,
	}

	if req.JobListingID != nil {
		listing, err := h.Listings.GetJobListing(ctx, *req.JobListingID)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			respondValidation(c, domain.FieldError{Field: "jobListingId", Message: "job listing does not exist"})
			return
		case err != nil:
			h.respondError(c, err, "failed to load job listing")
			return
		case !listing.IsActive():
			respondValidation(c, domain.FieldError{Field: "jobListingId", Message: "job listing is closed"})
			return
		}
		if resume.Position == "" {
			resume.Position = listing.Title
		}
	}

	processed, err := h.Pipeline.ProcessSubmission(ctx, resume)
	if err != nil {
		if processed == nil {
			h.respondError(c, err, "failed to save resume")
			return
		}
		// The submission exists but its outcome was not recorded.
		h.Logger.WithError(err).WithField("resume_id", processed.ID).Error("resume left pending")
	}

	if processed.Status.Terminal() {
		h.dispatch(context.WithoutCancel(ctx), domain.NotificationJob{
			Type:     domain.JobResumeAnalyzed,
			ResumeID: processed.ID,
			Status:   processed.Status,
			Score:    processed.AIScore,
		})
	}

	c.JSON(http.StatusCreated, processed)
}

func (h *HTTPHandler) ListResumes(c *gin.Context) {
	listingID, ok := queryID(c, "jobListingId")
	if !ok {
		return
	}

	filter := domain.ResumeFilter{JobListingID: listingID}
	if status := strings.TrimSpace(c.Query("status")); status != "" {
		filter.Status = domain.ResumeStatus(status)
		switch filter.Status {
		case domain.ResumeStatusPending, domain.ResumeStatusProcessed, domain.ResumeStatusError:
		default:
			respondValidation(c, domain.FieldError{Field: "status", Message: "must be one of: pending, processed, error"})
			return
		}
	}

	resumes, err := h.Resumes.ListResumes(c.Request.Context(), filter)
	if err != nil {
		h.respondError(c, err, "failed to list resumes")
		return
	}
	c.JSON(http.StatusOK, resumes)
}

func (h *HTTPHandler) GetResume(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	resume, err := h.Resumes.GetResume(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err, "failed to get resume")
		return
	}
	c.JSON(http.StatusOK, resume)
}

func optionalForm(c *gin.Context, key string) *string {
	v := strings.TrimSpace(c.PostForm(key))
	if v == "" {
		return nil
	}
	return &v
}
