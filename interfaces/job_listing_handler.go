package interfaces

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"

	"hr-portal/domain"
)

type createJobListingRequest struct {
	Title           string   `json:"title" binding:"required,notblank,max=255"`
	Department      string   `json:"department" binding:"required,notblank,max=255"`
	Description     string   `json:"description" binding:"required,notblank"`
	Requirements    []string `json:"requirements" binding:"required,min=1,dive,required,notblank"`
	PreferredSkills []string `json:"preferredSkills" binding:"omitempty,dive,required"`
}

type updateJobListingStatusRequest struct {
	Status domain.JobListingStatus `json:"status" binding:"required,oneof=active closed"`
}

func (h *HTTPHandler) CreateJobListing(c *gin.Context) {
	var req createJobListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	listing := &domain.JobListing{
		Title:        strings.TrimSpace(req.Title),
		Department:   strings.TrimSpace(req.Department),
		Description:  req.Description,
		Requirements: datatypes.JSONSlice[string](req.Requirements),
	}
	if len(req.PreferredSkills) > 0 {
		listing.PreferredSkills = datatypes.JSONSlice[string](req.PreferredSkills)
	}

	if err := h.Listings.CreateJobListing(c.Request.Context(), listing); err != nil {
		h.respondError(c, err, "failed to create job listing")
		return
	}
	c.JSON(http.StatusCreated, listing)
}

func (h *HTTPHandler) ListJobListings(c *gin.Context) {
	status := domain.JobListingStatus(strings.TrimSpace(c.Query("status")))
	switch status {
	case "", domain.JobListingActive, domain.JobListingClosed:
	default:
		respondValidation(c, domain.FieldError{Field: "status", Message: "must be one of: active, closed"})
		return
	}

	listings, err := h.Listings.ListJobListings(c.Request.Context(), status)
	if err != nil {
		h.respondError(c, err, "failed to list job listings")
		return
	}
	c.JSON(http.StatusOK, listings)
}

func (h *HTTPHandler) GetJobListing(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	listing, err := h.Listings.GetJobListing(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err, "failed to get job listing")
		return
	}
	c.JSON(http.StatusOK, listing)
}

func (h *HTTPHandler) UpdateJobListingStatus(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req updateJobListingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	listing, err := h.Listings.UpdateJobListingStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		h.respondError(c, err, "failed to update job listing")
		return
	}
	c.JSON(http.StatusOK, listing)
}

// DeleteJobListing answers 409 while resumes still reference the listing;
// closing it is the supported way to retire it.
func (h *HTTPHandler) DeleteJobListing(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.Listings.DeleteJobListing(c.Request.Context(), id); err != nil {
		h.respondError(c, err, "failed to delete job listing")
		return
	}
	c.Status(http.StatusNoContent)
}
