package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"institute-portal-api/config"
	"institute-portal-api/models"
	"institute-portal-api/services"

	"github.com/gin-gonic/gin"
)

type VerdictRequest struct {
	Kind          string `json:"kind" binding:"required"`
	MethodNotes   string `json:"method_notes"`
	LanguageNotes string `json:"language_notes"`
	OtherNotes    string `json:"other_notes"`
}

// GetEligibleSubmissions lists the research papers currently offered to
// the requesting reviewer.
func GetEligibleSubmissions(c *gin.Context) {
	userID := c.GetInt("userID")

	submissions, err := services.NewEligibilityService(config.DB).ListEligible(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch review pool"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"submissions": submissions,
		"total":       len(submissions),
	})
}

// SubmitVerdict records one reviewer verdict on a submission and
// reports which of the three outcomes occurred.
func SubmitVerdict(c *gin.Context) {
	submissionID, err := strconv.Atoi(c.Param("id"))
	if err != nil || submissionID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission ID"})
		return
	}

	var req VerdictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	kind := models.ReviewKind(req.Kind)
	if !kind.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Kind must be approval or revision_request"})
		return
	}

	userID := c.GetInt("userID")
	displayName := c.GetString("displayName")

	engine := services.NewReviewWorkflowService(services.NewGormSubmissionStore(config.DB))
	result, err := engine.SubmitVerdict(&services.VerdictInput{
		SubmissionID:  submissionID,
		ReviewerID:    userID,
		ReviewerName:  displayName,
		Kind:          kind,
		MethodNotes:   req.MethodNotes,
		LanguageNotes: req.LanguageNotes,
		OtherNotes:    req.OtherNotes,
	})
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	var submission models.Submission
	if err := config.DB.Where("submission_id = ?", submissionID).First(&submission).Error; err == nil {
		services.NewNotificationService(config.DB).NotifyVerdictOutcome(&submission, result)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"result":  result,
		"message": result.Outcome.Message(),
	})
}

// respondWorkflowError maps engine error kinds onto HTTP statuses.
func respondWorkflowError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrSubmissionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Submission not found"})
	case errors.Is(err, services.ErrInvalidStateTransition):
		c.JSON(http.StatusConflict, gin.H{"error": "Submission is not in a state that allows this action"})
	case errors.Is(err, services.ErrEmptyRevisionFeedback):
		c.JSON(http.StatusBadRequest, gin.H{"error": "A revision request must include feedback in at least one field"})
	case errors.Is(err, services.ErrSelfReview):
		c.JSON(http.StatusForbidden, gin.H{"error": "You cannot review your own submission"})
	case errors.Is(err, services.ErrDuplicateVerdict):
		c.JSON(http.StatusConflict, gin.H{"error": "You already reviewed this submission"})
	case errors.Is(err, services.ErrNotAuthor):
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the author may perform this action"})
	case errors.Is(err, services.ErrConcurrentModification):
		c.JSON(http.StatusConflict, gin.H{"error": "Submission changed concurrently, please retry"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// GetReviewHistory returns the audit mirror for a submission, used by
// administrators for reviewer-history reporting.
func GetReviewHistory(c *gin.Context) {
	submissionID, err := strconv.Atoi(c.Param("id"))
	if err != nil || submissionID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission ID"})
		return
	}

	var audits []models.ReviewAudit
	if err := config.DB.
		Where("submission_id = ?", submissionID).
		Order("created_at ASC, audit_id ASC").
		Find(&audits).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch review history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"history": audits,
		"total":   len(audits),
	})
}
