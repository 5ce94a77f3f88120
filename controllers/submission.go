package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"institute-portal-api/config"
	"institute-portal-api/models"
	"institute-portal-api/services"
	"institute-portal-api/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreateSubmissionRequest struct {
	Kind     string `json:"kind" binding:"required"`
	Title    string `json:"title" binding:"required"`
	Abstract string `json:"abstract"`
	Content  string `json:"content" binding:"required"`
}

type UpdateSubmissionRequest struct {
	Title    string `json:"title"`
	Abstract string `json:"abstract"`
	Content  string `json:"content"`
}

// CreateSubmission publishes a new student work. Research papers enter
// the review workflow as pending; creative works publish immediately.
func CreateSubmission(c *gin.Context) {
	var req CreateSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	kind := models.SubmissionKind(req.Kind)
	if !kind.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Kind must be creative_work or research_paper"})
		return
	}

	userID := c.GetInt("userID")

	status := models.StatusPending
	if kind == models.KindCreativeWork {
		status = models.StatusApproved
	}

	now := time.Now()
	submission := models.Submission{
		SubmissionNumber: uuid.NewString(),
		AuthorID:         userID,
		Kind:             kind,
		Status:           status,
		Title:            utils.SanitizeInput(req.Title),
		Abstract:         utils.SanitizeInput(req.Abstract),
		Content:          utils.SanitizeInput(req.Content),
		Version:          1,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := config.DB.Create(&submission).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create submission"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":    true,
		"submission": submission,
	})
}

// GetMySubmissions lists the requesting author's submissions with their
// review ledgers and derived notes.
func GetMySubmissions(c *gin.Context) {
	userID := c.GetInt("userID")

	var submissions []models.Submission
	err := config.DB.
		Preload("Reviews", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, review_id ASC")
		}).
		Where("author_id = ? AND deleted_at IS NULL", userID).
		Order("created_at DESC").
		Find(&submissions).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch submissions"})
		return
	}

	for i := range submissions {
		submissions[i].ConsolidatedNotes = submissions[i].DeriveConsolidatedNotes()
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"submissions": submissions,
		"total":       len(submissions),
	})
}

// GetSubmission returns one submission. Authors see their own work in
// any state; everyone else only sees approved work.
func GetSubmission(c *gin.Context) {
	submissionID, err := strconv.Atoi(c.Param("id"))
	if err != nil || submissionID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission ID"})
		return
	}

	var submission models.Submission
	err = config.DB.
		Preload("Author").
		Preload("Reviews", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, review_id ASC")
		}).
		Where("submission_id = ? AND deleted_at IS NULL", submissionID).
		First(&submission).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Submission not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch submission"})
		return
	}

	userID := c.GetInt("userID")
	roleID := c.GetInt("roleID")
	if submission.Status != models.StatusApproved &&
		submission.AuthorID != userID &&
		roleID != models.RoleProfessor && roleID != models.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Submission is not published"})
		return
	}

	submission.ConsolidatedNotes = submission.DeriveConsolidatedNotes()

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"submission": submission,
	})
}

// UpdateSubmission lets the author edit content. Editing never changes
// status; a paper in needs_revision stays there until the author
// explicitly acknowledges the revision.
func UpdateSubmission(c *gin.Context) {
	submissionID, err := strconv.Atoi(c.Param("id"))
	if err != nil || submissionID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission ID"})
		return
	}

	var req UpdateSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	userID := c.GetInt("userID")

	var submission models.Submission
	if err := config.DB.Where("submission_id = ? AND deleted_at IS NULL", submissionID).
		First(&submission).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Submission not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load submission"})
		return
	}

	if submission.AuthorID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not the author of this submission"})
		return
	}

	// Approved work is final; everything else stays editable.
	if submission.Status == models.StatusApproved && submission.Kind == models.KindResearchPaper {
		c.JSON(http.StatusConflict, gin.H{"error": "Approved submissions can no longer be edited"})
		return
	}

	updates := map[string]interface{}{
		"updated_at": time.Now(),
		"version":    submission.Version + 1,
	}
	if req.Title != "" {
		updates["title"] = utils.SanitizeInput(req.Title)
	}
	if req.Abstract != "" {
		updates["abstract"] = utils.SanitizeInput(req.Abstract)
	}
	if req.Content != "" {
		updates["content"] = utils.SanitizeInput(req.Content)
	}

	res := config.DB.Model(&models.Submission{}).
		Where("submission_id = ? AND version = ? AND deleted_at IS NULL", submission.SubmissionID, submission.Version).
		Updates(updates)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update submission"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Submission changed concurrently, please retry"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Submission updated",
	})
}

// DeleteSubmission soft-deletes the author's own submission.
func DeleteSubmission(c *gin.Context) {
	submissionID, err := strconv.Atoi(c.Param("id"))
	if err != nil || submissionID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission ID"})
		return
	}

	userID := c.GetInt("userID")

	var submission models.Submission
	if err := config.DB.Where("submission_id = ? AND deleted_at IS NULL", submissionID).
		First(&submission).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Submission not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load submission"})
		return
	}

	if submission.AuthorID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not the author of this submission"})
		return
	}

	now := time.Now()
	if err := config.DB.Model(&models.Submission{}).
		Where("submission_id = ?", submission.SubmissionID).
		Update("deleted_at", now).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete submission"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Submission deleted",
	})
}

// AcknowledgeRevision is the author's signal that the requested changes
// are in. It moves the paper from needs_revision back into the review
// pool as corrected.
func AcknowledgeRevision(c *gin.Context) {
	submissionID, err := strconv.Atoi(c.Param("id"))
	if err != nil || submissionID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission ID"})
		return
	}

	userID := c.GetInt("userID")

	engine := services.NewReviewWorkflowService(services.NewGormSubmissionStore(config.DB))
	status, err := engine.AcknowledgeRevision(submissionID, userID)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	var submission models.Submission
	if err := config.DB.Where("submission_id = ?", submissionID).First(&submission).Error; err == nil {
		services.NewNotificationService(config.DB).NotifyRevisionAcknowledged(&submission)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"status":  status,
		"message": "Corrected paper returned to the review pool",
	})
}
