package services

import (
	"fmt"
	"log"
	"time"

	"institute-portal-api/config"
	"institute-portal-api/models"

	"gorm.io/gorm"
)

// NotificationService informs authors about workflow outcomes. It runs
// after the engine has committed; a notification failure is logged and
// never unwinds a recorded verdict.
type NotificationService struct {
	db *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	if db == nil {
		db = config.DB
	}
	return &NotificationService{db: db}
}

// NotifyVerdictOutcome writes an in-app notification for the author and,
// on final approval, also sends an email.
func (s *NotificationService) NotifyVerdictOutcome(sub *models.Submission, result *VerdictResult) {
	notifType := models.NotificationInfo
	switch result.Outcome {
	case OutcomeApproved:
		notifType = models.NotificationSuccess
	case OutcomeSentBack:
		notifType = models.NotificationWarning
	}

	relatedID := uint(sub.SubmissionID)
	notification := models.Notification{
		UserID:              uint(sub.AuthorID),
		Title:               fmt.Sprintf("Review update: %s", sub.Title),
		Message:             result.Outcome.Message(),
		Type:                notifType,
		RelatedSubmissionID: &relatedID,
		CreateAt:            time.Now(),
	}
	if err := s.db.Create(&notification).Error; err != nil {
		log.Printf("Warning: failed to create notification for user %d: %v", sub.AuthorID, err)
	}

	if result.Outcome != OutcomeApproved {
		return
	}

	var author models.User
	if err := s.db.Where("user_id = ? AND delete_at IS NULL", sub.AuthorID).First(&author).Error; err != nil {
		log.Printf("Warning: failed to load author %d for approval mail: %v", sub.AuthorID, err)
		return
	}
	subject := fmt.Sprintf("Your research paper %q has been approved", sub.Title)
	body := fmt.Sprintf("<p>Dear %s,</p><p>Your research paper <b>%s</b> has received the required approvals and is now published.</p>",
		author.DisplayName(), sub.Title)
	if err := config.SendMail([]string{author.Email}, subject, body); err != nil {
		log.Printf("Warning: failed to send approval mail to %s: %v", author.Email, err)
	}
}

// NotifyRevisionAcknowledged tells reviewers-facing surfaces nothing;
// it only confirms to the author that the paper re-entered the pool.
func (s *NotificationService) NotifyRevisionAcknowledged(sub *models.Submission) {
	relatedID := uint(sub.SubmissionID)
	notification := models.Notification{
		UserID:              uint(sub.AuthorID),
		Title:               fmt.Sprintf("Revision submitted: %s", sub.Title),
		Message:             "Your corrected paper is back in the review pool",
		Type:                models.NotificationInfo,
		RelatedSubmissionID: &relatedID,
		CreateAt:            time.Now(),
	}
	if err := s.db.Create(&notification).Error; err != nil {
		log.Printf("Warning: failed to create notification for user %d: %v", sub.AuthorID, err)
	}
}
