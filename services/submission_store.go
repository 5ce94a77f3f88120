package services

import (
	"errors"
	"fmt"
	"time"

	"institute-portal-api/config"
	"institute-portal-api/models"

	"gorm.io/gorm"
)

// GormSubmissionStore is the MySQL-backed SubmissionStore. All commits
// run inside a single transaction with an optimistic version check on
// the submission row, so a reviewer verdict never updates the ledger
// without its status change or vice versa.
type GormSubmissionStore struct {
	db *gorm.DB
}

func NewGormSubmissionStore(db *gorm.DB) *GormSubmissionStore {
	if db == nil {
		db = config.DB
	}
	return &GormSubmissionStore{db: db}
}

func (s *GormSubmissionStore) Fetch(submissionID int) (*models.Submission, error) {
	var sub models.Submission
	err := s.db.
		Preload("Reviews", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, review_id ASC")
		}).
		Where("submission_id = ? AND deleted_at IS NULL", submissionID).
		First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	sub.ConsolidatedNotes = sub.DeriveConsolidatedNotes()
	return &sub, nil
}

func (s *GormSubmissionStore) CommitVerdict(submissionID, expectedVersion int, newStatus models.SubmissionStatus, review *models.Review, audit *models.ReviewAudit) error {
	return s.transact(func(tx *gorm.DB) error {
		if err := s.bumpSubmission(tx, submissionID, expectedVersion, map[string]interface{}{
			"status":     newStatus,
			"updated_at": review.CreatedAt,
			"version":    expectedVersion + 1,
		}); err != nil {
			return err
		}
		if err := tx.Create(review).Error; err != nil {
			return fmt.Errorf("%w: failed to append review: %v", ErrStorageFailure, err)
		}
		if err := tx.Create(audit).Error; err != nil {
			return fmt.Errorf("%w: failed to write review audit: %v", ErrStorageFailure, err)
		}
		return nil
	})
}

func (s *GormSubmissionStore) CommitCorrection(submissionID, expectedVersion int, correctedAt time.Time) error {
	return s.transact(func(tx *gorm.DB) error {
		return s.bumpSubmission(tx, submissionID, expectedVersion, map[string]interface{}{
			"status":       models.StatusCorrected,
			"corrected_at": correctedAt,
			"updated_at":   correctedAt,
			"version":      expectedVersion + 1,
		})
	})
}

// bumpSubmission applies a conditional update on the submission row.
// Zero rows affected means the row moved past expectedVersion since the
// caller read it.
func (s *GormSubmissionStore) bumpSubmission(tx *gorm.DB, submissionID, expectedVersion int, updates map[string]interface{}) error {
	res := tx.Model(&models.Submission{}).
		Where("submission_id = ? AND version = ? AND deleted_at IS NULL", submissionID, expectedVersion).
		Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("%w: failed to update submission: %v", ErrStorageFailure, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrConcurrentModification
	}
	return nil
}

func (s *GormSubmissionStore) transact(fn func(tx *gorm.DB) error) error {
	tx := s.db.Begin()
	if tx.Error != nil {
		return fmt.Errorf("%w: failed to begin transaction: %v", ErrStorageFailure, tx.Error)
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("%w: failed to commit: %v", ErrStorageFailure, err)
	}
	return nil
}
