package services

import (
	"fmt"

	"institute-portal-api/config"
	"institute-portal-api/models"

	"gorm.io/gorm"
)

// FilterEligible computes which candidate submissions should be offered
// to a reviewer. Candidates are expected to be research papers in
// pending or corrected state; anything else is skipped defensively.
//
// A corrected submission is always offered: it has been edited and
// needs re-checking regardless of prior history. A pending submission
// is offered only to reviewers with no entry in its ledger, and never
// to its own author. This is advisory presentation filtering, not an
// authorization boundary; the workflow engine re-checks on submit.
func FilterEligible(reviewerID int, candidates []models.Submission) []models.Submission {
	eligible := make([]models.Submission, 0, len(candidates))
	for _, sub := range candidates {
		if sub.Kind != models.KindResearchPaper || !sub.Status.Reviewable() {
			continue
		}
		if sub.AuthorID == reviewerID {
			continue
		}
		if sub.Status == models.StatusPending && hasReviewBy(sub.Reviews, reviewerID) {
			continue
		}
		eligible = append(eligible, sub)
	}
	return eligible
}

func hasReviewBy(reviews []models.Review, reviewerID int) bool {
	for _, r := range reviews {
		if r.ReviewerID == reviewerID {
			return true
		}
	}
	return false
}

// EligibilityService loads the review pool from the database and
// applies FilterEligible for a requesting reviewer.
type EligibilityService struct {
	db *gorm.DB
}

func NewEligibilityService(db *gorm.DB) *EligibilityService {
	if db == nil {
		db = config.DB
	}
	return &EligibilityService{db: db}
}

// ListEligible returns the submissions offered to the reviewer, oldest
// first, with consolidated notes derived for display.
func (s *EligibilityService) ListEligible(reviewerID int) ([]models.Submission, error) {
	var candidates []models.Submission
	err := s.db.
		Preload("Author").
		Preload("Reviews", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, review_id ASC")
		}).
		Where("kind = ? AND status IN ? AND deleted_at IS NULL",
			models.KindResearchPaper,
			[]models.SubmissionStatus{models.StatusPending, models.StatusCorrected}).
		Order("created_at ASC").
		Find(&candidates).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load review pool: %w", err)
	}

	eligible := FilterEligible(reviewerID, candidates)
	for i := range eligible {
		eligible[i].ConsolidatedNotes = eligible[i].DeriveConsolidatedNotes()
	}
	return eligible, nil
}
