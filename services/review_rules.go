package services

import (
	"fmt"

	"institute-portal-api/models"
)

// ApprovalThreshold is the number of accumulated approvals that
// finalizes a research paper as approved.
const ApprovalThreshold = 3

// VerdictOutcome is the discriminated result of applying a verdict,
// exposed so the notification layer can tell the three cases apart.
type VerdictOutcome string

const (
	OutcomeAwaitingReviews VerdictOutcome = "awaiting_reviews"
	OutcomeApproved        VerdictOutcome = "approved"
	OutcomeSentBack        VerdictOutcome = "sent_back"
)

// Message returns the human-readable outcome string handed to the
// notification collaborator.
func (o VerdictOutcome) Message() string {
	switch o {
	case OutcomeAwaitingReviews:
		return "Review recorded, awaiting more reviews"
	case OutcomeApproved:
		return "Submission approved and published"
	case OutcomeSentBack:
		return "Submission sent back for revision"
	default:
		return string(o)
	}
}

// CountApprovals counts approval entries across the submission's entire
// ledger. Approvals earned before a revision round still count after
// the paper has been edited; a revision cycle never discards them.
// This preserves the portal's accumulation policy deliberately rather
// than resetting the count per cycle.
func CountApprovals(reviews []models.Review) int {
	count := 0
	for _, r := range reviews {
		if r.Kind == models.ReviewApproval {
			count++
		}
	}
	return count
}

// DecideVerdict is the pure transition function of the review state
// machine: given the current status, the approvals accumulated so far,
// and an incoming verdict, it yields the next status and outcome. It
// performs no I/O; persistence and serialization live in the store.
func DecideVerdict(current models.SubmissionStatus, approvalsSoFar int, verdict *models.Review) (models.SubmissionStatus, VerdictOutcome, error) {
	switch current {
	case models.StatusPending, models.StatusCorrected:
		// reviewable
	case models.StatusApproved, models.StatusNeedsRevision:
		return current, "", ErrInvalidStateTransition
	default:
		return current, "", fmt.Errorf("unknown submission status %q: %w", current, ErrInvalidStateTransition)
	}

	switch verdict.Kind {
	case models.ReviewApproval:
		if approvalsSoFar+1 >= ApprovalThreshold {
			return models.StatusApproved, OutcomeApproved, nil
		}
		// Below the threshold the paper returns to the plain pending
		// pool, also when the approval was issued against a corrected
		// one.
		return models.StatusPending, OutcomeAwaitingReviews, nil
	case models.ReviewRevisionRequest:
		if !verdict.HasFeedback() {
			return current, "", ErrEmptyRevisionFeedback
		}
		return models.StatusNeedsRevision, OutcomeSentBack, nil
	default:
		return current, "", fmt.Errorf("unknown review kind %q", verdict.Kind)
	}
}
