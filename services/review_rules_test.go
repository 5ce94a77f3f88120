package services

import (
	"errors"
	"testing"
	"time"

	"institute-portal-api/models"
)

func approval(reviewerID int, at time.Time) models.Review {
	return models.Review{
		SubmissionID: 1,
		ReviewerID:   reviewerID,
		Kind:         models.ReviewApproval,
		CreatedAt:    at,
	}
}

func revisionRequest(reviewerID int, methodNotes string, at time.Time) models.Review {
	return models.Review{
		SubmissionID: 1,
		ReviewerID:   reviewerID,
		Kind:         models.ReviewRevisionRequest,
		MethodNotes:  methodNotes,
		CreatedAt:    at,
	}
}

func TestCountApprovalsIgnoresRevisionRequests(t *testing.T) {
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	reviews := []models.Review{
		approval(10, base),
		revisionRequest(11, "unclear methodology", base.Add(time.Minute)),
		approval(12, base.Add(2*time.Minute)),
		revisionRequest(13, "citation style", base.Add(3*time.Minute)),
	}

	if got := CountApprovals(reviews); got != 2 {
		t.Fatalf("expected 2 approvals, got %d", got)
	}
	if got := CountApprovals(nil); got != 0 {
		t.Fatalf("expected 0 approvals on empty ledger, got %d", got)
	}
}

func TestDecideVerdictFirstApprovalStaysPending(t *testing.T) {
	verdict := approval(10, time.Now())

	status, outcome, err := DecideVerdict(models.StatusPending, 0, &verdict)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != models.StatusPending {
		t.Fatalf("expected pending, got %s", status)
	}
	if outcome != OutcomeAwaitingReviews {
		t.Fatalf("expected awaiting outcome, got %s", outcome)
	}
}

func TestDecideVerdictThirdApprovalApproves(t *testing.T) {
	verdict := approval(12, time.Now())

	status, outcome, err := DecideVerdict(models.StatusPending, 2, &verdict)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != models.StatusApproved {
		t.Fatalf("expected approved, got %s", status)
	}
	if outcome != OutcomeApproved {
		t.Fatalf("expected approved outcome, got %s", outcome)
	}
}

func TestDecideVerdictApprovalOnCorrectedBelowThresholdReturnsToPending(t *testing.T) {
	verdict := approval(12, time.Now())

	status, _, err := DecideVerdict(models.StatusCorrected, 1, &verdict)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != models.StatusPending {
		t.Fatalf("expected pending, got %s", status)
	}
}

func TestDecideVerdictApprovalsAccumulateAcrossCycles(t *testing.T) {
	// Approvals earned before a revision round still count afterwards,
	// so two prior approvals plus one on the corrected paper finalize.
	verdict := approval(14, time.Now())

	status, outcome, err := DecideVerdict(models.StatusCorrected, 2, &verdict)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != models.StatusApproved || outcome != OutcomeApproved {
		t.Fatalf("expected approval to finalize, got %s/%s", status, outcome)
	}
}

func TestDecideVerdictRevisionRequestNeedsFeedback(t *testing.T) {
	verdict := revisionRequest(11, "", time.Now())

	_, _, err := DecideVerdict(models.StatusPending, 1, &verdict)
	if !errors.Is(err, ErrEmptyRevisionFeedback) {
		t.Fatalf("expected ErrEmptyRevisionFeedback, got %v", err)
	}

	// Whitespace-only notes are still empty feedback.
	verdict.MethodNotes = "   "
	verdict.OtherNotes = "\t"
	_, _, err = DecideVerdict(models.StatusPending, 1, &verdict)
	if !errors.Is(err, ErrEmptyRevisionFeedback) {
		t.Fatalf("expected ErrEmptyRevisionFeedback for blank notes, got %v", err)
	}
}

func TestDecideVerdictRevisionRequestWithFeedback(t *testing.T) {
	verdict := revisionRequest(11, "sample size is too small", time.Now())

	status, outcome, err := DecideVerdict(models.StatusCorrected, 2, &verdict)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != models.StatusNeedsRevision {
		t.Fatalf("expected needs_revision, got %s", status)
	}
	if outcome != OutcomeSentBack {
		t.Fatalf("expected sent_back outcome, got %s", outcome)
	}

	// Feedback in any single field is enough.
	other := models.Review{Kind: models.ReviewRevisionRequest, OtherNotes: "see attached"}
	if status, _, err = DecideVerdict(models.StatusPending, 0, &other); err != nil || status != models.StatusNeedsRevision {
		t.Fatalf("expected needs_revision via other_notes, got %s, %v", status, err)
	}
}

func TestDecideVerdictTerminalAndBlockedStates(t *testing.T) {
	verdict := approval(10, time.Now())

	if _, _, err := DecideVerdict(models.StatusApproved, 3, &verdict); !errors.Is(err, ErrInvalidStateTransition) {
		t.Fatalf("expected ErrInvalidStateTransition on approved, got %v", err)
	}
	if _, _, err := DecideVerdict(models.StatusNeedsRevision, 1, &verdict); !errors.Is(err, ErrInvalidStateTransition) {
		t.Fatalf("expected ErrInvalidStateTransition on needs_revision, got %v", err)
	}
	if _, _, err := DecideVerdict(models.SubmissionStatus("archived"), 0, &verdict); !errors.Is(err, ErrInvalidStateTransition) {
		t.Fatalf("expected ErrInvalidStateTransition on unknown status, got %v", err)
	}
}

func TestOutcomeMessages(t *testing.T) {
	cases := map[VerdictOutcome]string{
		OutcomeAwaitingReviews: "Review recorded, awaiting more reviews",
		OutcomeApproved:        "Submission approved and published",
		OutcomeSentBack:        "Submission sent back for revision",
	}
	for outcome, want := range cases {
		if got := outcome.Message(); got != want {
			t.Fatalf("outcome %s: got %q want %q", outcome, got, want)
		}
	}
}
