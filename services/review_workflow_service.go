package services

import (
	"errors"
	"strings"
	"time"

	"institute-portal-api/models"
)

// SubmissionStore is the persistence contract the workflow engine runs
// against. Implementations must apply each commit atomically: the
// status update, the ledger append and the audit mirror either all land
// or none does, and a commit against a stale version must fail with
// ErrConcurrentModification without side effects.
type SubmissionStore interface {
	// Fetch loads a live submission with its full review ledger in
	// chronological order.
	Fetch(submissionID int) (*models.Submission, error)

	// CommitVerdict applies a status transition together with its
	// ledger entry and audit mirror, conditional on expectedVersion.
	CommitVerdict(submissionID, expectedVersion int, newStatus models.SubmissionStatus, review *models.Review, audit *models.ReviewAudit) error

	// CommitCorrection moves a submission to StatusCorrected and stamps
	// the start of a new review cycle, conditional on expectedVersion.
	// No ledger entry: a correction is an authorship action.
	CommitCorrection(submissionID, expectedVersion int, correctedAt time.Time) error
}

// verdictRetries bounds the internal retry budget for lost version
// races before ErrConcurrentModification surfaces to the caller.
const verdictRetries = 3

// VerdictInput carries one reviewer action. The identity fields come
// from the identity collaborator at the moment of action; ReviewerName
// is denormalized into the ledger as-is.
type VerdictInput struct {
	SubmissionID  int
	ReviewerID    int
	ReviewerName  string
	Kind          models.ReviewKind
	MethodNotes   string
	LanguageNotes string
	OtherNotes    string
}

// VerdictResult reports the submission state after a verdict.
type VerdictResult struct {
	Status         models.SubmissionStatus `json:"status"`
	ApprovalsSoFar int                     `json:"approvals_so_far"`
	Outcome        VerdictOutcome          `json:"outcome"`
}

// ReviewWorkflowService owns every status transition and ledger append
// on submissions. It is constructed with an explicit store; there is no
// ambient database access here.
type ReviewWorkflowService struct {
	store SubmissionStore
	now   func() time.Time
}

func NewReviewWorkflowService(store SubmissionStore) *ReviewWorkflowService {
	return &ReviewWorkflowService{store: store, now: time.Now}
}

// SubmitVerdict validates and applies one reviewer verdict. The
// read-validate-write sequence is serialized per submission through the
// store's version check; a lost race is retried against a fresh
// snapshot so the approval count is always computed consistently.
func (s *ReviewWorkflowService) SubmitVerdict(in *VerdictInput) (*VerdictResult, error) {
	if !in.Kind.IsValid() {
		return nil, errors.New("review kind must be approval or revision_request")
	}

	var lastErr error
	for attempt := 0; attempt < verdictRetries; attempt++ {
		result, err := s.applyVerdict(in)
		if err == nil {
			return result, nil
		}
		if !errors.Is(err, ErrConcurrentModification) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

func (s *ReviewWorkflowService) applyVerdict(in *VerdictInput) (*VerdictResult, error) {
	sub, err := s.store.Fetch(in.SubmissionID)
	if err != nil {
		return nil, err
	}

	if sub.Kind != models.KindResearchPaper {
		// Creative works publish immediately and never enter review.
		return nil, ErrInvalidStateTransition
	}
	if sub.AuthorID == in.ReviewerID {
		return nil, ErrSelfReview
	}
	if err := s.checkDuplicate(sub, in.ReviewerID); err != nil {
		return nil, err
	}

	now := s.now()
	review := &models.Review{
		SubmissionID:  sub.SubmissionID,
		ReviewerID:    in.ReviewerID,
		ReviewerName:  strings.TrimSpace(in.ReviewerName),
		Kind:          in.Kind,
		MethodNotes:   strings.TrimSpace(in.MethodNotes),
		LanguageNotes: strings.TrimSpace(in.LanguageNotes),
		OtherNotes:    strings.TrimSpace(in.OtherNotes),
		CreatedAt:     now,
	}

	approvalsBefore := CountApprovals(sub.Reviews)
	newStatus, outcome, err := DecideVerdict(sub.Status, approvalsBefore, review)
	if err != nil {
		return nil, err
	}
	if err := review.Validate(); err != nil {
		return nil, err
	}

	audit := &models.ReviewAudit{
		SubmissionID: sub.SubmissionID,
		ReviewerID:   in.ReviewerID,
		Kind:         in.Kind,
		OldStatus:    sub.Status,
		NewStatus:    newStatus,
		CreatedAt:    now,
	}

	if err := s.store.CommitVerdict(sub.SubmissionID, sub.Version, newStatus, review, audit); err != nil {
		return nil, err
	}

	approvals := approvalsBefore
	if in.Kind == models.ReviewApproval {
		approvals++
	}
	return &VerdictResult{
		Status:         newStatus,
		ApprovalsSoFar: approvals,
		Outcome:        outcome,
	}, nil
}

// checkDuplicate rejects a second verdict from the same reviewer within
// the current review cycle. Reviews written before the latest
// correction belong to a prior version of the paper and do not block.
func (s *ReviewWorkflowService) checkDuplicate(sub *models.Submission, reviewerID int) error {
	for _, r := range sub.Reviews {
		if r.ReviewerID != reviewerID {
			continue
		}
		if sub.CorrectedAt != nil && r.CreatedAt.Before(*sub.CorrectedAt) {
			continue
		}
		return ErrDuplicateVerdict
	}
	return nil
}

// AcknowledgeRevision is the author's "I have addressed the feedback"
// signal. It trusts the signal: the engine does not verify that content
// actually changed. Valid only from StatusNeedsRevision.
func (s *ReviewWorkflowService) AcknowledgeRevision(submissionID, authorID int) (models.SubmissionStatus, error) {
	var lastErr error
	for attempt := 0; attempt < verdictRetries; attempt++ {
		sub, err := s.store.Fetch(submissionID)
		if err != nil {
			return "", err
		}
		if sub.AuthorID != authorID {
			return "", ErrNotAuthor
		}
		if sub.Status != models.StatusNeedsRevision {
			return "", ErrInvalidStateTransition
		}

		err = s.store.CommitCorrection(sub.SubmissionID, sub.Version, s.now())
		if err == nil {
			return models.StatusCorrected, nil
		}
		if !errors.Is(err, ErrConcurrentModification) {
			return "", err
		}
		lastErr = err
	}
	return "", lastErr
}
