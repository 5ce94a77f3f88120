package services

import "errors"

// Workflow error kinds. All of them are returned to the caller as
// values; none is a panic. ErrConcurrentModification is the only kind a
// caller should retry (the engine already retries it internally).
var (
	// ErrSubmissionNotFound: the submission does not exist or was
	// deleted by its author.
	ErrSubmissionNotFound = errors.New("submission not found")

	// ErrInvalidStateTransition: the submission's current status does
	// not permit the requested action, or the submission kind is not
	// subject to review at all.
	ErrInvalidStateTransition = errors.New("invalid state transition")

	// ErrEmptyRevisionFeedback: a revision request with all three note
	// fields empty carries no actionable feedback.
	ErrEmptyRevisionFeedback = errors.New("revision request requires feedback")

	// ErrConcurrentModification: the submission changed between read
	// and write and the retry budget is exhausted.
	ErrConcurrentModification = errors.New("submission was modified concurrently")

	// ErrStorageFailure wraps a failed commit; prior state is intact.
	ErrStorageFailure = errors.New("storage failure")

	// ErrSelfReview: authors may not review their own work.
	ErrSelfReview = errors.New("authors cannot review their own submission")

	// ErrDuplicateVerdict: the reviewer already issued a verdict on
	// this submission in the current review cycle.
	ErrDuplicateVerdict = errors.New("reviewer already reviewed this submission in the current cycle")

	// ErrNotAuthor: a revision acknowledgment from anyone but the
	// submission's author.
	ErrNotAuthor = errors.New("only the author may acknowledge a revision")
)
