package models

import "time"

// SubmissionKind distinguishes work that publishes immediately from work
// that must pass peer review.
type SubmissionKind string

const (
	KindCreativeWork  SubmissionKind = "creative_work"
	KindResearchPaper SubmissionKind = "research_paper"
)

func (k SubmissionKind) IsValid() bool {
	switch k {
	case KindCreativeWork, KindResearchPaper:
		return true
	default:
		return false
	}
}

// SubmissionStatus is the review lifecycle state of a submission.
// StatusApproved is terminal.
type SubmissionStatus string

const (
	StatusPending       SubmissionStatus = "pending"
	StatusCorrected     SubmissionStatus = "corrected"
	StatusNeedsRevision SubmissionStatus = "needs_revision"
	StatusApproved      SubmissionStatus = "approved"
)

func (s SubmissionStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusCorrected, StatusNeedsRevision, StatusApproved:
		return true
	default:
		return false
	}
}

// Reviewable reports whether a submission in this status may receive a
// reviewer verdict.
func (s SubmissionStatus) Reviewable() bool {
	switch s {
	case StatusPending, StatusCorrected:
		return true
	case StatusNeedsRevision, StatusApproved:
		return false
	default:
		return false
	}
}

// Submission represents a student-authored work. Research papers enter
// the review workflow at StatusPending; creative works publish
// immediately as StatusApproved and never receive verdicts.
type Submission struct {
	SubmissionID     int              `gorm:"primaryKey;column:submission_id" json:"submission_id"`
	SubmissionNumber string           `gorm:"column:submission_number;unique" json:"submission_number"`
	AuthorID         int              `gorm:"column:author_id" json:"author_id"`
	Kind             SubmissionKind   `gorm:"column:kind" json:"kind"`
	Status           SubmissionStatus `gorm:"column:status" json:"status"`
	Title            string           `gorm:"column:title" json:"title"`
	Abstract         string           `gorm:"column:abstract" json:"abstract"`
	Content          string           `gorm:"column:content" json:"content"`
	// Version guards the read-validate-write cycle; every status or
	// content write increments it.
	Version int `gorm:"column:version" json:"version"`
	// CorrectedAt marks the start of the current review cycle. Reviews
	// written before it belong to a prior cycle of the same paper.
	CorrectedAt *time.Time `gorm:"column:corrected_at" json:"corrected_at,omitempty"`
	CreatedAt   time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at" json:"updated_at"`
	DeletedAt   *time.Time `gorm:"column:deleted_at" json:"deleted_at,omitempty"`

	Author *User `gorm:"foreignKey:AuthorID" json:"author,omitempty"`

	// Reviews is the append-only ledger in chronological order.
	Reviews []Review `gorm:"foreignKey:SubmissionID" json:"reviews,omitempty"`

	// ConsolidatedNotes mirrors the latest ledger entry for display.
	// Derived on read, never stored; the ledger stays authoritative.
	ConsolidatedNotes *ConsolidatedNotes `gorm:"-" json:"consolidated_notes,omitempty"`
}

func (Submission) TableName() string {
	return "submissions"
}

// ConsolidatedNotes is the display projection of the most recent review.
type ConsolidatedNotes struct {
	MethodNotes   string `json:"method_notes"`
	LanguageNotes string `json:"language_notes"`
	OtherNotes    string `json:"other_notes"`
}

// DeriveConsolidatedNotes recomputes the projection from the ledger.
// Returns nil when no review has been recorded yet.
func (s *Submission) DeriveConsolidatedNotes() *ConsolidatedNotes {
	if len(s.Reviews) == 0 {
		return nil
	}
	latest := s.Reviews[len(s.Reviews)-1]
	return &ConsolidatedNotes{
		MethodNotes:   latest.MethodNotes,
		LanguageNotes: latest.LanguageNotes,
		OtherNotes:    latest.OtherNotes,
	}
}
