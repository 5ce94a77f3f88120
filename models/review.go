package models

import (
	"errors"
	"strings"
	"time"
)

// ReviewKind is a reviewer's verdict on a submission.
type ReviewKind string

const (
	ReviewApproval        ReviewKind = "approval"
	ReviewRevisionRequest ReviewKind = "revision_request"
)

func (k ReviewKind) IsValid() bool {
	switch k {
	case ReviewApproval, ReviewRevisionRequest:
		return true
	default:
		return false
	}
}

// Review is one entry in a submission's append-only review ledger.
// Entries are immutable once written; corrections are new entries.
type Review struct {
	ReviewID     int `gorm:"primaryKey;column:review_id" json:"review_id"`
	SubmissionID int `gorm:"column:submission_id" json:"submission_id"`
	ReviewerID   int `gorm:"column:reviewer_id" json:"reviewer_id"`
	// ReviewerName is captured at write time and kept even if the
	// reviewer's profile later changes.
	ReviewerName  string     `gorm:"column:reviewer_name" json:"reviewer_name"`
	Kind          ReviewKind `gorm:"column:kind" json:"kind"`
	MethodNotes   string     `gorm:"column:method_notes" json:"method_notes"`
	LanguageNotes string     `gorm:"column:language_notes" json:"language_notes"`
	OtherNotes    string     `gorm:"column:other_notes" json:"other_notes"`
	CreatedAt     time.Time  `gorm:"column:created_at" json:"created_at"`
}

func (Review) TableName() string {
	return "submission_reviews"
}

// HasFeedback reports whether at least one note field carries content.
func (r *Review) HasFeedback() bool {
	return strings.TrimSpace(r.MethodNotes) != "" ||
		strings.TrimSpace(r.LanguageNotes) != "" ||
		strings.TrimSpace(r.OtherNotes) != ""
}

// Validate checks structural integrity before the row is written.
func (r *Review) Validate() error {
	if r.SubmissionID == 0 {
		return errors.New("submission ID is required")
	}
	if r.ReviewerID == 0 {
		return errors.New("reviewer ID is required")
	}
	if !r.Kind.IsValid() {
		return errors.New("review kind is invalid")
	}
	if r.Kind == ReviewRevisionRequest && !r.HasFeedback() {
		return errors.New("revision request requires feedback")
	}
	return nil
}

// ReviewAudit mirrors each ledger entry together with the status
// transition it caused. Insert-only; used for institution-wide
// reviewer-history reporting outside the workflow engine.
type ReviewAudit struct {
	AuditID      int              `gorm:"primaryKey;column:audit_id" json:"audit_id"`
	SubmissionID int              `gorm:"column:submission_id" json:"submission_id"`
	ReviewerID   int              `gorm:"column:reviewer_id" json:"reviewer_id"`
	Kind         ReviewKind       `gorm:"column:kind" json:"kind"`
	OldStatus    SubmissionStatus `gorm:"column:old_status" json:"old_status"`
	NewStatus    SubmissionStatus `gorm:"column:new_status" json:"new_status"`
	Notes        *string          `gorm:"column:notes" json:"notes,omitempty"`
	CreatedAt    time.Time        `gorm:"column:created_at" json:"created_at"`
}

func (ReviewAudit) TableName() string {
	return "review_audits"
}
