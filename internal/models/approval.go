package models

import "time"

// ApprovalDecision enumerates review outcomes.
type ApprovalDecision string

const (
	DecisionApprove ApprovalDecision = "APPROVE"
	DecisionReject  ApprovalDecision = "REJECT"
)

// Approval records an accept or reject decision on a document.
// Rows are append-only; multiple records per document are permitted.
type Approval struct {
	ID         string           `db:"id" json:"id"`
	DocumentID string           `db:"document_id" json:"document_id"`
	DecidedBy  string           `db:"decided_by" json:"decided_by"`
	Decision   ApprovalDecision `db:"decision" json:"decision"`
	Comment    *string          `db:"comment" json:"comment,omitempty"`
	DecidedAt  time.Time        `db:"decided_at" json:"decided_at"`
}
