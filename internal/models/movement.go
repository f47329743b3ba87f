package models

import "time"

// Movement records a transfer of document custody between departments.
// Rows are append-only.
type Movement struct {
	ID             string    `db:"id" json:"id"`
	DocumentID     string    `db:"document_id" json:"document_id"`
	FromDepartment string    `db:"from_department" json:"from_department"`
	ToDepartment   string    `db:"to_department" json:"to_department"`
	MovedBy        string    `db:"moved_by" json:"moved_by"`
	Note           *string   `db:"note" json:"note,omitempty"`
	MovedAt        time.Time `db:"moved_at" json:"moved_at"`
}
