package models

import "time"

// DocumentStatus captures workflow states for tracked documents.
type DocumentStatus string

const (
	DocumentStatusPending    DocumentStatus = "PENDING"
	DocumentStatusInMovement DocumentStatus = "IN_MOVEMENT"
	DocumentStatusApproved   DocumentStatus = "APPROVED"
	DocumentStatusRejected   DocumentStatus = "REJECTED"
	DocumentStatusDone       DocumentStatus = "DONE"
)

// IsTerminal reports whether no further workflow transitions are allowed.
func (s DocumentStatus) IsTerminal() bool {
	return s == DocumentStatusDone
}

// Document represents a tracked document row.
type Document struct {
	ID                 string         `db:"id" json:"id"`
	Code               string         `db:"code" json:"code"`
	Title              string         `db:"title" json:"title"`
	Type               string         `db:"type" json:"type"`
	OriginDepartment   string         `db:"origin_department" json:"origin_department"`
	FinalDestination   string         `db:"final_destination" json:"final_destination"`
	CurrentDepartment  string         `db:"current_department" json:"current_department"`
	Status             DocumentStatus `db:"status" json:"status"`
	SubmitterID        *string        `db:"submitter_id" json:"submitter_id,omitempty"`
	TrailID            *string        `db:"trail_id" json:"trail_id,omitempty"`
	CurrentTrailStep   *int           `db:"current_trail_step" json:"current_trail_step,omitempty"`
	FilePath           string         `db:"file_path" json:"file_path"`
	FileMime           string         `db:"file_mime" json:"file_mime"`
	FileSize           int64          `db:"file_size" json:"file_size"`
	QRCodePath         *string        `db:"qr_code_path" json:"qr_code_path,omitempty"`
	UploadedBy         string         `db:"uploaded_by" json:"uploaded_by"`
	CreatedAt          time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time      `db:"updated_at" json:"updated_at"`
}

// DocumentFilter constrains document listing queries.
type DocumentFilter struct {
	Status      []DocumentStatus
	Department  string
	Type        string
	SubmitterID string
	UploadedBy  string
	Search      string
	Page        int
	PageSize    int
}
