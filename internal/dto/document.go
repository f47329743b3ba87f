package dto

import "github.com/simdok/simdok-api/internal/models"

// UploadDocumentRequest captures the multipart form fields accompanying the
// document file.
type UploadDocumentRequest struct {
	Title            string `form:"title" validate:"required"`
	Type             string `form:"type" validate:"required"`
	Department       string `form:"department" validate:"required"`
	FinalDestination string `form:"final_destination" validate:"required"`
	SubmitterID      string `form:"submitter_id"`
	TrailID          string `form:"trail_id"`
}

// MoveDocumentRequest payload for transferring a document between departments.
type MoveDocumentRequest struct {
	ToDepartment string `json:"to_department" validate:"required"`
	Note         string `json:"note"`
}

// DecideDocumentRequest captures the reviewer decision and optional comment.
type DecideDocumentRequest struct {
	Decision models.ApprovalDecision `json:"decision" validate:"required,oneof=APPROVE REJECT"`
	Comment  string                  `json:"comment"`
}

// MarkDoneRequest payload for completing a document.
type MarkDoneRequest struct {
	Comment string `json:"comment"`
}

// DocumentQuery mirrors supported listing filters.
type DocumentQuery struct {
	Status     []models.DocumentStatus
	Department string
	Type       string
	Search     string
}

// DocumentHistoryResponse groups a document with its ledgers for display.
type DocumentHistoryResponse struct {
	Document  *models.Document  `json:"document"`
	Movements []models.Movement `json:"movements"`
	Approvals []models.Approval `json:"approvals"`
}

// TrackResponse is the public tracking view keyed by external code.
type TrackResponse struct {
	Code              string                `json:"code"`
	Title             string                `json:"title"`
	Type              string                `json:"type"`
	Status            models.DocumentStatus `json:"status"`
	CurrentDepartment string                `json:"current_department"`
	FinalDestination  string                `json:"final_destination"`
	Movements         []models.Movement     `json:"movements"`
	QRCodeURL         string                `json:"qr_code_url,omitempty"`
}
