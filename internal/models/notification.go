package models

import "time"

// Notification is a message queued for a document's submitter.
type Notification struct {
	ID          string     `db:"id" json:"id"`
	RecipientID string     `db:"recipient_id" json:"recipient_id"`
	DocumentID  string     `db:"document_id" json:"document_id"`
	Message     string     `db:"message" json:"message"`
	IsRead      bool       `db:"is_read" json:"is_read"`
	ReadAt      *time.Time `db:"read_at" json:"read_at,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
}

// NotificationFilter constrains inbox listing queries.
type NotificationFilter struct {
	RecipientID string
	UnreadOnly  bool
	Page        int
	PageSize    int
}
