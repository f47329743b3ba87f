package models

import "time"

// Trail is a named ordered path of departments a document may follow.
type Trail struct {
	ID          string      `db:"id" json:"id"`
	Name        string      `db:"name" json:"name"`
	Description *string     `db:"description" json:"description,omitempty"`
	Active      bool        `db:"active" json:"active"`
	CreatedBy   string      `db:"created_by" json:"created_by"`
	CreatedAt   time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time   `db:"updated_at" json:"updated_at"`
	Steps       []TrailStep `db:"-" json:"steps,omitempty"`
}

// TrailStep is one ordered department stop on a trail.
type TrailStep struct {
	ID         string `db:"id" json:"id"`
	TrailID    string `db:"trail_id" json:"trail_id"`
	StepOrder  int    `db:"step_order" json:"step_order"`
	Department string `db:"department" json:"department"`
}

// TrailFilter constrains trail listing queries.
type TrailFilter struct {
	Active   *bool
	Search   string
	Page     int
	PageSize int
}
