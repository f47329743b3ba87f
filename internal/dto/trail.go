package dto

// TrailStepInput is one ordered department stop in a trail payload.
type TrailStepInput struct {
	Department string `json:"department" validate:"required"`
}

// CreateTrailRequest payload for defining a document trail.
type CreateTrailRequest struct {
	Name        string           `json:"name" validate:"required"`
	Description string           `json:"description"`
	Steps       []TrailStepInput `json:"steps" validate:"required,min=1,dive"`
}

// UpdateTrailRequest payload for replacing trail metadata and steps.
type UpdateTrailRequest struct {
	Name        string           `json:"name" validate:"required"`
	Description string           `json:"description"`
	Active      *bool            `json:"active"`
	Steps       []TrailStepInput `json:"steps" validate:"required,min=1,dive"`
}
