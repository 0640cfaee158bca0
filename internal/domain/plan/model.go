package plan

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusDraft    = "draft"
	StatusActive   = "active"
	StatusArchived = "archived"
)

var validStatuses = map[string]bool{
	StatusDraft:    true,
	StatusActive:   true,
	StatusArchived: true,
}

// ConsultantPlan is a care plan a practitioner writes for one consultant.
// Observance items may attach to a plan so the regimen can be filtered by it.
type ConsultantPlan struct {
	ID           uuid.UUID `json:"id"`
	ConsultantID uuid.UUID `json:"consultant_id"`
	Title        string    `json:"title"`
	Status       string    `json:"status"`
	Notes        *string   `json:"notes,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type PlanUpdate struct {
	Title  *string `json:"title,omitempty"`
	Status *string `json:"status,omitempty"`
	Notes  *string `json:"notes,omitempty"`
}
