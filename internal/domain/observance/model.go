package observance

import (
	"time"

	"github.com/google/uuid"
)

// Frequency kinds for observance items.
const (
	FrequencyDaily    = "daily"
	FrequencyWeekly   = "weekly"
	FrequencyAsNeeded = "as_needed"
)

// Item categories recognised by the platform.
const (
	CategoryNutrition  = "nutrition"
	CategorySleep      = "sleep"
	CategoryActivity   = "activity"
	CategorySupplement = "supplement"
	CategoryLifestyle  = "lifestyle"
)

// DateLayout is the calendar-day format used on the wire and in log records.
const DateLayout = "2006-01-02"

// Item maps to the observance_item table: one prescribed recurring action
// (supplement, habit, lifestyle change) assigned to a consultant.
type Item struct {
	ID               uuid.UUID  `db:"id" json:"id"`
	ConsultantID     uuid.UUID  `db:"consultant_id" json:"consultant_id"`
	ConsultantPlanID *uuid.UUID `db:"consultant_plan_id" json:"consultant_plan_id,omitempty"`
	Category         string     `db:"category" json:"category"`
	Label            string     `db:"label" json:"label"`
	Frequency        string     `db:"frequency" json:"frequency"`
	WeeklyTarget     *int       `db:"weekly_target" json:"weekly_target,omitempty"`
	IsActive         bool       `db:"is_active" json:"is_active"`
	SortOrder        int        `db:"sort_order" json:"sort_order"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
}

// ItemUpdate carries a partial update; nil fields are left untouched.
type ItemUpdate struct {
	ConsultantPlanID *uuid.UUID `json:"consultant_plan_id,omitempty"`
	Category         *string    `json:"category,omitempty"`
	Label            *string    `json:"label,omitempty"`
	Frequency        *string    `json:"frequency,omitempty"`
	WeeklyTarget     *int       `json:"weekly_target,omitempty"`
	IsActive         *bool      `json:"is_active,omitempty"`
	SortOrder        *int       `json:"sort_order,omitempty"`
}

// Log maps to the observance_log table: one day's completion record for one
// item. At most one log exists per (observance_item_id, date).
type Log struct {
	ID                uuid.UUID `db:"id" json:"id"`
	ObservanceItemID  uuid.UUID `db:"observance_item_id" json:"observance_item_id"`
	ConsultantID      uuid.UUID `db:"consultant_id" json:"consultant_id"`
	Date              time.Time `db:"date" json:"date"`
	Done              bool      `db:"done" json:"done"`
	Notes             *string   `db:"notes" json:"notes,omitempty"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
}

// LogWithItem is a log joined with its owning item's display fields, used by
// history views.
type LogWithItem struct {
	Log
	ItemLabel     string `db:"item_label" json:"item_label"`
	ItemCategory  string `db:"item_category" json:"item_category"`
	ItemFrequency string `db:"item_frequency" json:"item_frequency"`
}

// DailyEntry is one row of the "today" checklist: the item plus its
// completion state for the current day.
type DailyEntry struct {
	Item
	Done     bool    `json:"done"`
	LogNotes *string `json:"log_notes"`
}

// CategoryRate is the aggregated adherence rate for one category.
type CategoryRate struct {
	Category  string `json:"category"`
	Rate      int    `json:"rate"`
	ItemCount int    `json:"itemCount"`
}

// Period is the calendar window a summary was computed over.
type Period struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Summary is the derived adherence summary for one consultant. It is
// recomputed on demand and never persisted.
type Summary struct {
	GlobalRate int            `json:"globalRate"`
	Categories []CategoryRate `json:"categories"`
	Period     Period         `json:"period"`
}

var validFrequencies = map[string]bool{
	FrequencyDaily: true, FrequencyWeekly: true, FrequencyAsNeeded: true,
}

var validCategories = map[string]bool{
	CategoryNutrition: true, CategorySleep: true, CategoryActivity: true,
	CategorySupplement: true, CategoryLifestyle: true,
}
