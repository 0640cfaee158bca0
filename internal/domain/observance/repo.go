package observance

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ItemRepository persists prescribed observance items.
type ItemRepository interface {
	Create(ctx context.Context, item *Item) error
	// BulkCreate inserts all items atomically: either every item is
	// persisted or none are.
	BulkCreate(ctx context.Context, items []*Item) error
	GetByID(ctx context.Context, id uuid.UUID) (*Item, error)
	Update(ctx context.Context, id uuid.UUID, upd ItemUpdate) (*Item, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// List returns a consultant's items ordered by (category, sort_order).
	// planID narrows to one care plan; activeOnly hides retired items.
	List(ctx context.Context, consultantID uuid.UUID, planID *uuid.UUID, activeOnly bool) ([]*Item, error)
	// HasActive is a one-row existence probe used by the caseload dashboard.
	HasActive(ctx context.Context, consultantID uuid.UUID) (bool, error)
}

// LogRepository persists day-level completion records.
type LogRepository interface {
	// Toggle upserts the log keyed on (observance_item_id, date). The write
	// must be a single atomic conditional insert-or-update, never a
	// read-then-write sequence.
	Toggle(ctx context.Context, log *Log) error
	// ListForRange returns logs joined with their item's display fields,
	// ordered by date descending.
	ListForRange(ctx context.Context, consultantID uuid.UUID, start, end time.Time) ([]*LogWithItem, error)
	// ListForDate returns logs for the given items on one exact day.
	ListForDate(ctx context.Context, itemIDs []uuid.UUID, date time.Time) ([]*Log, error)
	// CountDoneInRange returns done=true log counts per item id inside
	// [start, end].
	CountDoneInRange(ctx context.Context, consultantID uuid.UUID, start, end time.Time) (map[uuid.UUID]int, error)
}
