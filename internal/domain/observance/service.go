package observance

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"

	"github.com/vitacoach/vitacoach/internal/platform/apperr"
)

// Service implements the observance tracking engine: item CRUD, day-level
// completion toggling, the daily checklist and adherence rate computation.
type Service struct {
	items ItemRepository
	logs  LogRepository

	sanitize *bluemonday.Policy

	// now is replaceable in tests so "today" is deterministic.
	now func() time.Time
}

func NewService(items ItemRepository, logs LogRepository) *Service {
	return &Service{
		items:    items,
		logs:     logs,
		sanitize: bluemonday.StrictPolicy(),
		now:      time.Now,
	}
}

// today returns the current calendar day with the time component dropped.
func (s *Service) today() time.Time {
	t := s.now()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (s *Service) validateItem(it *Item) error {
	if it.ConsultantID == uuid.Nil {
		return apperr.Validation("consultant_id", "is required")
	}
	if strings.TrimSpace(it.Label) == "" {
		return apperr.Validation("label", "is required")
	}
	if it.Category == "" {
		return apperr.Validation("category", "is required")
	}
	if !validCategories[it.Category] {
		return apperr.Validation("category", fmt.Sprintf("unknown category %q", it.Category))
	}
	if it.Frequency == "" {
		it.Frequency = FrequencyDaily
	}
	if !validFrequencies[it.Frequency] {
		return apperr.Validation("frequency", fmt.Sprintf("unknown frequency %q", it.Frequency))
	}
	if it.WeeklyTarget != nil && *it.WeeklyTarget < 1 {
		return apperr.Validation("weekly_target", "must be at least 1")
	}
	it.Label = s.sanitize.Sanitize(it.Label)
	return nil
}

// CreateItem validates and persists one item. New items are active unless the
// caller explicitly retires them.
func (s *Service) CreateItem(ctx context.Context, it *Item) error {
	if err := s.validateItem(it); err != nil {
		return err
	}
	return s.items.Create(ctx, it)
}

// BulkCreateItems persists a batch of items atomically. An empty batch is a
// no-op, not an error.
func (s *Service) BulkCreateItems(ctx context.Context, items []*Item) ([]*Item, error) {
	if len(items) == 0 {
		return []*Item{}, nil
	}
	for _, it := range items {
		if err := s.validateItem(it); err != nil {
			return nil, err
		}
	}
	if err := s.items.BulkCreate(ctx, items); err != nil {
		return nil, err
	}
	return items, nil
}

// UpdateItem merges the partial update into the stored item and returns the
// updated record. Retiring an item (is_active=false) preserves its history;
// DeleteItem does not.
func (s *Service) UpdateItem(ctx context.Context, id uuid.UUID, upd ItemUpdate) (*Item, error) {
	if upd.Label != nil {
		if strings.TrimSpace(*upd.Label) == "" {
			return nil, apperr.Validation("label", "must not be empty")
		}
		clean := s.sanitize.Sanitize(*upd.Label)
		upd.Label = &clean
	}
	if upd.Category != nil && !validCategories[*upd.Category] {
		return nil, apperr.Validation("category", fmt.Sprintf("unknown category %q", *upd.Category))
	}
	if upd.Frequency != nil && !validFrequencies[*upd.Frequency] {
		return nil, apperr.Validation("frequency", fmt.Sprintf("unknown frequency %q", *upd.Frequency))
	}
	if upd.WeeklyTarget != nil && *upd.WeeklyTarget < 1 {
		return nil, apperr.Validation("weekly_target", "must be at least 1")
	}
	return s.items.Update(ctx, id, upd)
}

// DeleteItem hard-deletes an item and orphans its history. Irreversible;
// callers wanting to keep history retire the item instead.
func (s *Service) DeleteItem(ctx context.Context, id uuid.UUID) error {
	return s.items.Delete(ctx, id)
}

func (s *Service) GetItem(ctx context.Context, id uuid.UUID) (*Item, error) {
	return s.items.GetByID(ctx, id)
}

func (s *Service) ListItems(ctx context.Context, consultantID uuid.UUID, planID *uuid.UUID, activeOnly bool) ([]*Item, error) {
	return s.items.List(ctx, consultantID, planID, activeOnly)
}

// HasActiveItems reports whether the consultant has any active regimen.
func (s *Service) HasActiveItems(ctx context.Context, consultantID uuid.UUID) (bool, error) {
	return s.items.HasActive(ctx, consultantID)
}

// Toggle records the completion state of one item for one calendar day.
// Repeating the call for the same day overwrites the existing record.
func (s *Service) Toggle(ctx context.Context, itemID, consultantID uuid.UUID, date string, done bool, notes *string) (*Log, error) {
	if itemID == uuid.Nil {
		return nil, apperr.Validation("observance_item_id", "is required")
	}
	if consultantID == uuid.Nil {
		return nil, apperr.Validation("consultant_id", "is required")
	}
	day, err := time.ParseInLocation(DateLayout, date, time.UTC)
	if err != nil {
		return nil, apperr.Validation("date", "must be formatted YYYY-MM-DD")
	}
	if notes != nil {
		clean := s.sanitize.Sanitize(*notes)
		notes = &clean
	}

	log := &Log{
		ObservanceItemID: itemID,
		ConsultantID:     consultantID,
		Date:             day,
		Done:             done,
		Notes:            notes,
	}
	if err := s.logs.Toggle(ctx, log); err != nil {
		return nil, err
	}
	return log, nil
}

// DailyView builds the consultant's checklist for today: every active item
// with its completion state, defaulting to not-done when no log exists yet.
// A failed log lookup degrades to an unchecked list rather than an error.
func (s *Service) DailyView(ctx context.Context, consultantID uuid.UUID) ([]*DailyEntry, error) {
	items, err := s.items.List(ctx, consultantID, nil, true)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return []*DailyEntry{}, nil
	}

	ids := make([]uuid.UUID, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}

	byItem := make(map[uuid.UUID]*Log)
	logs, err := s.logs.ListForDate(ctx, ids, s.today())
	if err == nil {
		for _, l := range logs {
			byItem[l.ObservanceItemID] = l
		}
	}

	entries := make([]*DailyEntry, len(items))
	for i, it := range items {
		entry := &DailyEntry{Item: *it}
		if l, ok := byItem[it.ID]; ok {
			entry.Done = l.Done
			entry.LogNotes = l.Notes
		}
		entries[i] = entry
	}
	return entries, nil
}

// History returns the consultant's completion records inside [start, end],
// newest first, each joined with its item's display fields.
func (s *Service) History(ctx context.Context, consultantID uuid.UUID, start, end string) ([]*LogWithItem, error) {
	from, err := time.ParseInLocation(DateLayout, start, time.UTC)
	if err != nil {
		return nil, apperr.Validation("start", "must be formatted YYYY-MM-DD")
	}
	to, err := time.ParseInLocation(DateLayout, end, time.UTC)
	if err != nil {
		return nil, apperr.Validation("end", "must be formatted YYYY-MM-DD")
	}
	if to.Before(from) {
		return nil, apperr.Validation("end", "must not precede start")
	}
	return s.logs.ListForRange(ctx, consultantID, from, to)
}
