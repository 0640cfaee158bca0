package observance

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/vitacoach/vitacoach/internal/platform/apperr"
)

type mockItemRepo struct {
	store     map[uuid.UUID]*Item
	seq       []uuid.UUID
	failWith  error
	listCalls int
}

func newMockItemRepo() *mockItemRepo {
	return &mockItemRepo{store: make(map[uuid.UUID]*Item)}
}

func (m *mockItemRepo) Create(_ context.Context, it *Item) error {
	if m.failWith != nil {
		return m.failWith
	}
	it.ID = uuid.New()
	it.CreatedAt = time.Now()
	m.store[it.ID] = it
	m.seq = append(m.seq, it.ID)
	return nil
}

func (m *mockItemRepo) BulkCreate(ctx context.Context, items []*Item) error {
	if m.failWith != nil {
		return m.failWith
	}
	for _, it := range items {
		if err := m.Create(ctx, it); err != nil {
			return err
		}
	}
	return nil
}

func (m *mockItemRepo) GetByID(_ context.Context, id uuid.UUID) (*Item, error) {
	it, ok := m.store[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return it, nil
}

func (m *mockItemRepo) Update(_ context.Context, id uuid.UUID, upd ItemUpdate) (*Item, error) {
	it, ok := m.store[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	if upd.ConsultantPlanID != nil {
		it.ConsultantPlanID = upd.ConsultantPlanID
	}
	if upd.Category != nil {
		it.Category = *upd.Category
	}
	if upd.Label != nil {
		it.Label = *upd.Label
	}
	if upd.Frequency != nil {
		it.Frequency = *upd.Frequency
	}
	if upd.WeeklyTarget != nil {
		it.WeeklyTarget = upd.WeeklyTarget
	}
	if upd.IsActive != nil {
		it.IsActive = *upd.IsActive
	}
	if upd.SortOrder != nil {
		it.SortOrder = *upd.SortOrder
	}
	return it, nil
}

func (m *mockItemRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.store[id]; !ok {
		return apperr.ErrNotFound
	}
	delete(m.store, id)
	return nil
}

func (m *mockItemRepo) List(_ context.Context, consultantID uuid.UUID, planID *uuid.UUID, activeOnly bool) ([]*Item, error) {
	m.listCalls++
	if m.failWith != nil {
		return nil, m.failWith
	}
	var items []*Item
	for _, id := range m.seq {
		it := m.store[id]
		if it == nil || it.ConsultantID != consultantID {
			continue
		}
		if planID != nil && (it.ConsultantPlanID == nil || *it.ConsultantPlanID != *planID) {
			continue
		}
		if activeOnly && !it.IsActive {
			continue
		}
		items = append(items, it)
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Category != items[j].Category {
			return items[i].Category < items[j].Category
		}
		return items[i].SortOrder < items[j].SortOrder
	})
	return items, nil
}

func (m *mockItemRepo) HasActive(ctx context.Context, consultantID uuid.UUID) (bool, error) {
	if m.failWith != nil {
		return false, m.failWith
	}
	items, _ := m.List(ctx, consultantID, nil, true)
	m.listCalls-- // the probe is not a list
	return len(items) > 0, nil
}

// mockLogRepo keys its store on (item id, date) so upsert semantics match
// the real table's uniqueness constraint.
type mockLogRepo struct {
	store        map[string]*Log
	failWith     error
	forDateCalls int
	forDateFail  error
	countCalls   int
}

func newMockLogRepo() *mockLogRepo {
	return &mockLogRepo{store: make(map[string]*Log)}
}

func logKey(itemID uuid.UUID, date time.Time) string {
	return itemID.String() + "|" + date.Format(DateLayout)
}

func (m *mockLogRepo) Toggle(_ context.Context, log *Log) error {
	if m.failWith != nil {
		return m.failWith
	}
	key := logKey(log.ObservanceItemID, log.Date)
	if existing, ok := m.store[key]; ok {
		existing.Done = log.Done
		existing.Notes = log.Notes
		*log = *existing
		return nil
	}
	log.ID = uuid.New()
	log.CreatedAt = time.Now()
	m.store[key] = log
	return nil
}

func (m *mockLogRepo) ListForRange(_ context.Context, consultantID uuid.UUID, start, end time.Time) ([]*LogWithItem, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	var logs []*LogWithItem
	for _, l := range m.store {
		if l.ConsultantID == consultantID && !l.Date.Before(start) && !l.Date.After(end) {
			logs = append(logs, &LogWithItem{Log: *l})
		}
	}
	sort.Slice(logs, func(i, j int) bool { return logs[i].Date.After(logs[j].Date) })
	return logs, nil
}

func (m *mockLogRepo) ListForDate(_ context.Context, itemIDs []uuid.UUID, date time.Time) ([]*Log, error) {
	m.forDateCalls++
	if m.forDateFail != nil {
		return nil, m.forDateFail
	}
	var logs []*Log
	for _, id := range itemIDs {
		if l, ok := m.store[logKey(id, date)]; ok {
			logs = append(logs, l)
		}
	}
	return logs, nil
}

func (m *mockLogRepo) CountDoneInRange(_ context.Context, consultantID uuid.UUID, start, end time.Time) (map[uuid.UUID]int, error) {
	m.countCalls++
	if m.failWith != nil {
		return nil, m.failWith
	}
	counts := make(map[uuid.UUID]int)
	for _, l := range m.store {
		if l.ConsultantID == consultantID && l.Done && !l.Date.Before(start) && !l.Date.After(end) {
			counts[l.ObservanceItemID]++
		}
	}
	return counts, nil
}

// fixedDay pins the service clock so "today" is deterministic in tests.
func fixedDay(svc *Service, day string) time.Time {
	t, _ := time.ParseInLocation(DateLayout, day, time.UTC)
	svc.now = func() time.Time { return t.Add(15 * time.Hour) } // mid-afternoon
	return t
}

func newTestService() (*Service, *mockItemRepo, *mockLogRepo) {
	items := newMockItemRepo()
	logs := newMockLogRepo()
	return NewService(items, logs), items, logs
}
