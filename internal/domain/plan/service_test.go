package plan

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/vitacoach/vitacoach/internal/platform/apperr"
)

type mockRepo struct {
	store map[uuid.UUID]*ConsultantPlan
}

func newMockRepo() *mockRepo {
	return &mockRepo{store: make(map[uuid.UUID]*ConsultantPlan)}
}

func (m *mockRepo) Create(_ context.Context, p *ConsultantPlan) error {
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	m.store[p.ID] = p
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*ConsultantPlan, error) {
	p, ok := m.store[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return p, nil
}

func (m *mockRepo) Update(_ context.Context, id uuid.UUID, upd PlanUpdate) (*ConsultantPlan, error) {
	p, ok := m.store[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	if upd.Title != nil {
		p.Title = *upd.Title
	}
	if upd.Status != nil {
		p.Status = *upd.Status
	}
	if upd.Notes != nil {
		p.Notes = upd.Notes
	}
	p.UpdatedAt = time.Now()
	return p, nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.store[id]; !ok {
		return apperr.ErrNotFound
	}
	delete(m.store, id)
	return nil
}

func (m *mockRepo) ListByConsultant(_ context.Context, consultantID uuid.UUID) ([]*ConsultantPlan, error) {
	var plans []*ConsultantPlan
	for _, p := range m.store {
		if p.ConsultantID == consultantID {
			plans = append(plans, p)
		}
	}
	sort.Slice(plans, func(i, j int) bool { return plans[i].CreatedAt.After(plans[j].CreatedAt) })
	return plans, nil
}

func TestCreate_DefaultsToDraft(t *testing.T) {
	svc := NewService(newMockRepo())
	p := &ConsultantPlan{ConsultantID: uuid.New(), Title: "Sleep hygiene"}
	if err := svc.Create(context.Background(), p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Status != StatusDraft {
		t.Errorf("expected draft status, got %q", p.Status)
	}
}

func TestCreate_RejectsUnknownStatus(t *testing.T) {
	svc := NewService(newMockRepo())
	err := svc.Create(context.Background(), &ConsultantPlan{ConsultantID: uuid.New(), Title: "x", Status: "paused"})
	if !apperr.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreate_RequiresTitle(t *testing.T) {
	svc := NewService(newMockRepo())
	err := svc.Create(context.Background(), &ConsultantPlan{ConsultantID: uuid.New(), Title: "   "})
	if !apperr.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdate_StatusTransitions(t *testing.T) {
	svc := NewService(newMockRepo())
	p := &ConsultantPlan{ConsultantID: uuid.New(), Title: "Sleep hygiene"}
	svc.Create(context.Background(), p)

	active := StatusActive
	updated, err := svc.Update(context.Background(), p.ID, PlanUpdate{Status: &active})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Status != StatusActive {
		t.Errorf("expected active, got %q", updated.Status)
	}

	bad := "suspended"
	if _, err := svc.Update(context.Background(), p.ID, PlanUpdate{Status: &bad}); !apperr.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreate_SanitizesNotes(t *testing.T) {
	svc := NewService(newMockRepo())
	notes := `<a href="http://x">click</a> reassess in 4 weeks`
	p := &ConsultantPlan{ConsultantID: uuid.New(), Title: "Sleep hygiene", Notes: &notes}
	if err := svc.Create(context.Background(), p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Notes == nil || *p.Notes != "click reassess in 4 weeks" {
		t.Errorf("expected markup stripped, got %v", p.Notes)
	}
}
