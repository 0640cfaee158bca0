package consultant

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/vitacoach/vitacoach/internal/platform/apperr"
)

type mockRepo struct {
	store map[uuid.UUID]*Consultant
}

func newMockRepo() *mockRepo {
	return &mockRepo{store: make(map[uuid.UUID]*Consultant)}
}

func (m *mockRepo) Create(_ context.Context, c *Consultant) error {
	c.ID = uuid.New()
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	m.store[c.ID] = c
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Consultant, error) {
	c, ok := m.store[id]
	if !ok || c.DeletedAt != nil {
		return nil, apperr.ErrNotFound
	}
	return c, nil
}

func (m *mockRepo) Update(_ context.Context, id uuid.UUID, upd ConsultantUpdate) (*Consultant, error) {
	c, ok := m.store[id]
	if !ok || c.DeletedAt != nil {
		return nil, apperr.ErrNotFound
	}
	if upd.FirstName != nil {
		c.FirstName = *upd.FirstName
	}
	if upd.LastName != nil {
		c.LastName = *upd.LastName
	}
	if upd.Email != nil {
		c.Email = upd.Email
	}
	if upd.BirthDate != nil {
		c.BirthDate = upd.BirthDate
	}
	c.UpdatedAt = time.Now()
	return c, nil
}

func (m *mockRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	c, ok := m.store[id]
	if !ok || c.DeletedAt != nil {
		return apperr.ErrNotFound
	}
	now := time.Now()
	c.DeletedAt = &now
	return nil
}

func (m *mockRepo) ListByPractitioner(_ context.Context, practitionerID uuid.UUID, limit, offset int) ([]*Consultant, int, error) {
	var all []*Consultant
	for _, c := range m.store {
		if c.PractitionerID == practitionerID && c.DeletedAt == nil {
			all = append(all, c)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].LastName != all[j].LastName {
			return all[i].LastName < all[j].LastName
		}
		return all[i].FirstName < all[j].FirstName
	})
	total := len(all)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func TestCreate_RequiresPractitioner(t *testing.T) {
	svc := NewService(newMockRepo())
	err := svc.Create(context.Background(), &Consultant{FirstName: "Ada"})
	if !apperr.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreate_RequiresSomeName(t *testing.T) {
	svc := NewService(newMockRepo())
	err := svc.Create(context.Background(), &Consultant{PractitionerID: uuid.New(), FirstName: "  "})
	if !apperr.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreate_RejectsBadEmail(t *testing.T) {
	svc := NewService(newMockRepo())
	bad := "not-an-address"
	err := svc.Create(context.Background(), &Consultant{PractitionerID: uuid.New(), FirstName: "Ada", Email: &bad})
	if !apperr.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreate_SanitizesNames(t *testing.T) {
	svc := NewService(newMockRepo())
	c := &Consultant{PractitionerID: uuid.New(), FirstName: `<b>Ada</b>`, LastName: "Lovelace"}
	if err := svc.Create(context.Background(), c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.FirstName != "Ada" {
		t.Errorf("expected markup stripped, got %q", c.FirstName)
	}
}

func TestDelete_HidesFromDirectory(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	practitionerID := uuid.New()
	c := &Consultant{PractitionerID: practitionerID, FirstName: "Ada", LastName: "Lovelace"}
	svc.Create(context.Background(), c)

	if err := svc.Delete(context.Background(), c.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Get(context.Background(), c.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Error("deleted consultant must not be retrievable")
	}
	listed, total, _ := svc.ListByPractitioner(context.Background(), practitionerID, 20, 0)
	if total != 0 || len(listed) != 0 {
		t.Error("deleted consultant must be hidden from the directory")
	}
	if _, ok := repo.store[c.ID]; !ok {
		t.Error("soft delete must keep the row")
	}
}

func TestFullName(t *testing.T) {
	cases := []struct {
		first, last, want string
	}{
		{"Ada", "Lovelace", "Ada Lovelace"},
		{"Ada", "", "Ada"},
		{"", "Lovelace", "Lovelace"},
	}
	for _, tc := range cases {
		c := Consultant{FirstName: tc.first, LastName: tc.last}
		if got := c.FullName(); got != tc.want {
			t.Errorf("FullName(%q, %q) = %q, want %q", tc.first, tc.last, got, tc.want)
		}
	}
}
