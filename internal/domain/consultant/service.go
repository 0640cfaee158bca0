package consultant

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"

	"github.com/vitacoach/vitacoach/internal/platform/apperr"
)

type Service struct {
	repo     Repository
	sanitize *bluemonday.Policy
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, sanitize: bluemonday.StrictPolicy()}
}

func (s *Service) Create(ctx context.Context, c *Consultant) error {
	if c.PractitionerID == uuid.Nil {
		return apperr.Validation("practitioner_id", "is required")
	}
	if strings.TrimSpace(c.FirstName) == "" && strings.TrimSpace(c.LastName) == "" {
		return apperr.Validation("name", "first or last name is required")
	}
	if c.Email != nil && !strings.Contains(*c.Email, "@") {
		return apperr.Validation("email", "is not a valid address")
	}
	c.FirstName = s.sanitize.Sanitize(c.FirstName)
	c.LastName = s.sanitize.Sanitize(c.LastName)
	return s.repo.Create(ctx, c)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Consultant, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, upd ConsultantUpdate) (*Consultant, error) {
	if upd.FirstName != nil {
		clean := s.sanitize.Sanitize(*upd.FirstName)
		upd.FirstName = &clean
	}
	if upd.LastName != nil {
		clean := s.sanitize.Sanitize(*upd.LastName)
		upd.LastName = &clean
	}
	if upd.Email != nil && !strings.Contains(*upd.Email, "@") {
		return nil, apperr.Validation("email", "is not a valid address")
	}
	return s.repo.Update(ctx, id, upd)
}

// Delete soft-deletes the consultant; their observance history stays intact.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.SoftDelete(ctx, id)
}

func (s *Service) ListByPractitioner(ctx context.Context, practitionerID uuid.UUID, limit, offset int) ([]*Consultant, int, error) {
	return s.repo.ListByPractitioner(ctx, practitionerID, limit, offset)
}
