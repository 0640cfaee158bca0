package plan

import (
	"context"
	"fmt"
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

func (s *Service) Create(ctx context.Context, p *ConsultantPlan) error {
	if p.ConsultantID == uuid.Nil {
		return apperr.Validation("consultant_id", "is required")
	}
	if strings.TrimSpace(p.Title) == "" {
		return apperr.Validation("title", "is required")
	}
	if p.Status == "" {
		p.Status = StatusDraft
	}
	if !validStatuses[p.Status] {
		return apperr.Validation("status", fmt.Sprintf("unknown status %q", p.Status))
	}
	p.Title = s.sanitize.Sanitize(p.Title)
	if p.Notes != nil {
		clean := s.sanitize.Sanitize(*p.Notes)
		p.Notes = &clean
	}
	return s.repo.Create(ctx, p)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*ConsultantPlan, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, upd PlanUpdate) (*ConsultantPlan, error) {
	if upd.Title != nil {
		if strings.TrimSpace(*upd.Title) == "" {
			return nil, apperr.Validation("title", "must not be empty")
		}
		clean := s.sanitize.Sanitize(*upd.Title)
		upd.Title = &clean
	}
	if upd.Status != nil && !validStatuses[*upd.Status] {
		return nil, apperr.Validation("status", fmt.Sprintf("unknown status %q", *upd.Status))
	}
	if upd.Notes != nil {
		clean := s.sanitize.Sanitize(*upd.Notes)
		upd.Notes = &clean
	}
	return s.repo.Update(ctx, id, upd)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) ListByConsultant(ctx context.Context, consultantID uuid.UUID) ([]*ConsultantPlan, error) {
	return s.repo.ListByConsultant(ctx, consultantID)
}
