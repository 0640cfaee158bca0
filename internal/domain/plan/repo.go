package plan

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, p *ConsultantPlan) error
	GetByID(ctx context.Context, id uuid.UUID) (*ConsultantPlan, error)
	Update(ctx context.Context, id uuid.UUID, upd PlanUpdate) (*ConsultantPlan, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListByConsultant(ctx context.Context, consultantID uuid.UUID) ([]*ConsultantPlan, error)
}
