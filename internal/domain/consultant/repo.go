package consultant

import (
	"context"

	"github.com/google/uuid"
)

// Repository provides access to the consultant directory. Soft-deleted rows
// are invisible to every method except the delete itself.
type Repository interface {
	Create(ctx context.Context, c *Consultant) error
	GetByID(ctx context.Context, id uuid.UUID) (*Consultant, error)
	Update(ctx context.Context, id uuid.UUID, upd ConsultantUpdate) (*Consultant, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
	ListByPractitioner(ctx context.Context, practitionerID uuid.UUID, limit, offset int) ([]*Consultant, int, error)
}
