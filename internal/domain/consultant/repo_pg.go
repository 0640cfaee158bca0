package consultant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vitacoach/vitacoach/internal/platform/apperr"
	"github.com/vitacoach/vitacoach/internal/platform/db"
)

const consultantColumns = `id, practitioner_id, first_name, last_name, email, birth_date, deleted_at, created_at, updated_at`

type queryable interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

// conn prefers a transaction or checked-out connection from the context so
// callers can compose repository calls atomically.
func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

func scanConsultant(row pgx.Row) (*Consultant, error) {
	var c Consultant
	err := row.Scan(
		&c.ID, &c.PractitionerID, &c.FirstName, &c.LastName,
		&c.Email, &c.BirthDate, &c.DeletedAt, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repoPG) Create(ctx context.Context, c *Consultant) error {
	sql := `INSERT INTO consultant (practitioner_id, first_name, last_name, email, birth_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + consultantColumns

	row := r.conn(ctx).QueryRow(ctx, sql, c.PractitionerID, c.FirstName, c.LastName, c.Email, c.BirthDate)
	created, err := scanConsultant(row)
	if err != nil {
		return apperr.DataAccess("consultant.create", err)
	}
	*c = *created
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Consultant, error) {
	sql := `SELECT ` + consultantColumns + ` FROM consultant WHERE id = $1 AND deleted_at IS NULL`

	c, err := scanConsultant(r.conn(ctx).QueryRow(ctx, sql, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, apperr.DataAccess("consultant.get", err)
	}
	return c, nil
}

func (r *repoPG) Update(ctx context.Context, id uuid.UUID, upd ConsultantUpdate) (*Consultant, error) {
	sets := []string{"updated_at = now()"}
	args := []any{id}

	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if upd.FirstName != nil {
		add("first_name", *upd.FirstName)
	}
	if upd.LastName != nil {
		add("last_name", *upd.LastName)
	}
	if upd.Email != nil {
		add("email", *upd.Email)
	}
	if upd.BirthDate != nil {
		add("birth_date", *upd.BirthDate)
	}

	sql := `UPDATE consultant SET ` + strings.Join(sets, ", ") +
		` WHERE id = $1 AND deleted_at IS NULL RETURNING ` + consultantColumns

	c, err := scanConsultant(r.conn(ctx).QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, apperr.DataAccess("consultant.update", err)
	}
	return c, nil
}

func (r *repoPG) SoftDelete(ctx context.Context, id uuid.UUID) error {
	sql := `UPDATE consultant SET deleted_at = now(), updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL`

	tag, err := r.conn(ctx).Exec(ctx, sql, id)
	if err != nil {
		return apperr.DataAccess("consultant.delete", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (r *repoPG) ListByPractitioner(ctx context.Context, practitionerID uuid.UUID, limit, offset int) ([]*Consultant, int, error) {
	var total int
	countSQL := `SELECT count(*) FROM consultant WHERE practitioner_id = $1 AND deleted_at IS NULL`
	if err := r.conn(ctx).QueryRow(ctx, countSQL, practitionerID).Scan(&total); err != nil {
		return nil, 0, apperr.DataAccess("consultant.count", err)
	}

	sql := `SELECT ` + consultantColumns + ` FROM consultant
		WHERE practitioner_id = $1 AND deleted_at IS NULL
		ORDER BY last_name, first_name
		LIMIT $2 OFFSET $3`

	rows, err := r.conn(ctx).Query(ctx, sql, practitionerID, limit, offset)
	if err != nil {
		return nil, 0, apperr.DataAccess("consultant.list", err)
	}
	defer rows.Close()

	var consultants []*Consultant
	for rows.Next() {
		c, err := scanConsultant(rows)
		if err != nil {
			return nil, 0, apperr.DataAccess("consultant.list", err)
		}
		consultants = append(consultants, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperr.DataAccess("consultant.list", err)
	}
	return consultants, total, nil
}
