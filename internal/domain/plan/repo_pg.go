package plan

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

const planColumns = `id, consultant_id, title, status, notes, created_at, updated_at`

type queryable interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type repoPG struct {
	pool *pgxpool.Pool

	// table is resolved once at construction. Deployments migrated from the
	// previous schema still carry the pluralized table name.
	table string
}

// NewRepoPG probes which plan table the database carries and binds the
// repository to it. The probe runs once; queries never fall back per call.
func NewRepoPG(ctx context.Context, pool *pgxpool.Pool) (Repository, error) {
	table, err := resolvePlanTable(ctx, pool)
	if err != nil {
		return nil, err
	}
	return &repoPG{pool: pool, table: table}, nil
}

func resolvePlanTable(ctx context.Context, pool *pgxpool.Pool) (string, error) {
	for _, candidate := range []string{"consultant_plan", "consultant_plans"} {
		var regclass *string
		err := pool.QueryRow(ctx, `SELECT to_regclass($1)::text`, "public."+candidate).Scan(&regclass)
		if err != nil {
			return "", apperr.DataAccess("plan.resolve_table", err)
		}
		if regclass != nil {
			return candidate, nil
		}
	}
	return "", apperr.DataAccess("plan.resolve_table", errors.New("no plan table found"))
}

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

func scanPlan(row pgx.Row) (*ConsultantPlan, error) {
	var p ConsultantPlan
	err := row.Scan(&p.ID, &p.ConsultantID, &p.Title, &p.Status, &p.Notes, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repoPG) Create(ctx context.Context, p *ConsultantPlan) error {
	sql := fmt.Sprintf(`INSERT INTO %s (consultant_id, title, status, notes)
		VALUES ($1, $2, $3, $4)
		RETURNING %s`, r.table, planColumns)

	row := r.conn(ctx).QueryRow(ctx, sql, p.ConsultantID, p.Title, p.Status, p.Notes)
	created, err := scanPlan(row)
	if err != nil {
		return apperr.DataAccess("plan.create", err)
	}
	*p = *created
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*ConsultantPlan, error) {
	sql := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, planColumns, r.table)

	p, err := scanPlan(r.conn(ctx).QueryRow(ctx, sql, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, apperr.DataAccess("plan.get", err)
	}
	return p, nil
}

func (r *repoPG) Update(ctx context.Context, id uuid.UUID, upd PlanUpdate) (*ConsultantPlan, error) {
	sets := []string{"updated_at = now()"}
	args := []any{id}

	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if upd.Title != nil {
		add("title", *upd.Title)
	}
	if upd.Status != nil {
		add("status", *upd.Status)
	}
	if upd.Notes != nil {
		add("notes", *upd.Notes)
	}

	sql := fmt.Sprintf(`UPDATE %s SET %s WHERE id = $1 RETURNING %s`,
		r.table, strings.Join(sets, ", "), planColumns)

	p, err := scanPlan(r.conn(ctx).QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, apperr.DataAccess("plan.update", err)
	}
	return p, nil
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	sql := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.table)

	tag, err := r.conn(ctx).Exec(ctx, sql, id)
	if err != nil {
		return apperr.DataAccess("plan.delete", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (r *repoPG) ListByConsultant(ctx context.Context, consultantID uuid.UUID) ([]*ConsultantPlan, error) {
	sql := fmt.Sprintf(`SELECT %s FROM %s WHERE consultant_id = $1 ORDER BY created_at DESC`,
		planColumns, r.table)

	rows, err := r.conn(ctx).Query(ctx, sql, consultantID)
	if err != nil {
		return nil, apperr.DataAccess("plan.list", err)
	}
	defer rows.Close()

	var plans []*ConsultantPlan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, apperr.DataAccess("plan.list", err)
		}
		plans = append(plans, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.DataAccess("plan.list", err)
	}
	return plans, nil
}
