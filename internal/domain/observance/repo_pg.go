package observance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vitacoach/vitacoach/internal/platform/apperr"
	"github.com/vitacoach/vitacoach/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

// =========== Item Repository ===========

type itemRepoPG struct{ pool *pgxpool.Pool }

func NewItemRepoPG(pool *pgxpool.Pool) ItemRepository {
	return &itemRepoPG{pool: pool}
}

func (r *itemRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const itemCols = `id, consultant_id, consultant_plan_id, category, label,
	frequency, weekly_target, is_active, sort_order, created_at`

func scanItem(row pgx.Row) (*Item, error) {
	var it Item
	err := row.Scan(&it.ID, &it.ConsultantID, &it.ConsultantPlanID, &it.Category,
		&it.Label, &it.Frequency, &it.WeeklyTarget, &it.IsActive,
		&it.SortOrder, &it.CreatedAt)
	return &it, err
}

const insertItemSQL = `
	INSERT INTO observance_item (id, consultant_id, consultant_plan_id, category,
		label, frequency, weekly_target, is_active, sort_order)
	VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`

func (r *itemRepoPG) Create(ctx context.Context, it *Item) error {
	it.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, insertItemSQL,
		it.ID, it.ConsultantID, it.ConsultantPlanID, it.Category,
		it.Label, it.Frequency, it.WeeklyTarget, it.IsActive, it.SortOrder)
	return apperr.DataAccess("create observance item", err)
}

func (r *itemRepoPG) BulkCreate(ctx context.Context, items []*Item) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return apperr.DataAccess("begin bulk create", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, it := range items {
		it.ID = uuid.New()
		batch.Queue(insertItemSQL,
			it.ID, it.ConsultantID, it.ConsultantPlanID, it.Category,
			it.Label, it.Frequency, it.WeeklyTarget, it.IsActive, it.SortOrder)
	}

	br := tx.SendBatch(ctx, batch)
	for range items {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return apperr.DataAccess("bulk create observance items", err)
		}
	}
	if err := br.Close(); err != nil {
		return apperr.DataAccess("bulk create observance items", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return apperr.DataAccess("commit bulk create", err)
	}
	return nil
}

func (r *itemRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Item, error) {
	it, err := scanItem(r.conn(ctx).QueryRow(ctx,
		`SELECT `+itemCols+` FROM observance_item WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, apperr.DataAccess("get observance item", err)
	}
	return it, nil
}

func (r *itemRepoPG) Update(ctx context.Context, id uuid.UUID, upd ItemUpdate) (*Item, error) {
	set := ""
	var args []interface{}
	idx := 1

	add := func(col string, val interface{}) {
		if set != "" {
			set += ", "
		}
		set += fmt.Sprintf("%s = $%d", col, idx)
		args = append(args, val)
		idx++
	}

	if upd.ConsultantPlanID != nil {
		add("consultant_plan_id", *upd.ConsultantPlanID)
	}
	if upd.Category != nil {
		add("category", *upd.Category)
	}
	if upd.Label != nil {
		add("label", *upd.Label)
	}
	if upd.Frequency != nil {
		add("frequency", *upd.Frequency)
	}
	if upd.WeeklyTarget != nil {
		add("weekly_target", *upd.WeeklyTarget)
	}
	if upd.IsActive != nil {
		add("is_active", *upd.IsActive)
	}
	if upd.SortOrder != nil {
		add("sort_order", *upd.SortOrder)
	}

	if set == "" {
		return r.GetByID(ctx, id)
	}

	args = append(args, id)
	it, err := scanItem(r.conn(ctx).QueryRow(ctx, fmt.Sprintf(
		`UPDATE observance_item SET %s WHERE id = $%d RETURNING `+itemCols, set, idx),
		args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, apperr.DataAccess("update observance item", err)
	}
	return it, nil
}

func (r *itemRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM observance_item WHERE id = $1`, id)
	if err != nil {
		return apperr.DataAccess("delete observance item", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (r *itemRepoPG) List(ctx context.Context, consultantID uuid.UUID, planID *uuid.UUID, activeOnly bool) ([]*Item, error) {
	query := `SELECT ` + itemCols + ` FROM observance_item WHERE consultant_id = $1`
	args := []interface{}{consultantID}
	idx := 2

	if planID != nil {
		query += fmt.Sprintf(` AND consultant_plan_id = $%d`, idx)
		args = append(args, *planID)
		idx++
	}
	if activeOnly {
		query += ` AND is_active`
	}
	query += ` ORDER BY category, sort_order`

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, apperr.DataAccess("list observance items", err)
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, apperr.DataAccess("scan observance item", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.DataAccess("list observance items", err)
	}
	return items, nil
}

func (r *itemRepoPG) HasActive(ctx context.Context, consultantID uuid.UUID) (bool, error) {
	var exists bool
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM observance_item WHERE consultant_id = $1 AND is_active)`,
		consultantID).Scan(&exists)
	if err != nil {
		return false, apperr.DataAccess("probe active observance items", err)
	}
	return exists, nil
}

// =========== Log Repository ===========

type logRepoPG struct{ pool *pgxpool.Pool }

func NewLogRepoPG(pool *pgxpool.Pool) LogRepository {
	return &logRepoPG{pool: pool}
}

func (r *logRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

// Toggle relies on the UNIQUE (observance_item_id, date) index: concurrent
// toggles for the same item and day resolve inside the database, never in
// application code.
func (r *logRepoPG) Toggle(ctx context.Context, log *Log) error {
	log.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO observance_log (id, observance_item_id, consultant_id, date, done, notes)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (observance_item_id, date)
		DO UPDATE SET done = EXCLUDED.done, notes = EXCLUDED.notes`,
		log.ID, log.ObservanceItemID, log.ConsultantID, log.Date, log.Done, log.Notes)
	return apperr.DataAccess("toggle observance log", err)
}

func (r *logRepoPG) ListForRange(ctx context.Context, consultantID uuid.UUID, start, end time.Time) ([]*LogWithItem, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT l.id, l.observance_item_id, l.consultant_id, l.date, l.done, l.notes, l.created_at,
			i.label, i.category, i.frequency
		FROM observance_log l
		JOIN observance_item i ON i.id = l.observance_item_id
		WHERE l.consultant_id = $1 AND l.date BETWEEN $2 AND $3
		ORDER BY l.date DESC`,
		consultantID, start, end)
	if err != nil {
		return nil, apperr.DataAccess("list observance logs", err)
	}
	defer rows.Close()

	var logs []*LogWithItem
	for rows.Next() {
		var l LogWithItem
		if err := rows.Scan(&l.ID, &l.ObservanceItemID, &l.ConsultantID, &l.Date,
			&l.Done, &l.Notes, &l.CreatedAt,
			&l.ItemLabel, &l.ItemCategory, &l.ItemFrequency); err != nil {
			return nil, apperr.DataAccess("scan observance log", err)
		}
		logs = append(logs, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.DataAccess("list observance logs", err)
	}
	return logs, nil
}

func (r *logRepoPG) ListForDate(ctx context.Context, itemIDs []uuid.UUID, date time.Time) ([]*Log, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}

	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, observance_item_id, consultant_id, date, done, notes, created_at
		FROM observance_log
		WHERE observance_item_id = ANY($1) AND date = $2`,
		itemIDs, date)
	if err != nil {
		return nil, apperr.DataAccess("list logs for date", err)
	}
	defer rows.Close()

	var logs []*Log
	for rows.Next() {
		var l Log
		if err := rows.Scan(&l.ID, &l.ObservanceItemID, &l.ConsultantID, &l.Date,
			&l.Done, &l.Notes, &l.CreatedAt); err != nil {
			return nil, apperr.DataAccess("scan log for date", err)
		}
		logs = append(logs, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.DataAccess("list logs for date", err)
	}
	return logs, nil
}

func (r *logRepoPG) CountDoneInRange(ctx context.Context, consultantID uuid.UUID, start, end time.Time) (map[uuid.UUID]int, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT observance_item_id, COUNT(*)
		FROM observance_log
		WHERE consultant_id = $1 AND done AND date BETWEEN $2 AND $3
		GROUP BY observance_item_id`,
		consultantID, start, end)
	if err != nil {
		return nil, apperr.DataAccess("count done logs", err)
	}
	defer rows.Close()

	counts := make(map[uuid.UUID]int)
	for rows.Next() {
		var id uuid.UUID
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, apperr.DataAccess("scan done count", err)
		}
		counts[id] = n
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.DataAccess("count done logs", err)
	}
	return counts, nil
}
