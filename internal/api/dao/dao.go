package dao

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Session is the database handle a DAO call executes against. Both *sqlx.DB
// and *sqlx.Tx satisfy it. The DAO borrows a session per call and never
// commits or rolls back; that is the service layer's responsibility.
type Session interface {
	sqlx.ExtContext
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
}

// Descriptor describes how one record type is laid out in storage and how
// its create/update shapes bind to columns.
type Descriptor[C any, U any] struct {
	// Table is the table name.
	Table string

	// Columns is the full select list, including server-assigned columns.
	Columns []string

	// InsertColumns are the columns populated from the create shape. Their
	// values bind through the shape's db tags as named parameters.
	InsertColumns []string

	// OrderBy makes pagination deterministic across calls.
	OrderBy string

	// BindUpdate maps an update shape to the columns it sets. Absent fields
	// must be omitted so updates stay partial.
	BindUpdate func(U) map[string]interface{}
}

// DAO performs create/read/update/delete against one record type R and
// translates every row it returns into the business model M through a single
// required hook. C and U are the create and update shapes.
type DAO[R any, M any, C any, U any] struct {
	desc    Descriptor[C, U]
	toModel func(R) M
	logger  *slog.Logger

	selectList string
}

// New builds a DAO from a record-type descriptor and the record-to-model
// translation hook.
func New[R any, M any, C any, U any](desc Descriptor[C, U], toModel func(R) M, logger *slog.Logger) *DAO[R, M, C, U] {
	return &DAO[R, M, C, U]{
		desc:       desc,
		toModel:    toModel,
		logger:     logger,
		selectList: strings.Join(desc.Columns, ", "),
	}
}

// Create inserts a new record built from all fields of in and returns it
// reloaded in the same round trip, so server-assigned columns such as id and
// created_at are populated. Constraint violations propagate unmodified; the
// caller owns the rollback.
func (d *DAO[R, M, C, U]) Create(ctx context.Context, sess Session, in C) (M, error) {
	var zero M

	placeholders := make([]string, len(d.desc.InsertColumns))
	for i, col := range d.desc.InsertColumns {
		placeholders[i] = ":" + col
	}

	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
		d.desc.Table,
		strings.Join(d.desc.InsertColumns, ", "),
		strings.Join(placeholders, ", "),
		d.selectList,
	)

	rows, err := sqlx.NamedQueryContext(ctx, sess, query, in)
	if err != nil {
		d.logger.Error("Failed to insert record",
			slog.String("table", d.desc.Table),
			slog.Any("error", err),
		)
		return zero, fmt.Errorf("failed to insert into %s: %w", d.desc.Table, err)
	}
	defer rows.Close()

	rec, err := scanOne[R](rows)
	if err != nil {
		return zero, fmt.Errorf("failed to reload inserted %s row: %w", d.desc.Table, err)
	}

	d.logger.Info("Record created", slog.String("table", d.desc.Table))
	return d.toModel(rec), nil
}

// GetByID returns the record with the given id, or nil when no row matches.
// Absence is a normal return value, not an error.
func (d *DAO[R, M, C, U]) GetByID(ctx context.Context, sess Session, id uuid.UUID) (*M, error) {
	var rec R
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", d.selectList, d.desc.Table)

	err := sess.GetContext(ctx, &rec, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		d.logger.Debug("Record not found",
			slog.String("table", d.desc.Table),
			slog.String("id", id.String()),
		)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s row: %w", d.desc.Table, err)
	}

	m := d.toModel(rec)
	return &m, nil
}

// GetAll returns up to limit records starting at offset, ordered by the
// descriptor's OrderBy clause. The total row count is computed alongside for
// observability; an empty page at an offset beyond the end of the table is a
// normal situation, not an error.
func (d *DAO[R, M, C, U]) GetAll(ctx context.Context, sess Session, limit, offset int) ([]M, error) {
	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", d.desc.Table)
	if err := sess.GetContext(ctx, &total, countQuery); err != nil {
		return nil, fmt.Errorf("failed to count %s rows: %w", d.desc.Table, err)
	}

	if total == 0 {
		d.logger.Warn("Table is empty", slog.String("table", d.desc.Table))
	}

	query := fmt.Sprintf(
		"SELECT %s FROM %s ORDER BY %s LIMIT $1 OFFSET $2",
		d.selectList, d.desc.Table, d.desc.OrderBy,
	)

	recs := []R{}
	if err := sess.SelectContext(ctx, &recs, query, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to list %s rows: %w", d.desc.Table, err)
	}

	if len(recs) == 0 && total > 0 {
		d.logger.Warn("Pagination returned no rows",
			slog.String("table", d.desc.Table),
			slog.Int("limit", limit),
			slog.Int("offset", offset),
			slog.Int("total", total),
		)
	} else {
		d.logger.Debug("Records listed",
			slog.String("table", d.desc.Table),
			slog.Int("returned", len(recs)),
			slog.Int("total", total),
		)
	}

	models := make([]M, len(recs))
	for i, rec := range recs {
		models[i] = d.toModel(rec)
	}
	return models, nil
}

// Update loads the record with the given id and applies only the fields
// present in in. Returns nil when no row matches. An update shape with no
// fields set issues no UPDATE and returns the stored record unchanged.
func (d *DAO[R, M, C, U]) Update(ctx context.Context, sess Session, id uuid.UUID, in U) (*M, error) {
	var rec R
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", d.selectList, d.desc.Table)

	err := sess.GetContext(ctx, &rec, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		d.logger.Warn("Cannot update, record not found",
			slog.String("table", d.desc.Table),
			slog.String("id", id.String()),
		)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s row: %w", d.desc.Table, err)
	}

	set := d.desc.BindUpdate(in)
	if len(set) == 0 {
		m := d.toModel(rec)
		return &m, nil
	}

	cols := make([]string, 0, len(set))
	for col := range set {
		cols = append(cols, col)
	}
	sort.Strings(cols)

	assignments := make([]string, len(cols))
	for i, col := range cols {
		assignments[i] = fmt.Sprintf("%s = :%s", col, col)
	}
	set["id"] = id

	updateQuery := fmt.Sprintf(
		"UPDATE %s SET %s WHERE id = :id RETURNING %s",
		d.desc.Table,
		strings.Join(assignments, ", "),
		d.selectList,
	)

	rows, err := sqlx.NamedQueryContext(ctx, sess, updateQuery, set)
	if err != nil {
		d.logger.Error("Failed to update record",
			slog.String("table", d.desc.Table),
			slog.String("id", id.String()),
			slog.Any("error", err),
		)
		return nil, fmt.Errorf("failed to update %s row: %w", d.desc.Table, err)
	}
	defer rows.Close()

	updated, err := scanOne[R](rows)
	if err != nil {
		return nil, fmt.Errorf("failed to reload updated %s row: %w", d.desc.Table, err)
	}

	d.logger.Info("Record updated",
		slog.String("table", d.desc.Table),
		slog.String("id", id.String()),
		slog.Any("fields", cols),
	)

	m := d.toModel(updated)
	return &m, nil
}

// Delete removes the record with the given id. Returns false without side
// effects when no row matches.
func (d *DAO[R, M, C, U]) Delete(ctx context.Context, sess Session, id uuid.UUID) (bool, error) {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = $1", d.desc.Table)

	res, err := sess.ExecContext(ctx, query, id)
	if err != nil {
		d.logger.Error("Failed to delete record",
			slog.String("table", d.desc.Table),
			slog.String("id", id.String()),
			slog.Any("error", err),
		)
		return false, fmt.Errorf("failed to delete %s row: %w", d.desc.Table, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows for %s: %w", d.desc.Table, err)
	}

	if affected == 0 {
		d.logger.Warn("Cannot delete, record not found",
			slog.String("table", d.desc.Table),
			slog.String("id", id.String()),
		)
		return false, nil
	}

	d.logger.Info("Record deleted",
		slog.String("table", d.desc.Table),
		slog.String("id", id.String()),
	)
	return true, nil
}

// scanOne reads exactly one struct row out of a RETURNING result set.
func scanOne[R any](rows *sqlx.Rows) (R, error) {
	var rec R

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return rec, err
		}
		return rec, sql.ErrNoRows
	}
	if err := rows.StructScan(&rec); err != nil {
		return rec, err
	}
	return rec, rows.Close()
}
