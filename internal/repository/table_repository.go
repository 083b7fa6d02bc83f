package repository

import (
	"context"
	"database/sql"
	"strings"

	"tablebook/internal/model"
)

// TableRepo provides CRUD operations on the restaurant_tables table.
// Table numbers must be unique among active tables; the check runs in
// the same transaction as the write so two concurrent creates cannot
// both claim a number.  Deactivated tables are kept forever because
// reservations reference them.
type TableRepo struct {
	db *sql.DB
}

// NewTableRepo returns a new TableRepo bound to the given database.
func NewTableRepo(db *sql.DB) *TableRepo { return &TableRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions
// that span repositories.
func (r *TableRepo) DB() *sql.DB { return r.db }

const tableColumns = "id, number, seats, is_active, created_at, updated_at"

func scanTable(row interface{ Scan(...any) error }) (model.Table, error) {
	var t model.Table
	err := row.Scan(&t.ID, &t.Number, &t.Seats, &t.IsActive, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

// Create inserts a new table.  When the table is active, the number is
// checked for uniqueness among active tables first; ErrNumberTaken is
// returned on a clash.  The full row is returned on success.
func (r *TableRepo) Create(ctx context.Context, number, seats uint32, isActive bool) (*model.Table, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if isActive {
		if taken, err := numberTakenTx(ctx, tx, number, 0); err != nil {
			return nil, err
		} else if taken {
			return nil, ErrNumberTaken
		}
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO restaurant_tables (number, seats, is_active) VALUES (?, ?, ?)`,
		number, seats, isActive)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	t, err := scanTable(tx.QueryRowContext(ctx,
		`SELECT `+tableColumns+` FROM restaurant_tables WHERE id = ?`, id))
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return &t, nil
}

// numberTakenTx reports whether another active table already carries the
// number.  excludeID skips the row being updated (0 on create).
func numberTakenTx(ctx context.Context, tx *sql.Tx, number uint32, excludeID uint64) (bool, error) {
	var id uint64
	err := tx.QueryRowContext(ctx,
		`SELECT id FROM restaurant_tables WHERE number = ? AND is_active = 1 AND id <> ? LIMIT 1`,
		number, excludeID).Scan(&id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// List returns tables ordered by number.  When activeOnly is true only
// active tables are included; staff callers pass false to see the full
// registry.
func (r *TableRepo) List(ctx context.Context, activeOnly bool) ([]model.Table, error) {
	q := `SELECT ` + tableColumns + ` FROM restaurant_tables`
	if activeOnly {
		q += ` WHERE is_active = 1`
	}
	q += ` ORDER BY number ASC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	tables := make([]model.Table, 0)
	for rows.Next() {
		t, err := scanTable(rows)
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tables, nil
}

// GetByID returns a single table or sql.ErrNoRows.
func (r *TableRepo) GetByID(ctx context.Context, id uint64) (*model.Table, error) {
	t, err := scanTable(r.db.QueryRowContext(ctx,
		`SELECT `+tableColumns+` FROM restaurant_tables WHERE id = ?`, id))
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Update rewrites number, seats and the active flag.  Re-activating or
// renumbering a table re-runs the active-number uniqueness check.
// Existing reservations are untouched; deactivation only removes the
// table from future availability results.
func (r *TableRepo) Update(ctx context.Context, id uint64, number, seats uint32, isActive bool) (*model.Table, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if isActive {
		if taken, err := numberTakenTx(ctx, tx, number, id); err != nil {
			return nil, err
		} else if taken {
			return nil, ErrNumberTaken
		}
	}
	res, err := tx.ExecContext(ctx,
		`UPDATE restaurant_tables SET number = ?, seats = ?, is_active = ? WHERE id = ?`,
		number, seats, isActive, id)
	if err != nil {
		return nil, err
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, err
	} else if n == 0 {
		// Either the id is unknown or the row is unchanged; look it up.
		var exists uint64
		if err := tx.QueryRowContext(ctx,
			`SELECT id FROM restaurant_tables WHERE id = ?`, id).Scan(&exists); err != nil {
			return nil, err
		}
	}
	t, err := scanTable(tx.QueryRowContext(ctx,
		`SELECT `+tableColumns+` FROM restaurant_tables WHERE id = ?`, id))
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return &t, nil
}

// Delete removes a table permanently.  Tables referenced by any
// reservation, cancelled or not, are protected: ErrTableInUse is
// returned and nothing is deleted.  Unknown ids yield sql.ErrNoRows.
func (r *TableRepo) Delete(ctx context.Context, id uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	var refs int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reservation_tables WHERE table_id = ?`, id).Scan(&refs); err != nil {
		return err
	}
	if refs > 0 {
		return ErrTableInUse
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM restaurant_tables WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return sql.ErrNoRows
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// LockTablesTx loads the requested tables inside the transaction with
// SELECT ... FOR UPDATE.  Locking the table rows serialises concurrent
// reservation admissions touching the same tables: the second
// transaction blocks here until the first commits, and then sees its
// freshly inserted reservation in the conflict check.  Every requested
// id must name an active table or ErrTableInactive is returned.
func (r *TableRepo) LockTablesTx(ctx context.Context, tx *sql.Tx, ids []uint64) ([]model.Table, error) {
	if len(ids) == 0 {
		return nil, ErrTableInactive
	}
	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}
	q := `SELECT ` + tableColumns + ` FROM restaurant_tables
	      WHERE id IN (` + strings.Join(placeholders, ",") + `) FOR UPDATE`
	rows, err := tx.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	tables := make([]model.Table, 0, len(ids))
	for rows.Next() {
		t, err := scanTable(rows)
		if err != nil {
			return nil, err
		}
		if !t.IsActive {
			return nil, ErrTableInactive
		}
		tables = append(tables, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(tables) != len(ids) {
		return nil, ErrTableInactive
	}
	return tables, nil
}
