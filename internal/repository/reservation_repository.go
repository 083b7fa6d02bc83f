package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"tablebook/internal/model"
)

// ReservationRepo provides CRUD operations for reservations and their
// table associations.  A reservation links to one or more tables through
// the reservation_tables join table.  All timestamps are stored in UTC.
//
// Admission control is split between this repository and TableRepo: the
// handler locks the requested table rows (TableRepo.LockTablesTx), asks
// OverlappingTableIDsTx for conflicts and, when the set is empty, calls
// CreateTx/LinkTablesTx, all inside one transaction, so concurrent
// creates for the same table and window can never both commit.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// DB exposes the underlying handle for transaction control.
func (r *ReservationRepo) DB() *sql.DB { return r.db }

const reservationColumns = "id, customer_name, customer_phone, start_at, guests, notes, status, created_at, updated_at"

func scanReservation(row interface{ Scan(...any) error }) (model.Reservation, error) {
	var res model.Reservation
	var notes sql.NullString
	err := row.Scan(&res.ID, &res.CustomerName, &res.CustomerPhone, &res.StartAt,
		&res.Guests, &notes, &res.Status, &res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		return res, err
	}
	res.StartAt = res.StartAt.UTC()
	if notes.Valid {
		res.Notes = notes.String
	}
	return res, nil
}

// OverlappingTableIDs returns the ids of tables held by a non-cancelled
// reservation whose 2-hour window overlaps the window starting at
// startAt.  It is the read path of the availability resolver: no locks,
// no side effects, safe to call on every date change in the booking form.
func (r *ReservationRepo) OverlappingTableIDs(ctx context.Context, startAt time.Time) (map[uint64]struct{}, error) {
	return overlappingTableIDs(ctx, r.db, startAt, nil)
}

// OverlappingTableIDsTx is the admission-time variant: it runs inside
// the caller's transaction and can be narrowed to the candidate table
// set.  The caller must already hold row locks on those tables.
func (r *ReservationRepo) OverlappingTableIDsTx(ctx context.Context, tx *sql.Tx, startAt time.Time, tableIDs []uint64) (map[uint64]struct{}, error) {
	return overlappingTableIDs(ctx, tx, startAt, tableIDs)
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Window overlap on fixed-length windows: an existing reservation at
// r.start collides with a request at t iff r.start < t+2h and
// r.start > t-2h (half-open on both ends).
func overlappingTableIDs(ctx context.Context, q queryer, startAt time.Time, tableIDs []uint64) (map[uint64]struct{}, error) {
	startAt = startAt.UTC()
	query := `SELECT DISTINCT rt.table_id
	          FROM reservation_tables rt
	          JOIN reservations r ON r.id = rt.reservation_id
	          WHERE r.status <> ?
	            AND r.start_at < ?
	            AND r.start_at > ?`
	args := []any{
		model.StatusCancelled,
		startAt.Add(model.ReservationDuration),
		startAt.Add(-model.ReservationDuration),
	}
	if len(tableIDs) > 0 {
		placeholders := make([]string, len(tableIDs))
		for i, id := range tableIDs {
			placeholders[i] = "?"
			args = append(args, id)
		}
		query += ` AND rt.table_id IN (` + strings.Join(placeholders, ",") + `)`
	}
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	occupied := make(map[uint64]struct{})
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		occupied[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return occupied, nil
}

// CreateTx inserts a new reservation within the scope of an existing
// transaction and populates the generated id and timestamps on res.
// The caller must link tables and commit or roll back.
func (r *ReservationRepo) CreateTx(ctx context.Context, tx *sql.Tx, res *model.Reservation) error {
	result, err := tx.ExecContext(ctx,
		`INSERT INTO reservations (customer_name, customer_phone, start_at, guests, notes, status)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		res.CustomerName, res.CustomerPhone, res.StartAt.UTC(), res.Guests, res.Notes, res.Status)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	fresh, err := scanReservation(tx.QueryRowContext(ctx,
		`SELECT `+reservationColumns+` FROM reservations WHERE id = ?`, id))
	if err != nil {
		return err
	}
	tables := res.Tables
	*res = fresh
	res.Tables = tables
	return nil
}

// LinkTablesTx inserts the reservation_tables rows for a reservation in
// a single statement.  Passing an empty slice has no effect.
func (r *ReservationRepo) LinkTablesTx(ctx context.Context, tx *sql.Tx, reservationID uint64, tableIDs []uint64) error {
	if len(tableIDs) == 0 {
		return nil
	}
	query := `INSERT INTO reservation_tables (reservation_id, table_id) VALUES `
	args := make([]any, 0, len(tableIDs)*2)
	for i, id := range tableIDs {
		if i > 0 {
			query += ","
		}
		query += "(?, ?)"
		args = append(args, reservationID, id)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// GetByID returns a reservation with its tables populated, or
// sql.ErrNoRows when it does not exist.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (*model.Reservation, error) {
	res, err := scanReservation(r.db.QueryRowContext(ctx,
		`SELECT `+reservationColumns+` FROM reservations WHERE id = ?`, id))
	if err != nil {
		return nil, err
	}
	list := []model.Reservation{res}
	if err := r.attachTables(ctx, list); err != nil {
		return nil, err
	}
	return &list[0], nil
}

// List returns reservations newest first, each with its tables
// populated.  statusFilter narrows to a single status when non-empty.
func (r *ReservationRepo) List(ctx context.Context, statusFilter string) ([]model.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations`
	args := []any{}
	if statusFilter != "" {
		query += ` WHERE status = ?`
		args = append(args, statusFilter)
	}
	query += ` ORDER BY start_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := make([]model.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.attachTables(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// ListBetween returns the reservations whose window starts in
// [from, to), without table hydration.  Used by the stats aggregator,
// which only needs guests, status and start time.
func (r *ReservationRepo) ListBetween(ctx context.Context, from, to time.Time) ([]model.Reservation, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+reservationColumns+` FROM reservations WHERE start_at >= ? AND start_at < ? ORDER BY start_at ASC`,
		from.UTC(), to.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := make([]model.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

// attachTables populates the Tables slice of every reservation in list
// with a single IN query.  Tables are ordered by number within each
// reservation for deterministic output.
func (r *ReservationRepo) attachTables(ctx context.Context, list []model.Reservation) error {
	if len(list) == 0 {
		return nil
	}
	index := make(map[uint64]int, len(list))
	placeholders := make([]string, len(list))
	args := make([]any, len(list))
	for i := range list {
		list[i].Tables = []model.Table{}
		index[list[i].ID] = i
		placeholders[i] = "?"
		args[i] = list[i].ID
	}
	query := `SELECT rt.reservation_id, t.id, t.number, t.seats, t.is_active, t.created_at, t.updated_at
	          FROM reservation_tables rt
	          JOIN restaurant_tables t ON t.id = rt.table_id
	          WHERE rt.reservation_id IN (` + strings.Join(placeholders, ",") + `)
	          ORDER BY rt.reservation_id, t.number`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var rid uint64
		var t model.Table
		if err := rows.Scan(&rid, &t.ID, &t.Number, &t.Seats, &t.IsActive, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return err
		}
		i, ok := index[rid]
		if !ok {
			continue
		}
		list[i].Tables = append(list[i].Tables, t)
	}
	return rows.Err()
}

// UpdateStatus moves a reservation to newStatus and returns the fresh
// row with tables.  A self-transition is a no-op that still returns the
// reservation.  No availability re-check is performed when a
// reservation leaves CANCELLED; this can recreate a double booking
// (known gap, kept deliberately).  Concurrent updates to the same
// reservation are last-writer-wins.
func (r *ReservationRepo) UpdateStatus(ctx context.Context, id uint64, newStatus string) (*model.Reservation, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE reservations SET status = ? WHERE id = ?`, newStatus, id)
	if err != nil {
		return nil, err
	}
	if _, err := res.RowsAffected(); err != nil {
		return nil, err
	}
	// A self-transition also reports zero affected rows, so existence is
	// settled by the read-back rather than the row count.
	return r.GetByID(ctx, id)
}

// Delete permanently removes a reservation and its table links.
// Unknown ids yield sql.ErrNoRows.  There is no soft delete.
func (r *ReservationRepo) Delete(ctx context.Context, id uint64) error {
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
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM reservation_tables WHERE reservation_id = ?`, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM reservations WHERE id = ?`, id)
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
