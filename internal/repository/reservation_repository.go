package repository

import (
    "context"
    "database/sql"
    "errors"
    "strings"
    "time"

    "github.com/iliyamo/restaurant-reservation/internal/booking"
    "github.com/iliyamo/restaurant-reservation/internal/model"
)

// ReservationRepo persists reservations and implements the booking
// core's store interfaces: ReservationSource for availability reads and
// TxStore for the allocation unit of work.  All timestamps are UTC.
//
// The reservations table keeps indices on (table_id, start_time,
// end_time) and (status) so overlap queries resolve on the index.
type ReservationRepo struct {
    db *sql.DB
}

// NewReservationRepo returns a ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// DB exposes the underlying handle for callers that need their own
// transactions.
func (r *ReservationRepo) DB() *sql.DB { return r.db }

const reservationCols = `id, user_id, guest_id, table_id, start_time, end_time,
       guest_count, status, phone_number, comments, created_at, updated_at`

func scanReservation(row interface{ Scan(...any) error }) (*model.Reservation, error) {
    var (
        res      model.Reservation
        userID   sql.NullInt64
        guestID  sql.NullInt64
        comments sql.NullString
    )
    err := row.Scan(&res.ID, &userID, &guestID, &res.TableID, &res.StartTime, &res.EndTime,
        &res.GuestCount, &res.Status, &res.PhoneNumber, &comments, &res.CreatedAt, &res.UpdatedAt)
    if err != nil {
        return nil, err
    }
    switch {
    case userID.Valid:
        res.Actor = model.Actor{Kind: model.ActorUser, ID: uint64(userID.Int64)}
    case guestID.Valid:
        res.Actor = model.Actor{Kind: model.ActorGuest, ID: uint64(guestID.Int64)}
    }
    res.Comments = comments.String
    return &res, nil
}

// ConfirmedBetween returns every CONFIRMED reservation overlapping the
// half-open window [from, to), across all tables, in one query.  The
// availability engine evaluates the returned snapshot in memory.
func (r *ReservationRepo) ConfirmedBetween(ctx context.Context, from, to time.Time) ([]model.Reservation, error) {
    const q = `SELECT ` + reservationCols + `
               FROM reservations
               WHERE status = ? AND start_time < ? AND end_time > ?
               ORDER BY table_id, start_time`
    rows, err := r.db.QueryContext(ctx, q, model.StatusConfirmed, to, from)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Reservation, 0)
    for rows.Next() {
        res, err := scanReservation(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, *res)
    }
    return out, rows.Err()
}

// GetByID loads one reservation.  booking.ErrReservationNotFound when absent.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (*model.Reservation, error) {
    res, err := scanReservation(r.db.QueryRowContext(ctx,
        `SELECT `+reservationCols+` FROM reservations WHERE id = ?`, id))
    if errors.Is(err, sql.ErrNoRows) {
        return nil, booking.ErrReservationNotFound
    }
    return res, err
}

// ListByUser returns a user's reservations, newest first.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Reservation, error) {
    return r.list(ctx, `SELECT `+reservationCols+`
        FROM reservations WHERE user_id = ? ORDER BY start_time DESC`, userID)
}

// ListByGuestPhone returns the reservations booked under a guest phone
// number, newest first.
func (r *ReservationRepo) ListByGuestPhone(ctx context.Context, phone string) ([]model.Reservation, error) {
    return r.list(ctx, `SELECT `+prefixedReservationCols("r")+`
        FROM reservations r
        JOIN guests g ON g.id = r.guest_id
        WHERE g.phone_number = ?
        ORDER BY r.start_time DESC`, strings.TrimSpace(phone))
}

func (r *ReservationRepo) list(ctx context.Context, q string, arg any) ([]model.Reservation, error) {
    rows, err := r.db.QueryContext(ctx, q, arg)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Reservation, 0)
    for rows.Next() {
        res, err := scanReservation(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, *res)
    }
    return out, rows.Err()
}

func prefixedReservationCols(alias string) string {
    cols := strings.Split(reservationCols, ",")
    for i, c := range cols {
        cols[i] = alias + "." + strings.TrimSpace(c)
    }
    return strings.Join(cols, ", ")
}

// Delete removes a reservation outright.  Normal flows cancel via
// status update; this backs the admin endpoint.
func (r *ReservationRepo) Delete(ctx context.Context, id uint64) error {
    res, err := r.db.ExecContext(ctx, `DELETE FROM reservations WHERE id = ?`, id)
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        return booking.ErrReservationNotFound
    }
    return nil
}

// Begin opens an allocation transaction.  The returned Tx locks the
// table row before the conflict re-check, so concurrent allocations on
// the same table serialise at the storage layer.
func (r *ReservationRepo) Begin(ctx context.Context) (booking.Tx, error) {
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return nil, err
    }
    return &allocTx{tx: tx}, nil
}

// allocTx implements booking.Tx on top of *sql.Tx.
type allocTx struct {
    tx *sql.Tx
}

// LockTable takes the exclusive row lock that serialises allocations
// per table for the rest of the transaction.
func (t *allocTx) LockTable(ctx context.Context, tableID uint64) error {
    var id uint64
    err := t.tx.QueryRowContext(ctx,
        `SELECT id FROM tables WHERE id = ? FOR UPDATE`, tableID).Scan(&id)
    if errors.Is(err, sql.ErrNoRows) {
        return booking.ErrTableNotFound
    }
    return err
}

// ConfirmedOverlapping counts confirmed reservations for the table
// overlapping [iv.Start, iv.End).  Runs after LockTable, making it the
// decisive double-booking check.
func (t *allocTx) ConfirmedOverlapping(ctx context.Context, tableID uint64, iv model.Interval) (int, error) {
    var n int
    err := t.tx.QueryRowContext(ctx,
        `SELECT COUNT(*) FROM reservations
         WHERE table_id = ? AND status = ? AND start_time < ? AND end_time > ?`,
        tableID, model.StatusConfirmed, iv.End, iv.Start).Scan(&n)
    return n, err
}

// UserByID loads a user inside the transaction.  booking.ErrUserNotFound
// when absent.
func (t *allocTx) UserByID(ctx context.Context, id uint64) (*model.User, error) {
    var u model.User
    err := t.tx.QueryRowContext(ctx,
        `SELECT id, phone_number, first_name, last_name FROM users WHERE id = ?`, id).
        Scan(&u.ID, &u.PhoneNumber, &u.FirstName, &u.LastName)
    if errors.Is(err, sql.ErrNoRows) {
        return nil, booking.ErrUserNotFound
    }
    if err != nil {
        return nil, err
    }
    return &u, nil
}

// GuestByPhone loads a guest by unique phone number inside the
// transaction.  booking.ErrGuestNotFound when absent.
func (t *allocTx) GuestByPhone(ctx context.Context, phone string) (*model.Guest, error) {
    var g model.Guest
    err := t.tx.QueryRowContext(ctx,
        `SELECT id, phone_number, name, created_at FROM guests WHERE phone_number = ?`, phone).
        Scan(&g.ID, &g.PhoneNumber, &g.Name, &g.CreatedAt)
    if errors.Is(err, sql.ErrNoRows) {
        return nil, booking.ErrGuestNotFound
    }
    if err != nil {
        return nil, err
    }
    return &g, nil
}

// CreateGuest inserts a guest row inside the transaction so it rolls
// back with a failed reservation.  A duplicate phone (raced by another
// request) falls back to loading the winner's row.
func (t *allocTx) CreateGuest(ctx context.Context, phone, name string) (*model.Guest, error) {
    res, err := t.tx.ExecContext(ctx,
        `INSERT INTO guests (phone_number, name) VALUES (?, ?)`, phone, name)
    if err != nil {
        if strings.Contains(strings.ToLower(err.Error()), "1062") {
            return t.GuestByPhone(ctx, phone)
        }
        return nil, err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return nil, err
    }
    var g model.Guest
    err = t.tx.QueryRowContext(ctx,
        `SELECT id, phone_number, name, created_at FROM guests WHERE id = ?`, id).
        Scan(&g.ID, &g.PhoneNumber, &g.Name, &g.CreatedAt)
    if err != nil {
        return nil, err
    }
    return &g, nil
}

// ReservationByID loads a reservation for update inside the transaction.
func (t *allocTx) ReservationByID(ctx context.Context, id uint64) (*model.Reservation, error) {
    res, err := scanReservation(t.tx.QueryRowContext(ctx,
        `SELECT `+reservationCols+` FROM reservations WHERE id = ? FOR UPDATE`, id))
    if errors.Is(err, sql.ErrNoRows) {
        return nil, booking.ErrReservationNotFound
    }
    return res, err
}

// InsertReservation persists the reservation, mapping the actor variant
// onto the nullable user_id/guest_id column pair, and queries the row
// back to populate the id and timestamps.
func (t *allocTx) InsertReservation(ctx context.Context, res *model.Reservation) error {
    var userID, guestID any
    if id, ok := res.Actor.UserID(); ok {
        userID = id
    }
    if id, ok := res.Actor.GuestID(); ok {
        guestID = id
    }
    out, err := t.tx.ExecContext(ctx,
        `INSERT INTO reservations
           (user_id, guest_id, table_id, start_time, end_time, guest_count, status, phone_number, comments)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
        userID, guestID, res.TableID, res.StartTime, res.EndTime,
        res.GuestCount, res.Status, res.PhoneNumber, res.Comments)
    if err != nil {
        return err
    }
    id, err := out.LastInsertId()
    if err != nil {
        return err
    }
    res.ID = uint64(id)
    return t.tx.QueryRowContext(ctx,
        `SELECT created_at, updated_at FROM reservations WHERE id = ?`, res.ID).
        Scan(&res.CreatedAt, &res.UpdatedAt)
}

// UpdateReservation rewrites the mutable reservation fields.
func (t *allocTx) UpdateReservation(ctx context.Context, res *model.Reservation) error {
    _, err := t.tx.ExecContext(ctx,
        `UPDATE reservations SET guest_count = ?, status = ?, comments = ? WHERE id = ?`,
        res.GuestCount, res.Status, res.Comments, res.ID)
    if err != nil {
        return err
    }
    return t.tx.QueryRowContext(ctx,
        `SELECT updated_at FROM reservations WHERE id = ?`, res.ID).Scan(&res.UpdatedAt)
}

func (t *allocTx) Commit() error   { return t.tx.Commit() }
func (t *allocTx) Rollback() error { return t.tx.Rollback() }
