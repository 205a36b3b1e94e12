package repository

import (
    "context"
    "errors"
    "regexp"
    "testing"
    "time"

    "github.com/DATA-DOG/go-sqlmock"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/restaurant-reservation/internal/booking"
    "github.com/iliyamo/restaurant-reservation/internal/model"
)

var reservationColNames = []string{
    "id", "user_id", "guest_id", "table_id", "start_time", "end_time",
    "guest_count", "status", "phone_number", "comments", "created_at", "updated_at",
}

func slot18(t *testing.T) (time.Time, time.Time) {
    t.Helper()
    start := time.Date(2025, 5, 9, 18, 0, 0, 0, time.UTC)
    return start, start.Add(time.Hour)
}

func TestConfirmedBetween(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()
    repo := NewReservationRepo(db)

    from := time.Date(2025, 5, 9, 10, 0, 0, 0, time.UTC)
    to := time.Date(2025, 5, 9, 23, 0, 0, 0, time.UTC)
    start, end := slot18(t)
    now := time.Now().UTC()

    rows := sqlmock.NewRows(reservationColNames).
        AddRow(1, 7, nil, 3, start, end, 2, "CONFIRMED", "+15550001", "window", now, now).
        AddRow(2, nil, 9, 4, start, end, 4, "CONFIRMED", "+15550002", nil, now, now)

    mock.ExpectQuery(regexp.QuoteMeta("FROM reservations")).
        WithArgs(model.StatusConfirmed, to, from).
        WillReturnRows(rows)

    out, err := repo.ConfirmedBetween(context.Background(), from, to)
    require.NoError(t, err)
    require.Len(t, out, 2)

    uid, ok := out[0].Actor.UserID()
    require.True(t, ok)
    assert.Equal(t, uint64(7), uid)
    assert.Equal(t, "window", out[0].Comments)

    gid, ok := out[1].Actor.GuestID()
    require.True(t, ok)
    assert.Equal(t, uint64(9), gid)
    assert.Empty(t, out[1].Comments)

    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDNotFound(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()
    repo := NewReservationRepo(db)

    mock.ExpectQuery(regexp.QuoteMeta("FROM reservations WHERE id = ?")).
        WithArgs(uint64(42)).
        WillReturnRows(sqlmock.NewRows(reservationColNames))

    _, err = repo.GetByID(context.Background(), 42)
    assert.True(t, errors.Is(err, booking.ErrReservationNotFound))
    assert.NoError(t, mock.ExpectationsWereMet())
}

// TestAllocTxConflict drives the allocation through the real SQL
// transaction shape: the table row is locked, the overlap count comes
// back positive and the transaction rolls back with ErrSlotTaken.
func TestAllocTxConflict(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()
    repo := NewReservationRepo(db)
    start, end := slot18(t)

    mock.ExpectBegin()
    mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM tables WHERE id = ? FOR UPDATE")).
        WithArgs(uint64(3)).
        WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
    mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM reservations")).
        WithArgs(uint64(3), model.StatusConfirmed, end, start).
        WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
    mock.ExpectRollback()

    ctx := context.Background()
    tx, err := repo.Begin(ctx)
    require.NoError(t, err)

    require.NoError(t, tx.LockTable(ctx, 3))
    n, err := tx.ConfirmedOverlapping(ctx, 3, model.Interval{Start: start, End: end})
    require.NoError(t, err)
    assert.Equal(t, 1, n)
    require.NoError(t, tx.Rollback())

    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAllocTxLockTableMissing(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()
    repo := NewReservationRepo(db)

    mock.ExpectBegin()
    mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM tables WHERE id = ? FOR UPDATE")).
        WithArgs(uint64(99)).
        WillReturnRows(sqlmock.NewRows([]string{"id"}))
    mock.ExpectRollback()

    ctx := context.Background()
    tx, err := repo.Begin(ctx)
    require.NoError(t, err)

    err = tx.LockTable(ctx, 99)
    assert.True(t, errors.Is(err, booking.ErrTableNotFound))
    require.NoError(t, tx.Rollback())
    assert.NoError(t, mock.ExpectationsWereMet())
}

// TestAllocTxInsertFlow covers the happy path: lock, zero conflicts,
// lazy guest creation and the reservation insert, all on one
// transaction that commits.
func TestAllocTxInsertFlow(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()
    repo := NewReservationRepo(db)
    start, end := slot18(t)
    now := time.Now().UTC()

    mock.ExpectBegin()
    mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM tables WHERE id = ? FOR UPDATE")).
        WithArgs(uint64(3)).
        WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
    mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM reservations")).
        WithArgs(uint64(3), model.StatusConfirmed, end, start).
        WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
    mock.ExpectQuery(regexp.QuoteMeta("FROM guests WHERE phone_number = ?")).
        WithArgs("+15550001").
        WillReturnRows(sqlmock.NewRows([]string{"id", "phone_number", "name", "created_at"}))
    mock.ExpectExec(regexp.QuoteMeta("INSERT INTO guests")).
        WithArgs("+15550001", "Dana").
        WillReturnResult(sqlmock.NewResult(9, 1))
    mock.ExpectQuery(regexp.QuoteMeta("FROM guests WHERE id = ?")).
        WithArgs(int64(9)).
        WillReturnRows(sqlmock.NewRows([]string{"id", "phone_number", "name", "created_at"}).
            AddRow(9, "+15550001", "Dana", now))
    mock.ExpectExec(regexp.QuoteMeta("INSERT INTO reservations")).
        WithArgs(nil, uint64(9), uint64(3), start, end, uint32(2), "CONFIRMED", "+15550001", "").
        WillReturnResult(sqlmock.NewResult(101, 1))
    mock.ExpectQuery(regexp.QuoteMeta("SELECT created_at, updated_at FROM reservations WHERE id = ?")).
        WithArgs(uint64(101)).
        WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
    mock.ExpectCommit()

    ctx := context.Background()
    tx, err := repo.Begin(ctx)
    require.NoError(t, err)

    require.NoError(t, tx.LockTable(ctx, 3))
    n, err := tx.ConfirmedOverlapping(ctx, 3, model.Interval{Start: start, End: end})
    require.NoError(t, err)
    require.Zero(t, n)

    actor, phone, err := booking.ResolveActor(ctx, tx, booking.ActorInput{PhoneNumber: "+15550001", Name: "Dana"})
    require.NoError(t, err)
    gid, ok := actor.GuestID()
    require.True(t, ok)
    assert.Equal(t, uint64(9), gid)

    res := &model.Reservation{
        Actor:       actor,
        TableID:     3,
        StartTime:   start,
        EndTime:     end,
        GuestCount:  2,
        Status:      model.StatusConfirmed,
        PhoneNumber: phone,
    }
    require.NoError(t, tx.InsertReservation(ctx, res))
    assert.Equal(t, uint64(101), res.ID)
    require.NoError(t, tx.Commit())

    assert.NoError(t, mock.ExpectationsWereMet())
}
