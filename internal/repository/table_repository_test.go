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
)

var tableColNames = []string{"id", "table_number", "capacity", "is_available", "created_at", "updated_at"}

func TestTableCreateDuplicateNumber(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()
    repo := NewTableRepo(db)

    mock.ExpectExec(regexp.QuoteMeta("INSERT INTO tables")).
        WithArgs(uint32(5), uint32(4), true).
        WillReturnError(errors.New("Error 1062 (23000): Duplicate entry '5' for key 'tables.table_number'"))

    _, err = repo.Create(context.Background(), 5, 4, true)
    assert.True(t, errors.Is(err, ErrTableNumberExists))
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTableGetByID(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()
    repo := NewTableRepo(db)
    now := time.Now().UTC()

    mock.ExpectQuery(regexp.QuoteMeta("FROM tables WHERE id = ?")).
        WithArgs(uint64(5)).
        WillReturnRows(sqlmock.NewRows(tableColNames).AddRow(5, 12, 6, false, now, now))

    tbl, err := repo.GetByID(context.Background(), 5)
    require.NoError(t, err)
    assert.Equal(t, uint32(12), tbl.TableNumber)
    assert.Equal(t, uint32(6), tbl.Capacity)
    assert.False(t, tbl.IsAvailable)

    mock.ExpectQuery(regexp.QuoteMeta("FROM tables WHERE id = ?")).
        WithArgs(uint64(99)).
        WillReturnRows(sqlmock.NewRows(tableColNames))

    _, err = repo.GetByID(context.Background(), 99)
    assert.True(t, errors.Is(err, booking.ErrTableNotFound))
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTableDeleteMissing(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()
    repo := NewTableRepo(db)

    mock.ExpectExec(regexp.QuoteMeta("DELETE FROM tables WHERE id = ?")).
        WithArgs(uint64(7)).
        WillReturnResult(sqlmock.NewResult(0, 0))

    err = repo.Delete(context.Background(), 7)
    assert.True(t, errors.Is(err, booking.ErrTableNotFound))
    assert.NoError(t, mock.ExpectationsWereMet())
}
