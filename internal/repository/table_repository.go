package repository

import (
    "context"
    "database/sql"
    "errors"
    "strings"

    "github.com/iliyamo/restaurant-reservation/internal/booking"
    "github.com/iliyamo/restaurant-reservation/internal/model"
)

// TableRepo provides CRUD access to the `tables` table.  The booking
// core only reads tables; creation and updates come from the admin
// endpoints.
type TableRepo struct {
    db *sql.DB
}

// NewTableRepo returns a TableRepo bound to the given database.
func NewTableRepo(db *sql.DB) *TableRepo { return &TableRepo{db: db} }

const tableCols = `id, table_number, capacity, is_available, created_at, updated_at`

func scanTable(row interface{ Scan(...any) error }) (*model.Table, error) {
    var t model.Table
    if err := row.Scan(&t.ID, &t.TableNumber, &t.Capacity, &t.IsAvailable, &t.CreatedAt, &t.UpdatedAt); err != nil {
        return nil, err
    }
    return &t, nil
}

// GetByID loads one table.  booking.ErrTableNotFound when absent.
func (r *TableRepo) GetByID(ctx context.Context, id uint64) (*model.Table, error) {
    t, err := scanTable(r.db.QueryRowContext(ctx,
        `SELECT `+tableCols+` FROM tables WHERE id = ?`, id))
    if errors.Is(err, sql.ErrNoRows) {
        return nil, booking.ErrTableNotFound
    }
    return t, err
}

// ListAll returns every table ordered by table number.
func (r *TableRepo) ListAll(ctx context.Context) ([]model.Table, error) {
    rows, err := r.db.QueryContext(ctx,
        `SELECT `+tableCols+` FROM tables ORDER BY table_number`)
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
        tables = append(tables, *t)
    }
    return tables, rows.Err()
}

// Create inserts a table and returns it with generated fields filled.
// ErrTableNumberExists on a duplicate table number.
func (r *TableRepo) Create(ctx context.Context, tableNumber, capacity uint32, isAvailable bool) (*model.Table, error) {
    res, err := r.db.ExecContext(ctx,
        `INSERT INTO tables (table_number, capacity, is_available) VALUES (?, ?, ?)`,
        tableNumber, capacity, isAvailable)
    if err != nil {
        if strings.Contains(strings.ToLower(err.Error()), "1062") {
            return nil, ErrTableNumberExists
        }
        return nil, err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return nil, err
    }
    return r.GetByID(ctx, uint64(id))
}

// Update rewrites the mutable table fields.  booking.ErrTableNotFound
// when the row is gone.
func (r *TableRepo) Update(ctx context.Context, t *model.Table) (*model.Table, error) {
    res, err := r.db.ExecContext(ctx,
        `UPDATE tables SET table_number = ?, capacity = ?, is_available = ? WHERE id = ?`,
        t.TableNumber, t.Capacity, t.IsAvailable, t.ID)
    if err != nil {
        if strings.Contains(strings.ToLower(err.Error()), "1062") {
            return nil, ErrTableNumberExists
        }
        return nil, err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        // Either no change or no row; re-read to distinguish.
        if _, err := r.GetByID(ctx, t.ID); err != nil {
            return nil, err
        }
    }
    return r.GetByID(ctx, t.ID)
}

// Delete removes a table.  booking.ErrTableNotFound when absent.
func (r *TableRepo) Delete(ctx context.Context, id uint64) error {
    res, err := r.db.ExecContext(ctx, `DELETE FROM tables WHERE id = ?`, id)
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        return booking.ErrTableNotFound
    }
    return nil
}
