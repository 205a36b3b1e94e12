package repository

import (
    "context"
    "database/sql"
    "errors"
    "strings"

    "github.com/iliyamo/restaurant-reservation/internal/booking"
    "github.com/iliyamo/restaurant-reservation/internal/model"
)

// GuestRepo reads the `guests` table.  Guests are created only inside
// allocation/order transactions (see allocTx.CreateGuest and
// OrderTx.CreateGuest); the standalone repo serves read paths.
type GuestRepo struct {
    db *sql.DB
}

// NewGuestRepo returns a GuestRepo bound to the given database.
func NewGuestRepo(db *sql.DB) *GuestRepo { return &GuestRepo{db: db} }

// GetByPhone loads a guest by unique phone number.
// booking.ErrGuestNotFound when absent.
func (r *GuestRepo) GetByPhone(ctx context.Context, phone string) (*model.Guest, error) {
    var g model.Guest
    err := r.db.QueryRowContext(ctx,
        `SELECT id, phone_number, name, created_at FROM guests WHERE phone_number = ?`,
        strings.TrimSpace(phone)).
        Scan(&g.ID, &g.PhoneNumber, &g.Name, &g.CreatedAt)
    if errors.Is(err, sql.ErrNoRows) {
        return nil, booking.ErrGuestNotFound
    }
    if err != nil {
        return nil, err
    }
    return &g, nil
}
