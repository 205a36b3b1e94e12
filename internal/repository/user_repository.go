package repository

import (
    "context"
    "database/sql"
    "errors"
    "strings"

    "github.com/iliyamo/restaurant-reservation/internal/booking"
    "github.com/iliyamo/restaurant-reservation/internal/model"
    "github.com/iliyamo/restaurant-reservation/internal/utils"
)

// UserRepo persists registered accounts.  Phone number is the unique
// login identity.
type UserRepo struct{ DB *sql.DB }

// NewUserRepo returns a UserRepo bound to the given database.
func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userCols = `id, phone_number, password_hash, first_name, last_name, role, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (model.User, error) {
    var u model.User
    err := row.Scan(&u.ID, &u.PhoneNumber, &u.PasswordHash, &u.FirstName, &u.LastName,
        &u.Role, &u.CreatedAt, &u.UpdatedAt)
    return u, err
}

// Create hashes the password and inserts a user, returning its id.
// ErrPhoneExists on a duplicate phone number.
func (r *UserRepo) Create(ctx context.Context, phone, password, firstName, lastName, role string, cost int) (uint64, error) {
    phone = strings.TrimSpace(phone)
    hash, err := utils.HashPassword(password, cost)
    if err != nil {
        return 0, err
    }
    res, err := r.DB.ExecContext(ctx,
        `INSERT INTO users (phone_number, password_hash, first_name, last_name, role) VALUES (?,?,?,?,?)`,
        phone, hash, firstName, lastName, role)
    if err != nil {
        if strings.Contains(strings.ToLower(err.Error()), "1062") {
            return 0, ErrPhoneExists
        }
        return 0, err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return 0, err
    }
    return uint64(id), nil
}

// GetByPhone fetches a user by normalized phone number.
// booking.ErrUserNotFound when absent.
func (r *UserRepo) GetByPhone(ctx context.Context, phone string) (model.User, error) {
    u, err := scanUser(r.DB.QueryRowContext(ctx,
        `SELECT `+userCols+` FROM users WHERE phone_number = ? LIMIT 1`,
        strings.TrimSpace(phone)))
    if errors.Is(err, sql.ErrNoRows) {
        return u, booking.ErrUserNotFound
    }
    return u, err
}

// GetByID fetches a user by id.  booking.ErrUserNotFound when absent.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
    u, err := scanUser(r.DB.QueryRowContext(ctx,
        `SELECT `+userCols+` FROM users WHERE id = ? LIMIT 1`, id))
    if errors.Is(err, sql.ErrNoRows) {
        return u, booking.ErrUserNotFound
    }
    return u, err
}
