package repository

import (
    "context"
    "database/sql"
    "errors"
    "strconv"
    "strings"

    "github.com/iliyamo/restaurant-reservation/internal/booking"
    "github.com/iliyamo/restaurant-reservation/internal/model"
)

// ErrOrderNotFound is returned when an order id does not resolve.
var ErrOrderNotFound = errors.New("order not found")

// OrderRepo persists orders and their items.  Order creation shares a
// transaction with actor resolution so a guest created for a failing
// order rolls back with it.
type OrderRepo struct {
    db *sql.DB
}

// NewOrderRepo returns an OrderRepo bound to the given database.
func NewOrderRepo(db *sql.DB) *OrderRepo { return &OrderRepo{db: db} }

// Begin opens an order transaction.
func (r *OrderRepo) Begin(ctx context.Context) (*OrderTx, error) {
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return nil, err
    }
    return &OrderTx{tx: tx}, nil
}

// OrderTx is the order creation unit of work.  It satisfies
// booking.ActorSource so booking.ResolveActor can create guests inside
// the same transaction as the order insert.
type OrderTx struct {
    tx *sql.Tx
}

// UserByID loads a user inside the transaction.
func (t *OrderTx) UserByID(ctx context.Context, id uint64) (*model.User, error) {
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

// GuestByPhone loads a guest inside the transaction.
func (t *OrderTx) GuestByPhone(ctx context.Context, phone string) (*model.Guest, error) {
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

// CreateGuest inserts a guest inside the transaction.
func (t *OrderTx) CreateGuest(ctx context.Context, phone, name string) (*model.Guest, error) {
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

// InsertOrder persists the order head and all items, populating ids and
// timestamps on the passed order.
func (t *OrderTx) InsertOrder(ctx context.Context, o *model.Order) error {
    var userID, guestID any
    if id, ok := o.Actor.UserID(); ok {
        userID = id
    }
    if id, ok := o.Actor.GuestID(); ok {
        guestID = id
    }
    res, err := t.tx.ExecContext(ctx,
        `INSERT INTO orders (user_id, guest_id, status, total_cents, delivery_address, comments, phone_number)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
        userID, guestID, o.Status, o.TotalCents, o.DeliveryAddress, o.Comments, o.PhoneNumber)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    o.ID = uint64(id)

    for i := range o.Items {
        item := &o.Items[i]
        item.OrderID = o.ID
        res, err := t.tx.ExecContext(ctx,
            `INSERT INTO order_items (order_id, dish_id, variant_id, quantity, unit_price_cents, modifier_option_ids)
             VALUES (?, ?, ?, ?, ?, ?)`,
            o.ID, item.DishID, item.VariantID, item.Quantity, item.UnitPriceCents, joinIDs(item.ModifierOptions))
        if err != nil {
            return err
        }
        itemID, err := res.LastInsertId()
        if err != nil {
            return err
        }
        item.ID = uint64(itemID)
    }
    return t.tx.QueryRowContext(ctx,
        `SELECT created_at, updated_at FROM orders WHERE id = ?`, o.ID).
        Scan(&o.CreatedAt, &o.UpdatedAt)
}

func (t *OrderTx) Commit() error   { return t.tx.Commit() }
func (t *OrderTx) Rollback() error { return t.tx.Rollback() }

const orderCols = `id, user_id, guest_id, status, total_cents, delivery_address, comments, phone_number, created_at, updated_at`

func scanOrder(row interface{ Scan(...any) error }) (*model.Order, error) {
    var (
        o       model.Order
        userID  sql.NullInt64
        guestID sql.NullInt64
        addr    sql.NullString
        comm    sql.NullString
    )
    err := row.Scan(&o.ID, &userID, &guestID, &o.Status, &o.TotalCents, &addr, &comm,
        &o.PhoneNumber, &o.CreatedAt, &o.UpdatedAt)
    if err != nil {
        return nil, err
    }
    switch {
    case userID.Valid:
        o.Actor = model.Actor{Kind: model.ActorUser, ID: uint64(userID.Int64)}
    case guestID.Valid:
        o.Actor = model.Actor{Kind: model.ActorGuest, ID: uint64(guestID.Int64)}
    }
    o.DeliveryAddress = addr.String
    o.Comments = comm.String
    return &o, nil
}

// GetByID loads an order with its items.  ErrOrderNotFound when absent.
func (r *OrderRepo) GetByID(ctx context.Context, id uint64) (*model.Order, error) {
    o, err := scanOrder(r.db.QueryRowContext(ctx,
        `SELECT `+orderCols+` FROM orders WHERE id = ?`, id))
    if errors.Is(err, sql.ErrNoRows) {
        return nil, ErrOrderNotFound
    }
    if err != nil {
        return nil, err
    }
    if o.Items, err = r.itemsFor(ctx, o.ID); err != nil {
        return nil, err
    }
    return o, nil
}

// ListByUser returns a user's orders with items, newest first.
func (r *OrderRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Order, error) {
    rows, err := r.db.QueryContext(ctx,
        `SELECT `+orderCols+` FROM orders WHERE user_id = ? ORDER BY created_at DESC`, userID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    orders := make([]model.Order, 0)
    for rows.Next() {
        o, err := scanOrder(rows)
        if err != nil {
            return nil, err
        }
        orders = append(orders, *o)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    for i := range orders {
        if orders[i].Items, err = r.itemsFor(ctx, orders[i].ID); err != nil {
            return nil, err
        }
    }
    return orders, nil
}

// UpdateStatus sets an order's status.  ErrOrderNotFound when absent.
func (r *OrderRepo) UpdateStatus(ctx context.Context, id uint64, status string) (*model.Order, error) {
    res, err := r.db.ExecContext(ctx,
        `UPDATE orders SET status = ? WHERE id = ?`, status, id)
    if err != nil {
        return nil, err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        if _, err := r.GetByID(ctx, id); err != nil {
            return nil, err
        }
    }
    return r.GetByID(ctx, id)
}

func (r *OrderRepo) itemsFor(ctx context.Context, orderID uint64) ([]model.OrderItem, error) {
    rows, err := r.db.QueryContext(ctx,
        `SELECT id, order_id, dish_id, variant_id, quantity, unit_price_cents, modifier_option_ids
         FROM order_items WHERE order_id = ? ORDER BY id`, orderID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    items := make([]model.OrderItem, 0)
    for rows.Next() {
        var (
            it  model.OrderItem
            ids sql.NullString
        )
        if err := rows.Scan(&it.ID, &it.OrderID, &it.DishID, &it.VariantID, &it.Quantity, &it.UnitPriceCents, &ids); err != nil {
            return nil, err
        }
        it.ModifierOptions = splitIDs(ids.String)
        items = append(items, it)
    }
    return items, rows.Err()
}

// joinIDs renders modifier option ids as a comma-separated string for
// the denormalized column; splitIDs reverses it.
func joinIDs(ids []uint64) string {
    if len(ids) == 0 {
        return ""
    }
    parts := make([]string, len(ids))
    for i, id := range ids {
        parts[i] = strconv.FormatUint(id, 10)
    }
    return strings.Join(parts, ",")
}

func splitIDs(s string) []uint64 {
    if s == "" {
        return nil
    }
    parts := strings.Split(s, ",")
    ids := make([]uint64, 0, len(parts))
    for _, p := range parts {
        if n, err := strconv.ParseUint(strings.TrimSpace(p), 10, 64); err == nil && n > 0 {
            ids = append(ids, n)
        }
    }
    return ids
}
