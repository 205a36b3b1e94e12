package booking

import (
    "context"
    "time"

    "github.com/iliyamo/restaurant-reservation/internal/model"
)

// TxStore opens allocation transactions.  Everything that must be
// atomic per request (conflict re-check, lazy guest creation and the
// reservation insert) runs against one Tx.  The repository layer backs
// it with a SQL transaction that locks the table row, serialising
// allocations per table.
type TxStore interface {
    Begin(ctx context.Context) (Tx, error)
}

// Tx is a single allocation unit of work.  Rollback after Commit is a
// no-op, matching database/sql semantics.
type Tx interface {
    ActorSource

    // LockTable takes an exclusive lock on the table row for the
    // duration of the transaction.  ErrTableNotFound when absent.
    LockTable(ctx context.Context, tableID uint64) error

    // ConfirmedOverlapping counts CONFIRMED reservations for the table
    // whose intervals overlap iv.
    ConfirmedOverlapping(ctx context.Context, tableID uint64, iv model.Interval) (int, error)

    // ReservationByID loads a reservation for update.
    ReservationByID(ctx context.Context, id uint64) (*model.Reservation, error)

    // InsertReservation persists a new reservation and fills in its id
    // and timestamps.
    InsertReservation(ctx context.Context, r *model.Reservation) error

    // UpdateReservation persists mutable reservation fields.
    UpdateReservation(ctx context.Context, r *model.Reservation) error

    Commit() error
    Rollback() error
}

// CreateRequest carries everything needed to allocate one reservation.
type CreateRequest struct {
    TableID    uint64
    SlotStart  time.Time // must lie on the operating-hours grid
    GuestCount uint32
    Actor      ActorInput
    Comments   string
}

// Patch is the whitelist of reservation fields mutable after creation.
// Nil fields are left untouched.  Time and table are deliberately
// absent: moving a reservation is cancel + recreate.
type Patch struct {
    Comments   *string
    Status     *string
    GuestCount *uint32
}

// Allocator validates and commits reservations.  The conflict check
// runs inside the allocation transaction, after the table row lock, so
// two concurrent requests for the same table cannot both pass it.
type Allocator struct {
    hours         Hours
    tables        TableSource
    store         TxStore
    defaultStatus string
}

// NewAllocator constructs an Allocator.  defaultStatus is the status
// given to new reservations (normally CONFIRMED).
func NewAllocator(hours Hours, tables TableSource, store TxStore, defaultStatus string) *Allocator {
    if tables == nil || store == nil {
        panic("nil dependency passed to NewAllocator")
    }
    if defaultStatus == "" {
        defaultStatus = model.StatusConfirmed
    }
    return &Allocator{hours: hours, tables: tables, store: store, defaultStatus: defaultStatus}
}

// Create allocates a reservation.  Validation is strictly ordered and
// fails before any mutation: table existence, operational flag,
// capacity, slot grid; then the transactional part locks the table,
// re-checks conflicts, resolves the actor and inserts.  ErrSlotTaken
// surfaces when a confirmed reservation already overlaps the slot.
func (a *Allocator) Create(ctx context.Context, req CreateRequest) (*model.Reservation, error) {
    tbl, err := a.tables.GetByID(ctx, req.TableID)
    if err != nil {
        return nil, err
    }
    if !tbl.IsAvailable {
        return nil, ErrTableUnavailable
    }
    if req.GuestCount < 1 {
        return nil, ErrGuestCount
    }
    if req.GuestCount > tbl.Capacity {
        return nil, ErrCapacityExceeded
    }
    slot, ok := a.hours.SlotAt(req.SlotStart)
    if !ok {
        return nil, ErrOutsideHours
    }

    tx, err := a.store.Begin(ctx)
    if err != nil {
        return nil, err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    if err := tx.LockTable(ctx, req.TableID); err != nil {
        return nil, err
    }
    n, err := tx.ConfirmedOverlapping(ctx, req.TableID, slot)
    if err != nil {
        return nil, err
    }
    if n > 0 {
        return nil, ErrSlotTaken
    }
    actor, phone, err := ResolveActor(ctx, tx, req.Actor)
    if err != nil {
        return nil, err
    }

    res := &model.Reservation{
        Actor:       actor,
        TableID:     req.TableID,
        StartTime:   slot.Start,
        EndTime:     slot.End,
        GuestCount:  req.GuestCount,
        Status:      a.defaultStatus,
        PhoneNumber: phone,
        Comments:    req.Comments,
    }
    if err := tx.InsertReservation(ctx, res); err != nil {
        return nil, err
    }
    if err := tx.Commit(); err != nil {
        return nil, err
    }
    committed = true
    return res, nil
}

// Update applies a whitelisted patch to an existing reservation.  A
// guest count change revalidates against the table's capacity but not
// against conflicts: the occupied interval never changes here.
func (a *Allocator) Update(ctx context.Context, id uint64, p Patch) (*model.Reservation, error) {
    if p.Comments == nil && p.Status == nil && p.GuestCount == nil {
        return nil, ErrEmptyPatch
    }
    if p.Status != nil && !model.KnownStatus(*p.Status) {
        return nil, ErrBadStatus
    }

    tx, err := a.store.Begin(ctx)
    if err != nil {
        return nil, err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    res, err := tx.ReservationByID(ctx, id)
    if err != nil {
        return nil, err
    }
    if p.GuestCount != nil {
        gc := *p.GuestCount
        if gc < 1 {
            return nil, ErrGuestCount
        }
        tbl, err := a.tables.GetByID(ctx, res.TableID)
        if err != nil {
            return nil, err
        }
        if gc > tbl.Capacity {
            return nil, ErrCapacityExceeded
        }
        res.GuestCount = gc
    }
    if p.Comments != nil {
        res.Comments = *p.Comments
    }
    if p.Status != nil {
        res.Status = *p.Status
    }
    if err := tx.UpdateReservation(ctx, res); err != nil {
        return nil, err
    }
    if err := tx.Commit(); err != nil {
        return nil, err
    }
    committed = true
    return res, nil
}
