package booking

import (
    "context"
    "errors"
    "sync"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/restaurant-reservation/internal/model"
)

// memStore is an in-memory TxStore whose transactions serialise on a
// mutex, mirroring the exclusive table row lock taken by the SQL
// implementation.  Writes are staged on the transaction and applied at
// commit, so a rollback discards the guest created for a failed
// reservation.
type memStore struct {
    mu           sync.Mutex
    users        map[uint64]model.User
    guests       map[string]model.Guest
    reservations map[uint64]model.Reservation
    nextGuestID  uint64
    nextResID    uint64
}

func newMemStore() *memStore {
    return &memStore{
        users:        map[uint64]model.User{},
        guests:       map[string]model.Guest{},
        reservations: map[uint64]model.Reservation{},
    }
}

func (s *memStore) Begin(_ context.Context) (Tx, error) {
    s.mu.Lock()
    return &memTx{store: s}, nil
}

type memTx struct {
    store         *memStore
    stagedGuests  []model.Guest
    stagedInserts []model.Reservation
    stagedUpdates []model.Reservation
    done          bool
}

func (t *memTx) LockTable(_ context.Context, _ uint64) error { return nil }

func (t *memTx) ConfirmedOverlapping(_ context.Context, tableID uint64, iv model.Interval) (int, error) {
    n := 0
    for _, r := range t.store.reservations {
        if r.TableID == tableID && r.Status == model.StatusConfirmed && r.Interval().Overlaps(iv) {
            n++
        }
    }
    return n, nil
}

func (t *memTx) UserByID(_ context.Context, id uint64) (*model.User, error) {
    u, ok := t.store.users[id]
    if !ok {
        return nil, ErrUserNotFound
    }
    return &u, nil
}

func (t *memTx) GuestByPhone(_ context.Context, phone string) (*model.Guest, error) {
    for i := range t.stagedGuests {
        if t.stagedGuests[i].PhoneNumber == phone {
            g := t.stagedGuests[i]
            return &g, nil
        }
    }
    g, ok := t.store.guests[phone]
    if !ok {
        return nil, ErrGuestNotFound
    }
    return &g, nil
}

func (t *memTx) CreateGuest(_ context.Context, phone, name string) (*model.Guest, error) {
    t.store.nextGuestID++
    g := model.Guest{ID: t.store.nextGuestID, PhoneNumber: phone, Name: name, CreatedAt: time.Now().UTC()}
    t.stagedGuests = append(t.stagedGuests, g)
    return &g, nil
}

func (t *memTx) ReservationByID(_ context.Context, id uint64) (*model.Reservation, error) {
    r, ok := t.store.reservations[id]
    if !ok {
        return nil, ErrReservationNotFound
    }
    return &r, nil
}

func (t *memTx) InsertReservation(_ context.Context, r *model.Reservation) error {
    t.store.nextResID++
    r.ID = t.store.nextResID
    r.CreatedAt = time.Now().UTC()
    r.UpdatedAt = r.CreatedAt
    t.stagedInserts = append(t.stagedInserts, *r)
    return nil
}

func (t *memTx) UpdateReservation(_ context.Context, r *model.Reservation) error {
    if _, ok := t.store.reservations[r.ID]; !ok {
        return ErrReservationNotFound
    }
    t.stagedUpdates = append(t.stagedUpdates, *r)
    return nil
}

func (t *memTx) Commit() error {
    if t.done {
        return errors.New("already finished")
    }
    for _, g := range t.stagedGuests {
        t.store.guests[g.PhoneNumber] = g
    }
    for _, r := range t.stagedInserts {
        t.store.reservations[r.ID] = r
    }
    for _, r := range t.stagedUpdates {
        t.store.reservations[r.ID] = r
    }
    t.done = true
    t.store.mu.Unlock()
    return nil
}

func (t *memTx) Rollback() error {
    if t.done {
        return nil
    }
    t.done = true
    t.store.mu.Unlock()
    return nil
}

func fixtureTables() *fakeTables {
    return &fakeTables{tables: []model.Table{
        {ID: 1, TableNumber: 1, Capacity: 4, IsAvailable: true},
        {ID: 2, TableNumber: 2, Capacity: 8, IsAvailable: true},
        {ID: 3, TableNumber: 3, Capacity: 4, IsAvailable: false},
    }}
}

func newTestAllocator(store *memStore) *Allocator {
    return NewAllocator(testHours(), fixtureTables(), store, model.StatusConfirmed)
}

func guestReq(tableID uint64, hour int, guests uint32, phone string) CreateRequest {
    return CreateRequest{
        TableID:    tableID,
        SlotStart:  slotStart(hour),
        GuestCount: guests,
        Actor:      ActorInput{PhoneNumber: phone},
    }
}

func TestCreateValidation(t *testing.T) {
    store := newMemStore()
    a := newTestAllocator(store)
    ctx := context.Background()

    _, err := a.Create(ctx, guestReq(99, 18, 2, "+15550001"))
    assert.True(t, errors.Is(err, ErrTableNotFound))

    _, err = a.Create(ctx, guestReq(3, 18, 2, "+15550001"))
    assert.True(t, errors.Is(err, ErrTableUnavailable))

    _, err = a.Create(ctx, guestReq(1, 18, 0, "+15550001"))
    assert.True(t, errors.Is(err, ErrGuestCount))

    _, err = a.Create(ctx, guestReq(1, 18, 5, "+15550001"))
    assert.True(t, errors.Is(err, ErrCapacityExceeded))

    req := guestReq(1, 18, 2, "+15550001")
    req.SlotStart = slotStart(18).Add(15 * time.Minute)
    _, err = a.Create(ctx, req)
    assert.True(t, errors.Is(err, ErrOutsideHours))

    _, err = a.Create(ctx, guestReq(1, 18, 2, "  "))
    assert.True(t, errors.Is(err, ErrActorRequired))

    assert.Empty(t, store.reservations, "failed requests must not persist anything")
    assert.Empty(t, store.guests, "failed requests must not create guests")
}

func TestCreateGuestFlow(t *testing.T) {
    store := newMemStore()
    a := newTestAllocator(store)
    ctx := context.Background()

    res, err := a.Create(ctx, CreateRequest{
        TableID:    1,
        SlotStart:  slotStart(18),
        GuestCount: 2,
        Actor:      ActorInput{PhoneNumber: "+15550001", Name: "Dana"},
        Comments:   "window seat",
    })
    require.NoError(t, err)
    assert.Equal(t, model.StatusConfirmed, res.Status)
    assert.Equal(t, slotStart(19), res.EndTime)
    assert.Equal(t, "+15550001", res.PhoneNumber)
    assert.Equal(t, "window seat", res.Comments)

    gid, ok := res.Actor.GuestID()
    require.True(t, ok)
    assert.Equal(t, "Dana", store.guests["+15550001"].Name)

    // Same phone at another slot reuses the guest row.
    res2, err := a.Create(ctx, guestReq(1, 20, 2, "+15550001"))
    require.NoError(t, err)
    gid2, ok := res2.Actor.GuestID()
    require.True(t, ok)
    assert.Equal(t, gid, gid2)
    assert.Len(t, store.guests, 1)
}

func TestCreateUserFlow(t *testing.T) {
    store := newMemStore()
    store.users[7] = model.User{ID: 7, PhoneNumber: "+15559999"}
    a := newTestAllocator(store)

    uid := uint64(7)
    res, err := a.Create(context.Background(), CreateRequest{
        TableID:    2,
        SlotStart:  slotStart(12),
        GuestCount: 6,
        // A stray phone number alongside the user id is ignored.
        Actor: ActorInput{UserID: &uid, PhoneNumber: "+15550000"},
    })
    require.NoError(t, err)
    got, ok := res.Actor.UserID()
    require.True(t, ok)
    assert.Equal(t, uid, got)
    assert.Equal(t, "+15559999", res.PhoneNumber, "contact phone comes from the user row")
    assert.Empty(t, store.guests)
}

func TestCreateConflicts(t *testing.T) {
    store := newMemStore()
    a := newTestAllocator(store)
    ctx := context.Background()

    _, err := a.Create(ctx, guestReq(1, 18, 2, "+15550001"))
    require.NoError(t, err)

    _, err = a.Create(ctx, guestReq(1, 18, 2, "+15550002"))
    assert.True(t, errors.Is(err, ErrSlotTaken))
    assert.Len(t, store.guests, 1, "guest created for the losing request must roll back")

    // Same slot on another table is fine.
    _, err = a.Create(ctx, guestReq(2, 18, 2, "+15550002"))
    assert.NoError(t, err)

    // Back-to-back on the same table is fine.
    _, err = a.Create(ctx, guestReq(1, 19, 2, "+15550003"))
    assert.NoError(t, err)
}

func TestCreateCancelledDoesNotBlock(t *testing.T) {
    store := newMemStore()
    a := newTestAllocator(store)
    ctx := context.Background()

    res, err := a.Create(ctx, guestReq(1, 18, 2, "+15550001"))
    require.NoError(t, err)

    cancelled := model.StatusCancelled
    _, err = a.Update(ctx, res.ID, Patch{Status: &cancelled})
    require.NoError(t, err)

    _, err = a.Create(ctx, guestReq(1, 18, 2, "+15550002"))
    assert.NoError(t, err, "cancelled reservation must free the slot")
}

func TestCreateConcurrentSingleWinner(t *testing.T) {
    store := newMemStore()
    a := newTestAllocator(store)

    const n = 16
    var wg sync.WaitGroup
    errs := make([]error, n)
    for i := 0; i < n; i++ {
        wg.Add(1)
        go func(i int) {
            defer wg.Done()
            _, errs[i] = a.Create(context.Background(), guestReq(1, 18, 2, "+1555000"+string(rune('a'+i))))
        }(i)
    }
    wg.Wait()

    won := 0
    for _, err := range errs {
        switch {
        case err == nil:
            won++
        case errors.Is(err, ErrSlotTaken):
        default:
            t.Fatalf("unexpected error: %v", err)
        }
    }
    assert.Equal(t, 1, won, "exactly one concurrent request may win the slot")
    assert.Len(t, store.reservations, 1)
}

func TestUpdate(t *testing.T) {
    store := newMemStore()
    a := newTestAllocator(store)
    ctx := context.Background()

    res, err := a.Create(ctx, guestReq(1, 18, 2, "+15550001"))
    require.NoError(t, err)

    _, err = a.Update(ctx, res.ID, Patch{})
    assert.True(t, errors.Is(err, ErrEmptyPatch))

    bad := "SEATED"
    _, err = a.Update(ctx, res.ID, Patch{Status: &bad})
    assert.True(t, errors.Is(err, ErrBadStatus))

    tooMany := uint32(5)
    _, err = a.Update(ctx, res.ID, Patch{GuestCount: &tooMany})
    assert.True(t, errors.Is(err, ErrCapacityExceeded))

    zero := uint32(0)
    _, err = a.Update(ctx, res.ID, Patch{GuestCount: &zero})
    assert.True(t, errors.Is(err, ErrGuestCount))

    comments := "birthday"
    count := uint32(4)
    updated, err := a.Update(ctx, res.ID, Patch{Comments: &comments, GuestCount: &count})
    require.NoError(t, err)
    assert.Equal(t, "birthday", updated.Comments)
    assert.Equal(t, uint32(4), updated.GuestCount)
    assert.Equal(t, slotStart(18), updated.StartTime, "time is immutable through updates")

    _, err = a.Update(ctx, 999, Patch{Comments: &comments})
    assert.True(t, errors.Is(err, ErrReservationNotFound))
}
