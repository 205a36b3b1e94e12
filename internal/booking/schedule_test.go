package booking

import (
    "context"
    "errors"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/restaurant-reservation/internal/model"
)

// fakeTables serves a fixed table inventory.
type fakeTables struct {
    tables []model.Table
}

func (f *fakeTables) GetByID(_ context.Context, id uint64) (*model.Table, error) {
    for i := range f.tables {
        if f.tables[i].ID == id {
            t := f.tables[i]
            return &t, nil
        }
    }
    return nil, ErrTableNotFound
}

func (f *fakeTables) ListAll(_ context.Context) ([]model.Table, error) {
    out := make([]model.Table, len(f.tables))
    copy(out, f.tables)
    return out, nil
}

// fakeReservations serves a fixed set of confirmed reservations.
type fakeReservations struct {
    confirmed []model.Reservation
}

func (f *fakeReservations) ConfirmedBetween(_ context.Context, from, to time.Time) ([]model.Reservation, error) {
    win := model.Interval{Start: from, End: to}
    var out []model.Reservation
    for _, r := range f.confirmed {
        if r.Interval().Overlaps(win) {
            out = append(out, r)
        }
    }
    return out, nil
}

func testHours() Hours {
    return Hours{Opening: 10, Closing: 23, SlotDuration: time.Hour}
}

func slotStart(hour int) time.Time {
    return time.Date(2025, 5, 9, hour, 0, 0, 0, time.UTC)
}

func confirmedAt(tableID uint64, hour int) model.Reservation {
    return model.Reservation{
        TableID:   tableID,
        StartTime: slotStart(hour),
        EndTime:   slotStart(hour + 1),
        Status:    model.StatusConfirmed,
    }
}

func TestSlotsForDate(t *testing.T) {
    tables := &fakeTables{tables: []model.Table{
        {ID: 1, TableNumber: 1, Capacity: 2, IsAvailable: true},
        {ID: 2, TableNumber: 2, Capacity: 6, IsAvailable: true},
    }}
    reservations := &fakeReservations{confirmed: []model.Reservation{
        confirmedAt(1, 18),
        confirmedAt(2, 18),
        confirmedAt(2, 20),
    }}
    s := NewSchedule(testHours(), tables, reservations)

    slots, err := s.SlotsForDate(context.Background(), slotStart(0), 0)
    require.NoError(t, err)
    require.Len(t, slots, 13)

    byStart := map[int]SlotAvailability{}
    for _, sl := range slots {
        byStart[sl.SlotStart.Hour()] = sl
    }
    assert.False(t, byStart[18].Available, "both tables booked at 18:00")
    assert.True(t, byStart[20].Available, "table 1 still free at 20:00")
    assert.True(t, byStart[10].Available)
    assert.Equal(t, slotStart(11), byStart[10].SlotEnd)
}

func TestSlotsForDateMinGuests(t *testing.T) {
    tables := &fakeTables{tables: []model.Table{
        {ID: 1, TableNumber: 1, Capacity: 2, IsAvailable: true},
        {ID: 2, TableNumber: 2, Capacity: 6, IsAvailable: true},
    }}
    reservations := &fakeReservations{confirmed: []model.Reservation{
        confirmedAt(2, 20),
    }}
    s := NewSchedule(testHours(), tables, reservations)

    // A party of 4 only fits table 2, so its 20:00 booking blocks the slot.
    slots, err := s.SlotsForDate(context.Background(), slotStart(0), 4)
    require.NoError(t, err)
    for _, sl := range slots {
        if sl.SlotStart.Hour() == 20 {
            assert.False(t, sl.Available)
        } else {
            assert.True(t, sl.Available, "slot %v", sl.SlotStart)
        }
    }
}

func TestSlotsForDateQueryIsReadOnly(t *testing.T) {
    tables := &fakeTables{tables: []model.Table{
        {ID: 1, TableNumber: 1, Capacity: 4, IsAvailable: true},
    }}
    reservations := &fakeReservations{}
    s := NewSchedule(testHours(), tables, reservations)

    first, err := s.SlotsForDate(context.Background(), slotStart(0), 0)
    require.NoError(t, err)
    second, err := s.SlotsForDate(context.Background(), slotStart(0), 0)
    require.NoError(t, err)
    assert.Equal(t, first, second, "repeated queries must not change availability")
}

func TestTablesForSlot(t *testing.T) {
    tables := &fakeTables{tables: []model.Table{
        {ID: 1, TableNumber: 1, Capacity: 2, IsAvailable: true},
        {ID: 2, TableNumber: 2, Capacity: 6, IsAvailable: false},
        {ID: 3, TableNumber: 3, Capacity: 6, IsAvailable: true},
        {ID: 4, TableNumber: 4, Capacity: 8, IsAvailable: true},
    }}
    reservations := &fakeReservations{confirmed: []model.Reservation{
        confirmedAt(3, 18),
        confirmedAt(4, 17), // back-to-back with 18:00, must not block it
    }}
    s := NewSchedule(testHours(), tables, reservations)

    out, err := s.TablesForSlot(context.Background(), slotStart(18), 4)
    require.NoError(t, err)
    require.Len(t, out, 4)

    byID := map[uint64]TableAvailability{}
    for _, ta := range out {
        byID[ta.Table.ID] = ta
    }
    assert.False(t, byID[1].Available)
    assert.Equal(t, ReasonNotEnoughCapacity, byID[1].Reason)
    assert.NotEmpty(t, byID[1].Message)

    assert.False(t, byID[2].Available)
    assert.Equal(t, ReasonTableUnavailable, byID[2].Reason, "operational gate fires before capacity")

    assert.False(t, byID[3].Available)
    assert.Equal(t, ReasonBookedInSlot, byID[3].Reason)

    assert.True(t, byID[4].Available)
    assert.Empty(t, byID[4].Reason)
}

func TestTablesForSlotOffGrid(t *testing.T) {
    s := NewSchedule(testHours(), &fakeTables{}, &fakeReservations{})

    _, err := s.TablesForSlot(context.Background(), slotStart(18).Add(30*time.Minute), 0)
    assert.True(t, errors.Is(err, ErrOutsideHours))

    _, err = s.TablesForSlot(context.Background(), slotStart(23), 0)
    assert.True(t, errors.Is(err, ErrOutsideHours))
}
