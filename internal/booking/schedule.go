package booking

import (
    "context"
    "time"

    "github.com/iliyamo/restaurant-reservation/internal/model"
)

// TableSource provides read access to the table inventory.  The
// repository layer implements it; tests substitute in-memory fakes.
type TableSource interface {
    GetByID(ctx context.Context, id uint64) (*model.Table, error)
    ListAll(ctx context.Context) ([]model.Table, error)
}

// ReservationSource provides read access to confirmed reservations.
// ConfirmedBetween returns every CONFIRMED reservation whose interval
// overlaps [from, to), across all tables, in one query.
type ReservationSource interface {
    ConfirmedBetween(ctx context.Context, from, to time.Time) ([]model.Reservation, error)
}

// ReasonCode explains why a table cannot be booked for a slot.  Gates
// are evaluated in order, so the code names the first failing one.
type ReasonCode string

const (
    ReasonTableUnavailable  ReasonCode = "TABLE_UNAVAILABLE"
    ReasonNotEnoughCapacity ReasonCode = "NOT_ENOUGH_CAPACITY"
    ReasonBookedInSlot      ReasonCode = "BOOKED_IN_SLOT"
)

// Message returns the human-readable form of the reason code.
func (r ReasonCode) Message() string {
    switch r {
    case ReasonTableUnavailable:
        return "table is temporarily out of service"
    case ReasonNotEnoughCapacity:
        return "table is too small for the party"
    case ReasonBookedInSlot:
        return "table is already booked for this slot"
    }
    return ""
}

// SlotAvailability reports whether any table can take a booking in a slot.
type SlotAvailability struct {
    SlotStart time.Time `json:"slot_start"`
    SlotEnd   time.Time `json:"slot_end"`
    Available bool      `json:"is_available_for_booking"`
}

// TableAvailability reports a single table's fitness for one slot.
type TableAvailability struct {
    Table     model.Table `json:"table"`
    Available bool        `json:"is_available"`
    Reason    ReasonCode  `json:"reason_code,omitempty"`
    Message   string      `json:"reason_message,omitempty"`
}

// Schedule answers availability queries against the slot grid.  It is
// read-only: each query loads the tables and the window's confirmed
// reservations once and evaluates everything in memory, so a single
// call sees one consistent snapshot.
type Schedule struct {
    hours        Hours
    tables       TableSource
    reservations ReservationSource
}

// NewSchedule constructs a Schedule.  All dependencies must be non-nil.
func NewSchedule(hours Hours, tables TableSource, reservations ReservationSource) *Schedule {
    if tables == nil || reservations == nil {
        panic("nil source passed to NewSchedule")
    }
    return &Schedule{hours: hours, tables: tables, reservations: reservations}
}

// Hours exposes the operating hours the schedule was built with.
func (s *Schedule) Hours() Hours { return s.hours }

// SlotsForDate returns the day's slot grid with a per-slot availability
// flag.  A slot is available when at least one operationally available
// table with capacity >= minGuests has no confirmed reservation
// overlapping it.  minGuests <= 0 disables the capacity filter.
func (s *Schedule) SlotsForDate(ctx context.Context, date time.Time, minGuests int) ([]SlotAvailability, error) {
    slots := s.hours.Slots(date)
    if len(slots) == 0 {
        return []SlotAvailability{}, nil
    }
    tables, err := s.tables.ListAll(ctx)
    if err != nil {
        return nil, err
    }
    win := s.hours.Window(date)
    booked, err := s.reservations.ConfirmedBetween(ctx, win.Start, win.End)
    if err != nil {
        return nil, err
    }
    byTable := groupByTable(booked)

    out := make([]SlotAvailability, 0, len(slots))
    for _, slot := range slots {
        avail := false
        for i := range tables {
            if tableFree(&tables[i], slot, minGuests, byTable) {
                avail = true
                break
            }
        }
        out = append(out, SlotAvailability{SlotStart: slot.Start, SlotEnd: slot.End, Available: avail})
    }
    return out, nil
}

// TablesForSlot evaluates every table against the slot starting at
// slotStart.  Gates run cheapest first: operational flag, then
// capacity, then conflict lookup; the first failing gate supplies the
// reason code.  ErrOutsideHours is returned when slotStart is not on
// the day's grid.
func (s *Schedule) TablesForSlot(ctx context.Context, slotStart time.Time, minGuests int) ([]TableAvailability, error) {
    slot, ok := s.hours.SlotAt(slotStart)
    if !ok {
        return nil, ErrOutsideHours
    }
    tables, err := s.tables.ListAll(ctx)
    if err != nil {
        return nil, err
    }
    booked, err := s.reservations.ConfirmedBetween(ctx, slot.Start, slot.End)
    if err != nil {
        return nil, err
    }
    byTable := groupByTable(booked)

    out := make([]TableAvailability, 0, len(tables))
    for i := range tables {
        t := &tables[i]
        ta := TableAvailability{Table: *t}
        switch {
        case !t.IsAvailable:
            ta.Reason = ReasonTableUnavailable
        case minGuests > 0 && t.Capacity < uint32(minGuests):
            ta.Reason = ReasonNotEnoughCapacity
        case hasConflict(t.ID, slot, byTable):
            ta.Reason = ReasonBookedInSlot
        default:
            ta.Available = true
        }
        ta.Message = ta.Reason.Message()
        out = append(out, ta)
    }
    return out, nil
}

func groupByTable(rs []model.Reservation) map[uint64][]model.Interval {
    m := make(map[uint64][]model.Interval, len(rs))
    for i := range rs {
        m[rs[i].TableID] = append(m[rs[i].TableID], rs[i].Interval())
    }
    return m
}

func hasConflict(tableID uint64, slot model.Interval, byTable map[uint64][]model.Interval) bool {
    for _, iv := range byTable[tableID] {
        if iv.Overlaps(slot) {
            return true
        }
    }
    return false
}

func tableFree(t *model.Table, slot model.Interval, minGuests int, byTable map[uint64][]model.Interval) bool {
    if !t.IsAvailable {
        return false
    }
    if minGuests > 0 && t.Capacity < uint32(minGuests) {
        return false
    }
    return !hasConflict(t.ID, slot, byTable)
}
