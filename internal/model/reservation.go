package model

import "time"

// Reservation statuses.  Only StatusConfirmed participates in conflict
// detection and availability queries.
const (
    StatusConfirmed = "CONFIRMED"
    StatusCancelled = "CANCELLED"
    StatusCompleted = "COMPLETED"
    StatusNoShow    = "NO_SHOW"
)

// KnownStatus reports whether s is a recognised reservation status.
func KnownStatus(s string) bool {
    switch s {
    case StatusConfirmed, StatusCancelled, StatusCompleted, StatusNoShow:
        return true
    }
    return false
}

// ActorKind discriminates the two kinds of booking actors.
type ActorKind uint8

const (
    ActorUser  ActorKind = iota + 1 // registered user
    ActorGuest                      // anonymous guest keyed by phone number
)

// Actor identifies who a reservation or order belongs to.  A reservation
// always references exactly one actor kind; the nullable user_id/guest_id
// column pair exists only at the persistence boundary.
type Actor struct {
    Kind ActorKind
    ID   uint64
}

// UserID returns the user id when the actor is a registered user.
func (a Actor) UserID() (uint64, bool) {
    if a.Kind == ActorUser {
        return a.ID, true
    }
    return 0, false
}

// GuestID returns the guest id when the actor is a guest.
func (a Actor) GuestID() (uint64, bool) {
    if a.Kind == ActorGuest {
        return a.ID, true
    }
    return 0, false
}

// Reservation records a booking of one table for one time slot.
// Start/End and the table reference are immutable after creation;
// changing them is modelled as cancel + recreate.
//
// Fields:
//  ID          – primary key identifier.
//  Actor       – user or guest who booked (exactly one kind).
//  TableID     – table being reserved.
//  StartTime   – inclusive start of the occupied interval.
//  EndTime     – exclusive end of the occupied interval.
//  GuestCount  – party size; 1..table capacity at creation time.
//  Status      – reservation state; only CONFIRMED blocks the table.
//  PhoneNumber – contact number sourced from the resolved actor.
//  Comments    – free-text note from the booker.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Reservation struct {
    ID          uint64    `json:"id"`
    Actor       Actor     `json:"-"`
    TableID     uint64    `json:"table_id"`
    StartTime   time.Time `json:"start_time"`
    EndTime     time.Time `json:"end_time"`
    GuestCount  uint32    `json:"guest_count"`
    Status      string    `json:"status"`
    PhoneNumber string    `json:"phone_number"`
    Comments    string    `json:"comments,omitempty"`
    CreatedAt   time.Time `json:"created_at"`
    UpdatedAt   time.Time `json:"updated_at"`
}

// Interval returns the half-open interval occupied by the reservation.
func (r *Reservation) Interval() Interval {
    return Interval{Start: r.StartTime, End: r.EndTime}
}
