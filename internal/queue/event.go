// Package queue defines message payloads exchanged over the message broker.
package queue

// ReservationConfirmedEvent is published after a reservation commits.
// It carries enough information for downstream consumers to log or
// notify without querying the primary database.  Exactly one of UserID
// and GuestID is non-zero, mirroring the actor behind the booking.
type ReservationConfirmedEvent struct {
    ReservationID uint64 `json:"reservation_id"`
    UserID        uint64 `json:"user_id,omitempty"`
    GuestID       uint64 `json:"guest_id,omitempty"`
    TableID       uint64 `json:"table_id"`
    TableNumber   uint32 `json:"table_number"`
    GuestCount    uint32 `json:"guest_count"`
    PhoneNumber   string `json:"phone_number"`
    StartsAt      string `json:"starts_at"`
    EndsAt        string `json:"ends_at"`
    ConfirmedAt   string `json:"confirmed_at"`
}
