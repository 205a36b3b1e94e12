// Package booking implements the reservation core: the operating-hours
// slot grid, availability queries, actor resolution and the allocator
// that commits new reservations without double booking.
package booking

import "errors"

// Sentinel errors returned by the booking core.  Handlers translate
// them into HTTP statuses: not-found values become 404, validation
// values become 400 and ErrSlotTaken becomes 409.
var (
    // ErrTableNotFound is returned when the referenced table does not exist.
    ErrTableNotFound = errors.New("table not found")

    // ErrUserNotFound is returned when an actor references an unknown user id.
    ErrUserNotFound = errors.New("user not found")

    // ErrReservationNotFound is returned when updating or reading a
    // reservation that does not exist.
    ErrReservationNotFound = errors.New("reservation not found")

    // ErrGuestNotFound is returned by guest lookups when no row matches
    // the phone number.  ResolveActor treats it as "create lazily".
    ErrGuestNotFound = errors.New("guest not found")

    // ErrTableUnavailable is returned when the table's operational flag is off.
    ErrTableUnavailable = errors.New("table is not available")

    // ErrGuestCount is returned when the requested party size is below one.
    ErrGuestCount = errors.New("guest count must be at least 1")

    // ErrCapacityExceeded is returned when the party does not fit the table.
    ErrCapacityExceeded = errors.New("guest count exceeds table capacity")

    // ErrOutsideHours is returned when the requested slot does not lie on
    // the operating-hours grid.
    ErrOutsideHours = errors.New("slot is outside operating hours")

    // ErrSlotTaken is returned when a confirmed reservation already
    // overlaps the requested interval.  It is raised inside the commit
    // transaction and must not be retried automatically.
    ErrSlotTaken = errors.New("table already booked for this slot")

    // ErrActorRequired is returned when neither a user id nor a phone
    // number identifies the booking actor.
    ErrActorRequired = errors.New("either user_id or phone_number is required")

    // ErrBadStatus is returned for an unknown reservation status value.
    ErrBadStatus = errors.New("unknown reservation status")

    // ErrEmptyPatch is returned when an update carries no mutable fields.
    ErrEmptyPatch = errors.New("no updatable fields provided")
)
