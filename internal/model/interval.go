package model

import "time"

// Interval is a half-open time range [Start, End).  Reservations occupy
// a table for exactly one interval.  The half-open convention makes
// back-to-back bookings legal: an interval ending at T does not overlap
// one starting at T.
type Interval struct {
    Start time.Time // inclusive
    End   time.Time // exclusive
}

// NewInterval builds the interval occupied by a slot starting at start
// with the given duration.
func NewInterval(start time.Time, duration time.Duration) Interval {
    return Interval{Start: start, End: start.Add(duration)}
}

// Overlaps reports whether two half-open intervals intersect.
// [a,b) and [c,d) overlap iff a < d && b > c.
func (i Interval) Overlaps(o Interval) bool {
    return i.Start.Before(o.End) && i.End.After(o.Start)
}

// Valid reports whether the interval has positive length.
func (i Interval) Valid() bool {
    return i.End.After(i.Start)
}
