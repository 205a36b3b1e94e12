package booking

import (
    "time"

    "github.com/iliyamo/restaurant-reservation/internal/model"
)

// Hours describes the restaurant's operating window and the slot
// granularity used for reservation offers.  It is built once from
// configuration and passed explicitly into the schedule and allocator;
// nothing in the core reads ambient config.
type Hours struct {
    Opening      int           // first bookable hour of the day (0..23)
    Closing      int           // hour the restaurant closes (exclusive upper bound)
    SlotDuration time.Duration // fixed length of every reservation slot
}

// Window returns the [opening, closing) interval for the given calendar
// day.  The date's own clock time is ignored.
func (h Hours) Window(date time.Time) model.Interval {
    day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
    return model.Interval{
        Start: day.Add(time.Duration(h.Opening) * time.Hour),
        End:   day.Add(time.Duration(h.Closing) * time.Hour),
    }
}

// Slots generates the slot grid for one day: intervals of SlotDuration
// starting at the opening hour.  A trailing slot whose end would land
// past the closing hour is dropped, so the grid never crosses midnight
// and degenerate (start >= end) slots cannot appear.
func (h Hours) Slots(date time.Time) []model.Interval {
    win := h.Window(date)
    if h.SlotDuration <= 0 || !win.Valid() {
        return nil
    }
    var slots []model.Interval
    for start := win.Start; ; start = start.Add(h.SlotDuration) {
        end := start.Add(h.SlotDuration)
        if end.After(win.End) {
            break
        }
        slots = append(slots, model.Interval{Start: start, End: end})
    }
    return slots
}

// SlotAt returns the grid slot beginning at the given start time, or
// false when the start does not lie on the grid.
func (h Hours) SlotAt(start time.Time) (model.Interval, bool) {
    for _, s := range h.Slots(start) {
        if s.Start.Equal(start) {
            return s, true
        }
    }
    return model.Interval{}, false
}
