package model

import (
    "testing"
    "time"
)

func mustTime(t *testing.T, s string) time.Time {
    t.Helper()
    ts, err := time.Parse(time.RFC3339, s)
    if err != nil {
        t.Fatalf("parse %q: %v", s, err)
    }
    return ts
}

func TestIntervalOverlaps(t *testing.T) {
    base := Interval{
        Start: mustTime(t, "2025-05-09T18:00:00Z"),
        End:   mustTime(t, "2025-05-09T19:00:00Z"),
    }
    cases := []struct {
        name  string
        other Interval
        want  bool
    }{
        {"identical", base, true},
        {"contained", Interval{mustTime(t, "2025-05-09T18:15:00Z"), mustTime(t, "2025-05-09T18:45:00Z")}, true},
        {"overlap left", Interval{mustTime(t, "2025-05-09T17:30:00Z"), mustTime(t, "2025-05-09T18:30:00Z")}, true},
        {"overlap right", Interval{mustTime(t, "2025-05-09T18:30:00Z"), mustTime(t, "2025-05-09T19:30:00Z")}, true},
        {"covering", Interval{mustTime(t, "2025-05-09T17:00:00Z"), mustTime(t, "2025-05-09T20:00:00Z")}, true},
        {"back-to-back before", Interval{mustTime(t, "2025-05-09T17:00:00Z"), mustTime(t, "2025-05-09T18:00:00Z")}, false},
        {"back-to-back after", Interval{mustTime(t, "2025-05-09T19:00:00Z"), mustTime(t, "2025-05-09T20:00:00Z")}, false},
        {"disjoint", Interval{mustTime(t, "2025-05-09T20:00:00Z"), mustTime(t, "2025-05-09T21:00:00Z")}, false},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            if got := base.Overlaps(tc.other); got != tc.want {
                t.Errorf("Overlaps(%v) = %v, want %v", tc.other, got, tc.want)
            }
            // Overlap is symmetric.
            if got := tc.other.Overlaps(base); got != tc.want {
                t.Errorf("reverse Overlaps(%v) = %v, want %v", tc.other, got, tc.want)
            }
        })
    }
}

func TestNewInterval(t *testing.T) {
    start := mustTime(t, "2025-05-09T18:00:00Z")
    iv := NewInterval(start, time.Hour)
    if !iv.Start.Equal(start) {
        t.Errorf("Start = %v, want %v", iv.Start, start)
    }
    if !iv.End.Equal(start.Add(time.Hour)) {
        t.Errorf("End = %v, want %v", iv.End, start.Add(time.Hour))
    }
    if !iv.Valid() {
        t.Error("expected interval to be valid")
    }
    if (Interval{Start: start, End: start}).Valid() {
        t.Error("zero-length interval must be invalid")
    }
}
