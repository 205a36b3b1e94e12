package model

import "time"

// Table represents a physical table in the dining room as stored in the
// `tables` table.  IsAvailable is an operational flag set by staff (e.g.
// a broken or blocked table); it is independent of whether the table is
// booked for any particular slot.
//
// Fields:
//  ID          – primary key identifier.
//  TableNumber – human-facing table number, unique per restaurant.
//  Capacity    – number of seats; always positive.
//  IsAvailable – operational availability flag.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Table struct {
    ID          uint64    `json:"id"`           // tables.id
    TableNumber uint32    `json:"table_number"` // tables.table_number
    Capacity    uint32    `json:"capacity"`     // tables.capacity
    IsAvailable bool      `json:"is_available"` // tables.is_available
    CreatedAt   time.Time `json:"created_at"`   // tables.created_at
    UpdatedAt   time.Time `json:"updated_at"`   // tables.updated_at
}
