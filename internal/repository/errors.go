// Package repository implements MySQL persistence for tables,
// reservations, guests, users, the dish catalog and orders.  Domain
// absence is reported with the booking package's sentinel errors so the
// core can branch on them; errors local to persistence (duplicate keys)
// live here.
package repository

import "errors"

// ErrPhoneExists is returned when registering a user with a phone
// number that is already taken.  Handlers translate it into HTTP 409.
var ErrPhoneExists = errors.New("phone number already registered")

// ErrTableNumberExists is returned when creating a table whose number
// is already in use.  Handlers translate it into HTTP 409.
var ErrTableNumberExists = errors.New("table number already exists")
