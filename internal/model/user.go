package model

import "time"

// User represents a registered account as stored in the `users` table.
// Phone number is the unique login identity; the core only reads users
// to resolve reservation/order actors and contact numbers.
//
// Fields:
//  ID           – primary key identifier.
//  PhoneNumber  – unique phone number in E.164 form.
//  PasswordHash – bcrypt hashed password.
//  FirstName    – optional profile field.
//  LastName     – optional profile field.
//  Role         – CUSTOMER or ADMIN.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
    ID           uint64    // users.id
    PhoneNumber  string    // users.phone_number
    PasswordHash string    // users.password_hash
    FirstName    string    // users.first_name
    LastName     string    // users.last_name
    Role         string    // users.role
    CreatedAt    time.Time // users.created_at
    UpdatedAt    time.Time // users.updated_at
}

// Guest is an anonymous actor created lazily the first time an unknown
// phone number books a table or places an order.  The phone number is
// the natural identity: later requests with the same number reuse the
// same row.
//
// Fields:
//  ID          – primary key identifier.
//  PhoneNumber – unique phone number.
//  Name        – display name; defaults to a placeholder when omitted.
//  CreatedAt   – timestamp of creation.
type Guest struct {
    ID          uint64    `json:"id"`           // guests.id
    PhoneNumber string    `json:"phone_number"` // guests.phone_number
    Name        string    `json:"name"`         // guests.name
    CreatedAt   time.Time `json:"created_at"`   // guests.created_at
}
