package model

import "time"

// Order statuses.
const (
    OrderStatusPending   = "PENDING"
    OrderStatusPreparing = "PREPARING"
    OrderStatusDelivered = "DELIVERED"
    OrderStatusCancelled = "CANCELLED"
)

// Order is a priced food order placed by a user or guest.  Items carry
// the unit price computed at ordering time so later catalog changes do
// not rewrite history.
//
// Fields:
//  ID              – primary key identifier.
//  Actor           – user or guest who ordered (exactly one kind).
//  Status          – order state.
//  TotalCents      – sum of item subtotals in cents.
//  DeliveryAddress – optional delivery address.
//  Comments        – free-text note.
//  PhoneNumber     – contact number sourced from the resolved actor.
//  Items           – priced line items.
//  CreatedAt       – creation timestamp.
//  UpdatedAt       – last update timestamp.
type Order struct {
    ID              uint64      `json:"id"`
    Actor           Actor       `json:"-"`
    Status          string      `json:"status"`
    TotalCents      int64       `json:"total_cents"`
    DeliveryAddress string      `json:"delivery_address,omitempty"`
    Comments        string      `json:"comments,omitempty"`
    PhoneNumber     string      `json:"phone_number"`
    Items           []OrderItem `json:"items"`
    CreatedAt       time.Time   `json:"created_at"`
    UpdatedAt       time.Time   `json:"updated_at"`
}

// OrderItem is one priced line of an order.
//
// Fields:
//  ID              – primary key identifier.
//  OrderID         – owning order.
//  DishID          – ordered dish.
//  VariantID       – chosen dish variant.
//  Quantity        – number of units; always >= 1.
//  UnitPriceCents  – variant price plus selected modifier deltas.
//  ModifierOptions – ids of the selected modifier options.
type OrderItem struct {
    ID              uint64   `json:"id"`
    OrderID         uint64   `json:"-"`
    DishID          uint64   `json:"dish_id"`
    VariantID       uint64   `json:"variant_id"`
    Quantity        uint32   `json:"quantity"`
    UnitPriceCents  int64    `json:"unit_price_cents"`
    ModifierOptions []uint64 `json:"modifier_option_ids,omitempty"`
}

// SubtotalCents returns unit price times quantity.
func (i OrderItem) SubtotalCents() int64 {
    return i.UnitPriceCents * int64(i.Quantity)
}
