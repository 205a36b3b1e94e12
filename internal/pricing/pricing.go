// Package pricing computes order prices from the dish catalog: variant
// base price plus selected modifier deltas, summed per item and across
// the order.  Any invalid reference aborts the whole order.
package pricing

import (
    "context"
    "errors"
    "fmt"

    "github.com/iliyamo/restaurant-reservation/internal/model"
)

// Sentinel errors.  All of them map to HTTP 400 except ErrDishNotFound,
// which maps to 404.
var (
    ErrDishNotFound    = errors.New("dish not found")
    ErrDishUnavailable = errors.New("dish is not available")
    ErrVariantMismatch = errors.New("variant does not belong to dish")
    ErrModifierUnknown = errors.New("unknown modifier option")
    ErrQuantity        = errors.New("quantity must be at least 1")
    ErrNoItems         = errors.New("order must contain at least one item")
)

// CatalogSource resolves dishes with their variants and modifier groups.
// The repository layer implements it; pricing never mutates the catalog.
type CatalogSource interface {
    DishByID(ctx context.Context, id uint64) (*model.Dish, error)
}

// ItemInput is one requested order line before pricing.
type ItemInput struct {
    DishID            uint64   `json:"dish_id"`
    VariantID         uint64   `json:"variant_id"`
    Quantity          uint32   `json:"quantity"`
    ModifierOptionIDs []uint64 `json:"modifier_option_ids"`
}

// PricedItem is an order line with its resolved unit price.
type PricedItem struct {
    DishID            uint64
    DishName          string
    VariantID         uint64
    Quantity          uint32
    UnitPriceCents    int64
    ModifierOptionIDs []uint64
}

// Quote is the priced form of a whole order.
type Quote struct {
    Items      []PricedItem
    TotalCents int64
}

// Pricer prices orders against a catalog source.
type Pricer struct {
    catalog CatalogSource
}

// NewPricer constructs a Pricer.  The catalog source must be non-nil.
func NewPricer(catalog CatalogSource) *Pricer {
    if catalog == nil {
        panic("nil catalog passed to NewPricer")
    }
    return &Pricer{catalog: catalog}
}

// Price resolves and prices every item.  Unit price is the chosen
// variant's price plus the sum of selected modifier deltas; the item
// subtotal multiplies by quantity and the order total sums subtotals.
// The first invalid reference fails the whole order.
func (p *Pricer) Price(ctx context.Context, items []ItemInput) (*Quote, error) {
    if len(items) == 0 {
        return nil, ErrNoItems
    }
    q := &Quote{Items: make([]PricedItem, 0, len(items))}
    for _, in := range items {
        if in.Quantity < 1 {
            return nil, ErrQuantity
        }
        dish, err := p.catalog.DishByID(ctx, in.DishID)
        if err != nil {
            return nil, err
        }
        if !dish.IsAvailable {
            return nil, fmt.Errorf("%w: %s", ErrDishUnavailable, dish.Name)
        }
        variant, ok := dish.VariantByID(in.VariantID)
        if !ok {
            return nil, fmt.Errorf("%w: variant %d, dish %q", ErrVariantMismatch, in.VariantID, dish.Name)
        }
        unit := variant.PriceCents
        for _, optID := range in.ModifierOptionIDs {
            opt, ok := dish.ModifierOptionByID(optID)
            if !ok {
                return nil, fmt.Errorf("%w: option %d, dish %q", ErrModifierUnknown, optID, dish.Name)
            }
            unit += opt.PriceDeltaCents
        }
        item := PricedItem{
            DishID:            dish.ID,
            DishName:          dish.Name,
            VariantID:         variant.ID,
            Quantity:          in.Quantity,
            UnitPriceCents:    unit,
            ModifierOptionIDs: in.ModifierOptionIDs,
        }
        q.Items = append(q.Items, item)
        q.TotalCents += unit * int64(in.Quantity)
    }
    return q, nil
}
