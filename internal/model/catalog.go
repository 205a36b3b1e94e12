package model

// Catalog types are read-only collaborators for order pricing.  They are
// owned by the menu administration side of the system; the pricing code
// only resolves variants and modifier options against them.

// Dish is a menu entry with one or more priced variants and optional
// modifier groups.
type Dish struct {
    ID          uint64          `json:"id"`
    Name        string          `json:"name"`
    Description string          `json:"description,omitempty"`
    Category    string          `json:"category,omitempty"`
    ImageURL    string          `json:"image_url,omitempty"`
    IsAvailable bool            `json:"is_available"`
    Variants    []DishVariant   `json:"variants"`
    Modifiers   []ModifierGroup `json:"modifier_groups,omitempty"`
}

// DishVariant is one orderable size/version of a dish with its own base
// price.  Prices are integer cents.
type DishVariant struct {
    ID         uint64 `json:"id"`
    DishID     uint64 `json:"-"`
    SizeLabel  string `json:"size_label"`
    PriceCents int64  `json:"price_cents"`
    IsDefault  bool   `json:"is_default"`
}

// ModifierGroup bundles selectable options that adjust the unit price
// (e.g. milk choice, toppings).
type ModifierGroup struct {
    ID         uint64           `json:"id"`
    Name       string           `json:"name"`
    IsRequired bool             `json:"is_required"`
    Options    []ModifierOption `json:"options"`
}

// ModifierOption is a single selectable option with a price delta in
// cents (may be zero or negative).
type ModifierOption struct {
    ID              uint64 `json:"id"`
    GroupID         uint64 `json:"-"`
    Name            string `json:"name"`
    PriceDeltaCents int64  `json:"price_delta_cents"`
    IsDefault       bool   `json:"is_default"`
}

// VariantByID finds a variant belonging to the dish.
func (d *Dish) VariantByID(id uint64) (DishVariant, bool) {
    for _, v := range d.Variants {
        if v.ID == id {
            return v, true
        }
    }
    return DishVariant{}, false
}

// ModifierOptionByID finds an option across the dish's modifier groups.
func (d *Dish) ModifierOptionByID(id uint64) (ModifierOption, bool) {
    for _, g := range d.Modifiers {
        for _, o := range g.Options {
            if o.ID == id {
                return o, true
            }
        }
    }
    return ModifierOption{}, false
}
