package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/iliyamo/restaurant-reservation/internal/model"
    "github.com/iliyamo/restaurant-reservation/internal/pricing"
)

// CatalogRepo reads the dish catalog: dishes with their variants and
// modifier groups.  The pricing core consumes it through the
// pricing.CatalogSource interface; the catalog is administered
// elsewhere and treated as read-only here.
type CatalogRepo struct {
    db *sql.DB
}

// NewCatalogRepo returns a CatalogRepo bound to the given database.
func NewCatalogRepo(db *sql.DB) *CatalogRepo { return &CatalogRepo{db: db} }

// DishByID loads one dish with variants and modifier groups.
// pricing.ErrDishNotFound when absent.
func (r *CatalogRepo) DishByID(ctx context.Context, id uint64) (*model.Dish, error) {
    var (
        d    model.Dish
        desc sql.NullString
        cat  sql.NullString
        img  sql.NullString
    )
    err := r.db.QueryRowContext(ctx,
        `SELECT id, name, description, category, image_url, is_available FROM dishes WHERE id = ?`, id).
        Scan(&d.ID, &d.Name, &desc, &cat, &img, &d.IsAvailable)
    if errors.Is(err, sql.ErrNoRows) {
        return nil, pricing.ErrDishNotFound
    }
    if err != nil {
        return nil, err
    }
    d.Description = desc.String
    d.Category = cat.String
    d.ImageURL = img.String

    if d.Variants, err = r.variantsFor(ctx, d.ID); err != nil {
        return nil, err
    }
    if d.Modifiers, err = r.modifiersFor(ctx, d.ID); err != nil {
        return nil, err
    }
    return &d, nil
}

// ListDishes returns the catalog with variants, ordered by category and
// name.  Modifier groups are omitted from the listing; DishByID loads
// them for a single dish.
func (r *CatalogRepo) ListDishes(ctx context.Context) ([]model.Dish, error) {
    rows, err := r.db.QueryContext(ctx,
        `SELECT id, name, description, category, image_url, is_available
         FROM dishes ORDER BY category, name`)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    dishes := make([]model.Dish, 0)
    for rows.Next() {
        var (
            d    model.Dish
            desc sql.NullString
            cat  sql.NullString
            img  sql.NullString
        )
        if err := rows.Scan(&d.ID, &d.Name, &desc, &cat, &img, &d.IsAvailable); err != nil {
            return nil, err
        }
        d.Description = desc.String
        d.Category = cat.String
        d.ImageURL = img.String
        dishes = append(dishes, d)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    for i := range dishes {
        if dishes[i].Variants, err = r.variantsFor(ctx, dishes[i].ID); err != nil {
            return nil, err
        }
    }
    return dishes, nil
}

func (r *CatalogRepo) variantsFor(ctx context.Context, dishID uint64) ([]model.DishVariant, error) {
    rows, err := r.db.QueryContext(ctx,
        `SELECT id, dish_id, size_label, price_cents, is_default
         FROM dish_variants WHERE dish_id = ? ORDER BY id`, dishID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    variants := make([]model.DishVariant, 0)
    for rows.Next() {
        var v model.DishVariant
        if err := rows.Scan(&v.ID, &v.DishID, &v.SizeLabel, &v.PriceCents, &v.IsDefault); err != nil {
            return nil, err
        }
        variants = append(variants, v)
    }
    return variants, rows.Err()
}

func (r *CatalogRepo) modifiersFor(ctx context.Context, dishID uint64) ([]model.ModifierGroup, error) {
    rows, err := r.db.QueryContext(ctx,
        `SELECT g.id, g.name, g.is_required, o.id, o.group_id, o.name, o.price_delta_cents, o.is_default
         FROM modifier_groups g
         JOIN modifier_options o ON o.group_id = g.id
         WHERE g.dish_id = ?
         ORDER BY g.id, o.id`, dishID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var groups []model.ModifierGroup
    index := make(map[uint64]int)
    for rows.Next() {
        var (
            g model.ModifierGroup
            o model.ModifierOption
        )
        if err := rows.Scan(&g.ID, &g.Name, &g.IsRequired, &o.ID, &o.GroupID, &o.Name, &o.PriceDeltaCents, &o.IsDefault); err != nil {
            return nil, err
        }
        i, ok := index[g.ID]
        if !ok {
            i = len(groups)
            index[g.ID] = i
            groups = append(groups, g)
        }
        groups[i].Options = append(groups[i].Options, o)
    }
    return groups, rows.Err()
}
