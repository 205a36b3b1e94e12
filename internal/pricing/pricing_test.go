package pricing

import (
    "context"
    "errors"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/restaurant-reservation/internal/model"
)

type fakeCatalog struct {
    dishes map[uint64]*model.Dish
}

func (f *fakeCatalog) DishByID(_ context.Context, id uint64) (*model.Dish, error) {
    d, ok := f.dishes[id]
    if !ok {
        return nil, ErrDishNotFound
    }
    return d, nil
}

func testCatalog() *fakeCatalog {
    return &fakeCatalog{dishes: map[uint64]*model.Dish{
        1: {
            ID: 1, Name: "Latte", IsAvailable: true,
            Variants: []model.DishVariant{
                {ID: 10, DishID: 1, SizeLabel: "small", PriceCents: 350},
                {ID: 11, DishID: 1, SizeLabel: "large", PriceCents: 450},
            },
            Modifiers: []model.ModifierGroup{{
                ID: 1, Name: "Milk",
                Options: []model.ModifierOption{
                    {ID: 100, GroupID: 1, Name: "oat", PriceDeltaCents: 60},
                    {ID: 101, GroupID: 1, Name: "skim", PriceDeltaCents: 0},
                },
            }},
        },
        2: {
            ID: 2, Name: "Soup of the day", IsAvailable: false,
            Variants: []model.DishVariant{{ID: 20, DishID: 2, PriceCents: 700}},
        },
        3: {
            ID: 3, Name: "Burger", IsAvailable: true,
            Variants: []model.DishVariant{{ID: 30, DishID: 3, PriceCents: 1200}},
        },
    }}
}

func TestPriceComputesTotals(t *testing.T) {
    p := NewPricer(testCatalog())

    quote, err := p.Price(context.Background(), []ItemInput{
        {DishID: 1, VariantID: 11, Quantity: 2, ModifierOptionIDs: []uint64{100}},
        {DishID: 3, VariantID: 30, Quantity: 1},
    })
    require.NoError(t, err)
    require.Len(t, quote.Items, 2)

    // large latte 450 + oat 60 = 510 per unit
    assert.Equal(t, int64(510), quote.Items[0].UnitPriceCents)
    assert.Equal(t, int64(1200), quote.Items[1].UnitPriceCents)
    assert.Equal(t, int64(2*510+1200), quote.TotalCents)
    assert.Equal(t, "Latte", quote.Items[0].DishName)
}

func TestPriceZeroAndNegativeDeltas(t *testing.T) {
    cat := testCatalog()
    cat.dishes[1].Modifiers[0].Options = append(cat.dishes[1].Modifiers[0].Options,
        model.ModifierOption{ID: 102, GroupID: 1, Name: "no foam", PriceDeltaCents: -50})
    p := NewPricer(cat)

    quote, err := p.Price(context.Background(), []ItemInput{
        {DishID: 1, VariantID: 10, Quantity: 1, ModifierOptionIDs: []uint64{101, 102}},
    })
    require.NoError(t, err)
    assert.Equal(t, int64(300), quote.TotalCents)
}

func TestPriceFailures(t *testing.T) {
    p := NewPricer(testCatalog())
    ctx := context.Background()

    _, err := p.Price(ctx, nil)
    assert.True(t, errors.Is(err, ErrNoItems))

    _, err = p.Price(ctx, []ItemInput{{DishID: 1, VariantID: 10, Quantity: 0}})
    assert.True(t, errors.Is(err, ErrQuantity))

    _, err = p.Price(ctx, []ItemInput{{DishID: 99, VariantID: 10, Quantity: 1}})
    assert.True(t, errors.Is(err, ErrDishNotFound))

    _, err = p.Price(ctx, []ItemInput{{DishID: 2, VariantID: 20, Quantity: 1}})
    assert.True(t, errors.Is(err, ErrDishUnavailable))

    // Variant 30 belongs to the burger, not the latte.
    _, err = p.Price(ctx, []ItemInput{{DishID: 1, VariantID: 30, Quantity: 1}})
    assert.True(t, errors.Is(err, ErrVariantMismatch))

    _, err = p.Price(ctx, []ItemInput{{DishID: 1, VariantID: 10, Quantity: 1, ModifierOptionIDs: []uint64{999}}})
    assert.True(t, errors.Is(err, ErrModifierUnknown))

    // One bad line fails the whole order.
    _, err = p.Price(ctx, []ItemInput{
        {DishID: 3, VariantID: 30, Quantity: 1},
        {DishID: 2, VariantID: 20, Quantity: 1},
    })
    assert.True(t, errors.Is(err, ErrDishUnavailable))
}
