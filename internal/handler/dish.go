package handler

import (
    "errors"
    "net/http"
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/restaurant-reservation/internal/pricing"
    "github.com/iliyamo/restaurant-reservation/internal/repository"
)

// DishHandler serves public catalog reads.  Listing includes variants;
// the detail view adds modifier groups so clients can build the order
// form from a single request.
type DishHandler struct {
    Catalog *repository.CatalogRepo
}

// NewDishHandler constructs a DishHandler.
func NewDishHandler(catalog *repository.CatalogRepo) *DishHandler {
    if catalog == nil {
        panic("nil repository passed to NewDishHandler")
    }
    return &DishHandler{Catalog: catalog}
}

// List handles GET /v1/dishes.
func (h *DishHandler) List(c echo.Context) error {
    dishes, err := h.Catalog.ListDishes(c.Request().Context())
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load dishes"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": dishes})
}

// Get handles GET /v1/dishes/:id.
func (h *DishHandler) Get(c echo.Context) error {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid dish id"})
    }
    dish, err := h.Catalog.DishByID(c.Request().Context(), id)
    if err != nil {
        if errors.Is(err, pricing.ErrDishNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "dish not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load dish"})
    }
    return c.JSON(http.StatusOK, echo.Map{"dish": dish})
}
