package handler

import (
    "errors"
    "net/http"
    "strconv"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/restaurant-reservation/internal/booking"
    "github.com/iliyamo/restaurant-reservation/internal/config"
    "github.com/iliyamo/restaurant-reservation/internal/model"
    "github.com/iliyamo/restaurant-reservation/internal/pricing"
    "github.com/iliyamo/restaurant-reservation/internal/repository"
)

// OrderHandler creates and reads food orders.  Pricing is computed
// server-side from the catalog; the client never supplies amounts.
// Like reservations, order creation is open to guests, so it resolves
// the optional bearer token itself.
type OrderHandler struct {
    Cfg    config.Config
    Orders *repository.OrderRepo
    Pricer *pricing.Pricer
}

// NewOrderHandler constructs an OrderHandler.
func NewOrderHandler(cfg config.Config, orders *repository.OrderRepo, pricer *pricing.Pricer) *OrderHandler {
    if orders == nil || pricer == nil {
        panic("nil dependency passed to NewOrderHandler")
    }
    return &OrderHandler{Cfg: cfg, Orders: orders, Pricer: pricer}
}

type createOrderReq struct {
    Items           []pricing.ItemInput `json:"items"`
    PhoneNumber     string              `json:"phone_number"`
    Name            string              `json:"name"`
    DeliveryAddress string              `json:"delivery_address"`
    Comments        string              `json:"comments"`
}

// Create handles POST /v1/orders.  The quote is priced first; then the
// transaction resolves the actor (creating a guest row if needed) and
// inserts the order head and items atomically.
func (h *OrderHandler) Create(c echo.Context) error {
    var req createOrderReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }

    ctx := c.Request().Context()
    quote, err := h.Pricer.Price(ctx, req.Items)
    if err != nil {
        return pricingError(c, err)
    }

    actor := booking.ActorInput{PhoneNumber: req.PhoneNumber, Name: req.Name}
    if uid, ok := bearerUserID(c, h.Cfg.JWTSecret); ok {
        actor = booking.ActorInput{UserID: &uid}
    }

    tx, err := h.Orders.Begin(ctx)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    resolved, phone, err := booking.ResolveActor(ctx, tx, actor)
    if err != nil {
        return bookingError(c, err)
    }

    order := &model.Order{
        Actor:           resolved,
        Status:          model.OrderStatusPending,
        TotalCents:      quote.TotalCents,
        DeliveryAddress: strings.TrimSpace(req.DeliveryAddress),
        Comments:        strings.TrimSpace(req.Comments),
        PhoneNumber:     phone,
        Items:           make([]model.OrderItem, 0, len(quote.Items)),
    }
    for _, it := range quote.Items {
        order.Items = append(order.Items, model.OrderItem{
            DishID:          it.DishID,
            VariantID:       it.VariantID,
            Quantity:        it.Quantity,
            UnitPriceCents:  it.UnitPriceCents,
            ModifierOptions: it.ModifierOptionIDs,
        })
    }
    if err := tx.InsertOrder(ctx, order); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create order"})
    }
    if err := tx.Commit(); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
    }
    committed = true

    return c.JSON(http.StatusCreated, echo.Map{"order": order})
}

// Get handles GET /v1/orders/:id (JWT).  Customers see only their own
// orders; admins see everything.
func (h *OrderHandler) Get(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
    }
    order, err := h.Orders.GetByID(c.Request().Context(), id)
    if err != nil {
        if errors.Is(err, repository.ErrOrderNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load order"})
    }
    if !isAdmin(c) {
        if id, ok := order.Actor.UserID(); !ok || id != userID {
            return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
        }
    }
    return c.JSON(http.StatusOK, echo.Map{"order": order})
}

// ListByUser handles GET /v1/users/:id/orders (JWT).  Customers list
// only themselves.
func (h *OrderHandler) ListByUser(c echo.Context) error {
    callerID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
    }
    if id != callerID && !isAdmin(c) {
        return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
    }
    items, err := h.Orders.ListByUser(c.Request().Context(), id)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load orders"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}

type orderStatusReq struct {
    Status string `json:"status"`
}

// UpdateStatus handles PUT /v1/orders/:id/status (ADMIN).
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
    }
    var req orderStatusReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    status := strings.ToUpper(strings.TrimSpace(req.Status))
    switch status {
    case model.OrderStatusPending, model.OrderStatusPreparing, model.OrderStatusDelivered, model.OrderStatusCancelled:
    default:
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown order status"})
    }
    order, err := h.Orders.UpdateStatus(c.Request().Context(), id, status)
    if err != nil {
        if errors.Is(err, repository.ErrOrderNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update order"})
    }
    return c.JSON(http.StatusOK, echo.Map{"order": order})
}

// pricingError maps pricing sentinels to HTTP responses.
func pricingError(c echo.Context, err error) error {
    switch {
    case errors.Is(err, pricing.ErrDishNotFound):
        return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
    case errors.Is(err, pricing.ErrDishUnavailable),
        errors.Is(err, pricing.ErrVariantMismatch),
        errors.Is(err, pricing.ErrModifierUnknown),
        errors.Is(err, pricing.ErrQuantity),
        errors.Is(err, pricing.ErrNoItems):
        return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
    }
    return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}
