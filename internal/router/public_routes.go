package router

import (
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/restaurant-reservation/internal/handler"
)

// RegisterPublic registers the unauthenticated endpoints: availability
// browsing, the menu, the floor plan and the guest-friendly create
// operations for reservations and orders.  The cache middleware is
// applied only to the availability reads, where identical queries
// repeat heavily; creates must never be cached.
func RegisterPublic(e *echo.Echo, r *handler.ReservationHandler, t *handler.TableHandler, d *handler.DishHandler, o *handler.OrderHandler, cache echo.MiddlewareFunc) {
    e.GET("/v1/reservations/available-slots", r.AvailableSlots, cache)
    e.GET("/v1/reservations/available-tables", r.AvailableTables, cache)
    e.POST("/v1/reservations", r.Create)

    e.GET("/v1/tables", t.List)
    e.GET("/v1/tables/:id", t.Get)

    e.GET("/v1/dishes", d.List, cache)
    e.GET("/v1/dishes/:id", d.Get, cache)
    e.POST("/v1/orders", o.Create)
}
