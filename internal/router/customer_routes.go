package router

import (
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/restaurant-reservation/internal/handler"
    "github.com/iliyamo/restaurant-reservation/internal/middleware"
)

// RegisterCustomer registers the authenticated read/update endpoints.
// Both roles pass the gate; the handlers themselves restrict customers
// to their own reservations and orders.
func RegisterCustomer(e *echo.Echo, r *handler.ReservationHandler, o *handler.OrderHandler, jwtSecret string) {
    g := e.Group(
        "/v1",
        middleware.JWTAuth(jwtSecret),
        middleware.RequireRole("CUSTOMER", "ADMIN"),
    )
    g.GET("/reservations/:id", r.Get)
    g.PUT("/reservations/:id", r.Update)
    g.GET("/users/:id/reservations", r.ListByUser)

    g.GET("/orders/:id", o.Get)
    g.GET("/users/:id/orders", o.ListByUser)
}
