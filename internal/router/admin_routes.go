package router

import (
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/restaurant-reservation/internal/handler"
    "github.com/iliyamo/restaurant-reservation/internal/middleware"
)

// RegisterAdmin registers endpoints restricted to the ADMIN role:
// floor-plan management, guest lookups, hard reservation deletes and
// order status transitions.
func RegisterAdmin(e *echo.Echo, r *handler.ReservationHandler, t *handler.TableHandler, o *handler.OrderHandler, gh *handler.GuestHandler, jwtSecret string) {
    g := e.Group(
        "/v1",
        middleware.JWTAuth(jwtSecret),
        middleware.RequireRole("ADMIN"),
    )
    g.POST("/tables", t.Create)
    g.PUT("/tables/:id", t.Update)
    g.DELETE("/tables/:id", t.Delete)

    g.DELETE("/reservations/:id", r.Delete)
    g.GET("/guests/:phone", gh.GetByPhone)
    g.GET("/guests/:phone/reservations", r.ListByGuestPhone)

    g.PUT("/orders/:id/status", o.UpdateStatus)
}
