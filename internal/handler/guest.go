package handler

import (
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/restaurant-reservation/internal/repository"
)

// GuestHandler serves admin lookups of guest profiles.  Guests are
// created implicitly by reservations and orders; there is no write
// surface here.
type GuestHandler struct {
    Guests *repository.GuestRepo
}

// NewGuestHandler constructs a GuestHandler.
func NewGuestHandler(guests *repository.GuestRepo) *GuestHandler {
    if guests == nil {
        panic("nil repository passed to NewGuestHandler")
    }
    return &GuestHandler{Guests: guests}
}

// GetByPhone handles GET /v1/guests/:phone (ADMIN).
func (h *GuestHandler) GetByPhone(c echo.Context) error {
    phone := strings.TrimSpace(c.Param("phone"))
    if phone == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "phone is required"})
    }
    g, err := h.Guests.GetByPhone(c.Request().Context(), phone)
    if err != nil {
        return bookingError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"guest": g})
}
