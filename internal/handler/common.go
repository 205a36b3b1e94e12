// Package handler implements the HTTP layer.  Handlers bind and
// validate request DTOs, call into the booking and pricing cores and
// translate sentinel errors into HTTP statuses.
package handler

import (
    "errors"
    "net/http"
    "strconv"
    "strings"
    "time"

    "github.com/golang-jwt/jwt/v5"
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/restaurant-reservation/internal/booking"
)

// getUserID extracts the user_id from echo.Context and converts it to uint64.
func getUserID(c echo.Context) (uint64, error) {
    v := c.Get("user_id")
    switch t := v.(type) {
    case uint64:
        return t, nil
    case int:
        return uint64(t), nil
    case int64:
        return uint64(t), nil
    case float64:
        return uint64(t), nil
    case string:
        if n, err := strconv.ParseUint(t, 10, 64); err == nil {
            return n, nil
        }
    }
    return 0, errors.New("invalid user_id in context")
}

// bearerUserID parses an optional Authorization header and returns the
// authenticated user id, if any.  Endpoints that serve both guests and
// logged-in users sit outside the JWT middleware, so they resolve the
// caller here instead.
func bearerUserID(c echo.Context, secret string) (uint64, bool) {
    auth := c.Request().Header.Get("Authorization")
    if !strings.HasPrefix(auth, "Bearer ") {
        return 0, false
    }
    raw := strings.TrimPrefix(auth, "Bearer ")
    tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
        if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, echo.ErrUnauthorized
        }
        return []byte(secret), nil
    })
    if err != nil || !tok.Valid {
        return 0, false
    }
    claims, ok := tok.Claims.(jwt.MapClaims)
    if !ok {
        return 0, false
    }
    switch sub := claims["sub"].(type) {
    case float64:
        return uint64(sub), true
    case string:
        if n, err := strconv.ParseUint(sub, 10, 64); err == nil {
            return n, true
        }
    }
    return 0, false
}

// parseDate parses a YYYY-MM-DD query value as a UTC calendar day.
func parseDate(s string) (time.Time, error) {
    return time.Parse("2006-01-02", strings.TrimSpace(s))
}

// bookingStatus maps a booking sentinel to its HTTP status.  Unknown
// errors fall through to 500.
func bookingStatus(err error) int {
    switch {
    case errors.Is(err, booking.ErrTableNotFound),
        errors.Is(err, booking.ErrUserNotFound),
        errors.Is(err, booking.ErrGuestNotFound),
        errors.Is(err, booking.ErrReservationNotFound):
        return http.StatusNotFound
    case errors.Is(err, booking.ErrSlotTaken):
        return http.StatusConflict
    case errors.Is(err, booking.ErrTableUnavailable),
        errors.Is(err, booking.ErrGuestCount),
        errors.Is(err, booking.ErrCapacityExceeded),
        errors.Is(err, booking.ErrOutsideHours),
        errors.Is(err, booking.ErrActorRequired),
        errors.Is(err, booking.ErrBadStatus),
        errors.Is(err, booking.ErrEmptyPatch):
        return http.StatusBadRequest
    }
    return http.StatusInternalServerError
}

// bookingError writes the HTTP response for a booking failure.  The
// message body only echoes the sentinel text; internal errors stay
// generic.
func bookingError(c echo.Context, err error) error {
    status := bookingStatus(err)
    if status == http.StatusInternalServerError {
        return c.JSON(status, echo.Map{"error": "internal error"})
    }
    return c.JSON(status, echo.Map{"error": err.Error()})
}
