package middleware

import (
    "strconv"

    "github.com/labstack/echo/v4"
)

// currentUserID returns the authenticated user's id as stored by
// JWTAuth, or "anon" for unauthenticated requests.  Rate limit keys
// use it so logged-in diners are bucketed per account rather than per
// shared IP.  The sub claim round-trips through JSON, so it may be a
// float64 rather than a string.
func currentUserID(c echo.Context) string {
    switch v := c.Get("user_id").(type) {
    case string:
        if v != "" {
            return v
        }
    case float64:
        return strconv.FormatInt(int64(v), 10)
    case uint64:
        return strconv.FormatUint(v, 10)
    }
    return "anon"
}
