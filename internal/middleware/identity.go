package middleware

// identity.go defines helpers shared across middleware files.  The
// rate limiter keys buckets per person where a token is present; the
// public browse routes fall back to "guest" plus the client IP.

import (
    "fmt"

    "github.com/labstack/echo/v4"
)

// personKey extracts a person identifier from the claims JWTAuth stored
// in context.  It returns "guest" when no one is authenticated.
func personKey(c echo.Context) string {
    v := c.Get("person_id")
    if v == nil {
        return "guest"
    }
    switch id := v.(type) {
    case string:
        if id != "" {
            return id
        }
    case float64:
        // MapClaims decodes numeric subjects as float64.
        return fmt.Sprintf("%.0f", id)
    }
    return "guest"
}
