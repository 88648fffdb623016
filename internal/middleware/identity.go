package middleware

// identity.go defines helpers shared across middleware files.

import (
    "github.com/labstack/echo/v4"
)

// currentUserID returns the authenticated subject, or "anon" when the
// request carries no verified session.
func currentUserID(c echo.Context) string {
    if s, ok := c.Get(ctxUserID).(string); ok && s != "" {
        return s
    }
    return "anon"
}
