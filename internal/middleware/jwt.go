package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/storefront-api/internal/utils"
)

// SessionCookie is the cookie the storefront uses to carry the session
// token when no Authorization header is sent.
const SessionCookie = "session-token"

// Context keys populated by SessionAuth.
const (
    ctxUserID  = "user_id"
    ctxRole    = "role"
    ctxSession = "session"
)

// SessionAuth returns an Echo middleware that verifies the session token
// issued by the external session provider and injects its subject and role
// into the request context.  The token is read from a Bearer Authorization
// header, falling back to the session cookie.  Handlers read the identity
// via CurrentSession.
func SessionAuth(secret string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            raw := bearerToken(c)
            if raw == "" {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
            }
            s, err := utils.ParseSessionToken(secret, raw)
            if err != nil {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
            }
            c.Set(ctxUserID, s.UserID)
            c.Set(ctxRole, s.Role)
            c.Set(ctxSession, s)
            return next(c)
        }
    }
}

// CurrentSession returns the session stored by SessionAuth.
func CurrentSession(c echo.Context) (utils.Session, bool) {
    s, ok := c.Get(ctxSession).(utils.Session)
    return s, ok && s.UserID != ""
}

func bearerToken(c echo.Context) string {
    auth := c.Request().Header.Get("Authorization")
    if strings.HasPrefix(auth, "Bearer ") {
        return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
    }
    if ck, err := c.Cookie(SessionCookie); err == nil {
        return strings.TrimSpace(ck.Value)
    }
    return ""
}
