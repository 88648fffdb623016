package handler // declare the package name; contains HTTP handlers

import (
    "context"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/storefront-api/internal/config"
    "github.com/iliyamo/storefront-api/internal/database"
)

// Health is a liveness endpoint used by load balancers and monitoring
// systems.  It returns a plain text "ok" with status 200.
func Health(c echo.Context) error {
    return c.String(http.StatusOK, "ok")
}

// Pinger exposes the connectivity of the database store.
type Pinger interface {
    Ping(ctx context.Context) error
    State() database.State
}

// HealthHandler serves the configuration and database probes.
type HealthHandler struct {
    Store   Pinger
    Now     func() time.Time
    Timeout time.Duration
}

// AuthEnv handles GET /api/auth/health.  It lists the session provider
// variables that are unset; a missing variable never fails the request.
func (h *HealthHandler) AuthEnv(c echo.Context) error {
    missing := config.MissingEnv(config.AuthEnvKeys)
    return c.JSON(http.StatusOK, echo.Map{"ok": len(missing) == 0, "missing": missing})
}

// DB handles GET /api/health/db.  A ping error is a 500; otherwise ok is
// true only while the store reports the connected state.
func (h *HealthHandler) DB(c echo.Context) error {
    ctx, cancel := requestCtx(c, h.Timeout)
    defer cancel()

    if err := h.Store.Ping(ctx); err != nil {
        logError(c, err, "database ping failed")
        return c.JSON(http.StatusInternalServerError, echo.Map{"ok": false, "error": "database unavailable"})
    }
    now := time.Now
    if h.Now != nil {
        now = h.Now
    }
    state := h.Store.State()
    return c.JSON(http.StatusOK, echo.Map{
        "ok":    state == database.Connected,
        "state": state.String(),
        "now":   now().UTC().Format(time.RFC3339),
    })
}
