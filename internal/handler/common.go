package handler // handler defines http handlers

import (
    "context"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/rs/zerolog/log"
)

// defaultTimeout bounds the database work of one request when the handler
// was built without an explicit timeout.
const defaultTimeout = 5 * time.Second

// requestCtx derives a context for repository calls from the request.
func requestCtx(c echo.Context, d time.Duration) (context.Context, context.CancelFunc) {
    if d <= 0 {
        d = defaultTimeout
    }
    return context.WithTimeout(c.Request().Context(), d)
}

// internalError logs err with the matched route and answers 500 with msg.
// Driver and wrapping details stay in the log.
func internalError(c echo.Context, err error, msg string) error {
    logError(c, err, msg)
    return c.JSON(http.StatusInternalServerError, echo.Map{"error": msg})
}

func logError(c echo.Context, err error, msg string) {
    log.Error().
        Err(err).
        Str("route", c.Path()).
        Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
        Msg(msg)
}
