package handler // handler exposes the HTTP endpoints of the API

import (
    "net/http"

    "github.com/labstack/echo/v4"
)

// Health is the liveness endpoint used by the reverse proxy and uptime
// monitors.  It returns a plain "ok" with HTTP 200.
func Health(c echo.Context) error {
    return c.String(http.StatusOK, "ok")
}
