package middleware

import (
    "net/http"

    "github.com/labstack/echo/v4"
)

// RequireAdmin aborts with 403 unless the JWT's role claim is "admin".
// Must run after JWTAuth.
func RequireAdmin() echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            if !IsAdmin(c) {
                return c.JSON(http.StatusForbidden, echo.Map{"error": "admin access required"})
            }
            return next(c)
        }
    }
}
