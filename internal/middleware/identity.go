package middleware

// identity.go holds the typed accessors for the claims JWTAuth stores in
// the Echo context, plus the string form the rate limiter keys on.

import (
    "strconv"

    "github.com/labstack/echo/v4"
)

// UserID returns the authenticated user's id, or false when the request
// carries no valid token.
func UserID(c echo.Context) (uint64, bool) {
    v, ok := c.Get("user_id").(uint64)
    return v, ok
}

// Role returns the caller's role claim, defaulting to empty for guests.
func Role(c echo.Context) string {
    if v, ok := c.Get("role").(string); ok {
        return v
    }
    return ""
}

// IsAdmin reports whether the caller carries the admin role.
func IsAdmin(c echo.Context) bool { return Role(c) == "admin" }

// rateIdentity is the per-caller component of rate limit keys: the user
// id when authenticated, "guest" otherwise.
func rateIdentity(c echo.Context) string {
    if id, ok := UserID(c); ok {
        return strconv.FormatUint(id, 10)
    }
    return "guest"
}
