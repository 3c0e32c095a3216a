package middleware // reusable HTTP middleware shared by every route group

import (
    "net/http"
    "strings"

    "github.com/golang-jwt/jwt/v5"
    "github.com/labstack/echo/v4"
)

// parseBearer validates the Authorization header's bearer token with the
// HS256 secret and returns its claims.
func parseBearer(c echo.Context, secret string) (jwt.MapClaims, bool) {
    auth := c.Request().Header.Get("Authorization")
    if !strings.HasPrefix(auth, "Bearer ") {
        return nil, false
    }
    raw := strings.TrimPrefix(auth, "Bearer ")
    tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
        if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, echo.ErrUnauthorized
        }
        return []byte(secret), nil
    })
    if err != nil || !tok.Valid {
        return nil, false
    }
    claims, ok := tok.Claims.(jwt.MapClaims)
    return claims, ok
}

// storeIdentity copies the subject and role claims into the Echo context
// under "user_id" (uint64) and "role" (string).
func storeIdentity(c echo.Context, claims jwt.MapClaims) {
    if sub, ok := claims["sub"].(float64); ok {
        c.Set("user_id", uint64(sub))
    }
    if role, ok := claims["role"].(string); ok {
        c.Set("role", role)
    }
}

// JWTAuth returns a middleware that rejects requests without a valid
// bearer access token.  On success handlers can read the caller via
// UserID(c) and Role(c).
func JWTAuth(secret string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            claims, ok := parseBearer(c, secret)
            if !ok {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing or invalid token"})
            }
            storeIdentity(c, claims)
            return next(c)
        }
    }
}

// OptionalAuth attaches the caller's identity when a valid bearer token is
// present but never rejects the request.  Guest flows (cart, seat locks,
// checkout) share routes with logged in members through this.
func OptionalAuth(secret string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            if claims, ok := parseBearer(c, secret); ok {
                storeIdentity(c, claims)
            }
            return next(c)
        }
    }
}
