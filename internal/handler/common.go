package handler

import (
    "errors"
    "strconv"

    "github.com/labstack/echo/v4"

    mw "github.com/TEJASVISJAIN/fcb-hyderabad-backend/internal/middleware"
    "github.com/TEJASVISJAIN/fcb-hyderabad-backend/internal/repository"
)

// getUserID extracts the authenticated user's id stored by the JWT
// middleware.  Returns an error for guests.
func getUserID(c echo.Context) (uint64, error) {
    if id, ok := mw.UserID(c); ok {
        return id, nil
    }
    return 0, errors.New("no user in context")
}

// pathID parses a positive numeric path parameter.
func pathID(c echo.Context, name string) (uint64, bool) {
    id, err := strconv.ParseUint(c.Param(name), 10, 64)
    return id, err == nil && id != 0
}

// cartOwner resolves who owns the cart touched by this request: the
// authenticated user when a token is present, otherwise the guest session
// from the X-Session-Id header.  Empty session means no identity at all.
func cartOwner(c echo.Context) (repository.CartOwner, bool) {
    if id, ok := mw.UserID(c); ok {
        return repository.CartOwner{UserID: &id}, true
    }
    if sid := c.Request().Header.Get("X-Session-Id"); sid != "" {
        return repository.CartOwner{SessionID: sid}, true
    }
    return repository.CartOwner{}, false
}
