package router

import (
	"github.com/labstack/echo/v4"

	"github.com/TEJASVISJAIN/fcb-hyderabad-backend/internal/handler"
	"github.com/TEJASVISJAIN/fcb-hyderabad-backend/internal/middleware"
)

// RegisterAuth registers the authentication endpoints. Register, login,
// refresh and logout live under /api/auth without middleware; /api/auth/me
// requires a valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/api/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Refresh rotates the refresh token: the presented token is revoked and
	// a new pair is issued.
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)

	g.GET("/me", a.Me, middleware.JWTAuth(jwtSecret))
}
