package router

import (
	"github.com/labstack/echo/v4"

	"github.com/TEJASVISJAIN/fcb-hyderabad-backend/internal/handler"
	"github.com/TEJASVISJAIN/fcb-hyderabad-backend/internal/middleware"
)

// RegisterContent registers the blog endpoints. Reading is public; writing
// is restricted to admins.
func RegisterContent(e *echo.Echo, b *handler.BlogHandler, jwtSecret string) {
	e.GET("/api/blogs", b.List)
	e.GET("/api/blogs/tags/all", b.Tags)
	e.GET("/api/blogs/:id", b.Get)

	admin := e.Group("/api/blogs", middleware.JWTAuth(jwtSecret), middleware.RequireAdmin())
	admin.POST("", b.Create)
	admin.PUT("/:id", b.Update)
	admin.DELETE("/:id", b.Delete)
}
