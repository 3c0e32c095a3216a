package router

import (
	"github.com/labstack/echo/v4"

	"github.com/TEJASVISJAIN/fcb-hyderabad-backend/internal/handler"
)

// RegisterRoutes registers routes that do not belong to any API area: the
// health check used by load balancers and the static file server for
// uploaded images and receipts.
func RegisterRoutes(e *echo.Echo, uploadDir string) {
	e.GET("/healthz", handler.Health)
	// Uploaded files (event covers, product images, payment screenshots)
	// are served straight from disk under /uploads.
	e.Static("/uploads", uploadDir)
}
