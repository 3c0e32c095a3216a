package router

import (
	"github.com/labstack/echo/v4"

	"github.com/TEJASVISJAIN/fcb-hyderabad-backend/internal/handler"
	"github.com/TEJASVISJAIN/fcb-hyderabad-backend/internal/middleware"
)

// RegisterBookings registers the ticket booking endpoints. Creation accepts
// both guests and logged-in users, so it runs under OptionalAuth; listing
// and cancelling a booking require a token.
func RegisterBookings(e *echo.Echo, b *handler.BookingHandler, jwtSecret string) {
	e.POST("/api/bookings", b.Create, middleware.OptionalAuth(jwtSecret))

	mine := e.Group("/api/bookings", middleware.JWTAuth(jwtSecret))
	mine.GET("/my-bookings", b.MyBookings)
	mine.PUT("/:id/cancel", b.Cancel)
}
