package router

import (
	"github.com/labstack/echo/v4"

	"github.com/TEJASVISJAIN/fcb-hyderabad-backend/internal/handler"
	"github.com/TEJASVISJAIN/fcb-hyderabad-backend/internal/middleware"
)

// RegisterEvents registers the public event catalogue, the seat lock
// endpoints used while picking tickets, and the admin event management
// routes.
func RegisterEvents(e *echo.Echo, ev *handler.EventHandler, sl *handler.SeatLockHandler, jwtSecret string) {
	// Guests browse events without authentication.
	e.GET("/api/events", ev.ListUpcoming)
	e.GET("/api/events/upcoming", ev.ListUpcoming)
	e.GET("/api/events/:id", ev.Get)
	e.GET("/api/events/:id/availability", sl.Available)

	// Seat locks are keyed by a client-generated session id, so guests can
	// hold seats before deciding to register.
	locks := e.Group("/api/seat-locks")
	locks.POST("/lock", sl.Lock)
	locks.POST("/unlock", sl.Unlock)
	locks.POST("/extend", sl.Extend)
	locks.GET("/:id/available", sl.Available)

	admin := e.Group("/api/events", middleware.JWTAuth(jwtSecret), middleware.RequireAdmin())
	admin.GET("/admin/all", ev.ListAll)
	admin.POST("", ev.Create)
	admin.PUT("/:id", ev.Update)
	admin.DELETE("/:id", ev.Delete)
	admin.GET("/:id/bookings", ev.EventBookings)
	admin.PUT("/bookings/:bookingId/status", ev.UpdateBookingStatus)
}
