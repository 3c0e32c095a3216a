package router

import (
	"github.com/labstack/echo/v4"

	"github.com/TEJASVISJAIN/fcb-hyderabad-backend/internal/handler"
	"github.com/TEJASVISJAIN/fcb-hyderabad-backend/internal/middleware"
)

// RegisterShop registers the merch store: the public catalogue, the cart
// (which works for guests via the X-Session-Id header) and orders.
func RegisterShop(e *echo.Echo, p *handler.ProductHandler, cart *handler.CartHandler, ord *handler.OrderHandler, jwtSecret string) {
	e.GET("/api/products", p.List)
	e.GET("/api/products/categories/all", p.Categories)
	e.GET("/api/products/:slug", p.Get)

	adminProducts := e.Group("/api/products", middleware.JWTAuth(jwtSecret), middleware.RequireAdmin())
	adminProducts.GET("/admin/all", p.ListAll)
	adminProducts.POST("", p.Create)
	adminProducts.PUT("/:id", p.Update)
	adminProducts.DELETE("/:id", p.Delete)

	// The cart resolves its owner from the access token when present and
	// falls back to the session header, so every route runs OptionalAuth.
	carts := e.Group("/api/cart", middleware.OptionalAuth(jwtSecret))
	carts.GET("", cart.Get)
	carts.POST("/items", cart.Add)
	carts.PUT("/items/:id", cart.UpdateItem)
	carts.DELETE("/items/:id", cart.RemoveItem)
	carts.DELETE("", cart.Clear)

	e.POST("/api/orders", ord.Create, middleware.OptionalAuth(jwtSecret))
	e.GET("/api/orders/my-orders", ord.MyOrders, middleware.JWTAuth(jwtSecret))
	// Guests track an order by number plus the email used at checkout.
	e.GET("/api/orders/:orderNumber", ord.Track, middleware.OptionalAuth(jwtSecret))

	adminOrders := e.Group("/api/orders/admin", middleware.JWTAuth(jwtSecret), middleware.RequireAdmin())
	adminOrders.GET("/all", ord.ListAll)
	adminOrders.PUT("/:id/status", ord.UpdateStatus)
}
