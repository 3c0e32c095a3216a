package handler

import (
    "errors"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/TEJASVISJAIN/fcb-hyderabad-backend/internal/repository"
)

// CartHandler manages the shopping cart for members and guests alike.
// Guests identify themselves with a client-generated X-Session-Id header,
// the same scheme the seat-lock flow uses.
type CartHandler struct {
    Carts    *repository.CartRepo
    Products *repository.ProductRepo
}

func NewCartHandler(carts *repository.CartRepo, products *repository.ProductRepo) *CartHandler {
    if carts == nil || products == nil {
        panic("nil repository passed to NewCartHandler")
    }
    return &CartHandler{Carts: carts, Products: products}
}

// CartTotals sums up the cart lines and applies the shipping rule:
// subtotals at or above the free-shipping threshold ship free, everything
// below pays the flat fee.
func CartTotals(lines []repository.CartLine) (subtotal, shipping, total float64) {
    for _, l := range lines {
        subtotal += l.LinePrice * float64(l.Quantity)
    }
    if subtotal > 0 && subtotal < freeShippingThreshold {
        shipping = flatShippingFee
    }
    return subtotal, shipping, subtotal + shipping
}

func (h *CartHandler) respond(c echo.Context, owner repository.CartOwner) error {
    lines, err := h.Carts.List(c.Request().Context(), owner)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    items := make([]echo.Map, 0, len(lines))
    count := 0
    for _, l := range lines {
        count += l.Quantity
        items = append(items, echo.Map{
            "id":             l.ID,
            "product_id":     l.ProductID,
            "variant_id":     l.VariantID,
            "name":           l.ProductName,
            "slug":           l.ProductSlug,
            "featured_image": l.FeaturedImage,
            "quantity":       l.Quantity,
            "unit_price":     l.LinePrice,
            "line_total":     l.LinePrice * float64(l.Quantity),
            "in_stock":       l.StockQuantity >= l.Quantity,
        })
    }
    subtotal, shipping, total := CartTotals(lines)
    return c.JSON(http.StatusOK, echo.Map{
        "items":        items,
        "count":        count,
        "subtotal":     subtotal,
        "shipping_fee": shipping,
        "total":        total,
    })
}

// Get handles GET /api/cart.
func (h *CartHandler) Get(c echo.Context) error {
    owner, ok := cartOwner(c)
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "X-Session-Id header or authentication required"})
    }
    return h.respond(c, owner)
}

type cartAddReq struct {
    ProductID uint64  `json:"product_id"`
    VariantID *uint64 `json:"variant_id"`
    Quantity  int     `json:"quantity"`
}

// Add handles POST /api/cart/items.  Re-adding a product bumps the
// quantity of its existing line.
func (h *CartHandler) Add(c echo.Context) error {
    owner, ok := cartOwner(c)
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "X-Session-Id header or authentication required"})
    }
    var body cartAddReq
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if body.ProductID == 0 || body.Quantity < 1 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "product_id and a positive quantity are required"})
    }
    ctx := c.Request().Context()
    if _, err := h.Products.GetActiveByID(ctx, body.ProductID); err != nil {
        if errors.Is(err, repository.ErrProductNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    if err := h.Carts.Add(ctx, owner, body.ProductID, body.VariantID, body.Quantity); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to add to cart"})
    }
    return h.respond(c, owner)
}

type cartQtyReq struct {
    Quantity int `json:"quantity"`
}

// UpdateItem handles PUT /api/cart/items/:id.  Quantity zero removes the
// line.
func (h *CartHandler) UpdateItem(c echo.Context) error {
    owner, ok := cartOwner(c)
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "X-Session-Id header or authentication required"})
    }
    id, okID := pathID(c, "id")
    if !okID {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid item id"})
    }
    var body cartQtyReq
    if err := c.Bind(&body); err != nil || body.Quantity < 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid quantity"})
    }
    if err := h.Carts.UpdateQuantity(c.Request().Context(), owner, id, body.Quantity); err != nil {
        if errors.Is(err, repository.ErrCartItemNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "cart item not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update cart"})
    }
    return h.respond(c, owner)
}

// RemoveItem handles DELETE /api/cart/items/:id.
func (h *CartHandler) RemoveItem(c echo.Context) error {
    owner, ok := cartOwner(c)
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "X-Session-Id header or authentication required"})
    }
    id, okID := pathID(c, "id")
    if !okID {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid item id"})
    }
    if err := h.Carts.Remove(c.Request().Context(), owner, id); err != nil {
        if errors.Is(err, repository.ErrCartItemNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "cart item not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update cart"})
    }
    return h.respond(c, owner)
}

// Clear handles DELETE /api/cart.
func (h *CartHandler) Clear(c echo.Context) error {
    owner, ok := cartOwner(c)
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "X-Session-Id header or authentication required"})
    }
    if err := h.Carts.Clear(c.Request().Context(), owner); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to clear cart"})
    }
    return c.JSON(http.StatusOK, echo.Map{"message": "cart cleared"})
}
