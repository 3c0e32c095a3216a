package handler

import (
    "errors"
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/TEJASVISJAIN/fcb-hyderabad-backend/internal/model"
    "github.com/TEJASVISJAIN/fcb-hyderabad-backend/internal/repository"
    "github.com/TEJASVISJAIN/fcb-hyderabad-backend/internal/utils"
)

// ProductHandler serves the merch storefront and the admin catalogue
// endpoints.
type ProductHandler struct {
    Products *repository.ProductRepo
}

func NewProductHandler(products *repository.ProductRepo) *ProductHandler {
    if products == nil {
        panic("nil repository passed to NewProductHandler")
    }
    return &ProductHandler{Products: products}
}

func toProductResp(p model.Product, variants []model.ProductVariant) echo.Map {
    resp := echo.Map{
        "id":               p.ID,
        "name":             p.Name,
        "slug":             p.Slug,
        "description":      p.Description,
        "price":            p.Price,
        "compare_at_price": p.CompareAtPrice,
        "category":         p.Category,
        "sizes":            p.Sizes,
        "colors":           p.Colors,
        "images":           p.Images,
        "featured_image":   p.FeaturedImage,
        "stock_quantity":   p.StockQuantity,
        "is_featured":      p.IsFeatured,
        "is_active":        p.IsActive,
        "created_at":       p.CreatedAt,
    }
    if variants != nil {
        vs := make([]echo.Map, 0, len(variants))
        for _, v := range variants {
            vs = append(vs, echo.Map{
                "id":               v.ID,
                "size":             v.Size,
                "color":            v.Color,
                "sku":              v.SKU,
                "stock_quantity":   v.StockQuantity,
                "price_adjustment": v.PriceAdjustment,
            })
        }
        resp["variants"] = vs
    }
    return resp
}

// List handles GET /api/products?category=&featured=&search=.
func (h *ProductHandler) List(c echo.Context) error {
    filter := repository.ProductFilter{
        Category: c.QueryParam("category"),
        Featured: c.QueryParam("featured") == "true",
        Search:   strings.TrimSpace(c.QueryParam("search")),
    }
    products, err := h.Products.ListActive(c.Request().Context(), filter)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    out := make([]echo.Map, 0, len(products))
    for _, p := range products {
        out = append(out, toProductResp(p, nil))
    }
    return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// Categories handles GET /api/products/categories/all.
func (h *ProductHandler) Categories(c echo.Context) error {
    cats, err := h.Products.Categories(c.Request().Context())
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"categories": cats})
}

// ListAll handles GET /api/products/admin/all, inactive products included.
func (h *ProductHandler) ListAll(c echo.Context) error {
    products, err := h.Products.ListAll(c.Request().Context())
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    out := make([]echo.Map, 0, len(products))
    for _, p := range products {
        out = append(out, toProductResp(p, nil))
    }
    return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// Get handles GET /api/products/:slug with the product's variants.
func (h *ProductHandler) Get(c echo.Context) error {
    slug := c.Param("slug")
    if slug == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid slug"})
    }
    ctx := c.Request().Context()
    p, err := h.Products.GetActiveBySlug(ctx, slug)
    if err != nil {
        if errors.Is(err, repository.ErrProductNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    variants, err := h.Products.ListVariants(ctx, p.ID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"item": toProductResp(p, variants)})
}

type productCreateReq struct {
    Name           string   `json:"name"`
    Description    *string  `json:"description"`
    Price          float64  `json:"price"`
    CompareAtPrice *float64 `json:"compare_at_price"`
    Category       string   `json:"category"`
    Sizes          []string `json:"sizes"`
    Colors         []string `json:"colors"`
    Images         []string `json:"images"`
    FeaturedImage  *string  `json:"featured_image"`
    StockQuantity  int      `json:"stock_quantity"`
    IsFeatured     bool     `json:"is_featured"`
}

// Create handles POST /api/products (admin).  The slug is derived from
// the name.
func (h *ProductHandler) Create(c echo.Context) error {
    var body productCreateReq
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if body.Name == "" || body.Category == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and category are required"})
    }
    if body.Price < 0 || body.StockQuantity < 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "price and stock_quantity must be non-negative"})
    }
    p := model.Product{
        Name:           body.Name,
        Slug:           utils.Slugify(body.Name),
        Description:    body.Description,
        Price:          body.Price,
        CompareAtPrice: body.CompareAtPrice,
        Category:       body.Category,
        Sizes:          body.Sizes,
        Colors:         body.Colors,
        Images:         body.Images,
        FeaturedImage:  body.FeaturedImage,
        StockQuantity:  body.StockQuantity,
        IsFeatured:     body.IsFeatured,
        IsActive:       true,
    }
    ctx := c.Request().Context()
    id, err := h.Products.Create(ctx, &p)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create product"})
    }
    created, err := h.Products.GetByID(ctx, id)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load product"})
    }
    return c.JSON(http.StatusCreated, echo.Map{"item": toProductResp(created, nil)})
}

type productUpdateReq struct {
    Name           *string  `json:"name"`
    Description    *string  `json:"description"`
    Price          *float64 `json:"price"`
    CompareAtPrice *float64 `json:"compare_at_price"`
    Category       *string  `json:"category"`
    Sizes          []string `json:"sizes"`
    Colors         []string `json:"colors"`
    Images         []string `json:"images"`
    FeaturedImage  *string  `json:"featured_image"`
    StockQuantity  *int     `json:"stock_quantity"`
    IsFeatured     *bool    `json:"is_featured"`
    IsActive       *bool    `json:"is_active"`
}

// Update handles PUT /api/products/:id (admin).  Renames recompute the
// slug.
func (h *ProductHandler) Update(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
    }
    var body productUpdateReq
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    patch := repository.ProductPatch{
        Name:           body.Name,
        Description:    body.Description,
        Price:          body.Price,
        CompareAtPrice: body.CompareAtPrice,
        Category:       body.Category,
        Sizes:          body.Sizes,
        Colors:         body.Colors,
        Images:         body.Images,
        FeaturedImage:  body.FeaturedImage,
        StockQuantity:  body.StockQuantity,
        IsFeatured:     body.IsFeatured,
        IsActive:       body.IsActive,
    }
    if body.Name != nil {
        slug := utils.Slugify(*body.Name)
        patch.Slug = &slug
    }
    ctx := c.Request().Context()
    if err := h.Products.Update(ctx, id, patch); err != nil {
        if errors.Is(err, repository.ErrProductNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update product"})
    }
    updated, err := h.Products.GetByID(ctx, id)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load product"})
    }
    return c.JSON(http.StatusOK, echo.Map{"item": toProductResp(updated, nil)})
}

// Delete handles DELETE /api/products/:id (admin).  Products are
// deactivated, not removed, so order history keeps referencing them.
func (h *ProductHandler) Delete(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
    }
    if err := h.Products.Deactivate(c.Request().Context(), id); err != nil {
        if errors.Is(err, repository.ErrProductNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete product"})
    }
    return c.NoContent(http.StatusNoContent)
}
