package model

import "time"

// Product is a merchandise store item (jerseys, scarves, caps).  Sizes,
// colors and gallery images are stored as JSON arrays in the row; concrete
// size/color combinations with their own stock live in product_variants.
//
// Fields:
//  ID             – primary key identifier.
//  Name           – product name.
//  Slug           – unique URL-safe identifier derived from the name.
//  Description    – long form description.
//  Price          – base price in rupees.
//  CompareAtPrice – optional strike-through price for discounts.
//  Category       – store category (jersey, scarf, accessory...).
//  Sizes          – available sizes, JSON-encoded.
//  Colors         – available colors, JSON-encoded.
//  Images         – gallery image URLs, JSON-encoded.
//  FeaturedImage  – primary image URL.
//  StockQuantity  – stock for products without variants.
//  IsFeatured     – shown on the storefront highlight strip.
//  IsActive       – soft-delete / visibility flag.
//  CreatedAt      – creation timestamp.
//  UpdatedAt      – last update timestamp.
type Product struct {
    ID             uint64    // products.id
    Name           string    // products.name
    Slug           string    // products.slug
    Description    *string   // products.description (nullable)
    Price          float64   // products.price
    CompareAtPrice *float64  // products.compare_at_price (nullable)
    Category       string    // products.category
    Sizes          []string  // products.sizes (JSON array)
    Colors         []string  // products.colors (JSON array)
    Images         []string  // products.images (JSON array)
    FeaturedImage  *string   // products.featured_image (nullable)
    StockQuantity  int       // products.stock_quantity
    IsFeatured     bool      // products.is_featured
    IsActive       bool      // products.is_active
    CreatedAt      time.Time // products.created_at
    UpdatedAt      time.Time // products.updated_at
}

// ProductVariant is a concrete size/color combination of a product with
// its own SKU, stock count and price adjustment relative to the base
// product price.
type ProductVariant struct {
    ID              uint64    // product_variants.id
    ProductID       uint64    // product_variants.product_id
    Size            *string   // product_variants.size (nullable)
    Color           *string   // product_variants.color (nullable)
    SKU             *string   // product_variants.sku (nullable, unique)
    StockQuantity   int       // product_variants.stock_quantity
    PriceAdjustment float64   // product_variants.price_adjustment
    CreatedAt       time.Time // product_variants.created_at
}
