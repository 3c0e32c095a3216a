package model

import "time"

// CartItem is a row in a member's (or guest's) shopping cart.  Exactly one
// of UserID or SessionID identifies the cart owner: logged in members use
// their user id, guests a client-generated session token, mirroring the
// seat-lock session scheme.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owning user (nullable for guest carts).
//  SessionID – owning guest session (nullable for user carts).
//  ProductID – product in the cart.
//  VariantID – chosen size/color variant (nullable).
//  Quantity  – number of units.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type CartItem struct {
    ID        uint64    // cart_items.id
    UserID    *uint64   // cart_items.user_id (nullable)
    SessionID *string   // cart_items.session_id (nullable)
    ProductID uint64    // cart_items.product_id
    VariantID *uint64   // cart_items.variant_id (nullable)
    Quantity  int       // cart_items.quantity
    CreatedAt time.Time // cart_items.created_at
    UpdatedAt time.Time // cart_items.updated_at
}
