package repository

import (
    "context"
    "database/sql"

    "github.com/TEJASVISJAIN/fcb-hyderabad-backend/internal/model"
)

// CartRepo provides data access to cart_items.  A cart is owned either by
// a user id or by a guest session id; CartOwner captures that choice so
// every query filters on exactly one of the two columns.
type CartRepo struct{ DB *sql.DB }

// NewCartRepo returns a new CartRepo bound to the provided database.
func NewCartRepo(db *sql.DB) *CartRepo { return &CartRepo{DB: db} }

// CartOwner identifies whose cart a query operates on.  UserID takes
// precedence when both are set.
type CartOwner struct {
    UserID    *uint64
    SessionID string
}

func (o CartOwner) where() (string, any) {
    if o.UserID != nil {
        return "user_id = ?", *o.UserID
    }
    return "session_id = ?", o.SessionID
}

// CartLine is a cart item joined with the product fields the cart page
// displays.  LinePrice already includes any variant price adjustment.
type CartLine struct {
    model.CartItem
    ProductName   string
    ProductSlug   string
    FeaturedImage *string
    StockQuantity int
    LinePrice     float64
}

// List returns the owner's cart lines with product details, oldest first.
func (r *CartRepo) List(ctx context.Context, owner CartOwner) ([]CartLine, error) {
    cond, arg := owner.where()
    rows, err := r.DB.QueryContext(ctx,
        `SELECT ci.id, ci.user_id, ci.session_id, ci.product_id, ci.variant_id,
                ci.quantity, ci.created_at, ci.updated_at,
                p.name, p.slug, p.featured_image, p.stock_quantity,
                p.price + COALESCE(pv.price_adjustment, 0)
           FROM cart_items ci
           JOIN products p ON p.id = ci.product_id AND p.is_active = 1
           LEFT JOIN product_variants pv ON pv.id = ci.variant_id
          WHERE ci.`+cond+`
          ORDER BY ci.created_at`, arg)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    lines := []CartLine{}
    for rows.Next() {
        var l CartLine
        if err := rows.Scan(&l.ID, &l.UserID, &l.SessionID, &l.ProductID, &l.VariantID,
            &l.Quantity, &l.CreatedAt, &l.UpdatedAt,
            &l.ProductName, &l.ProductSlug, &l.FeaturedImage, &l.StockQuantity,
            &l.LinePrice); err != nil {
            return nil, err
        }
        lines = append(lines, l)
    }
    return lines, rows.Err()
}

// Add puts qty units of a product (optionally a specific variant) into the
// owner's cart.  Adding a product already in the cart bumps the existing
// row's quantity instead of creating a duplicate line.
func (r *CartRepo) Add(ctx context.Context, owner CartOwner, productID uint64, variantID *uint64, qty int) error {
    cond, arg := owner.where()
    variantCond := "variant_id <=> ?"
    var existing uint64
    err := r.DB.QueryRowContext(ctx,
        `SELECT id FROM cart_items WHERE `+cond+` AND product_id = ? AND `+variantCond,
        arg, productID, variantID).Scan(&existing)
    switch {
    case err == nil:
        _, err = r.DB.ExecContext(ctx,
            `UPDATE cart_items SET quantity = quantity + ?, updated_at = UTC_TIMESTAMP() WHERE id = ?`,
            qty, existing)
        return err
    case err == sql.ErrNoRows:
        _, err = r.DB.ExecContext(ctx,
            `INSERT INTO cart_items (user_id, session_id, product_id, variant_id, quantity)
             VALUES (?, ?, ?, ?, ?)`,
            owner.UserID, nullableSession(owner), productID, variantID, qty)
        return err
    default:
        return err
    }
}

func nullableSession(o CartOwner) *string {
    if o.UserID != nil {
        return nil
    }
    return &o.SessionID
}

// UpdateQuantity sets a cart line's quantity.  A quantity of zero removes
// the line.  Returns ErrCartItemNotFound when the line does not belong to
// the owner.
func (r *CartRepo) UpdateQuantity(ctx context.Context, owner CartOwner, itemID uint64, qty int) error {
    cond, arg := owner.where()
    var (
        res sql.Result
        err error
    )
    if qty <= 0 {
        res, err = r.DB.ExecContext(ctx,
            `DELETE FROM cart_items WHERE id = ? AND `+cond, itemID, arg)
    } else {
        res, err = r.DB.ExecContext(ctx,
            `UPDATE cart_items SET quantity = ?, updated_at = UTC_TIMESTAMP()
              WHERE id = ? AND `+cond, qty, itemID, arg)
    }
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return ErrCartItemNotFound
    }
    return nil
}

// Remove deletes one cart line.  Returns ErrCartItemNotFound when the line
// does not belong to the owner.
func (r *CartRepo) Remove(ctx context.Context, owner CartOwner, itemID uint64) error {
    cond, arg := owner.where()
    res, err := r.DB.ExecContext(ctx,
        `DELETE FROM cart_items WHERE id = ? AND `+cond, itemID, arg)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return ErrCartItemNotFound
    }
    return nil
}

// Clear empties the owner's cart.  Idempotent.
func (r *CartRepo) Clear(ctx context.Context, owner CartOwner) error {
    cond, arg := owner.where()
    _, err := r.DB.ExecContext(ctx, `DELETE FROM cart_items WHERE `+cond, arg)
    return err
}

// ClearTx empties the owner's cart inside an order-placement transaction.
func (r *CartRepo) ClearTx(ctx context.Context, tx *sql.Tx, owner CartOwner) error {
    cond, arg := owner.where()
    _, err := tx.ExecContext(ctx, `DELETE FROM cart_items WHERE `+cond, arg)
    return err
}

// Merge moves a guest session's cart lines onto a user's cart after login.
// Lines for products already in the user's cart have their quantities
// added together.
func (r *CartRepo) Merge(ctx context.Context, sessionID string, userID uint64) error {
    tx, err := r.DB.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()
    rows, err := tx.QueryContext(ctx,
        `SELECT id, product_id, variant_id, quantity FROM cart_items WHERE session_id = ?`,
        sessionID)
    if err != nil {
        return err
    }
    type guestLine struct {
        id, productID uint64
        variantID     *uint64
        qty           int
    }
    guest := []guestLine{}
    for rows.Next() {
        var g guestLine
        if err := rows.Scan(&g.id, &g.productID, &g.variantID, &g.qty); err != nil {
            rows.Close()
            return err
        }
        guest = append(guest, g)
    }
    rows.Close()
    if err := rows.Err(); err != nil {
        return err
    }
    for _, g := range guest {
        var userItem uint64
        err := tx.QueryRowContext(ctx,
            `SELECT id FROM cart_items WHERE user_id = ? AND product_id = ? AND variant_id <=> ?`,
            userID, g.productID, g.variantID).Scan(&userItem)
        switch {
        case err == nil:
            if _, err := tx.ExecContext(ctx,
                `UPDATE cart_items SET quantity = quantity + ?, updated_at = UTC_TIMESTAMP() WHERE id = ?`,
                g.qty, userItem); err != nil {
                return err
            }
            if _, err := tx.ExecContext(ctx,
                `DELETE FROM cart_items WHERE id = ?`, g.id); err != nil {
                return err
            }
        case err == sql.ErrNoRows:
            if _, err := tx.ExecContext(ctx,
                `UPDATE cart_items SET user_id = ?, session_id = NULL, updated_at = UTC_TIMESTAMP()
                  WHERE id = ?`, userID, g.id); err != nil {
                return err
            }
        default:
            return err
        }
    }
    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}
