package repository

import (
    "context"
    "database/sql"
    "encoding/json"
    "strings"

    "github.com/TEJASVISJAIN/fcb-hyderabad-backend/internal/model"
)

// ProductRepo provides data access to the merchandise catalogue.  The
// sizes, colors and images columns hold JSON arrays; helpers below keep
// the encoding in one place.
type ProductRepo struct{ DB *sql.DB }

// NewProductRepo returns a new ProductRepo bound to the provided database.
func NewProductRepo(db *sql.DB) *ProductRepo { return &ProductRepo{DB: db} }

func encodeList(v []string) string {
    if v == nil {
        v = []string{}
    }
    b, _ := json.Marshal(v)
    return string(b)
}

func decodeList(raw sql.NullString) []string {
    if !raw.Valid || raw.String == "" {
        return []string{}
    }
    var out []string
    if err := json.Unmarshal([]byte(raw.String), &out); err != nil {
        return []string{}
    }
    return out
}

const productCols = `id, name, slug, description, price, compare_at_price, category,
       sizes, colors, images, featured_image, stock_quantity, is_featured, is_active,
       created_at, updated_at`

func scanProduct(row interface{ Scan(...any) error }) (model.Product, error) {
    var (
        p                     model.Product
        sizes, colors, images sql.NullString
    )
    err := row.Scan(&p.ID, &p.Name, &p.Slug, &p.Description, &p.Price, &p.CompareAtPrice,
        &p.Category, &sizes, &colors, &images, &p.FeaturedImage, &p.StockQuantity,
        &p.IsFeatured, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
    p.Sizes = decodeList(sizes)
    p.Colors = decodeList(colors)
    p.Images = decodeList(images)
    return p, err
}

// ProductFilter narrows ListActive results.  Zero values mean "no filter".
type ProductFilter struct {
    Category string
    Featured bool
    Search   string
}

// ListActive returns active products, featured first then newest.
func (r *ProductRepo) ListActive(ctx context.Context, f ProductFilter) ([]model.Product, error) {
    q := `SELECT ` + productCols + ` FROM products WHERE is_active = 1`
    args := []any{}
    if f.Category != "" {
        q += ` AND category = ?`
        args = append(args, f.Category)
    }
    if f.Featured {
        q += ` AND is_featured = 1`
    }
    if f.Search != "" {
        q += ` AND (name LIKE ? OR description LIKE ?)`
        like := "%" + f.Search + "%"
        args = append(args, like, like)
    }
    q += ` ORDER BY is_featured DESC, created_at DESC`
    return r.queryProducts(ctx, q, args...)
}

// ListAll returns every product including inactive ones, newest first.
// Admin only.
func (r *ProductRepo) ListAll(ctx context.Context) ([]model.Product, error) {
    return r.queryProducts(ctx,
        `SELECT `+productCols+` FROM products ORDER BY created_at DESC`)
}

func (r *ProductRepo) queryProducts(ctx context.Context, q string, args ...any) ([]model.Product, error) {
    rows, err := r.DB.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    products := []model.Product{}
    for rows.Next() {
        p, err := scanProduct(rows)
        if err != nil {
            return nil, err
        }
        products = append(products, p)
    }
    return products, rows.Err()
}

// Categories lists the distinct categories of active products.
func (r *ProductRepo) Categories(ctx context.Context) ([]string, error) {
    rows, err := r.DB.QueryContext(ctx,
        `SELECT DISTINCT category FROM products WHERE is_active = 1 ORDER BY category`)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    cats := []string{}
    for rows.Next() {
        var c string
        if err := rows.Scan(&c); err != nil {
            return nil, err
        }
        cats = append(cats, c)
    }
    return cats, rows.Err()
}

// GetByID fetches a product regardless of its active flag.  Admin callers
// use this; the storefront goes through GetActiveBySlug.
func (r *ProductRepo) GetByID(ctx context.Context, id uint64) (model.Product, error) {
    p, err := scanProduct(r.DB.QueryRowContext(ctx,
        `SELECT `+productCols+` FROM products WHERE id = ?`, id))
    if err == sql.ErrNoRows {
        return model.Product{}, ErrProductNotFound
    }
    return p, err
}

// GetActiveByID fetches an active product by primary key.  Cart and
// checkout flows use it so inactive products cannot be purchased.
func (r *ProductRepo) GetActiveByID(ctx context.Context, id uint64) (model.Product, error) {
    p, err := scanProduct(r.DB.QueryRowContext(ctx,
        `SELECT `+productCols+` FROM products WHERE id = ? AND is_active = 1`, id))
    if err == sql.ErrNoRows {
        return model.Product{}, ErrProductNotFound
    }
    return p, err
}

// GetActiveBySlug fetches an active product by its URL slug.
func (r *ProductRepo) GetActiveBySlug(ctx context.Context, slug string) (model.Product, error) {
    p, err := scanProduct(r.DB.QueryRowContext(ctx,
        `SELECT `+productCols+` FROM products WHERE slug = ? AND is_active = 1`, slug))
    if err == sql.ErrNoRows {
        return model.Product{}, ErrProductNotFound
    }
    return p, err
}

// ListVariants returns the size/color variants of a product.
func (r *ProductRepo) ListVariants(ctx context.Context, productID uint64) ([]model.ProductVariant, error) {
    rows, err := r.DB.QueryContext(ctx,
        `SELECT id, product_id, size, color, sku, stock_quantity, price_adjustment, created_at
           FROM product_variants WHERE product_id = ? ORDER BY id`, productID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    variants := []model.ProductVariant{}
    for rows.Next() {
        var v model.ProductVariant
        if err := rows.Scan(&v.ID, &v.ProductID, &v.Size, &v.Color, &v.SKU,
            &v.StockQuantity, &v.PriceAdjustment, &v.CreatedAt); err != nil {
            return nil, err
        }
        variants = append(variants, v)
    }
    return variants, rows.Err()
}

// Create inserts a product and returns its id.
func (r *ProductRepo) Create(ctx context.Context, p *model.Product) (uint64, error) {
    res, err := r.DB.ExecContext(ctx,
        `INSERT INTO products
           (name, slug, description, price, compare_at_price, category,
            sizes, colors, images, featured_image, stock_quantity, is_featured, is_active)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
        p.Name, p.Slug, p.Description, p.Price, p.CompareAtPrice, p.Category,
        encodeList(p.Sizes), encodeList(p.Colors), encodeList(p.Images),
        p.FeaturedImage, p.StockQuantity, p.IsFeatured, p.IsActive)
    if err != nil {
        return 0, err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return 0, err
    }
    return uint64(id), nil
}

// ProductPatch holds optional product updates.  Nil fields are left
// untouched.
type ProductPatch struct {
    Name           *string
    Slug           *string
    Description    *string
    Price          *float64
    CompareAtPrice *float64
    Category       *string
    Sizes          []string
    Colors         []string
    Images         []string
    FeaturedImage  *string
    StockQuantity  *int
    IsFeatured     *bool
    IsActive       *bool
}

// Update applies a partial update.  Returns ErrProductNotFound when the
// id does not exist.
func (r *ProductRepo) Update(ctx context.Context, id uint64, patch ProductPatch) error {
    sets := []string{}
    args := []any{}
    add := func(col string, v any) {
        sets = append(sets, col+" = ?")
        args = append(args, v)
    }
    if patch.Name != nil {
        add("name", *patch.Name)
    }
    if patch.Slug != nil {
        add("slug", *patch.Slug)
    }
    if patch.Description != nil {
        add("description", *patch.Description)
    }
    if patch.Price != nil {
        add("price", *patch.Price)
    }
    if patch.CompareAtPrice != nil {
        add("compare_at_price", *patch.CompareAtPrice)
    }
    if patch.Category != nil {
        add("category", *patch.Category)
    }
    if patch.Sizes != nil {
        add("sizes", encodeList(patch.Sizes))
    }
    if patch.Colors != nil {
        add("colors", encodeList(patch.Colors))
    }
    if patch.Images != nil {
        add("images", encodeList(patch.Images))
    }
    if patch.FeaturedImage != nil {
        add("featured_image", *patch.FeaturedImage)
    }
    if patch.StockQuantity != nil {
        add("stock_quantity", *patch.StockQuantity)
    }
    if patch.IsFeatured != nil {
        add("is_featured", *patch.IsFeatured)
    }
    if patch.IsActive != nil {
        add("is_active", *patch.IsActive)
    }
    if len(sets) == 0 {
        return nil
    }
    sets = append(sets, "updated_at = UTC_TIMESTAMP()")
    args = append(args, id)
    res, err := r.DB.ExecContext(ctx,
        `UPDATE products SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        var exists uint64
        if err := r.DB.QueryRowContext(ctx,
            `SELECT id FROM products WHERE id = ?`, id).Scan(&exists); err == sql.ErrNoRows {
            return ErrProductNotFound
        } else if err != nil {
            return err
        }
    }
    return nil
}

// Deactivate soft-deletes a product so existing order history keeps its
// product rows.
func (r *ProductRepo) Deactivate(ctx context.Context, id uint64) error {
    res, err := r.DB.ExecContext(ctx,
        `UPDATE products SET is_active = 0, updated_at = UTC_TIMESTAMP() WHERE id = ? AND is_active = 1`, id)
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        return ErrProductNotFound
    }
    return nil
}

// DecrementStockTx atomically takes qty units from a product's stock.
// The guard in the WHERE clause refuses to go negative; zero rows
// affected means ErrOutOfStock.
func (r *ProductRepo) DecrementStockTx(ctx context.Context, tx *sql.Tx, productID uint64, qty int) error {
    res, err := tx.ExecContext(ctx,
        `UPDATE products SET stock_quantity = stock_quantity - ?
          WHERE id = ? AND is_active = 1 AND stock_quantity >= ?`, qty, productID, qty)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return ErrOutOfStock
    }
    return nil
}

// DecrementVariantStockTx takes qty units from a variant's stock with the
// same non-negative guard as DecrementStockTx.
func (r *ProductRepo) DecrementVariantStockTx(ctx context.Context, tx *sql.Tx, variantID uint64, qty int) error {
    res, err := tx.ExecContext(ctx,
        `UPDATE product_variants SET stock_quantity = stock_quantity - ?
          WHERE id = ? AND stock_quantity >= ?`, qty, variantID, qty)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return ErrOutOfStock
    }
    return nil
}

// GetVariantTx loads one variant with a row lock.
func (r *ProductRepo) GetVariantTx(ctx context.Context, tx *sql.Tx, variantID uint64) (model.ProductVariant, error) {
    var v model.ProductVariant
    err := tx.QueryRowContext(ctx,
        `SELECT id, product_id, size, color, sku, stock_quantity, price_adjustment, created_at
           FROM product_variants WHERE id = ? FOR UPDATE`, variantID).
        Scan(&v.ID, &v.ProductID, &v.Size, &v.Color, &v.SKU,
            &v.StockQuantity, &v.PriceAdjustment, &v.CreatedAt)
    if err == sql.ErrNoRows {
        return model.ProductVariant{}, ErrProductNotFound
    }
    return v, err
}

// GetActiveForOrderTx loads the product fields an order line needs, with
// a row lock so concurrent checkouts serialize on the same product.
func (r *ProductRepo) GetActiveForOrderTx(ctx context.Context, tx *sql.Tx, productID uint64) (model.Product, error) {
    var (
        p      model.Product
        images sql.NullString
    )
    err := tx.QueryRowContext(ctx,
        `SELECT id, name, price, featured_image, stock_quantity, images
           FROM products WHERE id = ? AND is_active = 1 FOR UPDATE`, productID).
        Scan(&p.ID, &p.Name, &p.Price, &p.FeaturedImage, &p.StockQuantity, &images)
    if err == sql.ErrNoRows {
        return model.Product{}, ErrProductNotFound
    }
    p.Images = decodeList(images)
    return p, err
}
