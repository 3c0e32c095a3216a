package repository

import (
    "context"
    "database/sql"

    "github.com/TEJASVISJAIN/fcb-hyderabad-backend/internal/model"
)

// OrderRepo provides data access to orders and order_items.  Order
// placement is transactional: the handler opens the transaction, the
// product repo locks and decrements stock, and the ...Tx methods here
// write the order rows.
type OrderRepo struct{ DB *sql.DB }

// NewOrderRepo returns a new OrderRepo bound to the provided database.
func NewOrderRepo(db *sql.DB) *OrderRepo { return &OrderRepo{DB: db} }

const orderCols = `id, order_number, user_id, customer_name, customer_email, customer_phone,
       shipping_address, city, state, pincode, subtotal, shipping_fee, total_amount,
       payment_method, payment_screenshot, order_status, payment_status, notes,
       created_at, updated_at`

func scanOrder(row interface{ Scan(...any) error }) (model.Order, error) {
    var o model.Order
    err := row.Scan(&o.ID, &o.OrderNumber, &o.UserID, &o.CustomerName, &o.CustomerEmail,
        &o.CustomerPhone, &o.ShippingAddress, &o.City, &o.State, &o.Pincode,
        &o.Subtotal, &o.ShippingFee, &o.TotalAmount, &o.PaymentMethod,
        &o.PaymentScreenshot, &o.OrderStatus, &o.PaymentStatus, &o.Notes,
        &o.CreatedAt, &o.UpdatedAt)
    return o, err
}

// CreateTx inserts the order header with pending statuses and fills in the
// generated id.
func (r *OrderRepo) CreateTx(ctx context.Context, tx *sql.Tx, o *model.Order) error {
    res, err := tx.ExecContext(ctx,
        `INSERT INTO orders
           (order_number, user_id, customer_name, customer_email, customer_phone,
            shipping_address, city, state, pincode, subtotal, shipping_fee, total_amount,
            payment_method, payment_screenshot, notes, order_status, payment_status)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 'pending', 'pending')`,
        o.OrderNumber, o.UserID, o.CustomerName, o.CustomerEmail, o.CustomerPhone,
        o.ShippingAddress, o.City, o.State, o.Pincode, o.Subtotal, o.ShippingFee,
        o.TotalAmount, o.PaymentMethod, o.PaymentScreenshot, o.Notes)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    o.ID = uint64(id)
    o.OrderStatus = model.OrderPending
    o.PaymentStatus = model.PaymentPending
    return nil
}

// AddItemTx inserts one denormalised order line.
func (r *OrderRepo) AddItemTx(ctx context.Context, tx *sql.Tx, it *model.OrderItem) error {
    res, err := tx.ExecContext(ctx,
        `INSERT INTO order_items
           (order_id, product_id, product_name, variant_details, quantity, unit_price, total_price)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
        it.OrderID, it.ProductID, it.ProductName, it.VariantDetails,
        it.Quantity, it.UnitPrice, it.TotalPrice)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    it.ID = uint64(id)
    return nil
}

// GetByNumber fetches an order by its human-facing reference.  When
// userID is non-nil the order must also belong to that user.
func (r *OrderRepo) GetByNumber(ctx context.Context, number string, userID *uint64) (model.Order, error) {
    q := `SELECT ` + orderCols + ` FROM orders WHERE order_number = ?`
    args := []any{number}
    if userID != nil {
        q += ` AND user_id = ?`
        args = append(args, *userID)
    }
    o, err := scanOrder(r.DB.QueryRowContext(ctx, q, args...))
    if err == sql.ErrNoRows {
        return model.Order{}, ErrOrderNotFound
    }
    return o, err
}

// GetByID fetches an order by primary key.
func (r *OrderRepo) GetByID(ctx context.Context, id uint64) (model.Order, error) {
    o, err := scanOrder(r.DB.QueryRowContext(ctx,
        `SELECT `+orderCols+` FROM orders WHERE id = ?`, id))
    if err == sql.ErrNoRows {
        return model.Order{}, ErrOrderNotFound
    }
    return o, err
}

// ListItems returns an order's line items.
func (r *OrderRepo) ListItems(ctx context.Context, orderID uint64) ([]model.OrderItem, error) {
    rows, err := r.DB.QueryContext(ctx,
        `SELECT id, order_id, product_id, product_name, variant_details,
                quantity, unit_price, total_price, created_at
           FROM order_items WHERE order_id = ? ORDER BY id`, orderID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    items := []model.OrderItem{}
    for rows.Next() {
        var it model.OrderItem
        if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName,
            &it.VariantDetails, &it.Quantity, &it.UnitPrice, &it.TotalPrice,
            &it.CreatedAt); err != nil {
            return nil, err
        }
        items = append(items, it)
    }
    return items, rows.Err()
}

// ListByUser returns the user's orders, newest first.
func (r *OrderRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Order, error) {
    rows, err := r.DB.QueryContext(ctx,
        `SELECT `+orderCols+` FROM orders WHERE user_id = ? ORDER BY created_at DESC`, userID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    orders := []model.Order{}
    for rows.Next() {
        o, err := scanOrder(rows)
        if err != nil {
            return nil, err
        }
        orders = append(orders, o)
    }
    return orders, rows.Err()
}

// ListAll returns every order, newest first, optionally filtered by order
// status.  Admin only.
func (r *OrderRepo) ListAll(ctx context.Context, status string) ([]model.Order, error) {
    q := `SELECT ` + orderCols + ` FROM orders`
    args := []any{}
    if status != "" {
        q += ` WHERE order_status = ?`
        args = append(args, status)
    }
    q += ` ORDER BY created_at DESC`
    rows, err := r.DB.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    orders := []model.Order{}
    for rows.Next() {
        o, err := scanOrder(rows)
        if err != nil {
            return nil, err
        }
        orders = append(orders, o)
    }
    return orders, rows.Err()
}

// UpdateStatuses patches the order and/or payment status.  Nil leaves a
// column alone.  Returns ErrOrderNotFound when the id does not exist.
func (r *OrderRepo) UpdateStatuses(ctx context.Context, id uint64, orderStatus, paymentStatus *string) error {
    res, err := r.DB.ExecContext(ctx,
        `UPDATE orders SET order_status = COALESCE(?, order_status),
                payment_status = COALESCE(?, payment_status),
                updated_at = UTC_TIMESTAMP()
          WHERE id = ?`, orderStatus, paymentStatus, id)
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        var exists uint64
        if err := r.DB.QueryRowContext(ctx,
            `SELECT id FROM orders WHERE id = ?`, id).Scan(&exists); err == sql.ErrNoRows {
            return ErrOrderNotFound
        } else if err != nil {
            return err
        }
    }
    return nil
}

// NumberExists reports whether an order number is already taken, so the
// handler can regenerate on the rare collision.
func (r *OrderRepo) NumberExists(ctx context.Context, number string) (bool, error) {
    var id uint64
    err := r.DB.QueryRowContext(ctx,
        `SELECT id FROM orders WHERE order_number = ?`, number).Scan(&id)
    if err == sql.ErrNoRows {
        return false, nil
    }
    if err != nil {
        return false, err
    }
    return true, nil
}
