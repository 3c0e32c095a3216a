package model

import "time"

// Order statuses as stored in orders.order_status / orders.payment_status.
const (
    OrderPending   = "pending"
    OrderShipped   = "shipped"
    OrderDelivered = "delivered"
    OrderCancelled = "cancelled"

    PaymentPending  = "pending"
    PaymentVerified = "verified"
    PaymentRejected = "rejected"
)

// Order is a merchandise purchase.  Like event bookings, payment happens
// out of band over UPI and the uploaded screenshot is verified manually by
// an admin, so orders carry separate order and payment statuses.
//
// Fields:
//  ID                – primary key identifier.
//  OrderNumber       – human-facing unique order reference (VByyyymmddXXXX).
//  UserID            – purchasing user (nullable for guest checkout).
//  CustomerName      – shipping contact name.
//  CustomerEmail     – shipping contact email.
//  CustomerPhone     – shipping contact phone.
//  ShippingAddress   – street address.
//  City, State       – shipping region.
//  Pincode           – postal code.
//  Subtotal          – sum of item totals.
//  ShippingFee       – flat fee, waived above the free-shipping threshold.
//  TotalAmount       – subtotal + shipping fee.
//  PaymentMethod     – how the member paid (upi, cash...).
//  PaymentScreenshot – stored path of the uploaded payment artifact (nullable).
//  OrderStatus       – pending | shipped | delivered | cancelled.
//  PaymentStatus     – pending | verified | rejected.
//  Notes             – free-form notes.
//  CreatedAt         – creation timestamp.
//  UpdatedAt         – last update timestamp.
type Order struct {
    ID                uint64    // orders.id
    OrderNumber       string    // orders.order_number
    UserID            *uint64   // orders.user_id (nullable)
    CustomerName      string    // orders.customer_name
    CustomerEmail     string    // orders.customer_email
    CustomerPhone     string    // orders.customer_phone
    ShippingAddress   string    // orders.shipping_address
    City              string    // orders.city
    State             string    // orders.state
    Pincode           string    // orders.pincode
    Subtotal          float64   // orders.subtotal
    ShippingFee       float64   // orders.shipping_fee
    TotalAmount       float64   // orders.total_amount
    PaymentMethod     *string   // orders.payment_method (nullable)
    PaymentScreenshot *string   // orders.payment_screenshot (nullable)
    OrderStatus       string    // orders.order_status
    PaymentStatus     string    // orders.payment_status
    Notes             *string   // orders.notes (nullable)
    CreatedAt         time.Time // orders.created_at
    UpdatedAt         time.Time // orders.updated_at
}

// OrderItem is a line item of an order.  Product name, variant details and
// prices are denormalised at purchase time so later catalog edits do not
// rewrite order history.
type OrderItem struct {
    ID             uint64    // order_items.id
    OrderID        uint64    // order_items.order_id
    ProductID      *uint64   // order_items.product_id (nullable, product may be deleted)
    ProductName    string    // order_items.product_name
    VariantDetails *string   // order_items.variant_details (JSON, nullable)
    Quantity       int       // order_items.quantity
    UnitPrice      float64   // order_items.unit_price
    TotalPrice     float64   // order_items.total_price
    CreatedAt      time.Time // order_items.created_at
}
