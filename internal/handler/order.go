package handler

import (
    "context"
    "encoding/json"
    "errors"
    "net/http"
    "path"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/TEJASVISJAIN/fcb-hyderabad-backend/internal/config"
    "github.com/TEJASVISJAIN/fcb-hyderabad-backend/internal/model"
    "github.com/TEJASVISJAIN/fcb-hyderabad-backend/internal/queue"
    "github.com/TEJASVISJAIN/fcb-hyderabad-backend/internal/repository"
    queue_publisher "github.com/TEJASVISJAIN/fcb-hyderabad-backend/internal/service"
    "github.com/TEJASVISJAIN/fcb-hyderabad-backend/internal/utils"
)

// Shipping rule: orders below the threshold pay the flat fee.
const (
    freeShippingThreshold = 2000
    flatShippingFee       = 100
)

// OrderHandler implements merch checkout and order tracking.  Checkout
// converts the caller's cart into an order inside one transaction: each
// product row is locked, stock decremented, line items denormalised, and
// the cart cleared atomically.
type OrderHandler struct {
    Cfg      config.Config
    Orders   *repository.OrderRepo
    Products *repository.ProductRepo
    Carts    *repository.CartRepo
}

func NewOrderHandler(cfg config.Config, orders *repository.OrderRepo, products *repository.ProductRepo, carts *repository.CartRepo) *OrderHandler {
    if orders == nil || products == nil || carts == nil {
        panic("nil repository passed to NewOrderHandler")
    }
    return &OrderHandler{Cfg: cfg, Orders: orders, Products: products, Carts: carts}
}

func (h *OrderHandler) receiptDir() string {
    return path.Join(h.Cfg.UploadDir, "payment-screenshots")
}

func toOrderResp(o model.Order, items []model.OrderItem) echo.Map {
    resp := echo.Map{
        "id":               o.ID,
        "order_number":     o.OrderNumber,
        "customer_name":    o.CustomerName,
        "customer_email":   o.CustomerEmail,
        "customer_phone":   o.CustomerPhone,
        "shipping_address": o.ShippingAddress,
        "city":             o.City,
        "state":            o.State,
        "pincode":          o.Pincode,
        "subtotal":         o.Subtotal,
        "shipping_fee":     o.ShippingFee,
        "total_amount":     o.TotalAmount,
        "payment_method":   o.PaymentMethod,
        "order_status":     o.OrderStatus,
        "payment_status":   o.PaymentStatus,
        "notes":            o.Notes,
        "created_at":       o.CreatedAt,
    }
    if items != nil {
        out := make([]echo.Map, 0, len(items))
        for _, it := range items {
            entry := echo.Map{
                "product_id":   it.ProductID,
                "product_name": it.ProductName,
                "quantity":     it.Quantity,
                "unit_price":   it.UnitPrice,
                "total_price":  it.TotalPrice,
            }
            if it.VariantDetails != nil {
                var vd map[string]any
                if json.Unmarshal([]byte(*it.VariantDetails), &vd) == nil {
                    entry["variant"] = vd
                }
            }
            out = append(out, entry)
        }
        resp["items"] = out
    }
    return resp
}

// Create handles POST /api/orders (multipart/form-data).  The order is
// built from the caller's cart; customer_name, customer_email,
// customer_phone, shipping_address, city, state and pincode are required
// form fields, payment_screenshot is the optional UPI receipt.
func (h *OrderHandler) Create(c echo.Context) error {
    owner, ok := cartOwner(c)
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "X-Session-Id header or authentication required"})
    }
    required := map[string]string{
        "customer_name":    strings.TrimSpace(c.FormValue("customer_name")),
        "customer_email":   strings.TrimSpace(c.FormValue("customer_email")),
        "customer_phone":   strings.TrimSpace(c.FormValue("customer_phone")),
        "shipping_address": strings.TrimSpace(c.FormValue("shipping_address")),
        "city":             strings.TrimSpace(c.FormValue("city")),
        "state":            strings.TrimSpace(c.FormValue("state")),
        "pincode":          strings.TrimSpace(c.FormValue("pincode")),
    }
    for field, v := range required {
        if v == "" {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": field + " is required"})
        }
    }
    var notes *string
    if v := strings.TrimSpace(c.FormValue("notes")); v != "" {
        notes = &v
    }
    paymentMethod := "upi"
    if v := strings.TrimSpace(c.FormValue("payment_method")); v != "" {
        paymentMethod = v
    }

    var screenshot *string
    if fh, errF := c.FormFile("payment_screenshot"); errF == nil {
        stored, errS := utils.SaveUpload(fh, h.receiptDir())
        if errS != nil {
            if errors.Is(errS, utils.ErrUploadTooLarge) || errors.Is(errS, utils.ErrUploadType) {
                return c.JSON(http.StatusBadRequest, echo.Map{"error": errS.Error()})
            }
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to store screenshot"})
        }
        screenshot = &stored
    }
    keepFile := false
    defer func() {
        if !keepFile && screenshot != nil {
            utils.RemoveUpload(h.receiptDir(), *screenshot)
        }
    }()

    ctx := c.Request().Context()
    lines, err := h.Carts.List(ctx, owner)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    if len(lines) == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "cart is empty"})
    }

    orderNumber, err := h.uniqueOrderNumber(ctx)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to generate order number"})
    }

    tx, err := h.Orders.DB.BeginTx(ctx, nil)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    subtotal := 0.0
    items := make([]model.OrderItem, 0, len(lines))
    for _, l := range lines {
        p, err := h.Products.GetActiveForOrderTx(ctx, tx, l.ProductID)
        if err != nil {
            if errors.Is(err, repository.ErrProductNotFound) {
                return c.JSON(http.StatusBadRequest, echo.Map{
                    "error": "product no longer available: " + l.ProductName,
                })
            }
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
        }
        unit := p.Price
        var variantDetails *string
        if l.VariantID != nil {
            v, err := h.Products.GetVariantTx(ctx, tx, *l.VariantID)
            if err != nil {
                return c.JSON(http.StatusBadRequest, echo.Map{
                    "error": "variant no longer available for " + l.ProductName,
                })
            }
            unit += v.PriceAdjustment
            vd, _ := json.Marshal(echo.Map{"size": v.Size, "color": v.Color, "sku": v.SKU})
            s := string(vd)
            variantDetails = &s
            if err := h.Products.DecrementVariantStockTx(ctx, tx, v.ID, l.Quantity); err != nil {
                return h.stockError(c, err, l.ProductName)
            }
        } else {
            if err := h.Products.DecrementStockTx(ctx, tx, l.ProductID, l.Quantity); err != nil {
                return h.stockError(c, err, l.ProductName)
            }
        }
        lineTotal := unit * float64(l.Quantity)
        subtotal += lineTotal
        productID := l.ProductID
        items = append(items, model.OrderItem{
            ProductID:      &productID,
            ProductName:    p.Name,
            VariantDetails: variantDetails,
            Quantity:       l.Quantity,
            UnitPrice:      unit,
            TotalPrice:     lineTotal,
        })
    }

    shipping := 0.0
    if subtotal < freeShippingThreshold {
        shipping = flatShippingFee
    }
    o := model.Order{
        OrderNumber:       orderNumber,
        UserID:            owner.UserID,
        CustomerName:      required["customer_name"],
        CustomerEmail:     strings.ToLower(required["customer_email"]),
        CustomerPhone:     required["customer_phone"],
        ShippingAddress:   required["shipping_address"],
        City:              required["city"],
        State:             required["state"],
        Pincode:           required["pincode"],
        Subtotal:          subtotal,
        ShippingFee:       shipping,
        TotalAmount:       subtotal + shipping,
        PaymentMethod:     &paymentMethod,
        PaymentScreenshot: screenshot,
        Notes:             notes,
    }
    if err := h.Orders.CreateTx(ctx, tx, &o); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create order"})
    }
    for i := range items {
        items[i].OrderID = o.ID
        if err := h.Orders.AddItemTx(ctx, tx, &items[i]); err != nil {
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create order items"})
        }
    }
    if err := h.Carts.ClearTx(ctx, tx, owner); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to clear cart"})
    }
    if err := tx.Commit(); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
    }
    committed = true
    keepFile = true

    go func(o model.Order, count int) {
        pubCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
        defer cancel()
        _ = queue_publisher.PublishOrderPlaced(pubCtx, queue.OrderPlacedEvent{
            OrderID:       o.ID,
            OrderNumber:   o.OrderNumber,
            UserID:        o.UserID,
            CustomerName:  o.CustomerName,
            CustomerEmail: o.CustomerEmail,
            ItemCount:     count,
            TotalAmount:   o.TotalAmount,
            PlacedAt:      time.Now().UTC().Format(time.RFC3339),
        })
    }(o, len(items))

    return c.JSON(http.StatusCreated, echo.Map{
        "message": "order placed, pending payment verification",
        "item":    toOrderResp(o, items),
    })
}

func (h *OrderHandler) stockError(c echo.Context, err error, name string) error {
    if errors.Is(err, repository.ErrOutOfStock) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "insufficient stock for " + name})
    }
    return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
}

// uniqueOrderNumber generates an order reference, regenerating on the
// rare same-day collision.
func (h *OrderHandler) uniqueOrderNumber(ctx context.Context) (string, error) {
    for i := 0; i < 5; i++ {
        n, err := utils.NewOrderNumber(time.Now())
        if err != nil {
            return "", err
        }
        taken, err := h.Orders.NumberExists(ctx, n)
        if err != nil {
            return "", err
        }
        if !taken {
            return n, nil
        }
    }
    return "", errors.New("could not generate a unique order number")
}

// MyOrders handles GET /api/orders/my-orders.  Requires authentication.
func (h *OrderHandler) MyOrders(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    orders, err := h.Orders.ListByUser(c.Request().Context(), userID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    out := make([]echo.Map, 0, len(orders))
    for _, o := range orders {
        out = append(out, toOrderResp(o, nil))
    }
    return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// Track handles GET /api/orders/:orderNumber.  Members see their own
// orders; guests must supply the email the order was placed with.
func (h *OrderHandler) Track(c echo.Context) error {
    number := c.Param("orderNumber")
    if number == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order number"})
    }
    ctx := c.Request().Context()
    var o model.Order
    var err error
    if userID, errU := getUserID(c); errU == nil {
        o, err = h.Orders.GetByNumber(ctx, number, &userID)
    } else {
        email := strings.ToLower(strings.TrimSpace(c.QueryParam("email")))
        if email == "" {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "email query parameter required"})
        }
        o, err = h.Orders.GetByNumber(ctx, number, nil)
        if err == nil && o.CustomerEmail != email {
            err = repository.ErrOrderNotFound
        }
    }
    if err != nil {
        if errors.Is(err, repository.ErrOrderNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    items, err := h.Orders.ListItems(ctx, o.ID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"item": toOrderResp(o, items)})
}

// ListAll handles GET /api/orders/admin/all?status= (admin).
func (h *OrderHandler) ListAll(c echo.Context) error {
    status := c.QueryParam("status")
    if status != "" {
        switch status {
        case model.OrderPending, model.OrderShipped, model.OrderDelivered, model.OrderCancelled:
        default:
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status filter"})
        }
    }
    orders, err := h.Orders.ListAll(c.Request().Context(), status)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    out := make([]echo.Map, 0, len(orders))
    for _, o := range orders {
        out = append(out, toOrderResp(o, nil))
    }
    return c.JSON(http.StatusOK, echo.Map{"items": out})
}

type orderStatusReq struct {
    OrderStatus   *string `json:"order_status"`
    PaymentStatus *string `json:"payment_status"`
}

// UpdateStatus handles PUT /api/orders/admin/:id/status (admin).  Either or
// both of order_status and payment_status may be set.
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
    }
    var body orderStatusReq
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if body.OrderStatus == nil && body.PaymentStatus == nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "order_status or payment_status required"})
    }
    if body.OrderStatus != nil {
        switch *body.OrderStatus {
        case model.OrderPending, model.OrderShipped, model.OrderDelivered, model.OrderCancelled:
        default:
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order_status"})
        }
    }
    if body.PaymentStatus != nil {
        switch *body.PaymentStatus {
        case model.PaymentPending, model.PaymentVerified, model.PaymentRejected:
        default:
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payment_status"})
        }
    }
    ctx := c.Request().Context()
    if err := h.Orders.UpdateStatuses(ctx, id, body.OrderStatus, body.PaymentStatus); err != nil {
        if errors.Is(err, repository.ErrOrderNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update order"})
    }
    o, err := h.Orders.GetByID(ctx, id)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load order"})
    }
    return c.JSON(http.StatusOK, echo.Map{"item": toOrderResp(o, nil)})
}
