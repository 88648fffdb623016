package handler

import (
    "context"
    "net/http"
    "strings"
    "time"

    "github.com/google/uuid"
    "github.com/labstack/echo/v4"
    "github.com/pkg/errors"

    "github.com/iliyamo/storefront-api/internal/middleware"
    "github.com/iliyamo/storefront-api/internal/model"
    "github.com/iliyamo/storefront-api/internal/repository"
    "github.com/iliyamo/storefront-api/internal/service"
)

// OrderStore is the order persistence used by OrderHandler.
type OrderStore interface {
    Create(ctx context.Context, o *model.Order) error
    ListByUser(ctx context.Context, userID string) ([]model.Order, error)
    List(ctx context.Context, status string) ([]model.Order, error)
}

// OrderHandler serves checkout, order history and the payment callback.
type OrderHandler struct {
    Orders   OrderStore
    Payments *service.Payments
    NewID    func() string // order id generator, uuid when nil
    Timeout  time.Duration
}

type createOrderReq struct {
    Items []model.OrderItem `json:"items"`
}

// ListMine handles GET /api/orders/user.  The session middleware has
// already rejected unauthenticated callers; the check here guards against
// the route being mounted without it.
func (h *OrderHandler) ListMine(c echo.Context) error {
    s, ok := middleware.CurrentSession(c)
    if !ok {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    ctx, cancel := requestCtx(c, h.Timeout)
    defer cancel()

    orders, err := h.Orders.ListByUser(ctx, s.UserID)
    if err != nil {
        return internalError(c, err, "failed to fetch orders")
    }
    return c.JSON(http.StatusOK, echo.Map{"orders": orders})
}

// Create handles POST /api/orders.  It records a pending order for the
// session user; the amount is computed from the submitted items.
func (h *OrderHandler) Create(c echo.Context) error {
    s, ok := middleware.CurrentSession(c)
    if !ok {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var req createOrderReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if len(req.Items) == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "items required"})
    }
    for _, it := range req.Items {
        if strings.TrimSpace(it.ProductID) == "" || it.Quantity <= 0 || it.Price < 0 {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid item"})
        }
    }

    newID := h.NewID
    if newID == nil {
        newID = uuid.NewString
    }
    o := &model.Order{
        OrderID: newID(),
        UserID:  s.UserID,
        Items:   req.Items,
        Amount:  model.ItemsTotal(req.Items),
        Status:  model.OrderPending,
    }

    ctx, cancel := requestCtx(c, h.Timeout)
    defer cancel()
    if err := h.Orders.Create(ctx, o); err != nil {
        return internalError(c, err, "failed to create order")
    }
    return c.JSON(http.StatusCreated, echo.Map{"order": o})
}

// AdminList handles GET /api/admin/orders?status=.
func (h *OrderHandler) AdminList(c echo.Context) error {
    ctx, cancel := requestCtx(c, h.Timeout)
    defer cancel()

    orders, err := h.Orders.List(ctx, strings.TrimSpace(c.QueryParam("status")))
    if err != nil {
        return internalError(c, err, "failed to fetch orders")
    }
    return c.JSON(http.StatusOK, echo.Map{"orders": orders})
}

// Pay handles POST /api/payment, the dummy gateway callback.
func (h *OrderHandler) Pay(c echo.Context) error {
    var req service.PaymentRequest
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    ctx, cancel := requestCtx(c, h.Timeout)
    defer cancel()

    redirect, err := h.Payments.Pay(ctx, req)
    switch {
    case errors.Is(err, service.ErrMissingOrderID):
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "orderId required"})
    case errors.Is(err, repository.ErrNotFound):
        return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
    case err != nil:
        return internalError(c, err, "payment update failed")
    }
    return c.JSON(http.StatusOK, echo.Map{"success": true, "redirectUrl": redirect})
}
