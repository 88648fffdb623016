// Package service holds the storefront read paths and the payment callback
// logic that sit between HTTP handlers and repositories.
package service

import (
    "context"
    "net/url"
    "sort"
    "strings"
    "time"

    "github.com/pkg/errors"
    "github.com/prometheus/client_golang/prometheus"
    "github.com/rs/zerolog/log"
    "golang.org/x/sync/errgroup"

    "github.com/iliyamo/storefront-api/internal/model"
    "github.com/iliyamo/storefront-api/internal/queue"
)

// BannerStore looks up the live banner of one kind.
type BannerStore interface {
    Active(ctx context.Context, kind model.BannerKind) (*model.Banner, error)
}

// TagCounter runs the tag usage aggregation.
type TagCounter interface {
    TagCounts(ctx context.Context) ([]model.TagCount, error)
}

// OrderPayer records a payment against an order.
type OrderPayer interface {
    MarkPaid(ctx context.Context, orderID string, p model.Payment) error
}

// EventPublisher forwards paid-order events to the broker.
type EventPublisher interface {
    PublishOrderPaid(ctx context.Context, ev queue.OrderPaidEvent) error
}

// ResolveBanners fetches the live banner of every kind concurrently.  A kind
// without a live record leaves its slot nil.
func ResolveBanners(ctx context.Context, store BannerStore) (model.ActiveBanners, error) {
    found := make([]*model.Banner, len(model.BannerKinds))
    g, gctx := errgroup.WithContext(ctx)
    for i, kind := range model.BannerKinds {
        g.Go(func() error {
            b, err := store.Active(gctx, kind)
            found[i] = b
            return err
        })
    }
    var out model.ActiveBanners
    if err := g.Wait(); err != nil {
        return out, err
    }
    for _, b := range found {
        if b == nil {
            continue
        }
        if err := out.Set(b); err != nil {
            return out, err
        }
    }
    return out, nil
}

// Tags returns tag statistics, most used first.  Rows with equal counts are
// ordered by tag id.
func Tags(ctx context.Context, counter TagCounter) ([]model.Tag, error) {
    rows, err := counter.TagCounts(ctx)
    if err != nil {
        return nil, err
    }
    tags := make([]model.Tag, 0, len(rows))
    for _, r := range rows {
        tags = append(tags, model.Tag{ID: r.Tag, Name: model.TagDisplayName(r.Tag), Count: r.Count})
    }
    sort.SliceStable(tags, func(i, j int) bool {
        if tags[i].Count != tags[j].Count {
            return tags[i].Count > tags[j].Count
        }
        return tags[i].ID < tags[j].ID
    })
    return tags, nil
}

// ErrMissingOrderID is returned when the payment callback names no order.
var ErrMissingOrderID = errors.New("orderId required")

// PaymentRequest is the body of the stubbed payment callback.
type PaymentRequest struct {
    OrderID string `json:"orderId"`
    UserID  string `json:"userId"`
    Amount  int64  `json:"amount"`
}

// Payments applies payment callbacks.  The gateway is a stub: there is no
// signature verification, idempotency key or amount check.
type Payments struct {
    Orders    OrderPayer
    Publisher EventPublisher     // optional
    Paid      prometheus.Counter // optional
    Now       func() time.Time
}

// Pay marks the order paid and returns the checkout success URL.  Event
// publication failures are logged and do not fail the payment.
func (p *Payments) Pay(ctx context.Context, req PaymentRequest) (string, error) {
    orderID := strings.TrimSpace(req.OrderID)
    if orderID == "" {
        return "", ErrMissingOrderID
    }
    now := time.Now().UTC()
    if p.Now != nil {
        now = p.Now()
    }
    payment := model.Payment{UserID: req.UserID, Amount: req.Amount, PaidAt: now}
    if err := p.Orders.MarkPaid(ctx, orderID, payment); err != nil {
        return "", err
    }
    if p.Paid != nil {
        p.Paid.Inc()
    }
    if p.Publisher != nil {
        ev := queue.OrderPaidEvent{
            OrderID: orderID,
            UserID:  req.UserID,
            Amount:  req.Amount,
            PaidAt:  now.Format(time.RFC3339),
        }
        if err := p.Publisher.PublishOrderPaid(ctx, ev); err != nil {
            log.Warn().Err(err).Str("order_id", orderID).Msg("publish order.paid failed")
        }
    }
    return SuccessURL(orderID), nil
}

// SuccessURL is the checkout page shown after a payment.
func SuccessURL(orderID string) string {
    return "/checkout/success?orderId=" + url.QueryEscape(orderID)
}
