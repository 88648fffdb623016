package service

import (
    "context"
    "testing"
    "time"

    "github.com/pkg/errors"
    "github.com/prometheus/client_golang/prometheus"
    "github.com/prometheus/client_golang/prometheus/testutil"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/storefront-api/internal/model"
    "github.com/iliyamo/storefront-api/internal/queue"
    "github.com/iliyamo/storefront-api/internal/repository"
)

type fakeBanners map[model.BannerKind]*model.Banner

func (f fakeBanners) Active(_ context.Context, kind model.BannerKind) (*model.Banner, error) {
    return f[kind], nil
}

type failingBanners struct{}

func (failingBanners) Active(context.Context, model.BannerKind) (*model.Banner, error) {
    return nil, errors.New("connection reset")
}

func TestResolveBanners(t *testing.T) {
    t.Run("both live", func(t *testing.T) {
        got, err := ResolveBanners(context.Background(), fakeBanners{
            model.KindAdBanner:     {Kind: model.KindAdBanner, Text: "sale", AdBannerActive: true},
            model.KindAnnouncement: {Kind: model.KindAnnouncement, Text: "free shipping", AnnouncementActive: true},
        })
        require.NoError(t, err)
        require.NotNil(t, got.Ad)
        require.NotNil(t, got.Announcement)
        assert.Equal(t, "sale", got.Ad.Text)
        assert.Equal(t, "free shipping", got.Announcement.Text)
    })

    t.Run("none live", func(t *testing.T) {
        got, err := ResolveBanners(context.Background(), fakeBanners{})
        require.NoError(t, err)
        assert.Nil(t, got.Ad)
        assert.Nil(t, got.Announcement)
    })

    t.Run("store failure", func(t *testing.T) {
        _, err := ResolveBanners(context.Background(), failingBanners{})
        assert.Error(t, err)
    })
}

type fakeCounter []model.TagCount

func (f fakeCounter) TagCounts(context.Context) ([]model.TagCount, error) { return f, nil }

func TestTagsNamesAndOrder(t *testing.T) {
    tags, err := Tags(context.Background(), fakeCounter{
        {Tag: "silver", Count: 1},
        {Tag: "festive", Count: 1},
        {Tag: "gold", Count: 2},
    })
    require.NoError(t, err)
    assert.Equal(t, []model.Tag{
        {ID: "gold", Name: "Gold", Count: 2},
        {ID: "festive", Name: "Festive", Count: 1},
        {ID: "silver", Name: "Silver", Count: 1},
    }, tags)
}

type fakeOrders struct {
    paid map[string]model.Payment
}

func (f *fakeOrders) MarkPaid(_ context.Context, orderID string, p model.Payment) error {
    if orderID == "missing" {
        return repository.ErrNotFound
    }
    f.paid[orderID] = p
    return nil
}

type recordingPublisher struct {
    events []queue.OrderPaidEvent
    err    error
}

func (r *recordingPublisher) PublishOrderPaid(_ context.Context, ev queue.OrderPaidEvent) error {
    r.events = append(r.events, ev)
    return r.err
}

func TestPaymentsPay(t *testing.T) {
    now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
    orders := &fakeOrders{paid: map[string]model.Payment{}}
    pub := &recordingPublisher{err: errors.New("broker down")}
    paid := prometheus.NewCounter(prometheus.CounterOpts{Name: "paid"})
    p := &Payments{Orders: orders, Publisher: pub, Paid: paid, Now: func() time.Time { return now }}

    redirect, err := p.Pay(context.Background(), PaymentRequest{OrderID: "ord123", UserID: "user_1", Amount: 2500})
    require.NoError(t, err)
    assert.Equal(t, "/checkout/success?orderId=ord123", redirect)
    assert.Equal(t, model.Payment{UserID: "user_1", Amount: 2500, PaidAt: now}, orders.paid["ord123"])
    require.Len(t, pub.events, 1)
    assert.Equal(t, "2026-10-16T12:00:00Z", pub.events[0].PaidAt)
    assert.Equal(t, 1.0, testutil.ToFloat64(paid))

    _, err = p.Pay(context.Background(), PaymentRequest{OrderID: "  "})
    assert.ErrorIs(t, err, ErrMissingOrderID)

    _, err = p.Pay(context.Background(), PaymentRequest{OrderID: "missing"})
    assert.ErrorIs(t, err, repository.ErrNotFound)
    assert.Len(t, pub.events, 1)
}

func TestSuccessURLEscapes(t *testing.T) {
    assert.Equal(t, "/checkout/success?orderId=a%26b", SuccessURL("a&b"))
}
