package handler

import (
    "context"
    "encoding/json"
    "net/http"
    "net/http/httptest"
    "strings"
    "testing"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/pkg/errors"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/storefront-api/internal/database"
    "github.com/iliyamo/storefront-api/internal/middleware"
    "github.com/iliyamo/storefront-api/internal/model"
    "github.com/iliyamo/storefront-api/internal/repository"
    "github.com/iliyamo/storefront-api/internal/service"
    "github.com/iliyamo/storefront-api/internal/utils"
)

const testSecret = "handler-secret"

func do(e *echo.Echo, method, target, body string, hdr ...string) *httptest.ResponseRecorder {
    req := httptest.NewRequest(method, target, strings.NewReader(body))
    if body != "" {
        req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
    }
    for i := 0; i+1 < len(hdr); i += 2 {
        req.Header.Set(hdr[i], hdr[i+1])
    }
    rec := httptest.NewRecorder()
    e.ServeHTTP(rec, req)
    return rec
}

func bearer(t *testing.T, userID, role string) string {
    t.Helper()
    raw, _, err := utils.NewSessionToken(testSecret, utils.Session{UserID: userID, Role: role}, time.Hour)
    require.NoError(t, err)
    return "Bearer " + raw
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
    t.Helper()
    var out map[string]interface{}
    require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
    return out
}

// ----- storefront -----

type fakeBanners map[model.BannerKind]*model.Banner

func (f fakeBanners) Active(_ context.Context, kind model.BannerKind) (*model.Banner, error) {
    return f[kind], nil
}

type fakeTags struct {
    rows []model.TagCount
    err  error
}

func (f fakeTags) TagCounts(context.Context) ([]model.TagCount, error) { return f.rows, f.err }

type fakeProducts struct{ lastTag string }

func (f *fakeProducts) ListPublished(_ context.Context, tag string) ([]model.Product, error) {
    f.lastTag = tag
    return []model.Product{{Name: "Ring", Slug: "ring", Tags: []string{"gold"}, Published: true}}, nil
}

func TestGetBanners(t *testing.T) {
    e := echo.New()
    h := &StorefrontHandler{Banners: fakeBanners{
        model.KindAdBanner: {Kind: model.KindAdBanner, Text: "Summer sale", AdBannerActive: true},
    }}
    e.GET("/api/banners", h.GetBanners)

    rec := do(e, http.MethodGet, "/api/banners", "")
    require.Equal(t, http.StatusOK, rec.Code)
    banners := decode(t, rec)["banners"].(map[string]interface{})
    assert.Equal(t, "Summer sale", banners["ad"].(map[string]interface{})["text"])
    assert.Nil(t, banners["announcement"])
}

func TestGetTags(t *testing.T) {
    e := echo.New()
    h := &StorefrontHandler{Tags: fakeTags{rows: []model.TagCount{{Tag: "silver", Count: 1}, {Tag: "gold", Count: 2}}}}
    e.GET("/api/tags", h.GetTags)

    rec := do(e, http.MethodGet, "/api/tags", "")
    require.Equal(t, http.StatusOK, rec.Code)
    assert.JSONEq(t, `{"tags":[{"id":"gold","name":"Gold","count":2},{"id":"silver","name":"Silver","count":1}]}`, rec.Body.String())
}

func TestGetTagsStoreFailure(t *testing.T) {
    e := echo.New()
    h := &StorefrontHandler{Tags: fakeTags{err: errors.New("socket closed")}}
    e.GET("/api/tags", h.GetTags)

    rec := do(e, http.MethodGet, "/api/tags", "")
    assert.Equal(t, http.StatusInternalServerError, rec.Code)
    assert.NotContains(t, rec.Body.String(), "socket closed")
}

func TestListProductsNormalizesTag(t *testing.T) {
    e := echo.New()
    products := &fakeProducts{}
    h := &StorefrontHandler{Products: products}
    e.GET("/api/products", h.ListProducts)

    rec := do(e, http.MethodGet, "/api/products?tag=%20Gold%20", "")
    require.Equal(t, http.StatusOK, rec.Code)
    assert.Equal(t, "gold", products.lastTag)
    assert.Len(t, decode(t, rec)["products"], 1)
}

// ----- orders and payment -----

type fakeOrders struct {
    created []*model.Order
    byUser  map[string][]model.Order
    paid    map[string]model.Payment
}

func newFakeOrders() *fakeOrders {
    return &fakeOrders{byUser: map[string][]model.Order{}, paid: map[string]model.Payment{}}
}

func (f *fakeOrders) Create(_ context.Context, o *model.Order) error {
    f.created = append(f.created, o)
    return nil
}

func (f *fakeOrders) ListByUser(_ context.Context, userID string) ([]model.Order, error) {
    return f.byUser[userID], nil
}

func (f *fakeOrders) List(context.Context, string) ([]model.Order, error) { return nil, nil }

func (f *fakeOrders) MarkPaid(_ context.Context, orderID string, p model.Payment) error {
    if orderID != "ord123" {
        return repository.ErrNotFound
    }
    f.paid[orderID] = p
    return nil
}

func orderServer(orders *fakeOrders) *echo.Echo {
    e := echo.New()
    h := &OrderHandler{
        Orders:   orders,
        Payments: &service.Payments{Orders: orders},
        NewID:    func() string { return "ord-fixed" },
    }
    auth := middleware.SessionAuth(testSecret)
    e.GET("/api/orders/user", h.ListMine, auth)
    e.POST("/api/orders", h.Create, auth)
    e.POST("/api/payment", h.Pay)
    return e
}

func TestListMineRequiresSession(t *testing.T) {
    e := orderServer(newFakeOrders())
    rec := do(e, http.MethodGet, "/api/orders/user", "")
    assert.Equal(t, http.StatusUnauthorized, rec.Code)
    assert.JSONEq(t, `{"error":"unauthorized"}`, rec.Body.String())
}

func TestListMineReturnsOwnOrders(t *testing.T) {
    orders := newFakeOrders()
    orders.byUser["user_1"] = []model.Order{{OrderID: "ord1", UserID: "user_1", Status: model.OrderPaid}}
    e := orderServer(orders)

    rec := do(e, http.MethodGet, "/api/orders/user", "", "Authorization", bearer(t, "user_1", ""))
    require.Equal(t, http.StatusOK, rec.Code)
    list := decode(t, rec)["orders"].([]interface{})
    require.Len(t, list, 1)
    assert.Equal(t, "ord1", list[0].(map[string]interface{})["orderId"])
}

func TestCreateOrder(t *testing.T) {
    orders := newFakeOrders()
    e := orderServer(orders)
    auth := bearer(t, "user_1", "")

    rec := do(e, http.MethodPost, "/api/orders",
        `{"items":[{"productId":"p1","name":"Ring","quantity":2,"price":1250}]}`, "Authorization", auth)
    require.Equal(t, http.StatusCreated, rec.Code)
    require.Len(t, orders.created, 1)
    o := orders.created[0]
    assert.Equal(t, "ord-fixed", o.OrderID)
    assert.Equal(t, "user_1", o.UserID)
    assert.Equal(t, int64(2500), o.Amount)
    assert.Equal(t, model.OrderPending, o.Status)

    rec = do(e, http.MethodPost, "/api/orders", `{"items":[]}`, "Authorization", auth)
    assert.Equal(t, http.StatusBadRequest, rec.Code)
    rec = do(e, http.MethodPost, "/api/orders", `{"items":[{"productId":"p1","quantity":0}]}`, "Authorization", auth)
    assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPay(t *testing.T) {
    orders := newFakeOrders()
    e := orderServer(orders)

    rec := do(e, http.MethodPost, "/api/payment", `{"orderId":"ord123","userId":"user_1","amount":2500}`)
    require.Equal(t, http.StatusOK, rec.Code)
    assert.JSONEq(t, `{"success":true,"redirectUrl":"/checkout/success?orderId=ord123"}`, rec.Body.String())
    assert.Equal(t, int64(2500), orders.paid["ord123"].Amount)

    rec = do(e, http.MethodPost, "/api/payment", `{"userId":"user_1"}`)
    assert.Equal(t, http.StatusBadRequest, rec.Code)

    rec = do(e, http.MethodPost, "/api/payment", `{"orderId":"nope"}`)
    assert.Equal(t, http.StatusNotFound, rec.Code)

    rec = do(e, http.MethodPost, "/api/payment", `{"orderId":`)
    assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// ----- health -----

type fakePinger struct {
    state database.State
    err   error
}

func (f fakePinger) Ping(context.Context) error { return f.err }
func (f fakePinger) State() database.State       { return f.state }

func TestHealthDB(t *testing.T) {
    now := time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC)
    clock := func() time.Time { return now }

    t.Run("connected", func(t *testing.T) {
        e := echo.New()
        h := &HealthHandler{Store: fakePinger{state: database.Connected}, Now: clock}
        e.GET("/api/health/db", h.DB)
        rec := do(e, http.MethodGet, "/api/health/db", "")
        require.Equal(t, http.StatusOK, rec.Code)
        assert.JSONEq(t, `{"ok":true,"state":"connected","now":"2026-10-16T09:30:00Z"}`, rec.Body.String())
    })

    t.Run("not connected", func(t *testing.T) {
        e := echo.New()
        h := &HealthHandler{Store: fakePinger{state: database.Connecting}, Now: clock}
        e.GET("/api/health/db", h.DB)
        rec := do(e, http.MethodGet, "/api/health/db", "")
        require.Equal(t, http.StatusOK, rec.Code)
        body := decode(t, rec)
        assert.Equal(t, false, body["ok"])
        assert.Equal(t, "connecting", body["state"])
    })

    t.Run("ping failure", func(t *testing.T) {
        e := echo.New()
        h := &HealthHandler{Store: fakePinger{err: errors.New("server selection timeout")}}
        e.GET("/api/health/db", h.DB)
        rec := do(e, http.MethodGet, "/api/health/db", "")
        assert.Equal(t, http.StatusInternalServerError, rec.Code)
        assert.Equal(t, false, decode(t, rec)["ok"])
    })
}

func TestAuthEnv(t *testing.T) {
    t.Setenv("NEXTAUTH_URL", "http://localhost:3000")
    t.Setenv("NEXTAUTH_SECRET", "x")
    t.Setenv("GOOGLE_CLIENT_ID", "")
    t.Setenv("GOOGLE_CLIENT_SECRET", "")

    e := echo.New()
    h := &HealthHandler{}
    e.GET("/api/auth/health", h.AuthEnv)
    rec := do(e, http.MethodGet, "/api/auth/health", "")
    require.Equal(t, http.StatusOK, rec.Code)
    assert.JSONEq(t, `{"ok":false,"missing":["GOOGLE_CLIENT_ID","GOOGLE_CLIENT_SECRET"]}`, rec.Body.String())

    t.Setenv("GOOGLE_CLIENT_ID", "id")
    t.Setenv("GOOGLE_CLIENT_SECRET", "secret")
    rec = do(e, http.MethodGet, "/api/auth/health", "")
    assert.JSONEq(t, `{"ok":true,"missing":[]}`, rec.Body.String())
}

func TestHealthz(t *testing.T) {
    e := echo.New()
    e.GET("/healthz", Health)
    rec := do(e, http.MethodGet, "/healthz", "")
    assert.Equal(t, http.StatusOK, rec.Code)
    assert.Equal(t, "ok", rec.Body.String())
}

// ----- robots -----

func TestRobots(t *testing.T) {
    want := "User-agent: *\nAllow: /\nDisallow: /admin\nDisallow: /api/\nDisallow: /checkout\nDisallow: /account\n\nSitemap: https://shop.example.com/sitemap.xml\n"
    assert.Equal(t, want, RobotsTxt("https://shop.example.com/"))
    assert.Contains(t, RobotsTxt(""), "Sitemap: http://localhost:3000/sitemap.xml")

    e := echo.New()
    e.GET("/robots.txt", Robots("https://shop.example.com"))
    rec := do(e, http.MethodGet, "/robots.txt", "")
    require.Equal(t, http.StatusOK, rec.Code)
    assert.True(t, strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMETextPlain))
    assert.Equal(t, want, rec.Body.String())
}
