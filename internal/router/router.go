package router // package router defines how HTTP routes are registered for the API

import (
    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/iliyamo/storefront-api/internal/config"
    "github.com/iliyamo/storefront-api/internal/handler"
    "github.com/iliyamo/storefront-api/internal/middleware"
    "github.com/iliyamo/storefront-api/internal/utils"
)

// Options carries the shared middleware inputs.  Redis may be nil, in which
// case caching and rate limiting are pass-through.
type Options struct {
    AuthSecret string
    AppURL     string
    Redis      *redis.Client
    Cache      config.CacheConfig
    RateLimit  config.RateLimitConfig
}

// RegisterRoutes registers the probes and crawler endpoints.
func RegisterRoutes(e *echo.Echo, h *handler.HealthHandler, opts Options) {
    e.GET("/healthz", handler.Health)
    e.GET("/robots.txt", handler.Robots(opts.AppURL))
    e.GET("/api/health/db", h.DB)
    e.GET("/api/auth/health", h.AuthEnv)
}

// RegisterStorefront registers the public catalog reads.  Responses are
// served from the Redis cache when it is enabled.
func RegisterStorefront(e *echo.Echo, s *handler.StorefrontHandler, opts Options) {
    cache := middleware.NewRedisCache(opts.Cache, opts.Redis)
    g := e.Group("/api", cache)
    g.GET("/banners", s.GetBanners)
    g.GET("/tags", s.GetTags)
    g.GET("/products", s.ListProducts)
}

// RegisterOrders registers the account and payment routes.  Order routes
// need a session; the payment callback is public but rate limited.
func RegisterOrders(e *echo.Echo, o *handler.OrderHandler, opts Options) {
    acct := e.Group("/api/orders", middleware.SessionAuth(opts.AuthSecret))
    acct.GET("/user", o.ListMine)
    acct.POST("", o.Create)

    e.POST("/api/payment", o.Pay, middleware.NewTokenBucket(opts.RateLimit, opts.Redis))
}

// RegisterAdmin registers the dashboard routes under /api/admin.  All of
// them require a session carrying the admin role.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, o *handler.OrderHandler, opts Options) {
    g := e.Group(
        "/api/admin",
        middleware.SessionAuth(opts.AuthSecret),
        middleware.RequireRole(utils.RoleAdmin),
    )

    // ---- Banners ----
    g.GET("/banners", a.ListBanners)
    g.PUT("/banners/:type", a.PutBanner)
    g.DELETE("/banners/:type", a.DeleteBanner)

    // ---- Products ----
    g.POST("/products", a.CreateProduct)
    g.PUT("/products/:id", a.UpdateProduct)
    g.DELETE("/products/:id", a.DeleteProduct)

    // ---- Tag discounts ----
    g.GET("/tag-discounts", a.ListTagDiscounts)
    g.POST("/tag-discounts", a.CreateTagDiscount)
    g.PUT("/tag-discounts/:id", a.UpdateTagDiscount)
    g.DELETE("/tag-discounts/:id", a.DeleteTagDiscount)

    // ---- KPIs ----
    g.GET("/kpis", a.ListKpis)
    g.PUT("/kpis/:key", a.PutKpi)

    // ---- Invoice template ----
    g.GET("/invoice-template", a.GetInvoiceTemplate)
    g.PUT("/invoice-template", a.PutInvoiceTemplate)

    // ---- Orders ----
    g.GET("/orders", o.AdminList)
}
