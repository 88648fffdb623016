package handler

import (
    "context"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/storefront-api/internal/model"
    "github.com/iliyamo/storefront-api/internal/service"
)

// ProductLister returns published products.
type ProductLister interface {
    ListPublished(ctx context.Context, tag string) ([]model.Product, error)
}

// StorefrontHandler serves the public, read-only storefront endpoints.
type StorefrontHandler struct {
    Banners  service.BannerStore
    Tags     service.TagCounter
    Products ProductLister
    Timeout  time.Duration
}

// GetBanners handles GET /api/banners.  Each slot of the response is null
// when no live banner of that kind exists.
func (h *StorefrontHandler) GetBanners(c echo.Context) error {
    ctx, cancel := requestCtx(c, h.Timeout)
    defer cancel()

    banners, err := service.ResolveBanners(ctx, h.Banners)
    if err != nil {
        return internalError(c, err, "failed to load banners")
    }
    return c.JSON(http.StatusOK, echo.Map{"banners": banners})
}

// GetTags handles GET /api/tags with usage counts over published products.
func (h *StorefrontHandler) GetTags(c echo.Context) error {
    ctx, cancel := requestCtx(c, h.Timeout)
    defer cancel()

    tags, err := service.Tags(ctx, h.Tags)
    if err != nil {
        return internalError(c, err, "failed to load tags")
    }
    return c.JSON(http.StatusOK, echo.Map{"tags": tags})
}

// ListProducts handles GET /api/products?tag=.
func (h *StorefrontHandler) ListProducts(c echo.Context) error {
    ctx, cancel := requestCtx(c, h.Timeout)
    defer cancel()

    tag := strings.ToLower(strings.TrimSpace(c.QueryParam("tag")))
    products, err := h.Products.ListPublished(ctx, tag)
    if err != nil {
        return internalError(c, err, "failed to load products")
    }
    return c.JSON(http.StatusOK, echo.Map{"products": products})
}
