package handler

import (
    "context"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/pkg/errors"
    "go.mongodb.org/mongo-driver/bson/primitive"

    "github.com/iliyamo/storefront-api/internal/model"
    "github.com/iliyamo/storefront-api/internal/repository"
)

// BannerAdmin is the banner persistence used by the dashboard.
type BannerAdmin interface {
    List(ctx context.Context) ([]model.Banner, error)
    Upsert(ctx context.Context, b model.Banner) (*model.Banner, error)
    Delete(ctx context.Context, kind model.BannerKind) error
}

// ProductAdmin is the product persistence used by the dashboard.
type ProductAdmin interface {
    Create(ctx context.Context, p *model.Product) error
    Update(ctx context.Context, id string, p model.Product) (*model.Product, error)
    Delete(ctx context.Context, id string) error
}

// TagDiscountAdmin is the tag discount persistence used by the dashboard.
type TagDiscountAdmin interface {
    List(ctx context.Context) ([]model.TagDiscount, error)
    Create(ctx context.Context, d *model.TagDiscount) error
    Update(ctx context.Context, id string, d model.TagDiscount) (*model.TagDiscount, error)
    Delete(ctx context.Context, id string) error
}

// KpiAdmin is the KPI persistence used by the dashboard.
type KpiAdmin interface {
    List(ctx context.Context) ([]model.Kpi, error)
    Upsert(ctx context.Context, k model.Kpi) (*model.Kpi, error)
}

// InvoiceTemplateAdmin is the invoice template persistence used by the dashboard.
type InvoiceTemplateAdmin interface {
    Default(ctx context.Context) (*model.InvoiceTemplate, error)
    Save(ctx context.Context, t model.InvoiceTemplate) (*model.InvoiceTemplate, error)
}

// AdminHandler bundles the dashboard CRUD endpoints.  Every route is
// mounted behind SessionAuth and RequireRole(admin).
type AdminHandler struct {
    Banners   BannerAdmin
    Products  ProductAdmin
    Discounts TagDiscountAdmin
    Kpis      KpiAdmin
    Invoices  InvoiceTemplateAdmin
    Timeout   time.Duration
}

// repoError maps repository sentinels to HTTP responses.
func repoError(c echo.Context, err error, msg string) error {
    switch {
    case errors.Is(err, repository.ErrNotFound):
        return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
    case errors.Is(err, repository.ErrInvalidID):
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    case errors.Is(err, repository.ErrConflict):
        return c.JSON(http.StatusConflict, echo.Map{"error": "already exists"})
    case errors.Is(err, model.ErrUnknownBannerKind):
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown banner type"})
    }
    return internalError(c, err, msg)
}

// ----- banners -----

type bannerReq struct {
    Text   string `json:"text"`
    Image  string `json:"image"`
    Link   string `json:"link"`
    Active bool   `json:"active"`
}

func (h *AdminHandler) ListBanners(c echo.Context) error {
    ctx, cancel := requestCtx(c, h.Timeout)
    defer cancel()
    banners, err := h.Banners.List(ctx)
    if err != nil {
        return internalError(c, err, "failed to load banners")
    }
    return c.JSON(http.StatusOK, echo.Map{"banners": banners})
}

// PutBanner handles PUT /api/admin/banners/:type, replacing the current
// record of that kind.
func (h *AdminHandler) PutBanner(c echo.Context) error {
    kind, err := model.ParseBannerKind(c.Param("type"))
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown banner type"})
    }
    var req bannerReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    b := model.Banner{Kind: kind, Text: strings.TrimSpace(req.Text), Image: req.Image, Link: req.Link}
    if b.Text == "" && b.Image == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "text or image required"})
    }
    if err := b.SetActive(req.Active); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown banner type"})
    }

    ctx, cancel := requestCtx(c, h.Timeout)
    defer cancel()
    saved, err := h.Banners.Upsert(ctx, b)
    if err != nil {
        return repoError(c, err, "failed to save banner")
    }
    return c.JSON(http.StatusOK, echo.Map{"banner": saved})
}

func (h *AdminHandler) DeleteBanner(c echo.Context) error {
    kind, err := model.ParseBannerKind(c.Param("type"))
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown banner type"})
    }
    ctx, cancel := requestCtx(c, h.Timeout)
    defer cancel()
    if err := h.Banners.Delete(ctx, kind); err != nil {
        return repoError(c, err, "failed to delete banner")
    }
    return c.NoContent(http.StatusNoContent)
}

// ----- products -----

func validateProduct(p *model.Product) string {
    p.Name = strings.TrimSpace(p.Name)
    p.Slug = strings.ToLower(strings.TrimSpace(p.Slug))
    switch {
    case p.Name == "":
        return "name required"
    case p.Slug == "":
        return "slug required"
    case p.Price < 0:
        return "price must not be negative"
    }
    return ""
}

func (h *AdminHandler) CreateProduct(c echo.Context) error {
    var p model.Product
    if err := c.Bind(&p); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if msg := validateProduct(&p); msg != "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
    }
    p.ID = primitive.NilObjectID
    ctx, cancel := requestCtx(c, h.Timeout)
    defer cancel()
    if err := h.Products.Create(ctx, &p); err != nil {
        return repoError(c, err, "failed to create product")
    }
    return c.JSON(http.StatusCreated, echo.Map{"product": p})
}

func (h *AdminHandler) UpdateProduct(c echo.Context) error {
    var p model.Product
    if err := c.Bind(&p); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if msg := validateProduct(&p); msg != "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
    }
    ctx, cancel := requestCtx(c, h.Timeout)
    defer cancel()
    saved, err := h.Products.Update(ctx, c.Param("id"), p)
    if err != nil {
        return repoError(c, err, "failed to update product")
    }
    return c.JSON(http.StatusOK, echo.Map{"product": saved})
}

func (h *AdminHandler) DeleteProduct(c echo.Context) error {
    ctx, cancel := requestCtx(c, h.Timeout)
    defer cancel()
    if err := h.Products.Delete(ctx, c.Param("id")); err != nil {
        return repoError(c, err, "failed to delete product")
    }
    return c.NoContent(http.StatusNoContent)
}

// ----- tag discounts -----

func validateDiscount(d *model.TagDiscount) string {
    d.Tag = strings.ToLower(strings.TrimSpace(d.Tag))
    switch {
    case d.Tag == "":
        return "tag required"
    case d.Percent < 1 || d.Percent > 100:
        return "percent must be between 1 and 100"
    case d.StartsAt != nil && d.EndsAt != nil && !d.EndsAt.After(*d.StartsAt):
        return "endsAt must be after startsAt"
    }
    return ""
}

func (h *AdminHandler) ListTagDiscounts(c echo.Context) error {
    ctx, cancel := requestCtx(c, h.Timeout)
    defer cancel()
    items, err := h.Discounts.List(ctx)
    if err != nil {
        return internalError(c, err, "failed to load tag discounts")
    }
    return c.JSON(http.StatusOK, echo.Map{"tagDiscounts": items})
}

func (h *AdminHandler) CreateTagDiscount(c echo.Context) error {
    var d model.TagDiscount
    if err := c.Bind(&d); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if msg := validateDiscount(&d); msg != "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
    }
    d.ID = primitive.NilObjectID
    ctx, cancel := requestCtx(c, h.Timeout)
    defer cancel()
    if err := h.Discounts.Create(ctx, &d); err != nil {
        return repoError(c, err, "failed to create tag discount")
    }
    return c.JSON(http.StatusCreated, echo.Map{"tagDiscount": d})
}

func (h *AdminHandler) UpdateTagDiscount(c echo.Context) error {
    var d model.TagDiscount
    if err := c.Bind(&d); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if msg := validateDiscount(&d); msg != "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
    }
    ctx, cancel := requestCtx(c, h.Timeout)
    defer cancel()
    saved, err := h.Discounts.Update(ctx, c.Param("id"), d)
    if err != nil {
        return repoError(c, err, "failed to update tag discount")
    }
    return c.JSON(http.StatusOK, echo.Map{"tagDiscount": saved})
}

func (h *AdminHandler) DeleteTagDiscount(c echo.Context) error {
    ctx, cancel := requestCtx(c, h.Timeout)
    defer cancel()
    if err := h.Discounts.Delete(ctx, c.Param("id")); err != nil {
        return repoError(c, err, "failed to delete tag discount")
    }
    return c.NoContent(http.StatusNoContent)
}

// ----- kpis -----

type kpiReq struct {
    Label  string  `json:"label"`
    Value  float64 `json:"value"`
    Target float64 `json:"target"`
}

func (h *AdminHandler) ListKpis(c echo.Context) error {
    ctx, cancel := requestCtx(c, h.Timeout)
    defer cancel()
    kpis, err := h.Kpis.List(ctx)
    if err != nil {
        return internalError(c, err, "failed to load kpis")
    }
    return c.JSON(http.StatusOK, echo.Map{"kpis": kpis})
}

// PutKpi handles PUT /api/admin/kpis/:key, creating the figure on first write.
func (h *AdminHandler) PutKpi(c echo.Context) error {
    key := strings.ToLower(strings.TrimSpace(c.Param("key")))
    if key == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "key required"})
    }
    var req kpiReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    label := strings.TrimSpace(req.Label)
    if label == "" {
        label = key
    }
    ctx, cancel := requestCtx(c, h.Timeout)
    defer cancel()
    saved, err := h.Kpis.Upsert(ctx, model.Kpi{Key: key, Label: label, Value: req.Value, Target: req.Target})
    if err != nil {
        return internalError(c, err, "failed to save kpi")
    }
    return c.JSON(http.StatusOK, echo.Map{"kpi": saved})
}

// ----- invoice template -----

func (h *AdminHandler) GetInvoiceTemplate(c echo.Context) error {
    ctx, cancel := requestCtx(c, h.Timeout)
    defer cancel()
    tpl, err := h.Invoices.Default(ctx)
    if err != nil {
        return internalError(c, err, "failed to load invoice template")
    }
    return c.JSON(http.StatusOK, echo.Map{"template": tpl})
}

func (h *AdminHandler) PutInvoiceTemplate(c echo.Context) error {
    var t model.InvoiceTemplate
    if err := c.Bind(&t); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    t.Name = strings.TrimSpace(t.Name)
    if t.Name == "" {
        t.Name = "Default"
    }
    if strings.TrimSpace(t.CompanyName) == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "companyName required"})
    }
    ctx, cancel := requestCtx(c, h.Timeout)
    defer cancel()
    saved, err := h.Invoices.Save(ctx, t)
    if err != nil {
        return internalError(c, err, "failed to save invoice template")
    }
    return c.JSON(http.StatusOK, echo.Map{"template": saved})
}
