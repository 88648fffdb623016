package main // Entry point package

import (
    "context"
    "net/http"
    "os"
    "os/signal"
    "syscall"
    "time"

    "github.com/google/uuid"
    "github.com/labstack/echo/v4"
    echomw "github.com/labstack/echo/v4/middleware"
    "github.com/pkg/errors"
    "github.com/prometheus/client_golang/prometheus"
    "github.com/prometheus/client_golang/prometheus/collectors"
    "github.com/prometheus/client_golang/prometheus/promhttp"
    "github.com/rs/zerolog/log"
    "golang.org/x/sync/errgroup"

    "github.com/iliyamo/storefront-api/internal/config"
    "github.com/iliyamo/storefront-api/internal/database"
    "github.com/iliyamo/storefront-api/internal/handler"
    "github.com/iliyamo/storefront-api/internal/logging"
    "github.com/iliyamo/storefront-api/internal/middleware"
    "github.com/iliyamo/storefront-api/internal/queue"
    "github.com/iliyamo/storefront-api/internal/repository"
    "github.com/iliyamo/storefront-api/internal/router"
    "github.com/iliyamo/storefront-api/internal/service"
)

func main() {
    cfg, err := config.Load()
    logger := logging.Setup(cfg.Env, cfg.LogLevel)
    if err != nil {
        logger.Fatal().Err(err).Msg("config")
    }
    if missing := config.MissingEnv(config.AuthEnvKeys); len(missing) > 0 {
        logger.Warn().Strs("missing", missing).Msg("session provider env incomplete")
    }

    ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
    defer stop()

    // ---- Storage ----
    store, err := database.Open(ctx, cfg.MongoURI, cfg.MongoDB)
    if store == nil {
        logger.Fatal().Err(err).Msg("mongo connect")
    }
    if err != nil {
        logger.Warn().Err(err).Msg("mongo not reachable yet, serving degraded")
    } else if err := repository.EnsureIndexes(ctx, store.DB()); err != nil {
        logger.Warn().Err(err).Msg("ensure indexes")
    }
    rdb := config.NewRedisClient(ctx)
    if rdb == nil {
        logger.Warn().Msg("redis unavailable, cache and rate limit disabled")
    }

    // ---- Metrics ----
    reg := prometheus.NewRegistry()
    reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
    paid := prometheus.NewCounter(prometheus.CounterOpts{
        Namespace: "storefront",
        Name:      "orders_paid_total",
        Help:      "Orders marked paid by the payment callback.",
    })
    reg.MustRegister(paid)
    metrics := middleware.NewMetrics(reg)

    // ---- Wiring ----
    db := store.DB()
    banners := repository.NewBannerRepo(db)
    products := repository.NewProductRepo(db)
    orders := repository.NewOrderRepo(db)

    payments := &service.Payments{Orders: orders, Paid: paid}
    if cfg.RabbitURL != "" {
        payments.Publisher = &service.AMQPPublisher{URL: cfg.RabbitURL}
    }

    opts := router.Options{
        AuthSecret: cfg.AuthSecret,
        AppURL:     cfg.AppURL,
        Redis:      rdb,
        Cache:      config.LoadCacheConfig(),
        RateLimit:  config.LoadRateLimitConfig(),
    }
    orderHandler := &handler.OrderHandler{Orders: orders, Payments: payments, Timeout: cfg.RequestTimeout}

    e := echo.New()
    e.HideBanner = true
    e.HidePort = true
    e.Use(echomw.Recover())
    e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
    e.Use(middleware.RequestLogger(logger))
    e.Use(metrics.Middleware())
    e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

    router.RegisterRoutes(e, &handler.HealthHandler{Store: store, Timeout: cfg.RequestTimeout}, opts)
    router.RegisterStorefront(e, &handler.StorefrontHandler{
        Banners:  banners,
        Tags:     products,
        Products: products,
        Timeout:  cfg.RequestTimeout,
    }, opts)
    router.RegisterOrders(e, orderHandler, opts)
    router.RegisterAdmin(e, &handler.AdminHandler{
        Banners:   banners,
        Products:  products,
        Discounts: repository.NewTagDiscountRepo(db),
        Kpis:      repository.NewKpiRepo(db),
        Invoices:  repository.NewInvoiceTemplateRepo(db),
        Timeout:   cfg.RequestTimeout,
    }, orderHandler, opts)

    // ---- Run ----
    g, gctx := errgroup.WithContext(ctx)
    // The consumer is stopped only after the HTTP server has drained.
    consumerCtx, stopConsumer := context.WithCancel(context.Background())
    defer stopConsumer()
    g.Go(func() error {
        addr := ":" + cfg.Port
        logger.Info().Str("addr", addr).Str("env", cfg.Env).Msg("listening")
        if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
            return errors.Wrap(err, "http server")
        }
        return nil
    })
    if cfg.RabbitURL != "" {
        consumer := &queue.Consumer{URL: cfg.RabbitURL, LogDir: cfg.OrderLogDir}
        g.Go(func() error {
            if err := consumer.Run(consumerCtx); err != nil && !errors.Is(err, context.Canceled) {
                return err
            }
            return nil
        })
    }
    g.Go(func() error {
        <-gctx.Done()
        log.Info().Msg("shutting down")
        shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
        defer cancel()
        if err := e.Shutdown(shutdownCtx); err != nil {
            log.Error().Err(err).Msg("http shutdown")
        }
        stopConsumer()
        return nil
    })

    if err := g.Wait(); err != nil {
        logger.Error().Err(err).Msg("server stopped")
    }

    // Server and consumer have returned; release storage last.
    closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
    defer cancel()
    if rdb != nil {
        _ = rdb.Close()
    }
    if err := store.Close(closeCtx); err != nil {
        logger.Error().Err(err).Msg("mongo close")
    }
    logger.Info().Msg("bye")
}
