// Command seed loads catalog fixtures into MongoDB and can mint a session
// token for local development.
package main

import (
    "context"
    "flag"
    "fmt"
    "os"
    "time"

    "github.com/pkg/errors"
    "github.com/rs/zerolog/log"

    "github.com/iliyamo/storefront-api/internal/config"
    "github.com/iliyamo/storefront-api/internal/database"
    "github.com/iliyamo/storefront-api/internal/logging"
    "github.com/iliyamo/storefront-api/internal/repository"
    "github.com/iliyamo/storefront-api/internal/utils"
)

func main() {
    file := flag.String("file", "cmd/seed/fixtures.yaml", "fixtures file")
    tokenFor := flag.String("token", "", "print an admin session token for this user id and exit")
    ttl := flag.Duration("ttl", 24*time.Hour, "lifetime of the printed token")
    flag.Parse()

    cfg, err := config.Load()
    logging.Setup(cfg.Env, cfg.LogLevel)

    if *tokenFor != "" {
        if cfg.AuthSecret == "" {
            log.Fatal().Msg("NEXTAUTH_SECRET is required to sign tokens")
        }
        raw, exp, err := utils.NewSessionToken(cfg.AuthSecret, utils.Session{UserID: *tokenFor, Role: utils.RoleAdmin}, *ttl)
        if err != nil {
            log.Fatal().Err(err).Msg("sign token")
        }
        fmt.Println(raw)
        log.Info().Time("expires_at", exp).Msg("token issued")
        return
    }
    if err != nil {
        log.Fatal().Err(err).Msg("config")
    }

    ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
    defer cancel()
    if err := run(ctx, cfg, *file); err != nil {
        log.Error().Err(err).Msg("seed failed")
        os.Exit(1)
    }
}

func run(ctx context.Context, cfg config.Config, path string) error {
    fx, err := loadFixtures(path)
    if err != nil {
        return err
    }
    store, err := database.Open(ctx, cfg.MongoURI, cfg.MongoDB)
    if store != nil {
        defer func() { _ = store.Close(context.Background()) }()
    }
    if err != nil {
        return err
    }

    if err := repository.EnsureIndexes(ctx, store.DB()); err != nil {
        return err
    }

    products := repository.NewProductRepo(store.DB())
    for _, pf := range fx.Products {
        p, err := pf.toModel()
        if err != nil {
            return err
        }
        switch err := products.Create(ctx, &p); {
        case errors.Is(err, repository.ErrConflict):
            log.Info().Str("slug", p.Slug).Msg("product exists, skipped")
        case err != nil:
            return err
        default:
            log.Info().Str("slug", p.Slug).Msg("product created")
        }
    }

    banners := repository.NewBannerRepo(store.DB())
    for _, bf := range fx.Banners {
        b, err := bf.toModel()
        if err != nil {
            return err
        }
        if _, err := banners.Upsert(ctx, b); err != nil {
            return err
        }
        log.Info().Str("type", string(b.Kind)).Bool("active", b.Active()).Msg("banner saved")
    }
    return nil
}
