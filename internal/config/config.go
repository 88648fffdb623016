package config // package config loads application configuration from environment variables

import (
    "os"
    "strings"
    "time"

    "github.com/joho/godotenv"
    "github.com/pkg/errors"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  Secrets belonging to the external session
// provider are kept here as well so that the API can verify session tokens.
type Config struct {
    Env            string        // application environment (e.g. "dev", "prod")
    Port           string        // HTTP port to listen on
    LogLevel       string        // zerolog level name
    MongoURI       string        // MONGODB_URI
    MongoDB        string        // database name inside the cluster
    AppURL         string        // NEXT_PUBLIC_APP_URL, public origin of the storefront
    AuthURL        string        // NEXTAUTH_URL
    AuthSecret     string        // NEXTAUTH_SECRET, HS256 key of session tokens
    RabbitURL      string        // broker URL for order events (empty disables publishing)
    OrderLogDir    string        // directory the order event consumer appends to
    RequestTimeout time.Duration // upper bound for a single handler's DB work
}

// AuthEnvKeys lists the variables the session provider needs.  They are
// reported by the auth health probe rather than enforced at startup.
var AuthEnvKeys = []string{
    "NEXTAUTH_URL",
    "NEXTAUTH_SECRET",
    "GOOGLE_CLIENT_ID",
    "GOOGLE_CLIENT_SECRET",
}

// ErrMissingMongoURI is returned by Load when MONGODB_URI is unset.
var ErrMissingMongoURI = errors.New("missing required env var: MONGODB_URI")

// Load reads a .env file when present and then builds a Config from the
// process environment.  Only MONGODB_URI is mandatory.
func Load() (Config, error) {
    if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
        return Config{}, errors.Wrap(err, "load .env")
    }
    cfg := Config{
        Env:            envStr("APP_ENV", "dev"),
        Port:           envStr("APP_PORT", "8080"),
        LogLevel:       envStr("LOG_LEVEL", "info"),
        MongoURI:       os.Getenv("MONGODB_URI"),
        MongoDB:        envStr("MONGODB_DB", "ecommerce"),
        AppURL:         os.Getenv("NEXT_PUBLIC_APP_URL"),
        AuthURL:        os.Getenv("NEXTAUTH_URL"),
        AuthSecret:     os.Getenv("NEXTAUTH_SECRET"),
        RabbitURL:      rabbitURL(),
        OrderLogDir:    envStr("ORDER_LOG_DIR", "logs"),
        RequestTimeout: envDur("REQUEST_TIMEOUT", 5*time.Second),
    }
    if cfg.MongoURI == "" {
        return cfg, ErrMissingMongoURI
    }
    return cfg, nil
}

// MissingEnv returns the keys that are unset or blank, in the given order.
// The result is never nil so it always encodes as a JSON array.
func MissingEnv(keys []string) []string {
    missing := make([]string, 0, len(keys))
    for _, k := range keys {
        if strings.TrimSpace(os.Getenv(k)) == "" {
            missing = append(missing, k)
        }
    }
    return missing
}

func rabbitURL() string {
    if v := os.Getenv("RABBITMQ_URL"); v != "" {
        return v
    }
    return os.Getenv("AMQP_URL")
}
