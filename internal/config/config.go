package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Pricing holds the single product's catalogue settings in major currency units.
type Pricing struct {
	ProductName   string
	Currency      string
	UnitPrice     int64
	ShippingPrice int64
}

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress        string
	DatabaseURI       string
	StripeSecretKey   string
	StripeAPIURL      string
	Pricing           Pricing
	JWTSecret         string
	AuthStrategy      string
	AdminLogin        string
	AdminPassword     string
	KafkaBrokers      []string
	KafkaTopic        string
	RateLimitRPS      float64
	RateLimitBurst    int
	ReconcileInterval time.Duration
	WorkerPoolSize    int
	ShutdownTimeout   time.Duration
	MaxOrdersBatch    int
	LogLevel          string
}

const (
	defaultPort            = "4242"
	defaultProductName     = "Chat Pack"
	defaultCurrency        = "huf"
	defaultUnitPrice       = 3990
	defaultShippingPrice   = 990
	defaultJWTSecret       = "change-me-in-production"
	defaultAuthStrategy    = "jwt"
	defaultKafkaTopic      = "orders"
	defaultRateLimitRPS    = 5
	defaultRateLimitBurst  = 10
	defaultWorkerPoolSize  = 2
	defaultShutdownTimeout = 10 * time.Second
	defaultMaxOrdersBatch  = 16
	defaultLogLevel        = "info"
)

// Load parses configuration from flags and environment variables.
func Load() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:      getString(lookup, "RUN_ADDRESS", ":"+getString(lookup, "PORT", defaultPort)),
		DatabaseURI:     getString(lookup, "DATABASE_URI", ""),
		StripeSecretKey: getString(lookup, "STRIPE_SECRET_KEY", ""),
		StripeAPIURL:    getString(lookup, "STRIPE_API_URL", ""),
		Pricing: Pricing{
			ProductName:   getString(lookup, "PRODUCT_NAME", defaultProductName),
			Currency:      strings.ToLower(strings.TrimSpace(getString(lookup, "CURRENCY", defaultCurrency))),
			UnitPrice:     getPrice(lookup, "UNIT_PRICE", defaultUnitPrice),
			ShippingPrice: getPrice(lookup, "SHIPPING_PRICE", defaultShippingPrice),
		},
		JWTSecret:         getString(lookup, "JWT_SECRET", defaultJWTSecret),
		AuthStrategy:      getString(lookup, "AUTH_STRATEGY", defaultAuthStrategy),
		AdminLogin:        getString(lookup, "ADMIN_LOGIN", ""),
		AdminPassword:     getString(lookup, "ADMIN_PASSWORD", ""),
		KafkaBrokers:      splitCSV(getString(lookup, "KAFKA_BROKERS", "")),
		KafkaTopic:        getString(lookup, "KAFKA_TOPIC", defaultKafkaTopic),
		RateLimitRPS:      getFloat(lookup, "RATE_LIMIT_RPS", defaultRateLimitRPS),
		RateLimitBurst:    getInt(lookup, "RATE_LIMIT_BURST", defaultRateLimitBurst),
		ReconcileInterval: getDuration(lookup, "RECONCILE_INTERVAL", 0),
		WorkerPoolSize:    getInt(lookup, "WORKER_POOL_SIZE", defaultWorkerPoolSize),
		ShutdownTimeout:   getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		MaxOrdersBatch:    getInt(lookup, "POLL_BATCH_SIZE", defaultMaxOrdersBatch),
		LogLevel:          getString(lookup, "LOG_LEVEL", defaultLogLevel),
	}

	fs := flag.NewFlagSet("storefront", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		reconcileIntervalStr = cfg.ReconcileInterval.String()
		shutdownTimeoutStr   = cfg.ShutdownTimeout.String()
		kafkaBrokersStr      = strings.Join(cfg.KafkaBrokers, ",")
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.StripeAPIURL, "stripe-url", cfg.StripeAPIURL, "Payment provider API base URL override")
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", cfg.JWTSecret, "Secret for signing admin tokens")
	fs.StringVar(&cfg.AuthStrategy, "auth-strategy", cfg.AuthStrategy, "Admin token strategy: jwt or hmac")
	fs.StringVar(&kafkaBrokersStr, "kafka-brokers", kafkaBrokersStr, "Comma separated Kafka brokers for order events")
	fs.StringVar(&cfg.KafkaTopic, "kafka-topic", cfg.KafkaTopic, "Kafka topic for order events")
	fs.IntVar(&cfg.WorkerPoolSize, "worker-pool", cfg.WorkerPoolSize, "Number of concurrent reconcile workers")
	fs.StringVar(&reconcileIntervalStr, "reconcile-interval", reconcileIntervalStr, "Interval between payment reconcile polls, 0 disables")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")
	fs.IntVar(&cfg.MaxOrdersBatch, "poll-batch", cfg.MaxOrdersBatch, "Maximum orders per reconcile batch")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.ReconcileInterval, err = time.ParseDuration(reconcileIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid reconcile interval: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	cfg.KafkaBrokers = splitCSV(kafkaBrokersStr)

	if secretFile, ok := lookup("JWT_SECRET_FILE"); ok && secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read jwt secret file: %w", err)
		}
		cfg.JWTSecret = strings.TrimSpace(string(content))
	}

	if cfg.WorkerPoolSize <= 0 {
		cfg.WorkerPoolSize = defaultWorkerPoolSize
	}

	if cfg.MaxOrdersBatch <= 0 {
		cfg.MaxOrdersBatch = defaultMaxOrdersBatch
	}

	if cfg.ReconcileInterval < 0 {
		cfg.ReconcileInterval = 0
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.RateLimitRPS <= 0 {
		cfg.RateLimitRPS = defaultRateLimitRPS
	}

	if cfg.RateLimitBurst <= 0 {
		cfg.RateLimitBurst = defaultRateLimitBurst
	}

	if cfg.Pricing.Currency == "" {
		cfg.Pricing.Currency = defaultCurrency
	}

	switch cfg.AuthStrategy {
	case "jwt", "hmac":
	default:
		return nil, fmt.Errorf("unknown auth strategy %q", cfg.AuthStrategy)
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	return cfg, nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getFloat(lookup envLookup, key string, def float64) float64 {
	if v, ok := lookup(key); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

var nonDigits = regexp.MustCompile(`[^\d-]`)

// getPrice reads an integer price that may carry thousands separators ("7 900", "7,900", "7.900").
func getPrice(lookup envLookup, key string, def int64) int64 {
	v, ok := lookup(key)
	if !ok || strings.TrimSpace(v) == "" {
		return def
	}
	cleaned := nonDigits.ReplaceAllString(strings.TrimSpace(v), "")
	n, err := strconv.ParseInt(cleaned, 10, 64)
	if err != nil {
		return def
	}
	return n
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
