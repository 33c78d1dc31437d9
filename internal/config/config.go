package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ariefcatur/haritham-market/internal/market"
)

type Config struct {
	HTTPAddr       string
	BackendBaseURL string
	BackendTimeout time.Duration

	ImageUploadURL    string
	ImageCloudName    string
	ImageUploadPreset string

	// Empty RedisAddr keeps sessions, caches and the in-flight guard in memory.
	RedisAddr   string
	PostgresDSN string
	// Empty KafkaBrokers disables status events.
	KafkaBrokers []string
	ServiceName  string

	StatusPolicy  market.Policy
	SessionTTL    time.Duration
	SecureCookie  bool
	SoldOutWindow time.Duration
	SoldOutSweep  time.Duration
	RateRPS       float64
	RateBurst     int
	// TrustProxy lets X-Forwarded-For and X-Real-IP name the client.
	TrustProxy bool

	AuditorGroup   string
	AuditorWorkers int

	LogLevel slog.Level
}

func Load() (Config, error) {
	var errs []string
	fail := func(k string, err error) { errs = append(errs, fmt.Sprintf("%s: %v", k, err)) }

	policy, err := market.ParsePolicy(getenv("SELLER_STATUS_POLICY", "forward"))
	if err != nil {
		fail("SELLER_STATUS_POLICY", err)
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(getenv("LOG_LEVEL", "info"))); err != nil {
		fail("LOG_LEVEL", err)
	}

	cfg := Config{
		HTTPAddr:          getenv("HTTP_ADDR", ":8080"),
		BackendBaseURL:    strings.TrimRight(getenv("BACKEND_BASE_URL", "http://localhost:5000"), "/"),
		BackendTimeout:    duration("BACKEND_TIMEOUT", 10*time.Second, fail),
		ImageUploadURL:    getenv("IMAGE_UPLOAD_URL", "https://api.cloudinary.com/v1_1/haritham/image/upload"),
		ImageCloudName:    getenv("IMAGE_CLOUD_NAME", "haritham"),
		ImageUploadPreset: getenv("IMAGE_UPLOAD_PRESET", "haritham"),
		RedisAddr:         os.Getenv("REDIS_ADDR"),
		PostgresDSN:       os.Getenv("POSTGRES_DSN"),
		KafkaBrokers:      splitCSV(os.Getenv("KAFKA_BROKERS")),
		ServiceName:       getenv("SERVICE_NAME", "haritham-bff"),
		StatusPolicy:      policy,
		SessionTTL:        duration("SESSION_TTL", 7*24*time.Hour, fail),
		SecureCookie:      boolean("SECURE_COOKIE", false, fail),
		SoldOutWindow:     duration("SOLDOUT_WINDOW", 5*time.Minute, fail),
		SoldOutSweep:      duration("SOLDOUT_SWEEP", time.Minute, fail),
		RateRPS:           float("RATE_RPS", 20, fail),
		RateBurst:         integer("RATE_BURST", 40, fail),
		TrustProxy:        boolean("TRUST_PROXY", false, fail),
		AuditorGroup:      getenv("AUDITOR_GROUP", "order-auditor"),
		AuditorWorkers:    integer("AUDITOR_WORKERS", 4, fail),
		LogLevel:          lvl,
	}
	if len(errs) > 0 {
		return cfg, fmt.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return cfg, nil
}

// Logger builds the process logger: JSON to stdout, tagged with the service.
func (c Config) Logger() *slog.Logger {
	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: c.LogLevel})
	return slog.New(h).With("service", c.ServiceName)
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func duration(k string, def time.Duration, fail func(string, error)) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		fail(k, fmt.Errorf("invalid duration %q", v))
		return def
	}
	return d
}

func integer(k string, def int, fail func(string, error)) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil || i <= 0 {
		fail(k, fmt.Errorf("invalid positive integer %q", v))
		return def
	}
	return i
}

func float(k string, def float64, fail func(string, error)) float64 {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		fail(k, fmt.Errorf("invalid rate %q", v))
		return def
	}
	return f
}

func boolean(k string, def bool, fail func(string, error)) bool {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		fail(k, err)
		return def
	}
	return b
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
