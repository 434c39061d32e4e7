package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultSessionSecret is the development fallback for SESSION_SECRET. It is rejected when ENV=prod.
const DefaultSessionSecret = "your-secret-key"

type Config struct {
	Port string

	DBHost string
	DBPort string
	DBName string
	DBUser string
	DBPass string

	// DBMaxOpenConns is the maximum number of open connections to the database (default 25).
	DBMaxOpenConns int
	// DBMaxIdleConns is the maximum number of idle connections (default 5).
	DBMaxIdleConns int

	SessionSecret string

	// Env is "dev" (default) or "prod". When "prod", SESSION_SECRET must be set and not the default.
	Env string

	// SessionExpireHours is the session lifetime in hours (default 24). Set via SESSION_EXPIRE_HOURS.
	SessionExpireHours int

	// NewsAPIKey is the Currents API key. Empty means every fetch is served from mock articles.
	NewsAPIKey string
	// NewsProvider is "currents" (default) or "rss".
	NewsProvider string
	NewsAPIURL   string
	NewsRSSURL   string
	// NewsTimeoutSeconds bounds every outbound provider call (default 5).
	NewsTimeoutSeconds int
	// NewsRatePerMinute limits /fetch_news and /generate_pdf per client IP (default 30).
	NewsRatePerMinute int

	// PDFEngine is "auto" (default), "wkhtmltopdf" or "fpdf".
	PDFEngine       string
	WkhtmltopdfPath string
	// PDFFontFile is a TTF font that lets fpdf print text outside cp1252.
	PDFFontFile     string

	// RedisURL enables the Redis-backed session revocation store when set.
	RedisURL string

	// SeedPassword is the initial password of the seeded accounts.
	SeedPassword string

	// DistrictsFile overrides the embedded district list (YAML).
	DistrictsFile string

	// TLSCertFile and TLSKeyFile enable HTTPS when both are set.
	// When empty, the server listens with plain HTTP.
	TLSCertFile string
	TLSKeyFile  string

	// LogFormat is "text" (default) or "json" for structured logging.
	LogFormat string
	// LogLevel is "debug", "info" (default), "warn" or "error".
	LogLevel string

	// CORSAllowedOrigins is a list of origins allowed for CORS (e.g. https://app.example.com, http://localhost:3000).
	// Set via CORS_ALLOWED_ORIGINS (comma-separated). When empty, no CORS headers are sent (same-origin only).
	CORSAllowedOrigins []string
}

func Load() Config {
	return Config{
		Port: getEnv("PORT", "5000"),

		DBHost: getEnv("DB_HOST", "localhost"),
		DBPort: getEnv("DB_PORT", "5432"),
		DBName: getEnv("DB_NAME", "digestdb"),
		DBUser: getEnv("DB_USER", "digestuser"),
		DBPass: getEnv("DB_PASS", "digestpass"),

		DBMaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns: getEnvInt("DB_MAX_IDLE_CONNS", 5),

		SessionSecret:      getEnv("SESSION_SECRET", DefaultSessionSecret),
		Env:                getEnv("ENV", "dev"),
		SessionExpireHours: getEnvInt("SESSION_EXPIRE_HOURS", 24),

		NewsAPIKey:         strings.TrimSpace(os.Getenv("CURRENTS_API_KEY")),
		NewsProvider:       strings.ToLower(getEnv("NEWS_PROVIDER", "currents")),
		NewsAPIURL:         strings.TrimRight(getEnv("NEWS_API_URL", "https://api.currentsapi.services"), "/"),
		NewsRSSURL:         getEnv("NEWS_RSS_URL", "https://news.google.com/rss/search"),
		NewsTimeoutSeconds: getEnvInt("NEWS_TIMEOUT_SECONDS", 5),
		NewsRatePerMinute:  getEnvInt("NEWS_RATE_PER_MINUTE", 30),

		PDFEngine:       strings.ToLower(getEnv("PDF_ENGINE", "auto")),
		WkhtmltopdfPath: getEnv("WKHTMLTOPDF_PATH", ""),
		PDFFontFile:     getEnv("PDF_FONT_FILE", ""),

		RedisURL:     getEnv("REDIS_URL", ""),
		SeedPassword: getEnv("SEED_PASSWORD", "password123"),

		DistrictsFile: getEnv("DISTRICTS_FILE", ""),

		// Optional TLS configuration for HTTPS.
		TLSCertFile: getEnv("TLS_CERT_FILE", ""),
		TLSKeyFile:  getEnv("TLS_KEY_FILE", ""),

		LogFormat: getEnv("LOG_FORMAT", "text"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),

		CORSAllowedOrigins: parseCORSOrigins(getEnv("CORS_ALLOWED_ORIGINS", "")),
	}
}

// Validate reports configuration that must not reach production.
func (c Config) Validate() error {
	if c.Env == "prod" && (c.SessionSecret == "" || c.SessionSecret == DefaultSessionSecret) {
		return errors.New("SESSION_SECRET must be set to a non-default value when ENV=prod")
	}
	switch c.NewsProvider {
	case "currents", "rss":
	default:
		return errors.New("NEWS_PROVIDER must be currents or rss")
	}
	switch c.PDFEngine {
	case "auto", "wkhtmltopdf", "fpdf":
	default:
		return errors.New("PDF_ENGINE must be auto, wkhtmltopdf or fpdf")
	}
	return nil
}

// DSN returns the postgres URL form used by migrations.
func (c Config) DSN() string {
	return "postgres://" + c.DBUser + ":" + c.DBPass + "@" + c.DBHost + ":" + c.DBPort + "/" + c.DBName + "?sslmode=disable"
}

// SessionTTL is the session lifetime as a duration.
func (c Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionExpireHours) * time.Hour
}

// NewsTimeout is the bound applied to each provider call.
func (c Config) NewsTimeout() time.Duration {
	return time.Duration(c.NewsTimeoutSeconds) * time.Second
}

// TLSEnabled reports whether both certificate and key are configured.
func (c Config) TLSEnabled() bool {
	return c.TLSCertFile != "" && c.TLSKeyFile != ""
}

// parseCORSOrigins splits a comma-separated list of origins and trims spaces. Empty strings are omitted.
func parseCORSOrigins(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if o := strings.TrimSpace(p); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
