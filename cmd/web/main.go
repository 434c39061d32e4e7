package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/crucial707/district-digest/internal/auth"
	"github.com/crucial707/district-digest/internal/config"
	"github.com/crucial707/district-digest/internal/db"
	"github.com/crucial707/district-digest/internal/digest"
	"github.com/crucial707/district-digest/internal/news"
	"github.com/crucial707/district-digest/internal/report"
	"github.com/crucial707/district-digest/internal/repo"
	"github.com/joho/godotenv"
)

func main() {
	// A missing .env is fine; real environments set variables directly.
	_ = godotenv.Load()

	cfg := config.Load()
	setupLogging(cfg)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	districts, err := config.LoadDistricts(cfg.DistrictsFile)
	if err != nil {
		slog.Error("load districts", "error", err)
		os.Exit(1)
	}

	// The pool connects lazily, so a database outage at startup leaves the server up:
	// /ready reports 503 and /login answers 500 until postgres is reachable.
	database, err := db.Open(
		cfg.DBHost,
		cfg.DBPort,
		cfg.DBName,
		cfg.DBUser,
		cfg.DBPass,
		cfg.DBMaxOpenConns,
		cfg.DBMaxIdleConns,
	)
	if err != nil {
		slog.Error("invalid database configuration", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	ctx := context.Background()

	creds := auth.NewCredentials(repo.NewUserRepo(database))
	initStore(ctx, database, func() error { return db.Migrate(cfg.DSN()) }, creds, cfg.SeedPassword)

	var revoker auth.Revoker
	if cfg.RedisURL != "" {
		rr, err := auth.NewRedisRevoker(ctx, cfg.RedisURL)
		if err != nil {
			slog.Error("redis unavailable, revoking sessions in memory", "error", err)
		} else {
			defer rr.Close()
			revoker = rr
			slog.Info("session revocation backed by redis")
		}
	}
	sessions := auth.NewSessions([]byte(cfg.SessionSecret), cfg.SessionTTL(), cfg.TLSEnabled(), revoker)

	provider, err := news.NewProvider(cfg.NewsProvider, cfg.NewsAPIKey, cfg.NewsAPIURL, cfg.NewsRSSURL, cfg.NewsTimeout())
	if err != nil {
		slog.Error("news provider", "error", err)
		os.Exit(1)
	}

	conv, err := report.SelectConverter(cfg.PDFEngine, cfg.WkhtmltopdfPath, cfg.PDFFontFile)
	if err != nil {
		slog.Error("pdf engine", "error", err)
		os.Exit(1)
	}
	renderer, err := report.NewRenderer(conv)
	if err != nil {
		slog.Error("report templates", "error", err)
		os.Exit(1)
	}

	handler := newRouter(database, cfg, services{
		Sessions:  sessions,
		Digest:    digest.ForProvider(provider, districts.State),
		Renderer:  renderer,
		Districts: districts,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.Info("starting server",
			"port", cfg.Port,
			"tls", cfg.TLSEnabled(),
			"provider", provider.Name(),
			"pdf_engine", renderer.Engine(),
			"districts", len(districts.Names))
		var err error
		if cfg.TLSEnabled() {
			err = srv.ListenAndServeTLS(cfg.TLSCertFile, cfg.TLSKeyFile)
		} else {
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
	slog.Info("server stopped")
}

// setupLogging installs the default slog handler from LOG_FORMAT and LOG_LEVEL.
func setupLogging(cfg config.Config) {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}
	var h slog.Handler
	if strings.EqualFold(cfg.LogFormat, "json") {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(h))
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
