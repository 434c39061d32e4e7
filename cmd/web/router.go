package main

import (
	"database/sql"
	"net/http"

	"github.com/crucial707/district-digest/internal/auth"
	"github.com/crucial707/district-digest/internal/config"
	"github.com/crucial707/district-digest/internal/handlers"
	"github.com/crucial707/district-digest/internal/middleware"
	"github.com/crucial707/district-digest/internal/repo"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// services are the pieces main builds from config and the router only consumes.
type services struct {
	Sessions  *auth.Sessions
	Digest    handlers.DigestBuilder
	Renderer  handlers.PDFRenderer
	Districts config.Districts
}

func newRouter(db *sql.DB, cfg config.Config, svc services) http.Handler {
	dev := cfg.Env == "dev"

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLog)
	r.Use(middleware.Prometheus)
	r.Use(middleware.Recoverer(dev))
	r.Use(middleware.SecurityHeaders(cfg.TLSEnabled()))
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	r.Use(middleware.MaxBytes(middleware.DefaultMaxBodyBytes))

	authH := &handlers.AuthHandler{
		Credentials: auth.NewCredentials(repo.NewUserRepo(db)),
		Sessions:    svc.Sessions,
	}
	pageH := &handlers.PageHandler{Sessions: svc.Sessions, Districts: svc.Districts}
	newsH := &handlers.NewsHandler{Digest: svc.Digest, Detail: dev}
	reportH := &handlers.ReportHandler{Renderer: svc.Renderer, Detail: dev}

	// Public
	r.Get("/health", handlers.Health)
	r.Get("/ready", handlers.Ready(db))
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/", pageH.LoginPage)
	r.Post("/login", authH.Login)

	// Pages: anonymous callers are sent to the login page
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireSession(svc.Sessions, middleware.Page))
		r.Get("/dashboard", pageH.Dashboard)
		r.Get("/logout", authH.Logout)
	})

	// API: anonymous callers get 401
	limiter := middleware.NewsRateLimiter(cfg.NewsRatePerMinute)
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireSession(svc.Sessions, middleware.API))
		r.Use(limiter.Middleware)
		r.Post("/fetch_news", newsH.FetchNews)
		r.Post("/generate_pdf", reportH.GeneratePDF)
	})

	return r
}
