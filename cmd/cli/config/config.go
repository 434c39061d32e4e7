package config

import (
	"database/sql"
	"fmt"

	"github.com/crucial707/district-digest/internal/config"
	"github.com/crucial707/district-digest/internal/db"
	"github.com/crucial707/district-digest/internal/digest"
	"github.com/crucial707/district-digest/internal/news"
	"github.com/crucial707/district-digest/internal/report"
)

// Load reads the same environment as the web server.
func Load() (config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// OpenDB connects to the configured database. Tests replace it with a sqlmock opener.
var OpenDB = func(cfg config.Config) (*sql.DB, error) {
	conn, err := db.Connect(cfg.DBHost, cfg.DBPort, cfg.DBName, cfg.DBUser, cfg.DBPass, 2, 1)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	return conn, nil
}

// NewDigest builds the digest service for the configured provider.
func NewDigest(cfg config.Config) (*digest.Service, error) {
	districts, err := config.LoadDistricts(cfg.DistrictsFile)
	if err != nil {
		return nil, err
	}
	p, err := news.NewProvider(cfg.NewsProvider, cfg.NewsAPIKey, cfg.NewsAPIURL, cfg.NewsRSSURL, cfg.NewsTimeout())
	if err != nil {
		return nil, err
	}
	return digest.ForProvider(p, districts.State), nil
}

// NewRenderer builds the PDF renderer for PDF_ENGINE.
func NewRenderer(cfg config.Config) (*report.Renderer, error) {
	conv, err := report.SelectConverter(cfg.PDFEngine, cfg.WkhtmltopdfPath, cfg.PDFFontFile)
	if err != nil {
		return nil, err
	}
	return report.NewRenderer(conv)
}
