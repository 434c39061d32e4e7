package main

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/crucial707/district-digest/internal/auth"
)

// initStore migrates and seeds the users table. Every failure is logged and the server keeps
// starting; it reports whether seeding completed.
func initStore(ctx context.Context, database *sql.DB, migrate func() error, creds *auth.Credentials, seedPassword string) bool {
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := database.PingContext(pingCtx); err != nil {
		slog.Error("database unreachable, skipping migrations and seeding", "error", err)
		return false
	}

	if err := migrate(); err != nil {
		slog.Error("migrations failed, skipping seeding", "error", err)
		return false
	}

	if err := creds.Seed(ctx, auth.SeedAccounts, seedPassword); err != nil {
		slog.Warn("seeding incomplete", "error", err)
		return false
	}
	slog.Info("users table ready")
	return true
}
