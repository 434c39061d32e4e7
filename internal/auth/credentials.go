package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/crucial707/district-digest/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials covers both unknown usernames and wrong passwords.
var ErrInvalidCredentials = errors.New("invalid credentials")

// SeedAccounts are the accounts ensured at startup.
var SeedAccounts = []string{"admin", "venkatan2005@gmail.com"}

// UserStore is the subset of repo.UserRepo the credential store needs.
type UserStore interface {
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	EnsureUser(ctx context.Context, username, password string) (bool, error)
}

// Credentials verifies usernames and passwords against the users table.
type Credentials struct {
	Users UserStore
}

func NewCredentials(users UserStore) *Credentials {
	return &Credentials{Users: users}
}

// Verify returns the user when password matches the stored bcrypt hash.
func (c *Credentials) Verify(ctx context.Context, username, password string) (*models.User, error) {
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	user, err := c.Users.GetByUsername(ctx, username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// Seed ensures every username exists with the initial password. Existing rows are left alone.
// Failures are logged and joined into the returned error; callers treat them as non-fatal.
func (c *Credentials) Seed(ctx context.Context, usernames []string, password string) error {
	var errs []error
	for _, name := range usernames {
		created, err := c.Users.EnsureUser(ctx, name, password)
		if err != nil {
			slog.Error("seed user failed", "username", name, "error", err)
			errs = append(errs, fmt.Errorf("seed %s: %w", name, err))
			continue
		}
		if created {
			slog.Info("seeded user", "username", name)
		}
	}
	return errors.Join(errs...)
}
