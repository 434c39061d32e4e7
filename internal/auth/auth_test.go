package auth

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/crucial707/district-digest/internal/models"
	"golang.org/x/crypto/bcrypt"
)

type fakeUsers struct {
	users   map[string]*models.User
	ensured []string
	err     error
}

func (f *fakeUsers) GetByUsername(_ context.Context, username string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[username]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return u, nil
}

func (f *fakeUsers) EnsureUser(_ context.Context, username, _ string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	f.ensured = append(f.ensured, username)
	_, exists := f.users[username]
	return !exists, nil
}

func mustHash(t *testing.T, pw string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	return string(h)
}

func TestCredentials_Verify(t *testing.T) {
	store := &fakeUsers{users: map[string]*models.User{
		"admin": {ID: 1, Username: "admin", PasswordHash: mustHash(t, "password123")},
	}}
	c := NewCredentials(store)

	user, err := c.Verify(context.Background(), "admin", "password123")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if user.ID != 1 {
		t.Errorf("unexpected user: %+v", user)
	}

	for i := 0; i < 5; i++ {
		if _, err := c.Verify(context.Background(), "admin", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("attempt %d: expected ErrInvalidCredentials, got %v", i, err)
		}
	}
	if _, err := c.Verify(context.Background(), "admin", "password123"); err != nil {
		t.Errorf("correct password rejected after failures: %v", err)
	}
	if _, err := c.Verify(context.Background(), "nobody", "password123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown user: expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := c.Verify(context.Background(), "", ""); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("empty input: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestCredentials_Verify_StoreError(t *testing.T) {
	c := NewCredentials(&fakeUsers{err: errors.New("connection refused")})
	_, err := c.Verify(context.Background(), "admin", "password123")
	if err == nil || errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected wrapped store error, got %v", err)
	}
}

func TestCredentials_Seed(t *testing.T) {
	store := &fakeUsers{users: map[string]*models.User{"admin": {ID: 1, Username: "admin"}}}
	if err := NewCredentials(store).Seed(context.Background(), SeedAccounts, "password123"); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if len(store.ensured) != 2 {
		t.Errorf("expected both accounts ensured, got %v", store.ensured)
	}

	failing := &fakeUsers{err: errors.New("db down")}
	if err := NewCredentials(failing).Seed(context.Background(), SeedAccounts, "password123"); err == nil {
		t.Error("expected joined error when seeding fails")
	}
}

func issueCookie(t *testing.T, s *Sessions, user *models.User) *http.Cookie {
	t.Helper()
	rr := httptest.NewRecorder()
	if err := s.Issue(rr, user); err != nil {
		t.Fatalf("Issue: %v", err)
	}
	cookies := rr.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != CookieName {
		t.Fatalf("unexpected cookies: %+v", cookies)
	}
	if !cookies[0].HttpOnly {
		t.Error("session cookie must be HttpOnly")
	}
	return cookies[0]
}

func TestSessions_IssueCurrentDestroy(t *testing.T) {
	s := NewSessions([]byte("test-secret"), time.Hour, false, nil)
	cookie := issueCookie(t, s, &models.User{ID: 7, Username: "admin"})

	req := httptest.NewRequest("GET", "/dashboard", nil)
	req.AddCookie(cookie)
	claims, err := s.Current(req)
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if claims.UserID != 7 || claims.Username != "admin" || claims.ID == "" {
		t.Errorf("unexpected claims: %+v", claims)
	}

	rr := httptest.NewRecorder()
	if err := s.Destroy(rr, req); err != nil {
		t.Fatalf("Destroy: %v", err)
	}
	if c := rr.Result().Cookies(); len(c) != 1 || c[0].MaxAge >= 0 {
		t.Errorf("expected cleared cookie, got %+v", c)
	}

	// The old cookie value must no longer resolve.
	again := httptest.NewRequest("GET", "/dashboard", nil)
	again.AddCookie(cookie)
	if _, err := s.Current(again); !errors.Is(err, ErrNoSession) {
		t.Errorf("expected ErrNoSession after logout, got %v", err)
	}
}

func TestSessions_Current_Rejects(t *testing.T) {
	s := NewSessions([]byte("test-secret"), time.Hour, false, nil)

	noCookie := httptest.NewRequest("GET", "/", nil)
	if _, err := s.Current(noCookie); !errors.Is(err, ErrNoSession) {
		t.Errorf("no cookie: got %v", err)
	}

	other := NewSessions([]byte("other-secret"), time.Hour, false, nil)
	forged := issueCookie(t, other, &models.User{ID: 1, Username: "admin"})
	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(forged)
	if _, err := s.Current(req); !errors.Is(err, ErrNoSession) {
		t.Errorf("forged token: got %v", err)
	}

	expired := NewSessions([]byte("test-secret"), time.Hour, false, nil)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old := issueCookie(t, expired, &models.User{ID: 1, Username: "admin"})
	req = httptest.NewRequest("GET", "/", nil)
	req.AddCookie(old)
	if _, err := s.Current(req); !errors.Is(err, ErrNoSession) {
		t.Errorf("expired token: got %v", err)
	}
}

func TestSessions_Destroy_WithoutSession(t *testing.T) {
	s := NewSessions([]byte("test-secret"), time.Hour, false, nil)
	rr := httptest.NewRecorder()
	if err := s.Destroy(rr, httptest.NewRequest("GET", "/logout", nil)); err != nil {
		t.Errorf("Destroy without session: %v", err)
	}
}

func TestMemoryRevoker_Prunes(t *testing.T) {
	m := NewMemoryRevoker()
	now := time.Now()
	m.now = func() time.Time { return now }

	_ = m.Revoke(context.Background(), "a", now.Add(time.Minute))
	_ = m.Revoke(context.Background(), "b", now.Add(-time.Minute))

	if ok, _ := m.IsRevoked(context.Background(), "a"); !ok {
		t.Error("expected a revoked")
	}
	if ok, _ := m.IsRevoked(context.Background(), "b"); ok {
		t.Error("expected b pruned")
	}
	if len(m.revoked) != 1 {
		t.Errorf("expected 1 entry left, got %d", len(m.revoked))
	}
}
