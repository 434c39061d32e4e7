package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/crucial707/district-digest/internal/auth"
)

type stubSessions struct {
	claims *auth.Claims
	err    error
}

func (s stubSessions) Current(*http.Request) (*auth.Claims, error) {
	return s.claims, s.err
}

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestRequireSession_Page(t *testing.T) {
	h := RequireSession(stubSessions{err: auth.ErrNoSession}, Page)(http.HandlerFunc(okHandler))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "/dashboard", nil))

	if rr.Code != http.StatusFound {
		t.Fatalf("status: got %d, want 302", rr.Code)
	}
	if loc := rr.Header().Get("Location"); loc != "/" {
		t.Errorf("Location: got %q, want /", loc)
	}
}

func TestRequireSession_API(t *testing.T) {
	h := RequireSession(stubSessions{err: errors.New("redis down")}, API)(http.HandlerFunc(okHandler))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("POST", "/fetch_news", nil))

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status: got %d, want 401", rr.Code)
	}
	var out map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out["error"] == "" {
		t.Error("expected error message")
	}
}

func TestRequireSession_StoresClaims(t *testing.T) {
	claims := &auth.Claims{UserID: 7, Username: "admin"}
	var got *auth.Claims
	h := RequireSession(stubSessions{claims: claims}, API)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = CurrentUser(r.Context())
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

	if got == nil || got.Username != "admin" {
		t.Errorf("CurrentUser: got %+v", got)
	}
}

func TestIPRateLimiter(t *testing.T) {
	h := NewsRateLimiter(1).Middleware(http.HandlerFunc(okHandler))

	var codes []int
	for i := 0; i < 7; i++ {
		req := httptest.NewRequest("POST", "/fetch_news", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
	}
	if codes[0] != http.StatusOK || codes[4] != http.StatusOK {
		t.Errorf("burst should pass: %v", codes)
	}
	if codes[6] != http.StatusTooManyRequests {
		t.Errorf("expected 429 after burst: %v", codes)
	}

	other := httptest.NewRequest("POST", "/fetch_news", nil)
	other.RemoteAddr = "10.0.0.2:1234"
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, other)
	if rr.Code != http.StatusOK {
		t.Errorf("other IP: got %d, want 200", rr.Code)
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "192.0.2.1:5555"
	if got := clientIP(req); got != "192.0.2.1" {
		t.Errorf("RemoteAddr: got %q", got)
	}
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	req.Header.Set("X-Real-IP", "203.0.113.10")
	if got := clientIP(req); got != "192.0.2.1" {
		t.Errorf("forwarding headers must be ignored: got %q", got)
	}
}

func TestIPRateLimiter_IgnoresForwardedFor(t *testing.T) {
	h := NewsRateLimiter(1).Middleware(http.HandlerFunc(okHandler))

	last := 0
	for i := 0; i < 7; i++ {
		req := httptest.NewRequest("POST", "/fetch_news", nil)
		req.RemoteAddr = "10.0.0.3:1234"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("198.51.100.%d", i))
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		last = rr.Code
	}
	if last != http.StatusTooManyRequests {
		t.Errorf("rotating X-Forwarded-For bypassed the limiter: got %d", last)
	}
}

func TestRecoverer(t *testing.T) {
	boom := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") })

	rr := httptest.NewRecorder()
	Recoverer(false)(boom).ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status: got %d, want 500", rr.Code)
	}
	if strings.Contains(rr.Body.String(), "boom") {
		t.Error("panic value leaked without detail")
	}

	rr = httptest.NewRecorder()
	Recoverer(true)(boom).ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))
	if !strings.Contains(rr.Body.String(), "boom") {
		t.Errorf("expected panic detail, got %s", rr.Body.String())
	}
}

func TestMaxBytes(t *testing.T) {
	h := MaxBytes(10)(http.HandlerFunc(okHandler))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("POST", "/generate_pdf", strings.NewReader(strings.Repeat("x", 20))))
	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status: got %d, want 413", rr.Code)
	}
}

func TestCORS(t *testing.T) {
	h := CORS([]string{"http://localhost:3000"})(http.HandlerFunc(okHandler))

	req := httptest.NewRequest("OPTIONS", "/fetch_news", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusNoContent {
		t.Errorf("preflight: got %d, want 204", rr.Code)
	}
	if rr.Header().Get("Access-Control-Allow-Credentials") != "true" {
		t.Error("expected credentials to be allowed")
	}

	req = httptest.NewRequest("OPTIONS", "/fetch_news", nil)
	req.Header.Set("Origin", "http://evil.example")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusForbidden {
		t.Errorf("foreign preflight: got %d, want 403", rr.Code)
	}
}

func TestSecurityHeaders(t *testing.T) {
	rr := httptest.NewRecorder()
	SecurityHeaders(true)(http.HandlerFunc(okHandler)).ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))
	if rr.Header().Get("Content-Security-Policy") != PageCSP {
		t.Error("missing CSP")
	}
	if rr.Header().Get("Strict-Transport-Security") == "" {
		t.Error("missing HSTS")
	}
}
