package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/crucial707/district-digest/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// CookieName holds the signed session token.
const CookieName = "district_digest_session"

// ErrNoSession means the request carries no usable session.
var ErrNoSession = errors.New("no session")

// Claims is the session token payload.
type Claims struct {
	UserID   int    `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Sessions issues, resolves and destroys cookie sessions.
type Sessions struct {
	Secret  []byte
	TTL     time.Duration
	Secure  bool
	Revoker Revoker

	now func() time.Time
}

func NewSessions(secret []byte, ttl time.Duration, secure bool, revoker Revoker) *Sessions {
	if revoker == nil {
		revoker = NewMemoryRevoker()
	}
	return &Sessions{Secret: secret, TTL: ttl, Secure: secure, Revoker: revoker, now: time.Now}
}

func (s *Sessions) clock() time.Time {
	if s.now == nil {
		return time.Now()
	}
	return s.now()
}

// Issue signs a token for user and sets it as an HttpOnly cookie.
func (s *Sessions) Issue(w http.ResponseWriter, user *models.User) error {
	now := s.clock()
	claims := Claims{
		UserID:   user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.Itoa(user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.TTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.Secret)
	if err != nil {
		return fmt.Errorf("sign session: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    signed,
		Path:     "/",
		MaxAge:   int(s.TTL.Seconds()),
		HttpOnly: true,
		Secure:   s.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Current resolves the session cookie. Expired, tampered and revoked tokens yield ErrNoSession.
func (s *Sessions) Current(r *http.Request) (*Claims, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return nil, ErrNoSession
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(cookie.Value, claims, func(token *jwt.Token) (interface{}, error) {
		return s.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.clock))
	if err != nil || !token.Valid {
		return nil, ErrNoSession
	}

	revoked, err := s.Revoker.IsRevoked(r.Context(), claims.ID)
	if err != nil {
		return nil, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return nil, ErrNoSession
	}
	return claims, nil
}

// Destroy revokes the current token until it would have expired and clears the cookie.
func (s *Sessions) Destroy(w http.ResponseWriter, r *http.Request) error {
	defer s.Clear(w)

	claims, err := s.Current(r)
	if err != nil {
		if errors.Is(err, ErrNoSession) {
			return nil
		}
		return err
	}
	until := s.clock().Add(s.TTL)
	if claims.ExpiresAt != nil {
		until = claims.ExpiresAt.Time
	}
	return s.Revoker.Revoke(r.Context(), claims.ID, until)
}

// Clear removes the session cookie from the client.
func (s *Sessions) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{Name: CookieName, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
}
