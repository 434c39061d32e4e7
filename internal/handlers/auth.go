package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/crucial707/district-digest/internal/auth"
	"github.com/crucial707/district-digest/internal/metrics"
	"github.com/crucial707/district-digest/internal/models"
)

// Verifier checks a username/password pair.
type Verifier interface {
	Verify(ctx context.Context, username, password string) (*models.User, error)
}

// ==========================
// Auth Handler
// ==========================
type AuthHandler struct {
	Credentials Verifier
	Sessions    *auth.Sessions
}

type loginResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type loginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// readLogin accepts a JSON body or an urlencoded form.
func readLogin(r *http.Request) (loginInput, error) {
	var in loginInput
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		err := json.NewDecoder(r.Body).Decode(&in)
		return in, err
	}
	if err := r.ParseForm(); err != nil {
		return in, err
	}
	in.Username = r.PostFormValue("username")
	in.Password = r.PostFormValue("password")
	return in, nil
}

// ==========================
// Login (no lockout; every wrong password is a plain 401)
// ==========================
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	in, err := readLogin(r)
	if err == nil {
		err = validate.Struct(in)
	}
	if err != nil {
		metrics.RecordLogin("invalid")
		writeJSON(w, http.StatusBadRequest, loginResponse{Message: "Username and password are required"})
		return
	}

	user, err := h.Credentials.Verify(r.Context(), in.Username, in.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			metrics.RecordLogin("invalid")
			writeJSON(w, http.StatusUnauthorized, loginResponse{Message: "Invalid credentials"})
			return
		}
		slog.Error("login failed", "username", in.Username, "error", err)
		metrics.RecordLogin("error")
		writeJSON(w, http.StatusInternalServerError, loginResponse{Message: "Internal server error"})
		return
	}

	if err := h.Sessions.Issue(w, user); err != nil {
		slog.Error("issue session", "username", user.Username, "error", err)
		metrics.RecordLogin("error")
		writeJSON(w, http.StatusInternalServerError, loginResponse{Message: "Internal server error"})
		return
	}

	slog.Info("user logged in", "user_id", user.ID, "username", user.Username)
	metrics.RecordLogin("success")
	writeJSON(w, http.StatusOK, loginResponse{Success: true})
}

// ==========================
// Logout
// ==========================
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Sessions.Destroy(w, r); err != nil {
		slog.Error("revoke session", "error", err)
	}
	http.Redirect(w, r, "/", http.StatusFound)
}
