package handlers

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/crucial707/district-digest/internal/auth"
	"github.com/crucial707/district-digest/internal/config"
	"github.com/crucial707/district-digest/internal/middleware"
)

//go:embed templates/*.html
var pagesFS embed.FS

var pages = template.Must(template.ParseFS(pagesFS, "templates/*.html"))

// ==========================
// Page Handler
// ==========================
type PageHandler struct {
	Sessions  *auth.Sessions
	Districts config.Districts
}

// LoginPage serves the login form, or sends a signed-in user straight to the dashboard.
func (h *PageHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if _, err := h.Sessions.Current(r); err == nil {
		http.Redirect(w, r, "/dashboard", http.StatusFound)
		return
	}
	render(w, "login.html", nil)
}

func (h *PageHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	data := struct {
		Username  string
		State     string
		Districts []string
	}{State: h.Districts.State, Districts: h.Districts.Names}
	if claims := middleware.CurrentUser(r.Context()); claims != nil {
		data.Username = claims.Username
	}
	render(w, "dashboard.html", data)
}

// render buffers the page so a template error never leaves a half-written response.
func render(w http.ResponseWriter, name string, data interface{}) {
	var buf bytes.Buffer
	if err := pages.ExecuteTemplate(&buf, name, data); err != nil {
		slog.Error("render page", "page", name, "error", err)
		http.Error(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}
