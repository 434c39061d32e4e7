package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/crucial707/district-digest/internal/models"
	"github.com/crucial707/district-digest/internal/news"
)

// DigestBuilder produces the classified articles for one district and date.
type DigestBuilder interface {
	Build(ctx context.Context, district, date string) (*models.Digest, error)
}

// ==========================
// News Handler
// ==========================
type NewsHandler struct {
	Digest DigestBuilder
	// Detail appends error text to 500 responses (ENV=dev).
	Detail bool
}

// ==========================
// Fetch News
// ==========================
func (h *NewsHandler) FetchNews(w http.ResponseWriter, r *http.Request) {
	var input struct {
		District string `json:"district" validate:"required"`
		Date     string `json:"date" validate:"required"`
	}
	if !decodeAndValidate(w, r, &input) {
		return
	}

	digest, err := h.Digest.Build(r.Context(), input.District, input.Date)
	if err != nil {
		var inputErr *news.InputError
		if errors.As(err, &inputErr) {
			JSONError(w, inputErr.Error(), http.StatusBadRequest)
			return
		}
		slog.Error("fetch news failed",
			"district", input.District,
			"date", input.Date,
			"error", err,
			"stack", string(debug.Stack()))
		JSONInternalError(w, ErrMessageInternal, err, h.Detail)
		return
	}

	writeJSON(w, http.StatusOK, digest)
}
