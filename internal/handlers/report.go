package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/crucial707/district-digest/internal/models"
	"github.com/crucial707/district-digest/internal/report"
)

// PDFRenderer renders report data to PDF bytes.
type PDFRenderer interface {
	Render(ctx context.Context, data report.Data) ([]byte, error)
	Engine() string
}

// ==========================
// Report Handler
// ==========================
type ReportHandler struct {
	Renderer PDFRenderer
	Detail   bool
}

// ==========================
// Generate PDF (the article list comes from the client's last /fetch_news)
// ==========================
func (h *ReportHandler) GeneratePDF(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Articles []models.ClassifiedArticle `json:"articles"`
		District string                     `json:"district" validate:"required"`
		Date     string                     `json:"date" validate:"required"`
	}
	if !decodeAndValidate(w, r, &input) {
		return
	}

	pdf, err := h.Renderer.Render(r.Context(), report.Data{
		District: input.District,
		Date:     input.Date,
		Articles: input.Articles,
	})
	if err != nil {
		slog.Error("generate pdf failed",
			"engine", h.Renderer.Engine(),
			"district", input.District,
			"date", input.Date,
			"error", err)
		JSONInternalError(w, "failed to generate PDF", err, h.Detail)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.Filename(input.District, input.Date)))
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	w.WriteHeader(http.StatusOK)
	w.Write(pdf)
}
