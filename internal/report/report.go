// Package report renders a district digest as a PDF document.
package report

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/crucial707/district-digest/internal/metrics"
	"github.com/crucial707/district-digest/internal/models"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Data fills the report template.
type Data struct {
	District    string
	Date        string
	Articles    []models.ClassifiedArticle
	GeneratedAt time.Time
}

// Converter turns a rendered HTML document into PDF bytes.
type Converter interface {
	Name() string
	// Template is the file under templates/ this converter can lay out.
	Template() string
	Convert(ctx context.Context, html []byte) ([]byte, error)
}

// RenderError wraps a template or conversion failure.
type RenderError struct {
	Stage string
	Err   error
}

func (e *RenderError) Error() string { return fmt.Sprintf("report %s: %v", e.Stage, e.Err) }
func (e *RenderError) Unwrap() error { return e.Err }

// Renderer executes the template for its converter and converts the result.
type Renderer struct {
	conv Converter
	tmpl *template.Template
}

func NewRenderer(conv Converter) (*Renderer, error) {
	tmpl, err := template.New(conv.Template()).Funcs(template.FuncMap{
		"inc": func(i int) int { return i + 1 },
	}).ParseFS(templatesFS, "templates/"+conv.Template())
	if err != nil {
		return nil, fmt.Errorf("parse report template: %w", err)
	}
	return &Renderer{conv: conv, tmpl: tmpl}, nil
}

// Engine names the converter in use.
func (r *Renderer) Engine() string {
	return r.conv.Name()
}

// Render returns the complete PDF or a *RenderError; it never returns partial output.
func (r *Renderer) Render(ctx context.Context, data Data) ([]byte, error) {
	if data.GeneratedAt.IsZero() {
		data.GeneratedAt = time.Now()
	}

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, data); err != nil {
		metrics.RecordReportRender(r.conv.Name(), false)
		return nil, &RenderError{Stage: "template", Err: err}
	}

	pdf, err := r.conv.Convert(ctx, buf.Bytes())
	if err != nil {
		metrics.RecordReportRender(r.conv.Name(), false)
		return nil, &RenderError{Stage: "convert", Err: err}
	}
	metrics.RecordReportRender(r.conv.Name(), true)
	return pdf, nil
}

// Filename is the attachment name for a district/date report.
func Filename(district, date string) string {
	return fmt.Sprintf("news_digest_%s_%s.pdf", district, date)
}
