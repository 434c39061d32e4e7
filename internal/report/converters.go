package report

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"log/slog"
	"os"
	"os/exec"
	"regexp"
	"strings"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/go-pdf/fpdf"
)

// Wkhtmltopdf converts full HTML/CSS with the wkhtmltopdf binary.
type Wkhtmltopdf struct{}

// NewWkhtmltopdf fails when the binary cannot be found. path overrides the PATH lookup.
func NewWkhtmltopdf(path string) (*Wkhtmltopdf, error) {
	if path != "" {
		// SetPath is trusted by the library as-is, so check it here.
		if _, err := exec.LookPath(path); err != nil {
			return nil, fmt.Errorf("wkhtmltopdf: %w", err)
		}
		wkhtmltopdf.SetPath(path)
	}
	if _, err := wkhtmltopdf.NewPDFGenerator(); err != nil {
		return nil, fmt.Errorf("wkhtmltopdf: %w", err)
	}
	return &Wkhtmltopdf{}, nil
}

func (w *Wkhtmltopdf) Name() string     { return "wkhtmltopdf" }
func (w *Wkhtmltopdf) Template() string { return "report.html" }

func (w *Wkhtmltopdf) Convert(ctx context.Context, doc []byte) ([]byte, error) {
	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, err
	}
	pdfg.PageSize.Set(wkhtmltopdf.PageSizeA4)
	pdfg.AddPage(wkhtmltopdf.NewPageReader(bytes.NewReader(doc)))
	// The subprocess is killed when ctx ends.
	if err := pdfg.CreateContext(ctx); err != nil {
		return nil, err
	}
	return pdfg.Bytes(), nil
}

// FPDF lays out a restricted HTML subset (b, i, u, a, br) in pure Go.
// The zero value uses the core Helvetica font, which covers cp1252 only; other
// characters are printed as dots. NewFPDF with a TTF font renders full UTF-8.
type FPDF struct {
	font []byte
}

// NewFPDF loads fontFile as a UTF-8 font. An empty fontFile gives the cp1252 converter.
func NewFPDF(fontFile string) (*FPDF, error) {
	if fontFile == "" {
		return &FPDF{}, nil
	}
	font, err := os.ReadFile(fontFile)
	if err != nil {
		return nil, fmt.Errorf("pdf font: %w", err)
	}
	return &FPDF{font: font}, nil
}

func (FPDF) Name() string     { return "fpdf" }
func (FPDF) Template() string { return "report_basic.html" }

var (
	whitespace = regexp.MustCompile(`\s+`)
	// Escaped angle brackets in text must not turn into tags once entities are decoded.
	angleGuard = strings.NewReplacer("&lt;", "‹", "&gt;", "›", "&#60;", "‹", "&#62;", "›")
)

const utf8Family = "report"

func (c FPDF) Convert(ctx context.Context, doc []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	text := whitespace.ReplaceAllString(string(doc), " ")
	text = html.UnescapeString(angleGuard.Replace(text))

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)

	family := "Helvetica"
	if c.font != nil {
		family = utf8Family
		// HTMLBasic switches styles for b and i; each needs a registered face.
		for _, style := range []string{"", "B", "I", "BI"} {
			pdf.AddUTF8FontFromBytes(family, style, c.font)
		}
	} else {
		tr := pdf.UnicodeTranslatorFromDescriptor("")
		if n := untranslatable(text, tr); n > 0 {
			slog.Warn("report text has characters outside cp1252, set PDF_FONT_FILE to a UTF-8 TTF font",
				"characters", n)
		}
		text = tr(text)
	}

	pdf.AddPage()
	pdf.SetFont(family, "", 11)

	basic := pdf.HTMLBasicNew()
	basic.Write(6, text)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// untranslatable counts runes that tr cannot map; fpdf replaces them with '.'.
func untranslatable(text string, tr func(string) string) int {
	n := 0
	for _, r := range text {
		if r >= 0x80 && tr(string(r)) == "." {
			n++
		}
	}
	return n
}

// SelectConverter resolves PDF_ENGINE. "auto" prefers wkhtmltopdf and falls back to fpdf.
// fontFile only affects fpdf; wkhtmltopdf renders UTF-8 with the system fonts.
func SelectConverter(engine, wkhtmltopdfPath, fontFile string) (Converter, error) {
	switch engine {
	case "fpdf":
		return NewFPDF(fontFile)
	case "wkhtmltopdf":
		return NewWkhtmltopdf(wkhtmltopdfPath)
	case "", "auto":
		w, err := NewWkhtmltopdf(wkhtmltopdfPath)
		if err != nil {
			slog.Info("wkhtmltopdf unavailable, using fpdf", "error", err, "utf8_font", fontFile != "")
			return NewFPDF(fontFile)
		}
		return w, nil
	}
	return nil, fmt.Errorf("unknown pdf engine %q", engine)
}
