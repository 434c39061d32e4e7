package report

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/adrg/xdg"
	clicfg "github.com/crucial707/district-digest/cmd/cli/config"
	"github.com/crucial707/district-digest/internal/digest"
	"github.com/crucial707/district-digest/internal/report"
	"github.com/crucial707/district-digest/internal/scheduler"
	"github.com/spf13/cobra"
)

// DefaultDir is where scheduled reports go when --dir is not given.
func DefaultDir() string {
	return filepath.Join(xdg.DataHome, "district-digest", "reports")
}

// ==========================
// Init Report
// ==========================
func InitReport(rootCmd *cobra.Command) {
	cmd := reportCmd()
	cmd.AddCommand(scheduleCmd())
	rootCmd.AddCommand(cmd)
}

// writer builds digests and writes them as PDF files.
type writer struct {
	digest   *digest.Service
	renderer *report.Renderer
}

func newWriter() (*writer, error) {
	cfg, err := clicfg.Load()
	if err != nil {
		return nil, err
	}
	svc, err := clicfg.NewDigest(cfg)
	if err != nil {
		return nil, err
	}
	renderer, err := clicfg.NewRenderer(cfg)
	if err != nil {
		return nil, err
	}
	return &writer{digest: svc, renderer: renderer}, nil
}

// write renders the digest for district/date to path.
func (w *writer) write(ctx context.Context, district, date, path string) error {
	d, err := w.digest.Build(ctx, district, date)
	if err != nil {
		return err
	}
	pdf, err := w.renderer.Render(ctx, report.Data{District: district, Date: date, Articles: d.Articles})
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create report directory: %w", err)
		}
	}
	return os.WriteFile(path, pdf, 0o644)
}

// ==========================
// REPORT
// ==========================
func reportCmd() *cobra.Command {
	var district, date, out string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write the PDF digest for a district",
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := newWriter()
			if err != nil {
				return err
			}
			if out == "" {
				out = report.Filename(district, date)
			}
			if err := w.write(cmd.Context(), district, date, out); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%s)\n", out, w.renderer.Engine())
			return nil
		},
	}

	cmd.Flags().StringVar(&district, "district", "", "District name, e.g. Guntur")
	cmd.Flags().StringVar(&date, "date", time.Now().Format("2006-01-02"), "Date (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default news_digest_{district}_{date}.pdf)")
	cmd.MarkFlagRequired("district")
	return cmd
}

// ==========================
// SCHEDULE
// ==========================
func scheduleCmd() *cobra.Command {
	var spec, dir string
	var districts []string

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Write reports on a cron schedule until interrupted",
		Long: `Writes one PDF per district for the current date every time the cron expression fires.
Example: digest report schedule --cron "0 7 * * *" --district Guntur --district Krishna`,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := newWriter()
			if err != nil {
				return err
			}
			if dir == "" {
				dir = DefaultDir()
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			fmt.Fprintf(cmd.OutOrStdout(), "Writing reports to %s on %q (Ctrl+C to stop)\n", dir, spec)
			return scheduler.Run(ctx, []scheduler.Schedule{{Spec: spec, Districts: districts}},
				func(ctx context.Context, district string) error {
					date := time.Now().Format("2006-01-02")
					return w.write(ctx, district, date, filepath.Join(dir, report.Filename(district, date)))
				})
		},
	}

	cmd.Flags().StringVar(&spec, "cron", "", `Cron expression, e.g. "0 7 * * *" or "@daily"`)
	cmd.Flags().StringSliceVar(&districts, "district", nil, "District to report on (repeatable)")
	cmd.Flags().StringVar(&dir, "dir", "", "Output directory (default $XDG_DATA_HOME/district-digest/reports)")
	cmd.MarkFlagRequired("cron")
	cmd.MarkFlagRequired("district")
	return cmd
}
