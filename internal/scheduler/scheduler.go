// Package scheduler runs report jobs on cron schedules.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"
)

// Schedule runs the job for each district, in order, whenever Spec fires.
type Schedule struct {
	Spec      string
	Districts []string
}

// Job produces the report for one district. A failure is logged and does not stop the schedule.
type Job func(ctx context.Context, district string) error

// Run registers every schedule and blocks until ctx is cancelled, then waits for a running job to finish.
// An invalid cron expression is returned before anything starts. A tick that fires while the
// previous run for the same schedule is still going is skipped.
func Run(ctx context.Context, schedules []Schedule, job Job) error {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))

	var mu sync.Mutex
	runs := make(map[string]int) // spec -> completed runs

	for _, s := range schedules {
		_, err := c.AddFunc(s.Spec, func() {
			for _, district := range s.Districts {
				if ctx.Err() != nil {
					return
				}
				if err := job(ctx, district); err != nil {
					slog.Error("scheduled report failed", "cron", s.Spec, "district", district, "error", err)
					continue
				}
				slog.Info("scheduled report written", "cron", s.Spec, "district", district)
			}
			mu.Lock()
			runs[s.Spec]++
			mu.Unlock()
		})
		if err != nil {
			return fmt.Errorf("invalid cron expression %q: %w", s.Spec, err)
		}
		slog.Info("scheduler: added schedule", "cron", s.Spec, "districts", s.Districts)
	}

	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()

	mu.Lock()
	defer mu.Unlock()
	for spec, n := range runs {
		slog.Info("scheduler: stopped", "cron", spec, "runs", n)
	}
	return nil
}
