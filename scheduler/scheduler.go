package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"cfl_scraper/batch"
	"cfl_scraper/config"
)

// Exporter runs one batch export
type Exporter interface {
	Run(ctx context.Context, cities []string, limit int) (*batch.Summary, error)
}

// Scheduler triggers full-roster exports on a cron expression or a fixed
// interval. Cron wins when both are configured. With RunOnStart set, one
// export also runs as soon as Start returns.
type Scheduler struct {
	cfg      config.SchedulerConfig
	exporter Exporter
	cities   []string
	limit    int
	cron     *cron.Cron
	ticker   *time.Ticker
	stopCh   chan struct{}
	stopOnce sync.Once
}

func New(cfg config.SchedulerConfig, exporter Exporter, cities []string, limit int) *Scheduler {
	return &Scheduler{
		cfg:      cfg,
		exporter: exporter,
		cities:   cities,
		limit:    limit,
		cron:     cron.New(),
		stopCh:   make(chan struct{}),
	}
}

func (s *Scheduler) Start(ctx context.Context) error {
	if s.cfg.Cron != "" {
		slog.Info("Starting scheduler", "cron", s.cfg.Cron)
		_, err := s.cron.AddFunc(s.cfg.Cron, func() {
			s.runOnce(ctx)
		})
		if err != nil {
			return fmt.Errorf("invalid cron expression: %w", err)
		}
		s.cron.Start()
	} else if s.cfg.Interval > 0 {
		slog.Info("Starting scheduler", "interval", s.cfg.Interval)
		s.ticker = time.NewTicker(s.cfg.Interval)
		go func() {
			for {
				select {
				case <-s.ticker.C:
					s.runOnce(ctx)
				case <-s.stopCh:
					return
				case <-ctx.Done():
					return
				}
			}
		}()
	} else {
		slog.Info("No export schedule configured, serving requests only")
	}

	if s.cfg.RunOnStart {
		go func() {
			if err := s.TriggerNow(ctx); err != nil {
				slog.Error("Startup export failed", "error", err)
			}
		}()
	}

	return nil
}

func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		if s.cron != nil {
			<-s.cron.Stop().Done()
		}
		if s.ticker != nil {
			s.ticker.Stop()
		}
		close(s.stopCh)
	})
}

// TriggerNow runs an export immediately, outside the schedule
func (s *Scheduler) TriggerNow(ctx context.Context) error {
	_, err := s.exporter.Run(ctx, s.cities, s.limit)
	return err
}

func (s *Scheduler) runOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	summary, err := s.exporter.Run(ctx, s.cities, s.limit)
	if err != nil {
		slog.Error("Scheduled export failed", "error", err)
		return
	}
	slog.Info("Scheduled export finished", "records", summary.Total, "json", summary.JSONPath, "csv", summary.CSVPath)
}
