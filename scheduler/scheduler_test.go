package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"cfl_scraper/batch"
	"cfl_scraper/config"
)

type countingExporter struct {
	mu     sync.Mutex
	calls  int
	cities []string
	limit  int
	ran    chan struct{}
	err    error
}

func newCountingExporter() *countingExporter {
	return &countingExporter{ran: make(chan struct{}, 16)}
}

func (e *countingExporter) Run(ctx context.Context, cities []string, limit int) (*batch.Summary, error) {
	e.mu.Lock()
	e.calls++
	e.cities = cities
	e.limit = limit
	e.mu.Unlock()
	select {
	case e.ran <- struct{}{}:
	default:
	}
	if e.err != nil {
		return nil, e.err
	}
	return &batch.Summary{Total: len(cities) * limit, Cities: len(cities)}, nil
}

func TestStart_InvalidCron(t *testing.T) {
	s := New(config.SchedulerConfig{Cron: "every tuesday"}, newCountingExporter(), []string{"Orlando"}, 10)
	if err := s.Start(context.Background()); err == nil {
		t.Fatalf("expected invalid cron error")
	}
	s.Stop()
}

func TestStart_IntervalRunsExport(t *testing.T) {
	exp := newCountingExporter()
	s := New(config.SchedulerConfig{Interval: 10 * time.Millisecond}, exp, []string{"Tampa", "Ocala"}, 3)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := s.Start(ctx); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	defer s.Stop()

	select {
	case <-exp.ran:
	case <-time.After(2 * time.Second):
		t.Fatalf("scheduled export never ran")
	}

	exp.mu.Lock()
	defer exp.mu.Unlock()
	if len(exp.cities) != 2 || exp.limit != 3 {
		t.Fatalf("unexpected export arguments cities=%v limit=%d", exp.cities, exp.limit)
	}
}

func TestStart_IntervalErrorsDoNotStopSchedule(t *testing.T) {
	exp := newCountingExporter()
	exp.err = errors.New("disk full")
	s := New(config.SchedulerConfig{Interval: 5 * time.Millisecond}, exp, []string{"Tampa"}, 1)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := s.Start(ctx); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	defer s.Stop()

	for i := 0; i < 2; i++ {
		select {
		case <-exp.ran:
		case <-time.After(2 * time.Second):
			t.Fatalf("run %d never happened", i+1)
		}
	}
}

func TestStart_NoSchedule(t *testing.T) {
	exp := newCountingExporter()
	s := New(config.SchedulerConfig{}, exp, []string{"Tampa"}, 1)
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	s.Stop()
	s.Stop()

	if exp.calls != 0 {
		t.Fatalf("expected no runs, got %d", exp.calls)
	}
}

func TestStart_RunOnStart(t *testing.T) {
	exp := newCountingExporter()
	s := New(config.SchedulerConfig{RunOnStart: true}, exp, []string{"Kissimmee"}, 2)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := s.Start(ctx); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	defer s.Stop()

	select {
	case <-exp.ran:
	case <-time.After(2 * time.Second):
		t.Fatalf("startup export never ran")
	}

	exp.mu.Lock()
	defer exp.mu.Unlock()
	if exp.calls != 1 || exp.limit != 2 || exp.cities[0] != "Kissimmee" {
		t.Fatalf("unexpected startup export calls=%d cities=%v limit=%d", exp.calls, exp.cities, exp.limit)
	}
}

func TestTriggerNow(t *testing.T) {
	exp := newCountingExporter()
	s := New(config.SchedulerConfig{}, exp, []string{"Sanford"}, 4)
	if err := s.TriggerNow(context.Background()); err != nil {
		t.Fatalf("trigger failed: %v", err)
	}
	if exp.calls != 1 {
		t.Fatalf("expected one run, got %d", exp.calls)
	}
}
