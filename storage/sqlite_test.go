package storage

import (
	"path/filepath"
	"testing"
	"time"

	"cfl_scraper/models"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "exports.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStore_RunLifecycle(t *testing.T) {
	store := newTestSQLiteStore(t)

	started := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	run := &models.ExportRun{
		RunID:        "run-1",
		Trigger:      models.TriggerCLI,
		StartedAt:    started,
		Status:       models.RunStatusRunning,
		Cities:       15,
		LimitPerCity: 10,
	}
	id, err := store.CreateRun(run)
	if err != nil {
		t.Fatalf("create run: %v", err)
	}
	run.ID = id

	finished := started.Add(2 * time.Second)
	run.FinishedAt = &finished
	run.Status = models.RunStatusCompleted
	run.RecordsTotal = 150
	run.JSONPath = "properties-2026-03-01.json"
	run.CSVPath = "properties-2026-03-01.csv"
	if err := store.FinishRun(run); err != nil {
		t.Fatalf("finish run: %v", err)
	}

	runs, err := store.RecentRuns(10)
	if err != nil {
		t.Fatalf("recent runs: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	got := runs[0]
	if got.RunID != "run-1" || got.Status != models.RunStatusCompleted || got.RecordsTotal != 150 {
		t.Fatalf("unexpected run %+v", got)
	}
	if got.FinishedAt == nil || !got.FinishedAt.Equal(finished) {
		t.Fatalf("expected finished_at %v, got %v", finished, got.FinishedAt)
	}
	if got.CSVPath != "properties-2026-03-01.csv" {
		t.Fatalf("unexpected csv path %q", got.CSVPath)
	}
}

func TestSQLiteStore_RecentRunsNewestFirst(t *testing.T) {
	store := newTestSQLiteStore(t)

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		_, err := store.CreateRun(&models.ExportRun{
			RunID:     string(rune('a' + i)),
			StartedAt: base.Add(time.Duration(i) * time.Hour),
			Status:    models.RunStatusRunning,
		})
		if err != nil {
			t.Fatalf("create run: %v", err)
		}
	}

	runs, err := store.RecentRuns(2)
	if err != nil {
		t.Fatalf("recent runs: %v", err)
	}
	if len(runs) != 2 || runs[0].RunID != "c" || runs[1].RunID != "b" {
		t.Fatalf("unexpected order: %+v", runs)
	}
	if runs[0].FinishedAt != nil {
		t.Fatalf("unfinished run should have nil finished_at")
	}
}

func TestSQLiteStore_RunLogs(t *testing.T) {
	store := newTestSQLiteStore(t)

	id, err := store.CreateRun(&models.ExportRun{RunID: "r", StartedAt: time.Now(), Status: models.RunStatusRunning})
	if err != nil {
		t.Fatalf("create run: %v", err)
	}
	if err := store.Log(&id, models.LogLevelInfo, "generated 10 records", "Orlando"); err != nil {
		t.Fatalf("log: %v", err)
	}
	if err := store.Log(&id, models.LogLevelWarn, "upload skipped", ""); err != nil {
		t.Fatalf("log: %v", err)
	}
	if err := store.Log(nil, models.LogLevelInfo, "unrelated", ""); err != nil {
		t.Fatalf("log: %v", err)
	}

	logs, err := store.RunLogs(id)
	if err != nil {
		t.Fatalf("run logs: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("expected 2 logs, got %d", len(logs))
	}
	if logs[0].City != "Orlando" || logs[1].Level != models.LogLevelWarn {
		t.Fatalf("unexpected logs %+v", logs)
	}
}

func TestSQLiteStore_EmptyHistory(t *testing.T) {
	runs, err := newTestSQLiteStore(t).RecentRuns(5)
	if err != nil {
		t.Fatalf("recent runs: %v", err)
	}
	if runs == nil || len(runs) != 0 {
		t.Fatalf("expected empty non-nil slice, got %v", runs)
	}
}
