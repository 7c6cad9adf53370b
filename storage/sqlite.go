package storage

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"cfl_scraper/models"
)

// SQLiteStore keeps batch export history and run logs
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS export_runs (
		id INTEGER PRIMARY KEY,
		run_id TEXT NOT NULL,
		triggered_by TEXT,
		started_at DATETIME,
		finished_at DATETIME,
		status TEXT,
		cities INTEGER DEFAULT 0,
		records_total INTEGER DEFAULT 0,
		limit_per_city INTEGER DEFAULT 0,
		errors_count INTEGER DEFAULT 0,
		json_path TEXT DEFAULT '',
		csv_path TEXT DEFAULT '',
		error_message TEXT DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS run_logs (
		id INTEGER PRIMARY KEY,
		run_id INTEGER,
		timestamp DATETIME,
		level TEXT,
		message TEXT,
		city TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_logs_run ON run_logs(run_id, timestamp);
	CREATE INDEX IF NOT EXISTS idx_runs_started ON export_runs(started_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// CreateRun inserts a running export and returns its row id
func (s *SQLiteStore) CreateRun(run *models.ExportRun) (int64, error) {
	result, err := s.db.Exec(`
		INSERT INTO export_runs (run_id, triggered_by, started_at, status, cities, limit_per_city)
		VALUES (?, ?, ?, ?, ?, ?)`,
		run.RunID, run.Trigger, run.StartedAt, run.Status, run.Cities, run.LimitPerCity)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// FinishRun stores the outcome of a run created by CreateRun
func (s *SQLiteStore) FinishRun(run *models.ExportRun) error {
	_, err := s.db.Exec(`
		UPDATE export_runs SET finished_at = ?, status = ?, records_total = ?,
			errors_count = ?, json_path = ?, csv_path = ?, error_message = ?
		WHERE id = ?`,
		run.FinishedAt, run.Status, run.RecordsTotal, run.ErrorsCount,
		run.JSONPath, run.CSVPath, run.ErrorMessage, run.ID)
	return err
}

func (s *SQLiteStore) Log(runID *int64, level models.LogLevel, message, city string) error {
	_, err := s.db.Exec(`
		INSERT INTO run_logs (run_id, timestamp, level, message, city)
		VALUES (?, ?, ?, ?, ?)`,
		runID, time.Now(), level, message, city)
	return err
}

// RecentRuns returns up to limit runs, newest first
func (s *SQLiteStore) RecentRuns(limit int) ([]models.ExportRun, error) {
	rows, err := s.db.Query(`
		SELECT id, run_id, triggered_by, started_at, finished_at, status, cities,
			records_total, limit_per_city, errors_count, json_path, csv_path, error_message
		FROM export_runs ORDER BY started_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := []models.ExportRun{}
	for rows.Next() {
		var r models.ExportRun
		var finished sql.NullTime
		if err := rows.Scan(&r.ID, &r.RunID, &r.Trigger, &r.StartedAt, &finished, &r.Status,
			&r.Cities, &r.RecordsTotal, &r.LimitPerCity, &r.ErrorsCount,
			&r.JSONPath, &r.CSVPath, &r.ErrorMessage); err != nil {
			return nil, err
		}
		if finished.Valid {
			r.FinishedAt = &finished.Time
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// RunLogs returns the log lines recorded for one run in order
func (s *SQLiteStore) RunLogs(runID int64) ([]models.RunLog, error) {
	rows, err := s.db.Query(`
		SELECT id, run_id, timestamp, level, message, city
		FROM run_logs WHERE run_id = ? ORDER BY timestamp, id`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := []models.RunLog{}
	for rows.Next() {
		var l models.RunLog
		if err := rows.Scan(&l.ID, &l.RunID, &l.Timestamp, &l.Level, &l.Message, &l.City); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
