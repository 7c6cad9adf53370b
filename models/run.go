package models

import "time"

type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// ExportRun is one batch export execution
type ExportRun struct {
	ID           int64      `json:"id" db:"id"`
	RunID        string     `json:"run_id" db:"run_id"`
	Trigger      string     `json:"trigger" db:"triggered_by"` // cli, schedule
	StartedAt    time.Time  `json:"started_at" db:"started_at"`
	FinishedAt   *time.Time `json:"finished_at" db:"finished_at"`
	Status       RunStatus  `json:"status" db:"status"`
	Cities       int        `json:"cities" db:"cities"`
	RecordsTotal int        `json:"records_total" db:"records_total"`
	LimitPerCity int        `json:"limit_per_city" db:"limit_per_city"`
	ErrorsCount  int        `json:"errors_count" db:"errors_count"`
	JSONPath     string     `json:"json_path" db:"json_path"`
	CSVPath      string     `json:"csv_path" db:"csv_path"`
	ErrorMessage string     `json:"error_message,omitempty" db:"error_message"`
}

// Run triggers
const (
	TriggerCLI      = "cli"
	TriggerSchedule = "schedule"
)
