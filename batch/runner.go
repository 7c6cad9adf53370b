package batch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"cfl_scraper/export"
	"cfl_scraper/models"
)

// RunStore records run history
type RunStore interface {
	CreateRun(run *models.ExportRun) (int64, error)
	FinishRun(run *models.ExportRun) error
	Log(runID *int64, level models.LogLevel, message, city string) error
}

// ListingSink persists generated records
type ListingSink interface {
	SaveListings(ctx context.Context, runID string, records []models.PropertyRecord) (int64, error)
}

// Uploader publishes written export files
type Uploader interface {
	UploadFile(ctx context.Context, filePath, contentType string) (string, error)
}

// Runner generates listings for a set of cities and writes dated JSON and
// CSV exports. Store, sink and uploader are optional.
type Runner struct {
	gen      export.Generator
	outDir   string
	trigger  string
	store    RunStore
	sink     ListingSink
	uploader Uploader
	now      func() time.Time

	mu sync.Mutex
}

func NewRunner(gen export.Generator, outDir, trigger string) *Runner {
	if outDir == "" {
		outDir = "."
	}
	return &Runner{
		gen:     gen,
		outDir:  outDir,
		trigger: trigger,
		now:     time.Now,
	}
}

func (r *Runner) SetStore(store RunStore) {
	r.store = store
}

func (r *Runner) SetSink(sink ListingSink) {
	r.sink = sink
}

func (r *Runner) SetUploader(uploader Uploader) {
	r.uploader = uploader
}

// Run executes one batch. Runs are serialized; a scheduled run that fires
// while another is in progress waits for it.
func (r *Runner) Run(ctx context.Context, cities []string, limit int) (*Summary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(cities) == 0 {
		return nil, fmt.Errorf("no cities to export")
	}
	if limit < 0 {
		limit = 0
	}

	run := &models.ExportRun{
		RunID:        uuid.NewString(),
		Trigger:      r.trigger,
		StartedAt:    r.now(),
		Status:       models.RunStatusRunning,
		Cities:       len(cities),
		LimitPerCity: limit,
	}
	if r.store != nil {
		id, err := r.store.CreateRun(run)
		if err != nil {
			slog.Warn("Failed to record run start", "error", err)
		} else {
			run.ID = id
		}
	}

	summary, err := r.execute(ctx, run, cities, limit)

	finished := r.now()
	run.FinishedAt = &finished
	if err != nil {
		run.Status = models.RunStatusFailed
		run.ErrorMessage = err.Error()
		r.log(run, models.LogLevelError, fmt.Sprintf("Export failed: %v", err), "")
	} else {
		run.Status = models.RunStatusCompleted
		run.RecordsTotal = summary.Total
		run.JSONPath = summary.JSONPath
		run.CSVPath = summary.CSVPath
		r.log(run, models.LogLevelInfo,
			fmt.Sprintf("Export complete: %d records in %s", summary.Total, finished.Sub(run.StartedAt).Round(time.Millisecond)), "")
	}
	if r.store != nil && run.ID != 0 {
		if ferr := r.store.FinishRun(run); ferr != nil {
			slog.Warn("Failed to record run finish", "run_id", run.RunID, "error", ferr)
		}
	}

	return summary, err
}

func (r *Runner) execute(ctx context.Context, run *models.ExportRun, cities []string, limit int) (*Summary, error) {
	r.log(run, models.LogLevelInfo, fmt.Sprintf("Starting export for %d cities, %d per city", len(cities), limit), "")

	records := make([]models.PropertyRecord, 0, len(cities)*limit)
	for _, city := range cities {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		generated := r.gen.Generate(city, limit)
		records = append(records, generated...)
		r.log(run, models.LogLevelInfo, fmt.Sprintf("Generated %d records", len(generated)), city)
	}

	req := export.Request{All: true, Limit: limit}
	if len(cities) == 1 {
		req = export.Request{City: cities[0], Limit: limit}
	}

	if err := os.MkdirAll(r.outDir, 0755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	date := run.StartedAt.Format("2006-01-02")
	summary := Summarize(records, len(cities))

	for _, format := range []export.Format{export.FormatJSON, export.FormatCSV} {
		req.Format = format
		path, contentType, err := r.write(req, records, date)
		if err != nil {
			return nil, err
		}
		if format == export.FormatJSON {
			summary.JSONPath = path
		} else {
			summary.CSVPath = path
		}
		r.upload(ctx, run, path, contentType)
	}

	if r.sink != nil {
		n, err := r.sink.SaveListings(ctx, run.RunID, records)
		if err != nil {
			run.ErrorsCount++
			r.log(run, models.LogLevelWarn, fmt.Sprintf("Saving listings failed: %v", err), "")
		} else {
			r.log(run, models.LogLevelInfo, fmt.Sprintf("Saved %d listings", n), "")
		}
	}

	return summary, nil
}

func (r *Runner) write(req export.Request, records []models.PropertyRecord, date string) (string, string, error) {
	res, err := export.Render(req, records)
	if err != nil {
		return "", "", err
	}

	path := filepath.Join(r.outDir, fmt.Sprintf("properties-%s.%s", date, req.Format))
	if err := os.WriteFile(path, res.Body, 0644); err != nil {
		return "", "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, res.ContentType, nil
}

// upload failures are counted but never fail the batch
func (r *Runner) upload(ctx context.Context, run *models.ExportRun, path, contentType string) {
	if r.uploader == nil {
		return
	}
	url, err := r.uploader.UploadFile(ctx, path, contentType)
	if err != nil {
		run.ErrorsCount++
		r.log(run, models.LogLevelWarn, fmt.Sprintf("Upload of %s failed: %v", filepath.Base(path), err), "")
		return
	}
	r.log(run, models.LogLevelInfo, fmt.Sprintf("Uploaded %s", url), "")
}

func (r *Runner) log(run *models.ExportRun, level models.LogLevel, message, city string) {
	attrs := []any{"run_id", run.RunID}
	if city != "" {
		attrs = append(attrs, "city", city)
	}
	switch level {
	case models.LogLevelError:
		slog.Error(message, attrs...)
	case models.LogLevelWarn:
		slog.Warn(message, attrs...)
	default:
		slog.Info(message, attrs...)
	}

	if r.store == nil || run.ID == 0 {
		return
	}
	id := run.ID
	if err := r.store.Log(&id, level, message, city); err != nil {
		slog.Warn("Failed to store run log", "error", err)
	}
}
