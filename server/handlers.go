package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"cfl_scraper/export"
	"cfl_scraper/logging"
	"cfl_scraper/models"
)

// RunLister exposes batch run history
type RunLister interface {
	RecentRuns(limit int) ([]models.ExportRun, error)
	RunLogs(runID int64) ([]models.RunLog, error)
}

var runLimits = export.Limits{Default: 20, Max: 100}

type Handlers struct {
	adapter *export.Adapter
	limits  export.Limits
	runs    RunLister
}

// NewHandlers builds the HTTP handlers. runs may be nil when no run store is
// configured.
func NewHandlers(adapter *export.Adapter, limits export.Limits, runs RunLister) *Handlers {
	return &Handlers{adapter: adapter, limits: limits, runs: runs}
}

// Scrape handles GET /api/scrape-v2 and its /api/scrape alias
func (h *Handlers) Scrape(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context())

	req, err := export.ParseRequest(r.URL.Query(), h.limits)
	if err != nil {
		var usageErr *export.UsageError
		if errors.As(err, &usageErr) {
			RespondWithJSON(w, http.StatusBadRequest, UsageResponse{
				Success: false,
				Error:   usageErr.Message,
				Usage: Usage{
					SingleCity: fmt.Sprintf("%s?city=Orlando&limit=%d", r.URL.Path, h.limits.Default),
					AllCities:  fmt.Sprintf("%s?all=true&limit=%d", r.URL.Path, h.limits.Default),
				},
			})
			return
		}
		WriteJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}

	res, err := h.adapter.Export(req)
	if err != nil {
		logger.Error("Export failed", "city", req.Label(), "error", err)
		WriteJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if req.Format == export.FormatCSV {
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, res.Filename))
	}
	w.Header().Set("Content-Type", res.ContentType)
	w.WriteHeader(http.StatusOK)
	w.Write(res.Body)

	logger.Info("Export served", "city", req.Label(), "count", res.Count, "format", req.Format)
}

// Health handles GET /health
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	RespondWithJSON(w, http.StatusOK, map[string]any{"success": true, "status": "ok"})
}

// Cities handles GET /api/cities
func (h *Handlers) Cities(w http.ResponseWriter, r *http.Request) {
	roster := h.adapter.Roster()
	RespondWithJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"count":   len(roster),
		"cities":  roster,
	})
}

// Runs handles GET /api/runs
func (h *Handlers) Runs(w http.ResponseWriter, r *http.Request) {
	if h.runs == nil {
		WriteJSONError(w, http.StatusServiceUnavailable, "Run history is not configured")
		return
	}

	runs, err := h.runs.RecentRuns(export.ParseLimit(r.URL.Query().Get("limit"), runLimits))
	if err != nil {
		logging.FromContext(r.Context()).Error("Listing runs failed", "error", err)
		WriteJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	RespondWithJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"count":   len(runs),
		"runs":    runs,
	})
}

// RunLogs handles GET /api/runs/{runID}/logs
func (h *Handlers) RunLogs(w http.ResponseWriter, r *http.Request) {
	if h.runs == nil {
		WriteJSONError(w, http.StatusServiceUnavailable, "Run history is not configured")
		return
	}

	runID, err := strconv.ParseInt(chi.URLParam(r, "runID"), 10, 64)
	if err != nil || runID <= 0 {
		WriteJSONError(w, http.StatusBadRequest, "Invalid run id")
		return
	}

	logs, err := h.runs.RunLogs(runID)
	if err != nil {
		logging.FromContext(r.Context()).Error("Listing run logs failed", "run", runID, "error", err)
		WriteJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	RespondWithJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"count":   len(logs),
		"logs":    logs,
	})
}

// Preflight answers bare OPTIONS requests that the CORS handler passes on
func Preflight(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// MethodNotAllowed is the JSON 405 reply
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	WriteJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
}
