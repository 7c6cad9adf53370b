package server

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter wires middleware and routes
func NewRouter(h *Handlers, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP, LoggerMiddleware(logger), Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", traceHeader},
		ExposedHeaders: []string{"Content-Disposition", traceHeader},
		MaxAge:         300,
	}))

	r.MethodNotAllowed(MethodNotAllowed)

	get(r, "/health", h.Health)

	r.Route("/api", func(r chi.Router) {
		get(r, "/scrape-v2", h.Scrape)
		get(r, "/scrape", h.Scrape)
		get(r, "/cities", h.Cities)
		get(r, "/runs", h.Runs)
		get(r, "/runs/{runID}/logs", h.RunLogs)
	})

	return r
}

// get registers a GET route along with its bare OPTIONS reply
func get(r chi.Router, pattern string, fn http.HandlerFunc) {
	r.Get(pattern, fn)
	r.Options(pattern, Preflight)
}

func NewServer(port int, h *Handlers, logger *slog.Logger) *http.Server {
	return &http.Server{
		Addr:              ":" + strconv.Itoa(port),
		Handler:           NewRouter(h, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}
}
