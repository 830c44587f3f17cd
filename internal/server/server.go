// Package server exposes the dashboard page and the JSON data API.
package server

import (
	"context"
	_ "embed"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Dosenpfand/boulderbar-capacity-tracker/internal/query"
)

//go:embed index.html
var indexHTML []byte

// defaultLookbackHours is used when the hours parameter is missing or not an
// integer.
const defaultLookbackHours = 24

// Activator starts the background collection schedule. Start must be
// idempotent; the server calls it on every request.
type Activator interface {
	Start()
}

// SeriesBuilder answers dashboard data queries.
type SeriesBuilder interface {
	BuildSeries(ctx context.Context, hours int) (*query.Series, error)
}

// Pinger reports storage reachability for readiness checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server is the HTTP surface of the capacity tracker.
type Server struct {
	queries   SeriesBuilder
	scheduler Activator
	db        Pinger
	log       *slog.Logger
}

// New creates a Server. scheduler and db may be nil, disabling lazy
// activation and the readiness probe respectively.
func New(queries SeriesBuilder, scheduler Activator, db Pinger) *Server {
	return &Server{
		queries:   queries,
		scheduler: scheduler,
		db:        db,
		log:       slog.With("component", "server"),
	}
}

// Router builds the chi router with all routes and middleware.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(s.ensureStarted)

	r.Get("/", s.handleIndex)
	r.Get("/api/data", s.handleData)
	r.Get("/healthz", s.handleHealthz)
	r.Get("/readyz", s.handleReadyz)

	return r
}

// ensureStarted lazily activates the scheduler on the first request of any
// kind. Start is guarded internally, so concurrent first requests and an
// eager start in main are all safe.
func (s *Server) ensureStarted(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.scheduler != nil {
			s.scheduler.Start()
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(indexHTML)
}

func (s *Server) handleData(w http.ResponseWriter, r *http.Request) {
	hours := defaultLookbackHours
	if raw := r.URL.Query().Get("hours"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			hours = parsed
		}
	}

	series, err := s.queries.BuildSeries(r.Context(), hours)
	if err != nil {
		s.log.Error("data query failed", "error", err, "hours", hours)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "query failed"})
		return
	}
	writeJSON(w, http.StatusOK, series)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	if s.db != nil {
		if err := s.db.Ping(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ready"})
}

type healthResponse struct {
	Status string `json:"status"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
