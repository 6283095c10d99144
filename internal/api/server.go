// Package api serves the task lifecycle and calendar projections as a local
// JSON HTTP API.
package api

import (
	"net/http"
	"time"

	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"github.com/sandeepkv93/daystream/internal/planner"
	"github.com/sandeepkv93/daystream/internal/tasks"
)

type Server struct {
	tasks          *tasks.Controller
	planner        planner.Planner
	logger         *logrus.Logger
	metrics        *Metrics
	now            func() time.Time
	planTimeout    time.Duration
	allowedOrigins []string
}

type Option func(*Server)

func WithPlanner(p planner.Planner) Option {
	return func(s *Server) { s.planner = p }
}

func WithMetrics(m *Metrics) Option {
	return func(s *Server) {
		if m != nil {
			s.metrics = m
		}
	}
}

func WithClock(fn func() time.Time) Option {
	return func(s *Server) {
		if fn != nil {
			s.now = fn
		}
	}
}

func WithPlanTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.planTimeout = d
		}
	}
}

func WithAllowedOrigins(origins []string) Option {
	return func(s *Server) { s.allowedOrigins = origins }
}

func NewServer(ctrl *tasks.Controller, logger *logrus.Logger, opts ...Option) *Server {
	s := &Server{
		tasks:       ctrl,
		logger:      logger,
		now:         time.Now,
		planTimeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = NewMetrics()
	}
	return s
}

func (s *Server) Metrics() *Metrics { return s.metrics }

// Handler returns the routed API wrapped in CORS, request id, logging and
// metrics middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.health)
	mux.Handle("GET /metrics", s.metrics.Handler())

	mux.HandleFunc("GET /v1/tasks", s.listTasks)
	mux.HandleFunc("POST /v1/tasks", s.createTask)
	mux.HandleFunc("GET /v1/tasks/{id}", s.getTask)
	mux.HandleFunc("PATCH /v1/tasks/{id}", s.updateTask)
	mux.HandleFunc("DELETE /v1/tasks/{id}", s.deleteTask)
	mux.HandleFunc("POST /v1/tasks/{id}/toggle", s.toggleTask)
	mux.HandleFunc("POST /v1/series", s.createSeries)
	mux.HandleFunc("GET /v1/series/{id}", s.getSeries)
	mux.HandleFunc("POST /v1/plan", s.plan)
	mux.HandleFunc("GET /v1/calendar", s.calendarView)
	mux.HandleFunc("GET /v1/export.ics", s.exportICS)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: s.allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", RequestIDHeader},
		ExposedHeaders: []string{RequestIDHeader},
	})

	var h http.Handler = mux
	h = SecurityHeadersMiddleware(h)
	h = s.metrics.Middleware(h)
	h = LoggingMiddleware(s.logger, h)
	h = RequestIDMiddleware(h)
	return corsHandler.Handler(h)
}
