// Package web is the browser surface: an upload-and-tally page plus a JSON
// API, sharing the same in-memory sessions.
package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

type Server struct {
	sessions *SessionStore
	logger   zerolog.Logger
	metrics  *Metrics
	registry *prometheus.Registry

	// defaults offered by the credential form
	defaultModel       string
	defaultGeminiModel string
}

func NewServer(sessions *SessionStore, logger zerolog.Logger, defaultModel, defaultGeminiModel string) *Server {
	registry := prometheus.NewRegistry()
	return &Server{
		sessions:           sessions,
		logger:             logger,
		metrics:            NewMetrics(registry),
		registry:           registry,
		defaultModel:       defaultModel,
		defaultGeminiModel: defaultGeminiModel,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	// Browser flow (session token carried in a cookie).
	r.Get("/", s.handleIndex)
	r.Post("/session", s.handleCreateSessionForm)
	r.Post("/capture", s.handleCaptureForm)
	r.Get("/export.csv", s.handleExportForm)
	r.Post("/reset", s.handleResetForm)

	// JSON API (session token in the path).
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/session", s.apiCreateSession)
		r.Route("/session/{id}", func(r chi.Router) {
			r.Post("/capture", s.apiCapture)
			r.Get("/tally", s.apiTally)
			r.Get("/export.csv", s.apiExport)
			r.Post("/reset", s.apiReset)
			r.Delete("/", s.apiDelete)
		})
	})

	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}
