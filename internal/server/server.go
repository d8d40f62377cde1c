// Package server exposes the assessment service over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/ahrav/go-verdict/infrastructure/middleware"
	"github.com/ahrav/go-verdict/internal/application"
	"github.com/ahrav/go-verdict/internal/config"
)

// maxBodyBytes caps request bodies; case files are small by construction.
const maxBodyBytes = 1 << 20

// Server wires the loader and assessor behind a chi router with request
// logging, rate limiting, tracing, and Prometheus metrics.
type Server struct {
	loader   *application.CaseLoader
	assessor *application.Assessor
	metrics  *middleware.PrometheusMetrics
	limiter  *rate.Limiter
	logger   *zap.Logger
	router   chi.Router
	http     *http.Server
	cfg      config.ServerConfig
}

// New builds a Server from configuration. reg receives the metric
// collectors and backs the /metrics endpoint.
func New(cfg config.ServerConfig, logger *zap.Logger, reg *prometheus.Registry) (*Server, error) {
	assessor, err := application.NewAssessor()
	if err != nil {
		return nil, err
	}

	s := &Server{
		loader:   application.NewCaseLoader(),
		assessor: assessor,
		metrics:  middleware.NewPrometheusMetrics(reg),
		limiter:  rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst),
		logger:   logger,
		cfg:      cfg,
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(s.rateLimit)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	r.Route("/v1", func(r chi.Router) {
		r.Post("/assess", s.handleAssess)
	})
	s.router = r

	s.http = &http.Server{
		Addr:        cfg.Addr,
		Handler:     r,
		ReadTimeout: time.Duration(cfg.ReadTimeoutSecs) * time.Second,
	}
	return s, nil
}

// Handler returns the router for tests and embedding.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe runs the HTTP server until ctx is canceled, then shuts
// down gracefully within the configured window.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", s.cfg.Addr))
		errCh <- s.http.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(), time.Duration(s.cfg.ShutdownSecs)*time.Second)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return err
	}
	err := <-errCh
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// rateLimit rejects requests beyond the configured sustained rate.
func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			s.writeError(w, http.StatusTooManyRequests, errors.New("rate limit exceeded"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// handleAssess accepts a case definition (JSON or YAML) and returns the
// assessment. Input failures are 422s; engine failures, such as total
// conflict, are 422s as well since they are properties of the submitted
// case rather than of the service.
func (s *Server) handleAssess(w http.ResponseWriter, r *http.Request) {
	done := s.metrics.RequestStarted()
	defer done()
	start := time.Now()

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	cf, err := s.loader.Parse(body)
	if err != nil {
		s.metrics.RecordAssessment("unknown", "error", time.Since(start))
		s.writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	ctx, span := otel.Tracer("verdict-server").Start(r.Context(), "Assessor.Assess")
	span.SetAttributes(
		attribute.String("case.method", string(cf.Method)),
		attribute.String("case.name", cf.Case.Name),
	)
	assessment, err := s.assessor.Assess(ctx, cf)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.End()
		s.metrics.RecordAssessment(string(cf.Method), "error", time.Since(start))
		s.logger.Warn("assessment failed",
			zap.String("method", string(cf.Method)),
			zap.String("case", cf.Case.Name),
			zap.Error(err))
		s.writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	span.AddEvent("assessment.complete", trace.WithAttributes(
		attribute.Float64("final_pct", assessment.FinalPct),
	))
	span.End()

	s.metrics.RecordAssessment(string(cf.Method), "ok", time.Since(start))
	if assessment.MonteCarlo != nil {
		s.metrics.RecordSamples(string(cf.Method), len(assessment.MonteCarlo.Samples))
	}
	s.logger.Info("assessment complete",
		zap.String("id", assessment.ID),
		zap.String("method", string(cf.Method)),
		zap.Float64("final_pct", assessment.FinalPct),
		zap.Duration("elapsed", time.Since(start)))

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(assessment); err != nil {
		s.logger.Error("encoding response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
