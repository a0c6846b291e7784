// Package httpapi is the JSON boundary of the service: dataset upload and
// report retrieval. It holds no business logic; every request delegates to
// the dataset registry and the report pipeline.
package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/hdnguyen/salesboard/internal/dependency"
	"github.com/hdnguyen/salesboard/internal/ingest"
	"golang.org/x/sync/errgroup"
)

// Config is the configuration for the http server.
type Config struct {
	Port           string   `mapstructure:"port"`
	Address        string   `mapstructure:"address"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Server is the http server.
type Server struct {
	hs     *http.Server
	c      *Config
	ingest ingest.Config
	done   chan struct{}

	datasets dependency.Datasets
	reports  dependency.Reports
}

// New creates a new server.
func New(config *Config, ingestCfg ingest.Config) *Server {
	return &Server{
		c:      config,
		ingest: ingestCfg,
		done:   make(chan struct{}),
	}
}

// Done returns a channel that is closed when the server exits.
func (s *Server) Done() <-chan struct{} {
	return s.done
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.c.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Route("/api/datasets", func(r chi.Router) {
		r.Post("/", s.handleUpload)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/report", s.handleReport)
			r.Get("/options", s.handleOptions)
			r.Delete("/", s.handleDelete)
		})
	})
	return r
}

// Start runs the server until the context is cancelled.
func (s *Server) Start(ctx context.Context, datasets dependency.Datasets, reports dependency.Reports) error {
	s.datasets = datasets
	s.reports = reports

	r := s.routes()

	s.hs = &http.Server{
		Addr:              fmt.Sprintf("%s:%s", s.c.Address, s.c.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Default().With("addr", s.hs.Addr).Info("http server listening")
		if err := s.hs.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.hs.Shutdown(shutdownCtx)
	})

	go func() {
		if err := g.Wait(); err != nil {
			slog.Default().With("err", err.Error()).Error("http server exited")
		}
		close(s.done)
	}()
	return nil
}

// Stop shuts the server down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	if s.hs == nil {
		return nil
	}
	return s.hs.Shutdown(ctx)
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Default().With("err", err.Error()).Error("failed to encode response")
	}
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}
