// Package server exposes documents and their renderings over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	bizdoc "github.com/alnah/go-bizdoc"
)

// Documents is the document repository the API reads and writes.
type Documents interface {
	Get(ctx context.Context, id string) (*bizdoc.Document, error)
	List(ctx context.Context, limit int) ([]*bizdoc.Document, error)
	Create(ctx context.Context, doc *bizdoc.Document) error
}

// Renderer produces the downloadable files.
type Renderer interface {
	GeneratePDF(ctx context.Context, doc *bizdoc.Document) ([]byte, error)
	GeneratePPTX(ctx context.Context, doc *bizdoc.Document) ([]byte, error)
}

// maxBodyBytes caps POST /api/documents payloads.
const maxBodyBytes = 10 << 20

// Server routes API requests to the store and the renderer.
type Server struct {
	docs     Documents
	renderer Renderer
	logger   *zap.Logger
	router   chi.Router
}

// New builds the router. A nil gatherer disables /metrics.
func New(docs Documents, renderer Renderer, logger *zap.Logger, gatherer prometheus.Gatherer) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{docs: docs, renderer: renderer, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}
	r.Route("/api/documents", func(r chi.Router) {
		r.Get("/", s.handleList)
		r.Post("/", s.handleCreate)
		r.Get("/{id}", s.handleGet)
		r.Get("/{id}/pdf", s.handlePDF)
		r.Get("/{id}/pptx", s.handlePPTX)
	})

	s.router = r
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// within shutdownTimeout.
func (s *Server) ListenAndServe(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("http server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// logRequests logs one line per request once the response is written.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		defer func() {
			s.logger.Info("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("elapsed", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())),
			)
		}()
		next.ServeHTTP(ww, r)
	})
}
