// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes the recommender over HTTP.
//
// Every request loads its own corpus snapshot from the store, so
// concurrent requests never share mutable state. Expanded articles are
// written back only when persistence is requested; the store serializes
// those writes.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/pdiddy/article-recommender/internal/corpus"
	"github.com/pdiddy/article-recommender/internal/logging"
	"github.com/pdiddy/article-recommender/internal/recommend"
	"github.com/pdiddy/article-recommender/pkg/types"
)

const (
	maxBodyBytes    = 1 << 20
	shutdownTimeout = 10 * time.Second
)

// Server handles HTTP requests.
type Server struct {
	cfg     types.PipelineConfig
	store   *corpus.Store
	builder *recommend.Builder
	log     *zap.Logger
	router  chi.Router
}

// New builds a Server and its routes.
func New(cfg types.PipelineConfig, store *corpus.Store, builder *recommend.Builder, logger *zap.Logger) *Server {
	s := &Server{
		cfg:     cfg,
		store:   store,
		builder: builder,
		log:     logging.OrNop(logger),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(s.logRequests)
	r.Use(chimiddleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/corpus", s.handleCorpusStats)
		r.Get("/corpus/search", s.handleCorpusSearch)
		r.Post("/recommend", s.handleRecommend)
	})

	s.router = r
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on the configured address until ctx is cancelled,
// then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	addr := s.cfg.Server.Addr
	if addr == "" {
		addr = types.DefaultServerAddr
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Debug("http request",
			zap.String("request_id", chimiddleware.GetReqID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}

// errorResponse is the body of every non-2xx response.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.log.Warn("writing response", zap.Error(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, code, message string) {
	s.respondJSON(w, status, errorResponse{Error: message, Code: code})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCorpusStats(w http.ResponseWriter, r *http.Request) {
	st, err := s.store.Stats(r.Context())
	if err != nil {
		s.log.Error("corpus stats", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "STORE_ERROR", "could not read corpus")
		return
	}
	s.respondJSON(w, http.StatusOK, st)
}

func (s *Server) handleCorpusSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		s.respondError(w, http.StatusBadRequest, "MISSING_QUERY", "query parameter q is required")
		return
	}
	limit := 0
	if l := r.URL.Query().Get("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n <= 0 {
			s.respondError(w, http.StatusBadRequest, "INVALID_LIMIT", "limit must be a positive integer")
			return
		}
		limit = n
	}

	results, err := s.store.Search(r.Context(), q, limit)
	if err != nil {
		s.log.Warn("corpus search", zap.String("query", q), zap.Error(err))
		s.respondError(w, http.StatusBadRequest, "SEARCH_FAILED", err.Error())
		return
	}
	if results == nil {
		results = []corpus.SearchResult{}
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"query": q, "results": results})
}
