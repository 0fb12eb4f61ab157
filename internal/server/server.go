// Package server exposes the generation and lookup pipeline as a small JSON
// HTTP API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/arbordata/saaddr/internal/generator"
	"github.com/arbordata/saaddr/internal/lookup"
	"github.com/arbordata/saaddr/internal/model"
	"github.com/arbordata/saaddr/internal/population"
	"github.com/arbordata/saaddr/internal/sampler"
	"github.com/arbordata/saaddr/pkg/geocode"
)

// maxBatchSize caps one API generation request.
const maxBatchSize = 10000

// Server hosts the JSON API.
type Server struct {
	port int

	// genMu serializes batches: the generator and its cache are not safe
	// for concurrent use.
	genMu   sync.Mutex
	gen     *generator.Generator
	lookups *lookup.Service
	pop     *population.Population
	presets *sampler.Presets
	stats   geocode.StatsProvider
	router  chi.Router
}

// New assembles the API server. lookups may be nil when no Mapbox token is
// configured; the lookup endpoint then reports unavailable.
func New(port int, gen *generator.Generator, lookups *lookup.Service, pop *population.Population, presets *sampler.Presets, stats geocode.StatsProvider) *Server {
	s := &Server{
		port:    port,
		gen:     gen,
		lookups: lookups,
		pop:     pop,
		presets: presets,
		stats:   stats,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))

	r.Get("/health", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Post("/generate", s.handleGenerate)
		r.Get("/lookup", s.handleLookup)
		r.Get("/options", s.handleOptions)
		r.Get("/stats", s.handleStats)
	})
	s.router = r
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", s.port),
		Handler: s.router,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		zap.L().Info("starting server", zap.Int("port", s.port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return eris.Wrap(err, "server: listen")
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		zap.L().Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return eris.Wrap(srv.Shutdown(shutdownCtx), "server: shutdown")
	})
	return g.Wait()
}

type generateRequest struct {
	Count   int                 `json:"count"`
	Preset  string              `json:"preset"`
	Weights *model.WeightConfig `json:"weights"`
	Seed    int64               `json:"seed"`
}

type generateResponse struct {
	Addresses []model.GeneratedAddress `json:"addresses"`
	Summary   generator.Summary        `json:"summary"`
	Failed    int                      `json:"failed"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Count <= 0 || req.Count > maxBatchSize {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("count must be 1-%d", maxBatchSize))
		return
	}

	weights, err := s.resolveWeights(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.genMu.Lock()
	batch, err := s.gen.Generate(r.Context(), generator.Request{
		Count:   req.Count,
		Weights: weights,
		Seed:    req.Seed,
	})
	s.genMu.Unlock()
	if err != nil {
		zap.L().Error("api generation failed", zap.Error(err))
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, generateResponse{
		Addresses: batch.Addresses,
		Summary:   generator.Summarize(batch.Addresses),
		Failed:    batch.Failed,
	})
}

// resolveWeights applies the preset, then overlays any explicit weights.
func (s *Server) resolveWeights(req generateRequest) (model.WeightConfig, error) {
	name := req.Preset
	if name == "" {
		name = "balanced"
	}
	weights, err := s.presets.Resolve(name)
	if err != nil {
		return model.WeightConfig{}, err
	}
	if req.Weights != nil {
		weights = weights.Merge(*req.Weights)
		if err := weights.Validate(); err != nil {
			return model.WeightConfig{}, err
		}
	}
	return weights, nil
}

func (s *Server) handleLookup(w http.ResponseWriter, r *http.Request) {
	if s.lookups == nil {
		writeError(w, http.StatusServiceUnavailable, "lookup requires a Mapbox token")
		return
	}
	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, "q parameter is required")
		return
	}

	match, err := s.lookups.Lookup(r.Context(), query)
	if err != nil {
		if errors.Is(err, lookup.ErrNotFound) {
			writeError(w, http.StatusNotFound, "address not found in South Australia")
			return
		}
		zap.L().Error("api lookup failed", zap.String("query", query), zap.Error(err))
		writeError(w, http.StatusBadGateway, "lookup failed")
		return
	}
	writeJSON(w, http.StatusOK, match)
}

func (s *Server) handleOptions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"suburbs":           s.pop.Len(),
		"councils":          s.pop.Councils(),
		"remoteness_levels": s.pop.RemotenessLevels(),
		"tiers":             s.pop.Tiers(),
		"presets":           s.presets.Describe(),
	})
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"geocoding": s.stats.GeocodingStats(),
		"totals":    s.gen.Totals(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("response encode failed", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
