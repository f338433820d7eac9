package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vjranagit/imurun/pkg/search"
	"github.com/vjranagit/imurun/pkg/store"
	"github.com/vjranagit/imurun/pkg/types"
)

// Server implements the read-only analysis HTTP API over a loaded store
type Server struct {
	store    *store.SampleStore
	searcher *search.Searcher
	addr     string
	timeout  time.Duration
	logger   *slog.Logger
	metrics  *metrics
	server   *http.Server
}

// NewServer creates a new API server. The store must not be appended to
// once the server is created.
func NewServer(addr string, s *store.SampleStore, cache *search.Cache, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	srv := &Server{
		store:    s,
		searcher: search.NewSearcher(s, cache),
		addr:     addr,
		timeout:  30 * time.Second,
		logger:   logger,
		metrics:  newMetrics(),
	}
	srv.metrics.storeSamples.Set(float64(s.Size()))

	// Built up front so Stop never races with Start
	srv.server = &http.Server{
		Addr:         addr,
		Handler:      srv.Handler(),
		ReadTimeout:  srv.timeout,
		WriteTimeout: srv.timeout,
	}
	return srv
}

// SetTimeout sets the read and write timeouts. Call it before Start.
func (s *Server) SetTimeout(d time.Duration) {
	s.timeout = d
	s.server.ReadTimeout = d
	s.server.WriteTimeout = d
}

// Handler returns the HTTP handler serving every API route
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/v1/samples", s.handleSample)
	mux.HandleFunc("/api/v1/search", s.handleSearch)
	mux.HandleFunc("/health", s.handleHealth)
	mux.Handle("/metrics", promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{}))

	return mux
}

// Start starts the HTTP server. It returns nil once Stop has been called,
// including when Stop ran first.
func (s *Server) Start() error {
	err := s.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Stop stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// sampleResponse is the body of /api/v1/samples
type sampleResponse struct {
	Index     int          `json:"index"`
	Sample    types.Sample `json:"sample"`
	Formatted string       `json:"formatted"`
}

// handleSample returns one sample by index
func (s *Server) handleSample(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	index, err := strconv.Atoi(r.URL.Query().Get("index"))
	if err != nil {
		http.Error(w, "Invalid index", http.StatusBadRequest)
		return
	}

	sample, err := s.store.At(index)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, types.ErrOutOfRange) {
			status = http.StatusNotFound
		}
		http.Error(w, err.Error(), status)
		return
	}

	writeJSON(w, sampleResponse{
		Index:     index,
		Sample:    sample,
		Formatted: sample.String(),
	})
}

// searchResponse is the body of /api/v1/search. Index is set for single-index
// kinds. For multi, pairs is omitted when the range was rejected and [] when
// nothing qualified.
type searchResponse struct {
	Kind   search.Kind `json:"kind"`
	Index  *int        `json:"index,omitempty"`
	Pairs  *[][2]int   `json:"pairs,omitempty"`
	Cached bool        `json:"cached"`
}

// handleSearch runs one search query
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	q, err := parseQuery(r)
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid request: %v", err), http.StatusBadRequest)
		return
	}

	start := time.Now()
	res, hit, err := s.searcher.Run(q)
	s.metrics.searchDuration.WithLabelValues(string(q.Kind)).Observe(time.Since(start).Seconds())

	if hit {
		s.metrics.cacheTotal.WithLabelValues("hit").Inc()
	} else {
		s.metrics.cacheTotal.WithLabelValues("miss").Inc()
	}

	if err != nil {
		s.metrics.searchTotal.WithLabelValues(string(q.Kind), "error").Inc()
		s.logger.Warn("search failed", "kind", q.Kind, "error", err)
		status := http.StatusInternalServerError
		if errors.Is(err, types.ErrInvalidChannel) {
			status = http.StatusBadRequest
		}
		http.Error(w, fmt.Sprintf("Search failed: %v", err), status)
		return
	}

	outcome := "not_found"
	if res.Found() {
		outcome = "found"
	}
	s.metrics.searchTotal.WithLabelValues(string(q.Kind), outcome).Inc()
	s.logger.Debug("search", "kind", q.Kind, "channel", q.Channel, "begin", q.Begin, "end", q.End, "result", outcome, "cached", hit)

	resp := searchResponse{Kind: q.Kind, Cached: hit}
	if q.Kind == search.KindMulti {
		if res.Pairs != nil {
			pairs := make([][2]int, len(res.Pairs))
			for i, p := range res.Pairs {
				pairs[i] = [2]int{p.Start, p.End}
			}
			resp.Pairs = &pairs
		}
	} else {
		index := res.Index
		resp.Index = &index
	}

	writeJSON(w, resp)
}

// parseQuery builds a search query from URL parameters
func parseQuery(r *http.Request) (search.Query, error) {
	params := r.URL.Query()
	var q search.Query

	kind, err := search.ParseKind(params.Get("kind"))
	if err != nil {
		return q, err
	}
	q.Kind = kind

	if q.Channel, err = types.ParseChannel(params.Get("channel")); err != nil {
		return q, err
	}
	if kind == search.KindTwo {
		if q.Channel2, err = types.ParseChannel(params.Get("channel2")); err != nil {
			return q, err
		}
	}

	ints := []struct {
		name string
		dst  *int
	}{
		{"begin", &q.Begin},
		{"end", &q.End},
		{"win", &q.Win},
	}
	for _, p := range ints {
		if *p.dst, err = strconv.Atoi(params.Get(p.name)); err != nil {
			return q, fmt.Errorf("invalid %s: %w", p.name, err)
		}
	}

	var floats []string
	switch kind {
	case search.KindAbove:
		floats = []string{"threshold"}
	case search.KindTwo:
		floats = []string{"threshold", "threshold2"}
	case search.KindBack, search.KindMulti:
		floats = []string{"lo", "hi"}
	}
	dsts := map[string]*float64{
		"threshold":  &q.Threshold,
		"threshold2": &q.Threshold2,
		"lo":         &q.Lo,
		"hi":         &q.Hi,
	}
	for _, name := range floats {
		if *dsts[name], err = strconv.ParseFloat(params.Get(name), 64); err != nil {
			return q, fmt.Errorf("invalid %s: %w", name, err)
		}
		if math.IsNaN(*dsts[name]) {
			return q, fmt.Errorf("invalid %s: NaN", name)
		}
	}

	return q, nil
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"status":  "healthy",
		"samples": s.store.Size(),
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
