// Package api is the HTTP/GraphQL log API: it serves recently ingested chat
// lines and trained-model metadata from pgstore over REST, a schema-first
// GraphQL endpoint for ad hoc queries, and a top-K edge introspection route
// against a loaded chain. It follows the same http.ServeMux method+path
// routing style as the rest of this stack's transport layer, with no
// external router framework.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/ezclap-tv/shit-chat-says/internal/codec"
	"github.com/ezclap-tv/shit-chat-says/internal/logger"
	"github.com/ezclap-tv/shit-chat-says/internal/pgstore"
)

var log = logger.Component("api")

// ChainSource returns the currently loaded chain handle. It is a func
// rather than a plain field so the API can serve a freshly retrained chain
// without restarting: cmd/cssapi swaps the value behind this func whenever
// cmd/cssbuild finishes a retrain and the daemon notices the new file.
type ChainSource func() codec.Handle

// Server wires the log store and a live chain handle behind one HTTP mux.
type Server struct {
	store   *pgstore.Store
	chain   ChainSource
	addr    string
	limiter *rate.Limiter
}

// NewServer builds a Server listening on addr. limit/burst configure a
// per-process token-bucket rate limit shared across all routes; pass 0 for
// an unlimited limiter.
func NewServer(store *pgstore.Store, chain ChainSource, addr string, limit rate.Limit, burst int) *Server {
	var limiter *rate.Limiter
	if limit > 0 {
		limiter = rate.NewLimiter(limit, burst)
	}
	return &Server{store: store, chain: chain, addr: addr, limiter: limiter}
}

// ListenAndServe runs the HTTP server until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	mux := http.NewServeMux()
	s.registerRoutes(mux)

	var handler http.Handler = mux
	if s.limiter != nil {
		handler = s.rateLimit(handler)
	}

	srv := &http.Server{Addr: s.addr, Handler: handler}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutCtx)
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("api: serve: %w", err)
		}
		return nil
	}
}

func (s *Server) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /lines/{channel}", s.handleRecentLines)
	mux.HandleFunc("GET /models", s.handleListModels)
	mux.HandleFunc("GET /models/{name}", s.handleGetModel)
	mux.HandleFunc("GET /edges", s.handleEdges)
	mux.HandleFunc("POST /graphql", s.handleGraphQL)
}

func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
