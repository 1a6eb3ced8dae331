// Package api implements the local analysis service: a reference
// implementation of the endpoint the console talks to.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sprite-ai/insight/internal/logger"
	"github.com/sprite-ai/insight/internal/pipeline"
)

// DefaultAllowOrigin is the console origin permitted by CORS.
const DefaultAllowOrigin = "http://localhost:3000"

// Server is the insight analysis HTTP server.
type Server struct {
	addr        string
	allowOrigin string
	summarizer  pipeline.Summarizer
	mux         *http.ServeMux
	server      *http.Server
}

// Option configures a Server.
type Option func(*Server)

// WithAllowOrigin sets the Access-Control-Allow-Origin value. An empty
// origin disables CORS headers.
func WithAllowOrigin(origin string) Option {
	return func(s *Server) { s.allowOrigin = origin }
}

// WithSummarizer replaces the pipeline's summary step.
func WithSummarizer(sum pipeline.Summarizer) Option {
	return func(s *Server) { s.summarizer = sum }
}

// New creates a new API server.
func New(addr string, opts ...Option) *Server {
	s := &Server{addr: addr, allowOrigin: DefaultAllowOrigin}
	for _, opt := range opts {
		opt(s)
	}
	s.mux = http.NewServeMux()
	s.registerRoutes()
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("POST /analyze", s.handleAnalyze)
	s.mux.HandleFunc("POST /api/analyze", s.handleAnalyze)
	s.mux.HandleFunc("GET /api/ws", s.handleWebSocket)
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.addr
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	logger.Get().Info("insight analysis service listening", "addr", s.addr, "allow_origin", s.allowOrigin)
	return s.server.ListenAndServe()
}

// Shutdown stops the server, waiting for active requests until ctx is done.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Handler returns the HTTP handler, CORS included.
func (s *Server) Handler() http.Handler {
	return s.cors(s.mux)
}

func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if s.allowOrigin != "" && origin != "" && s.originAllowed(origin) {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Add("Vary", "Origin")
			if r.Method == http.MethodOptions {
				h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
				reqHeaders := r.Header.Get("Access-Control-Request-Headers")
				if reqHeaders == "" {
					reqHeaders = "Content-Type"
				}
				h.Set("Access-Control-Allow-Headers", reqHeaders)
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) originAllowed(origin string) bool {
	return s.allowOrigin == "*" || origin == s.allowOrigin
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		logger.Get().Error("json encode", "error", err)
	}
}

// writeError writes a JSON error response in the {"detail": msg} shape.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"detail": msg})
}

// readJSON decodes a JSON request body into v.
func readJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return fmt.Errorf("empty request body")
	}
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	return dec.Decode(v)
}
