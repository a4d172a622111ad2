// Package server exposes the completion engine over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-logr/logr"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/oakwood-commons/esqlc/internal/completion"
	"github.com/oakwood-commons/esqlc/internal/esql/definitions"
)

const maxBodyBytes = 1 << 20

// Config wires a Server.
type Config struct {
	Engine *completion.Engine
	// Gatherer backs /metrics; nil serves the default registry.
	Gatherer prometheus.Gatherer
	Log      logr.Logger
	// ReadTimeout bounds reading a request; zero means 10s.
	ReadTimeout time.Duration
}

// Server routes the HTTP API.
type Server struct {
	engine *completion.Engine
	log    logr.Logger
	router *mux.Router
	cfg    Config
}

// New builds the router.
func New(cfg Config) *Server {
	if cfg.Gatherer == nil {
		cfg.Gatherer = prometheus.DefaultGatherer
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = 10 * time.Second
	}
	s := &Server{engine: cfg.Engine, log: cfg.Log, router: mux.NewRouter(), cfg: cfg}

	s.router.Use(s.logRequests)
	s.router.Path("/v1/suggest").Methods(http.MethodPost).HandlerFunc(s.handleSuggest)
	s.router.Path("/v1/catalog").Methods(http.MethodGet).HandlerFunc(s.handleCatalog)
	s.router.Path("/v1/catalog/{section}").Methods(http.MethodGet).HandlerFunc(s.handleCatalog)
	s.router.Path("/healthz").Methods(http.MethodGet).HandlerFunc(handleHealth)
	s.router.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	return s
}

// Handler returns the HTTP handler of the API.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadTimeout:       s.cfg.ReadTimeout,
		ReadHeaderTimeout: s.cfg.ReadTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	s.log.Info("listening", "addr", ln.Addr().String())

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// suggestRequest is the wire form of completion.Request. A missing
// offset means the end of the query.
type suggestRequest struct {
	Query   string `json:"query"`
	Offset  *int   `json:"offset,omitempty"`
	Trigger struct {
		Kind      string `json:"kind"`
		Character string `json:"character,omitempty"`
	} `json:"trigger"`
}

func (r suggestRequest) toRequest() (completion.Request, error) {
	req := completion.Request{Query: r.Query, Offset: len(r.Query)}
	if r.Offset != nil {
		req.Offset = *r.Offset
	}
	req.Trigger.Character = r.Trigger.Character
	if r.Trigger.Kind != "" {
		kind, err := completion.ParseTriggerKind(r.Trigger.Kind)
		if err != nil {
			return req, err
		}
		req.Trigger.Kind = kind
	}
	return req, nil
}

type suggestResponse struct {
	Suggestions []completion.Suggestion `json:"suggestions"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	var body suggestRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}
	req, err := body.toRequest()
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	items, err := s.engine.Suggest(r.Context(), req)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			status = http.StatusServiceUnavailable
		}
		writeError(w, status, err)
		return
	}
	if items == nil {
		items = []completion.Suggestion{}
	}
	writeJSON(w, http.StatusOK, suggestResponse{Suggestions: items})
}

type catalogResponse struct {
	Commands  []*definitions.Command  `json:"commands,omitempty"`
	Functions []*definitions.Function `json:"functions,omitempty"`
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	c := s.engine.Catalog()
	var resp catalogResponse
	switch section := mux.Vars(r)["section"]; section {
	case "":
		resp.Commands, resp.Functions = c.Commands(), c.Functions()
	case "commands":
		resp.Commands = c.Commands()
	case "functions":
		resp.Functions = c.Functions()
	default:
		writeError(w, http.StatusNotFound, fmt.Errorf("unknown catalog section %q", section))
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		route := r.URL.Path
		if cur := mux.CurrentRoute(r); cur != nil {
			if tpl, err := cur.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		s.log.V(1).Info("request", "method", r.Method, "route", route, "status", rec.status, "duration", time.Since(start).String())
	})
}
