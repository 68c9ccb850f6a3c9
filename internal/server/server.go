// Package server exposes label sanitizing and layout over HTTP.
//
// Routes:
//
//	GET  /healthz           capability probe of the configured positioner
//	POST /v1/quote/{kind}   sanitize the request body (latex, str, key, key-hash)
//	POST /v1/positions      lay out the DOT request body, JSON response
//	POST /v1/dot            edge list in, DOT out (?tex=1&undirected=1&hash=1)
//	GET  /metrics           Prometheus metrics
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/matzehuels/dottex/internal/metrics"
	"github.com/matzehuels/dottex/pkg/buildinfo"
	"github.com/matzehuels/dottex/pkg/dot"
	errs "github.com/matzehuels/dottex/pkg/errors"
	"github.com/matzehuels/dottex/pkg/layout"
	"github.com/matzehuels/dottex/pkg/quote"
)

// maxBody caps request bodies.
const maxBody = errs.MaxDOTSize

// requestIDHeader carries the request id in both directions.
const requestIDHeader = "X-Request-Id"

// Server routes HTTP requests to the sanitizers and a positioner.
type Server struct {
	positioner layout.Positioner
	logger     *log.Logger
	router     chi.Router
}

// New builds the router. gatherer serves /metrics; nil disables the route.
func New(p layout.Positioner, logger *log.Logger, gatherer prometheus.Gatherer) *Server {
	s := &Server{positioner: p, logger: logger}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(metrics.HTTPMiddleware)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/quote/{kind}", s.handleQuote)
		r.Post("/positions", s.handlePositions)
		r.Post("/dot", s.handleDOT)
	})
	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(gatherer))
	}

	s.router = r
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully within shutdownTimeout.
func (s *Server) ListenAndServe(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr, "positioner", s.positioner.Name())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
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

type healthResponse struct {
	Status     string `json:"status"`
	Positioner string `json:"positioner"`
	Version    string `json:"version"`
	Detail     string `json:"detail,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok", Positioner: s.positioner.Name(), Version: buildinfo.Version}
	if err := layout.Require(r.Context(), s.positioner); err != nil {
		s.logger.Warn("layout engine unavailable", "err", errs.GetCode(err))
		resp.Status = "unavailable"
		resp.Detail = layout.Describe(err)
		writeJSON(w, http.StatusServiceUnavailable, resp)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

var quoters = map[string]func(any) string{
	"latex":    quote.Latex,
	"str":      quote.Str,
	"key":      quote.Key,
	"key-hash": quote.KeyWithHash,
}

func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")
	fn, ok := quoters[kind]
	if !ok {
		s.writeError(w, errs.New(errs.ErrCodeInvalidInput, "unknown quote kind %q", kind))
		return
	}

	body, err := readBody(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, fn(body))
}

func (s *Server) handlePositions(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := errs.ValidateDOT(body); err != nil {
		s.writeError(w, err)
		return
	}

	pos, err := s.positioner.Positions(r.Context(), body)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pos)
}

func (s *Server) handleDOT(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	q := r.URL.Query()
	g, err := dot.ParseEdgeList(strings.NewReader(body), dot.Options{
		Name:     q.Get("name"),
		Directed: !flag(q.Get("undirected")),
		TeX:      flag(q.Get("tex")),
		HashKeys: flag(q.Get("hash")),
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, g.String())
}

func flag(v string) bool {
	b, _ := strconv.ParseBool(v)
	return b
}

func readBody(w http.ResponseWriter, r *http.Request) (string, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return "", errs.New(errs.ErrCodeInvalidInput, "request body too large (max %d bytes)", maxBody)
		}
		return "", errs.Wrap(errs.ErrCodeInvalidInput, err, "read request body")
	}
	return string(data), nil
}

type errorResponse struct {
	Code    errs.Code `json:"code"`
	Message string    `json:"message"`
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	code := errs.GetCode(err)
	if code == "" {
		code = errs.ErrCodeInternal
	}
	writeJSON(w, status, errorResponse{Code: code, Message: errs.UserMessage(err)})
}

func statusFor(err error) int {
	switch errs.GetCode(err) {
	case errs.ErrCodeInvalidInput, errs.ErrCodeInvalidFormat, errs.ErrCodeInvalidEngine:
		return http.StatusBadRequest
	case errs.ErrCodeToolMissing, errs.ErrCodeToolMisconfigured:
		return http.StatusServiceUnavailable
	case errs.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case errs.ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// requestID keeps a caller-supplied X-Request-Id or assigns a UUID, echoes
// it in the response and stores it where middleware.GetReqID finds it.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		ctx := context.WithValue(r.Context(), middleware.RequestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).Round(time.Microsecond),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
