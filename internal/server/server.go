// Package server exposes the current chart over HTTP: the rendered wheel as
// SVG, its layout as JSON, the aspect table and a generate endpoint that
// swaps the chart.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/litescript/ls-natal/internal/chart"
	"github.com/litescript/ls-natal/internal/client"
	"github.com/litescript/ls-natal/internal/logging"
	"github.com/litescript/ls-natal/internal/render"
	"github.com/litescript/ls-natal/internal/state"
	"github.com/litescript/ls-natal/internal/theme"
	"github.com/litescript/ls-natal/internal/wheel"
)

// Size bounds accepted by the size query parameter.
const (
	MinSize = 100.0
	MaxSize = 2000.0
)

const shutdownTimeout = 5 * time.Second

// Generator produces charts; *client.Client satisfies it.
type Generator interface {
	Generate(ctx context.Context, req client.Request) client.Result
}

// Options configures a Server.
type Options struct {
	Addr        string
	CORSOrigins []string
	Wheel       wheel.Config
	Theme       theme.Theme
}

// Server serves the current chart held by a state manager.
type Server struct {
	opts  Options
	state *state.Manager
	gen   Generator
	log   *logging.Logger
}

// New creates a server. gen may be nil, which disables POST /generate.
func New(opts Options, st *state.Manager, gen Generator, log *logging.Logger) *Server {
	if opts.Theme == "" {
		opts.Theme = theme.Default
	}
	if len(opts.CORSOrigins) == 0 {
		opts.CORSOrigins = []string{"*"}
	}
	if log == nil {
		log = logging.Discard()
	}
	return &Server{opts: opts, state: st, gen: gen, log: log}
}

// Router returns the bare route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", s.health).Methods(http.MethodGet)
	r.HandleFunc("/chart.svg", s.chartSVG).Methods(http.MethodGet)
	r.HandleFunc("/chart.json", s.chartJSON).Methods(http.MethodGet)
	r.HandleFunc("/aspects", s.aspects).Methods(http.MethodGet)
	r.HandleFunc("/generate", s.generate).Methods(http.MethodPost)

	return r
}

// Handler returns the router wrapped with CORS and access logging.
func (s *Server) Handler() http.Handler {
	cors := handlers.CORS(
		handlers.AllowedOrigins(s.opts.CORSOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type", client.RequestIDHeader}),
	)
	return handlers.CustomLoggingHandler(logWriter{s.log}, cors(s.Router()), formatAccess)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening on %s", s.opts.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, "OK")
}

// frameParams are the query parameters shared by the chart endpoints.
type frameParams struct {
	size  float64
	theme theme.Theme
	hover *wheel.Target
}

func (s *Server) parseFrameParams(r *http.Request) (frameParams, error) {
	q := r.URL.Query()
	p := frameParams{theme: s.opts.Theme}

	if v := q.Get("size"); v != "" {
		size, err := strconv.ParseFloat(v, 64)
		if err != nil || size < MinSize || size > MaxSize {
			return p, fmt.Errorf("size must be a number between %g and %g", MinSize, MaxSize)
		}
		p.size = size
	}
	if v := q.Get("theme"); v != "" {
		t, err := theme.Parse(v)
		if err != nil {
			return p, err
		}
		p.theme = t
	}
	t, err := wheel.ParseTarget(q.Get("hover"))
	if err != nil {
		return p, err
	}
	p.hover = t
	return p, nil
}

// frame lays out the current chart for one request. Each request gets its
// own projector so query parameters never leak between clients.
func (s *Server) frame(snap *chart.Snapshot, p frameParams) wheel.Frame {
	proj := wheel.NewProjector(s.opts.Wheel)
	proj.Resize(p.size)
	proj.SetChart(snap)
	if p.hover != nil {
		proj.SetHover(p.hover)
	}
	return proj.Frame()
}

func (s *Server) currentChart(w http.ResponseWriter) (*chart.Snapshot, bool) {
	snap := s.state.Chart()
	if snap == nil {
		writeError(w, http.StatusNotFound, "no chart loaded")
		return nil, false
	}
	return snap, true
}

func (s *Server) chartSVG(w http.ResponseWriter, r *http.Request) {
	p, err := s.parseFrameParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	snap, ok := s.currentChart(w)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := render.WriteSVG(&buf, s.frame(snap, p), p.theme); err != nil {
		s.log.Error("render svg: %v", err)
		writeError(w, http.StatusInternalServerError, "render failed")
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Write(buf.Bytes())
}

func (s *Server) chartJSON(w http.ResponseWriter, r *http.Request) {
	p, err := s.parseFrameParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	snap, ok := s.currentChart(w)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.frame(snap, p))
}

func (s *Server) aspects(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.currentChart(w)
	if !ok {
		return
	}
	rows := chart.AspectRows(snap)
	writeJSON(w, http.StatusOK, map[string]any{"count": len(rows), "aspects": rows})
}

// generateRequest also accepts the alternative field names the chart
// service understands.
type generateRequest struct {
	client.Request
	FirstName string `json:"firstName"`
	City      string `json:"city"`
	Location  string `json:"location"`
}

func (g generateRequest) request() client.Request {
	req := g.Request
	if req.Name == "" {
		req.Name = g.FirstName
	}
	if req.Place == "" {
		req.Place = g.City
	}
	if req.Place == "" {
		req.Place = g.Location
	}
	return req
}

func (s *Server) generate(w http.ResponseWriter, r *http.Request) {
	if s.gen == nil {
		writeError(w, http.StatusServiceUnavailable, "chart generation is disabled")
		return
	}

	defer r.Body.Close()
	var body generateRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	res := s.gen.Generate(r.Context(), body.request())
	s.state.Apply(res)
	if res.Err != nil {
		status, msg := errorStatus(res.Err)
		s.log.Warn("generate for %q failed: %v", res.Request.Name, res.Err)
		writeError(w, status, msg)
		return
	}

	if res.RequestID != "" {
		w.Header().Set(client.RequestIDHeader, res.RequestID)
	}
	writeJSON(w, http.StatusOK, res.Snapshot)
}

// errorStatus maps a generate error onto a response status.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, client.ErrMissingField),
		errors.Is(err, client.ErrBadDate),
		errors.Is(err, client.ErrBadTime):
		return http.StatusBadRequest, err.Error()
	}
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500 {
		return apiErr.Status, apiErr.Error()
	}
	return http.StatusBadGateway, err.Error()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// logWriter feeds access log lines into the application logger.
type logWriter struct {
	log *logging.Logger
}

func (lw logWriter) Write(p []byte) (int, error) {
	lw.log.Info("%s", strings.TrimRight(string(p), "\n"))
	return len(p), nil
}

func formatAccess(w io.Writer, p handlers.LogFormatterParams) {
	fmt.Fprintf(w, "%s %s %d %dB %s\n",
		p.Request.Method, p.URL.RequestURI(), p.StatusCode, p.Size, time.Since(p.TimeStamp).Round(time.Millisecond))
}
