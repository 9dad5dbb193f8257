// Package server exposes the analysis pipeline as a JSON HTTP endpoint.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/spiffcs/issuecost/internal/constants"
	"github.com/spiffcs/issuecost/internal/log"
	"github.com/spiffcs/issuecost/internal/model"
	"github.com/spiffcs/issuecost/internal/pipeline"
	"golang.org/x/sync/errgroup"
)

// Routes
const (
	AnalyzePath = "/api/analyze"
	HealthPath  = "/healthz"
)

const (
	msgMethodNotAllowed = "Method not allowed"
	msgInvalidBody      = "Invalid request body"
)

// Analyzer runs the analysis for one repository URL.
type Analyzer interface {
	Run(ctx context.Context, rawURL string, opts ...pipeline.RunOption) (model.Report, error)
}

// Server handles analysis requests.
type Server struct {
	analyzer          Analyzer
	requestTimeout    time.Duration
	readHeaderTimeout time.Duration
}

// Option configures a Server.
type Option func(*Server)

// WithRequestTimeout bounds the time spent on one analysis.
func WithRequestTimeout(d time.Duration) Option {
	return func(s *Server) {
		s.requestTimeout = d
	}
}

// WithReadHeaderTimeout bounds reading request headers.
func WithReadHeaderTimeout(d time.Duration) Option {
	return func(s *Server) {
		s.readHeaderTimeout = d
	}
}

// New creates a Server.
func New(analyzer Analyzer, opts ...Option) *Server {
	s := &Server{
		analyzer:          analyzer,
		requestTimeout:    constants.DefaultRequestTimeout,
		readHeaderTimeout: constants.DefaultReadHeaderTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routed handler with request IDs and access logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(AnalyzePath, s.handleAnalyze)
	mux.HandleFunc(HealthPath, s.handleHealth)
	return withRequestID(withAccessLog(mux))
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled. Request contexts
// derive from ctx, so cancellation also stops running analyses before the
// server drains.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: s.readHeaderTimeout,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

type analyzeRequest struct {
	RepoURL string `json:"repoUrl"`
}

type analyzeResponse struct {
	CSV     string         `json:"csv"`
	Summary *model.Summary `json:"summary,omitempty"`
	Message string         `json:"message,omitempty"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: msgMethodNotAllowed})
		return
	}

	var req analyzeRequest
	body := http.MaxBytesReader(w, r.Body, constants.MaxRequestBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		log.Debug("invalid request body", "request_id", requestIDFrom(r.Context()), "error", err)
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: msgInvalidBody})
		return
	}

	ctx := r.Context()
	if s.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.requestTimeout)
		defer cancel()
	}

	rep, err := s.analyzer.Run(ctx, req.RepoURL)
	if err != nil {
		status, resp := errorFor(err)
		log.Warn("analysis failed", "request_id", requestIDFrom(r.Context()),
			"repo_url", req.RepoURL, "kind", pipeline.KindOf(err), "error", err)
		writeJSON(w, status, resp)
		return
	}

	if rep.Empty {
		writeJSON(w, http.StatusOK, analyzeResponse{CSV: rep.CSV, Message: constants.NoIssuesMessage})
		return
	}

	summary := rep.Summary
	writeJSON(w, http.StatusOK, analyzeResponse{CSV: rep.CSV, Summary: &summary})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: msgMethodNotAllowed})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// errorFor maps a pipeline failure onto a status code and response body.
func errorFor(err error) (int, errorResponse) {
	var pe *pipeline.Error
	if !errors.As(err, &pe) {
		return http.StatusInternalServerError, errorResponse{Error: pipeline.MsgProcessing, Details: err.Error()}
	}

	switch pe.Kind {
	case pipeline.KindClientInput:
		return http.StatusBadRequest, errorResponse{Error: pe.Message}
	case pipeline.KindConfiguration:
		return http.StatusInternalServerError, errorResponse{Error: pe.Message}
	case pipeline.KindNotFound:
		return http.StatusNotFound, errorResponse{Error: pe.Message}
	case pipeline.KindRateLimited:
		return http.StatusForbidden, errorResponse{Error: pe.Message}
	default:
		details := pe.Details()
		if details == "" {
			details = pe.Message
		}
		return http.StatusInternalServerError, errorResponse{Error: pipeline.MsgProcessing, Details: details}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Debug("failed to write response", "error", err)
	}
}
