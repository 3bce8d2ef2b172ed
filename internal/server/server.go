package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/TobiSchelling/moodmap/internal/logger"
	"github.com/TobiSchelling/moodmap/internal/output"
	"github.com/TobiSchelling/moodmap/internal/pipeline"
	"github.com/TobiSchelling/moodmap/internal/resolve"
)

const maxRequestBytes = 1 << 16

// Runner runs the pipeline for a query.
type Runner interface {
	Run(ctx context.Context, query string) (*pipeline.Result, error)
	RunWithoutWrite(ctx context.Context, query string) (*pipeline.Result, error)
}

// Server is the HTTP API in front of the pipeline.
type Server struct {
	runner     Runner
	outputPath string
	log        *zap.SugaredLogger
	mux        *http.ServeMux

	// runMu serializes pipeline runs so the geocoder never sees two at once.
	runMu sync.Mutex
}

type analyzeRequest struct {
	Query  string `json:"query"`
	DryRun bool   `json:"dry_run"`
}

// New creates a new Server. outputPath is the file served by /api/emotion.
func New(runner Runner, outputPath string, log *zap.SugaredLogger) *Server {
	s := &Server{
		runner:     runner,
		outputPath: outputPath,
		log:        logger.OrNop(log),
		mux:        http.NewServeMux(),
	}
	s.routes()
	return s
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) routes() {
	s.mux.HandleFunc("POST /api/happiness", s.handleAnalyze)
	s.mux.HandleFunc("POST /analyze", s.handleAnalyze)
	s.mux.HandleFunc("GET /api/emotion", s.handleEmotion)
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	s.log.Infof("Received query: %q", req.Query)

	s.runMu.Lock()
	defer s.runMu.Unlock()

	run := s.runner.Run
	if req.DryRun {
		run = s.runner.RunWithoutWrite
	}
	result, err := run(r.Context(), req.Query)
	switch {
	case errors.Is(err, pipeline.ErrEmptyQuery):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		s.log.Errorf("Pipeline failed for %q: %v", req.Query, err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	records := result.Records
	if records == nil {
		records = []resolve.GeoRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleEmotion(w http.ResponseWriter, r *http.Request) {
	records, err := output.Read(s.outputPath)
	if err != nil {
		s.log.Errorf("Reading %s: %v", s.outputPath, err)
		writeError(w, http.StatusInternalServerError, "could not read results")
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, "ok")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// Serve listens on addr until ctx is cancelled, then shuts down gracefully.
func Serve(ctx context.Context, s *Server, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Infof("Server listening on http://%s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
