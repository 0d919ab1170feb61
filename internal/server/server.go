/*
 * MIT License
 *
 * Copyright (c) 2026 Nguyen Thanh Phuong
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/phuonguno98/idlerun/internal/monitor"
	"github.com/phuonguno98/idlerun/pkg/version"
)

// StatusBoard holds the latest round published by the sampling loop.
// It implements monitor.StatusSink.
type StatusBoard struct {
	mu     sync.RWMutex
	status monitor.Status
	seen   bool
}

// Publish stores a copy of st.
func (b *StatusBoard) Publish(st monitor.Status) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.status = st
	b.seen = true
}

// Latest returns the last published status and whether one exists yet.
func (b *StatusBoard) Latest() (monitor.Status, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.status, b.seen
}

// Thresholds describes the configured hysteresis band in percent.
type Thresholds struct {
	Low   float64 `json:"low_percent"`
	Alarm float64 `json:"alarm_percent"`
}

// statusResponse is the body of GET /api/status.
type statusResponse struct {
	RunID      string          `json:"run_id"`
	StartedAt  time.Time       `json:"started_at"`
	Thresholds Thresholds      `json:"thresholds"`
	Ready      bool            `json:"ready"`
	Status     *monitor.Status `json:"status,omitempty"`
}

// Server exposes the monitor state over HTTP.
type Server struct {
	board      *StatusBoard
	thresholds Thresholds
	runID      string
	startedAt  time.Time
	logger     *slog.Logger
	router     *mux.Router
}

// NewServer creates a status server reading from board.
func NewServer(board *StatusBoard, thresholds Thresholds, logger *slog.Logger) *Server {
	s := &Server{
		board:      board,
		thresholds: thresholds,
		runID:      uuid.New().String(),
		startedAt:  time.Now(),
		logger:     logger,
		router:     mux.NewRouter(),
	}

	s.setupRoutes()

	return s
}

// RunID identifies this process run.
func (s *Server) RunID() string {
	return s.runID
}

func (s *Server) setupRoutes() {
	s.router.Use(s.loggingMiddleware)

	s.router.HandleFunc("/healthz", s.handleHealth).Methods("GET")
	s.router.HandleFunc("/api/status", s.handleGetStatus).Methods("GET")
	s.router.HandleFunc("/api/version", s.handleGetVersion).Methods("GET")
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start),
		)
	})
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, map[string]string{"status": "ok"})
}

// handleGetStatus returns the latest sampling round.
func (s *Server) handleGetStatus(w http.ResponseWriter, _ *http.Request) {
	resp := statusResponse{
		RunID:      s.runID,
		StartedAt:  s.startedAt,
		Thresholds: s.thresholds,
	}

	if st, ok := s.board.Latest(); ok {
		resp.Ready = true
		resp.Status = &st
	}

	s.writeJSON(w, resp)
}

// handleGetVersion returns version information from the version package.
func (s *Server) handleGetVersion(w http.ResponseWriter, _ *http.Request) {
	versionInfo := map[string]string{
		"version": version.Version,
		"commit":  version.Commit,
		"date":    version.Date,
	}
	s.writeJSON(w, versionInfo)
}

func (s *Server) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("Failed to write JSON response", "error", err)
	}
}
