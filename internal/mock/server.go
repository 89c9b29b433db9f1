// Package mock provides a small echo server to exercise the shell
// against without touching the network.
package mock

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Option configures the mock server.
type Option func(*Server)

// WithPort sets the listen port. Port 0 picks a free one.
func WithPort(port int) Option {
	return func(s *Server) { s.port = port }
}

// WithLatency adds artificial latency to every response.
func WithLatency(d time.Duration) Option {
	return func(s *Server) { s.latency = d }
}

// WithCORSOrigin overrides the Access-Control-Allow-Origin header.
func WithCORSOrigin(origin string) Option {
	return func(s *Server) { s.corsOrigin = origin }
}

// WithLogger replaces the default logger.
func WithLogger(log *logrus.Logger) Option {
	return func(s *Server) { s.log = log }
}

// Server is the mock HTTP server.
type Server struct {
	port       int
	latency    time.Duration
	corsOrigin string
	log        *logrus.Logger

	srv  *http.Server
	addr string
}

// New creates a mock server.
func New(opts ...Option) *Server {
	s := &Server{
		port:       8080,
		corsOrigin: "*",
		log:        logrus.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Addr returns the bound address once the server has started.
func (s *Server) Addr() string { return s.addr }

// Start runs the server until the context is cancelled.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.port))
	if err != nil {
		return fmt.Errorf("listening: %w", err)
	}
	s.addr = ln.Addr().String()

	s.srv = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	s.log.WithField("addr", s.addr).Info("mock server listening")

	errCh := make(chan error, 1)
	go func() {
		if err := s.srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

// Handler builds the full handler including CORS, latency, and request
// logging. Exposed for httptest use.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleRoot)
	mux.HandleFunc("/echo", s.handleEcho)
	mux.HandleFunc("/json", s.handleJSON)
	mux.HandleFunc("/status/", s.handleStatus)
	mux.HandleFunc("/delay/", s.handleDelay)
	return s.middleware(mux)
}

func (s *Server) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		if s.latency > 0 {
			time.Sleep(s.latency)
		}

		w.Header().Set("Access-Control-Allow-Origin", s.corsOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "*")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		s.log.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": time.Since(start).String(),
		}).Info("request")
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Hello World",
		"status":  "ok",
		"data": map[string]any{
			"id":    1,
			"name":  "Sample Item",
			"value": 42,
		},
	})
}

func (s *Server) handleEcho(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	headers := make(map[string]string, len(r.Header))
	for k, vals := range r.Header {
		headers[k] = strings.Join(vals, ", ")
	}
	args := make(map[string]string)
	for k, vals := range r.URL.Query() {
		args[k] = strings.Join(vals, ",")
	}

	doc := map[string]any{
		"method":  r.Method,
		"path":    r.URL.Path,
		"args":    args,
		"headers": headers,
		"body":    string(body),
	}

	// Echo parsed JSON alongside the raw body, when it is JSON
	if json.Valid(body) && len(body) > 0 {
		var parsed any
		if err := json.Unmarshal(body, &parsed); err == nil {
			doc["json"] = parsed
		}
	}

	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleJSON(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"users": []map[string]any{
			{"id": 1, "name": "Alice", "email": "alice@example.com", "active": true},
			{"id": 2, "name": "Bob", "email": "bob@example.com", "active": false},
			{"id": 3, "name": "Carol", "email": "carol@example.com", "active": true},
		},
		"total": 3,
		"page":  1,
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	codeStr := strings.TrimPrefix(r.URL.Path, "/status/")
	code, err := strconv.Atoi(codeStr)
	if err != nil || code < 100 || code > 599 {
		http.Error(w, "invalid status code", http.StatusBadRequest)
		return
	}
	w.WriteHeader(code)
	if code >= 200 && code != http.StatusNoContent && code != http.StatusNotModified {
		fmt.Fprintf(w, "%d %s\n", code, http.StatusText(code))
	}
}

func (s *Server) handleDelay(w http.ResponseWriter, r *http.Request) {
	secStr := strings.TrimPrefix(r.URL.Path, "/delay/")
	secs, err := strconv.ParseFloat(secStr, 64)
	if err != nil || secs < 0 || secs > 30 {
		http.Error(w, "invalid delay", http.StatusBadRequest)
		return
	}

	select {
	case <-time.After(time.Duration(secs * float64(time.Second))):
	case <-r.Context().Done():
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"delayed": secs})
}

func writeJSON(w http.ResponseWriter, status int, doc any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(doc)
}
