package mock

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/julienschmidt/httprouter"
)

const maxLogs = 1000

// Server is an in-memory implementation of the movies REST contract
type Server struct {
	config     *Config
	store      *store
	logger     *slog.Logger
	httpServer *http.Server
	listener   net.Listener
	logs       []RequestLog
	logsMutex  sync.RWMutex
}

// NewServer creates a new mock server. A nil logger discards request logs.
func NewServer(config *Config, logger *slog.Logger) *Server {
	if config.Port == 0 {
		config.Port = DefaultPort
	}
	if config.Host == "" {
		config.Host = DefaultHost
	}
	if config.BasePath == "" {
		config.BasePath = DefaultBasePath
	}
	config.BasePath = "/" + strings.Trim(config.BasePath, "/")
	if config.IDStyle == "" {
		config.IDStyle = IDStyleInt
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Server{
		config:   config,
		store:    newStore(config.IDStyle, config.Movies),
		logger:   logger,
		logs:     make([]RequestLog, 0),
	}
}

// Handler returns the routed handler, usable without Start (for example
// behind httptest.NewServer)
func (s *Server) Handler() http.Handler {
	router := httprouter.New()
	router.NotFound = http.HandlerFunc(s.notFoundResponse)
	router.MethodNotAllowed = http.HandlerFunc(s.methodNotAllowedResponse)

	collection := s.config.BasePath
	item := strings.TrimSuffix(collection, "/") + "/:id"

	router.HandlerFunc(http.MethodGet, collection, s.listMoviesHandler)
	router.HandlerFunc(http.MethodPost, collection, s.createMovieHandler)
	router.HandlerFunc(http.MethodGet, item, s.showMovieHandler)
	router.HandlerFunc(http.MethodPut, item, s.updateMovieHandler)
	router.HandlerFunc(http.MethodDelete, item, s.deleteMovieHandler)

	return s.logRequests(s.delay(router))
}

// Start listens on the configured address and serves in the background
func (s *Server) Start() error {
	addr := net.JoinHostPort(s.config.Host, fmt.Sprint(s.config.Port))

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.listener = ln

	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("mock server stopped", "error", err)
		}
	}()

	s.logger.Info("mock server listening", "url", s.URL(), "movies", len(s.store.list()))
	return nil
}

// Stop stops the mock server
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.httpServer.Shutdown(ctx)
}

// address returns the server root address
func (s *Server) address() string {
	if s.listener != nil {
		return "http://" + s.listener.Addr().String()
	}
	return fmt.Sprintf("http://%s", net.JoinHostPort(s.config.Host, fmt.Sprint(s.config.Port)))
}

// URL returns the collection endpoint, suitable as a client base URL
func (s *Server) URL() string {
	return s.address() + s.config.BasePath
}

// BasePath returns the collection path the server routes
func (s *Server) BasePath() string {
	return s.config.BasePath
}

// delay holds every response for the configured latency
func (s *Server) delay(next http.Handler) http.Handler {
	if s.config.Delay <= 0 {
		return next
	}
	d := time.Duration(s.config.Delay) * time.Millisecond
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(d):
		case <-r.Context().Done():
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// logRequests keeps the in-memory request log and writes one line per request
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		var body []byte
		if r.Body != nil {
			body, _ = io.ReadAll(r.Body)
			r.Body.Close()
			r.Body = io.NopCloser(bytes.NewReader(body))
		}

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		entry := RequestLog{
			Timestamp: start,
			Method:    r.Method,
			Path:      r.URL.Path,
			Body:      string(body),
			Status:    rec.status,
			Duration:  time.Since(start),
		}
		s.logRequest(entry)

		if s.config.Logging {
			s.logger.Info("request",
				"method", entry.Method,
				"path", entry.Path,
				"status", entry.Status,
				"duration", entry.Duration,
			)
		}
	})
}

// logRequest adds a request to the log
func (s *Server) logRequest(log RequestLog) {
	s.logsMutex.Lock()
	defer s.logsMutex.Unlock()

	s.logs = append(s.logs, log)

	if len(s.logs) > maxLogs {
		s.logs = s.logs[len(s.logs)-maxLogs:]
	}
}

// Requests returns a copy of the logged requests, oldest first
func (s *Server) Requests() []RequestLog {
	s.logsMutex.RLock()
	defer s.logsMutex.RUnlock()

	logs := make([]RequestLog, len(s.logs))
	copy(logs, s.logs)
	return logs
}

// WriteRequests writes the request log as indented JSON
func (s *Server) WriteRequests(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s.Requests())
}
