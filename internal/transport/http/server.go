package http

import (
	"bufio"
	"context"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"hatgame/internal/app"
	"hatgame/internal/config"
	"hatgame/internal/transport/ws"
)

// Server serves the REST API, the websocket endpoint and the embedded client
type Server struct {
	server   *http.Server
	registry *app.RoomRegistry
	gateway  *app.Gateway
	config   *config.Config
	logger   *slog.Logger
	webFS    fs.FS
}

// NewServer creates a new HTTP server. webFS holds index.html and static/ at
// its root.
func NewServer(cfg *config.Config, registry *app.RoomRegistry, gateway *app.Gateway, logger *slog.Logger, webFS fs.FS) *Server {
	s := &Server{
		registry: registry,
		gateway:  gateway,
		config:   cfg,
		logger:   logger,
		webFS:    webFS,
	}

	mux := http.NewServeMux()
	s.routes(mux)

	s.server = &http.Server{
		Addr:         cfg.GetAddr(),
		Handler:      s.middleware(mux),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler returns the routed handler with middleware applied
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

func (s *Server) routes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/rooms", s.handleCreateRoom)
	mux.HandleFunc("GET /api/rooms/{room}", s.handleGetRoom)
	mux.HandleFunc("GET /api/rooms/{room}/exists", s.handleRoomExists)
	mux.HandleFunc("GET /api/rooms/{room}/qr", s.handleRoomQR)
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/stats", s.handleStats)

	mux.Handle("GET /ws", ws.NewHandler(s.gateway, ws.RateLimit{
		PerSecond: s.config.RateLimit.MessagesPerSecond,
		Burst:     s.config.RateLimit.Burst,
	}, s.logger))

	mux.HandleFunc("GET /static/", s.handleStatic)
	mux.HandleFunc("GET /", s.handleSPA)
}

// middleware applies CORS and request logging to every route
func (s *Server) middleware(next http.Handler) http.Handler {
	return withCORS(s.logRequests(next))
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// logRequests logs API, websocket and page requests. Static assets are only
// logged in development.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		if !s.config.IsDevelopment() && strings.HasPrefix(r.URL.Path, "/static/") {
			return
		}
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}

// Start listens until Shutdown is called
func (s *Server) Start() error {
	s.logger.Info("server starting", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("server shutting down")
	return s.server.Shutdown(ctx)
}

// statusRecorder remembers the response status. It passes Hijack and Flush
// through so the websocket upgrade still works behind it.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

func (rec *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := rec.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, http.ErrNotSupported
	}
	return hijacker.Hijack()
}

func (rec *statusRecorder) Flush() {
	if flusher, ok := rec.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}
