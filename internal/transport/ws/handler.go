package ws

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"hatgame/internal/app"
)

// RateLimit bounds inbound messages per connection
type RateLimit struct {
	PerSecond float64
	Burst     int
}

// Handler handles WebSocket connections
type Handler struct {
	gateway  *app.Gateway
	upgrader websocket.Upgrader
	limit    RateLimit
	logger   *slog.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(gateway *app.Gateway, limit RateLimit, logger *slog.Logger) *Handler {
	return &Handler{
		gateway: gateway,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// Allow all origins for development
				// In production, you should validate the origin
				return true
			},
		},
		limit:  limit,
		logger: logger,
	}
}

// ServeHTTP handles WebSocket upgrade requests. Rooms are chosen after the
// upgrade through joinRoom or checkSession messages.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	id := uuid.NewString()
	limiter := rate.NewLimiter(rate.Limit(h.limit.PerSecond), h.limit.Burst)
	client := NewClient(id, conn, h.gateway, limiter, h.logger)

	h.logger.Info("websocket connected", "conn", id, "remote", r.RemoteAddr)

	client.Run()

	h.logger.Info("websocket disconnected", "conn", id)
}
