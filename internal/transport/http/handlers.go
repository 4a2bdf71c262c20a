package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/skip2/go-qrcode"

	"hatgame/internal/app"
	"hatgame/internal/domain"
)

const qrSize = 256

// Response is a standard API response
type Response struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorInfo `json:"error,omitempty"`
}

// ErrorInfo contains error details
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// CreateRoomResponse is the response for room creation
type CreateRoomResponse struct {
	RoomName   string `json:"roomName"`
	InviteLink string `json:"inviteLink"`
	QRCode     string `json:"qrCode"`
}

// GetRoomResponse is the response for getting room info
type GetRoomResponse struct {
	RoomName    string `json:"roomName"`
	PlayerCount int    `json:"playerCount"`
	Connected   int    `json:"connectedCount"`
	Phase       string `json:"phase"`
	CanJoin     bool   `json:"canJoin"`
}

// RoomExistsResponse is the response for checking if room exists
type RoomExistsResponse struct {
	Exists bool `json:"exists"`
}

// HealthResponse is the response for health check
type HealthResponse struct {
	Status string `json:"status"`
}

// handleCreateRoom handles POST /api/rooms
func (s *Server) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	room, err := s.registry.Create()
	if err != nil {
		s.logger.Error("failed to create room", "error", err)
		s.sendError(w, http.StatusInternalServerError, "CREATION_FAILED", "Failed to create room")
		return
	}

	name := room.Name()
	s.sendSuccess(w, &CreateRoomResponse{
		RoomName:   name,
		InviteLink: s.inviteLink(r, name),
		QRCode:     "/api/rooms/" + url.PathEscape(name) + "/qr",
	})
}

// handleGetRoom handles GET /api/rooms/{room}
func (s *Server) handleGetRoom(w http.ResponseWriter, r *http.Request) {
	room, ok := s.lookupRoom(w, r)
	if !ok {
		return
	}

	s.sendSuccess(w, &GetRoomResponse{
		RoomName:    room.Name(),
		PlayerCount: room.GetPlayerCount(),
		Connected:   room.GetConnectedCount(),
		Phase:       string(room.GetPhase()),
		CanJoin:     room.CanJoin(),
	})
}

// handleRoomExists handles GET /api/rooms/{room}/exists
func (s *Server) handleRoomExists(w http.ResponseWriter, r *http.Request) {
	name, err := domain.NormalizeRoomName(r.PathValue("room"))
	if err != nil {
		s.sendSuccess(w, &RoomExistsResponse{Exists: false})
		return
	}

	_, err = s.registry.Get(name)
	s.sendSuccess(w, &RoomExistsResponse{Exists: err == nil})
}

// handleRoomQR renders the room's invite link as a PNG
func (s *Server) handleRoomQR(w http.ResponseWriter, r *http.Request) {
	room, ok := s.lookupRoom(w, r)
	if !ok {
		return
	}

	png, err := qrcode.Encode(s.inviteLink(r, room.Name()), qrcode.Medium, qrSize)
	if err != nil {
		s.logger.Error("qr generation failed", "room", room.Name(), "error", err)
		s.sendError(w, http.StatusInternalServerError, "QR_FAILED", "Failed to generate QR code")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(png)
}

// handleHealth handles GET /api/health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.sendSuccess(w, &HealthResponse{
		Status: "ok",
	})
}

// handleStats handles GET /api/stats
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats := s.registry.Stats()
	s.sendSuccess(w, &stats)
}

// handleStatic serves static files
func (s *Server) handleStatic(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/static/")

	file, err := s.webFS.Open("static/" + path)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil || stat.IsDir() {
		http.NotFound(w, r)
		return
	}

	seeker, ok := file.(io.ReadSeeker)
	if !ok {
		http.NotFound(w, r)
		return
	}
	http.ServeContent(w, r, stat.Name(), stat.ModTime(), seeker)
}

// handleSPA serves index.html for every other route so the client can
// handle paths like /join/{room}
func (s *Server) handleSPA(w http.ResponseWriter, r *http.Request) {
	file, err := s.webFS.Open("index.html")
	if err != nil {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}

	seeker, ok := file.(io.ReadSeeker)
	if !ok {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	http.ServeContent(w, r, "index.html", stat.ModTime(), seeker)
}

func (s *Server) lookupRoom(w http.ResponseWriter, r *http.Request) (*app.RoomSession, bool) {
	name, err := domain.NormalizeRoomName(r.PathValue("room"))
	if err != nil {
		s.sendError(w, http.StatusBadRequest, domain.ErrInvalidRoomName.Code, domain.ErrInvalidRoomName.Message)
		return nil, false
	}

	room, err := s.registry.Get(name)
	if err != nil {
		if errors.Is(err, domain.ErrRoomNotFound) {
			s.sendError(w, http.StatusNotFound, domain.ErrRoomNotFound.Code, "Room not found")
		} else {
			s.sendError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
		}
		return nil, false
	}
	return room, true
}

// inviteLink builds the join URL, preferring the configured public URL
func (s *Server) inviteLink(r *http.Request, roomName string) string {
	base := strings.TrimSuffix(s.config.Server.PublicURL, "/")
	if base == "" {
		scheme := "http"
		if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
			scheme = "https"
		}
		base = scheme + "://" + r.Host
	}
	return base + "/join/" + url.PathEscape(roomName)
}

// sendSuccess sends a successful JSON response
func (s *Server) sendSuccess(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(&Response{
		Success: true,
		Data:    data,
	})
}

// sendError sends an error JSON response
func (s *Server) sendError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(&Response{
		Success: false,
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
		},
	})
}
