package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/songparty/server/game/room"
	"github.com/songparty/server/game/service"
	"github.com/songparty/server/transport/websocket"
)

// Server is the HTTP server: WebSocket upgrades plus read-only REST views.
type Server struct {
	service service.GameService
	hub     *websocket.Hub
	router  *mux.Router
}

// NewServer creates a new API server.
func NewServer(gameService service.GameService, hub *websocket.Hub) *Server {
	s := &Server{
		service: gameService,
		hub:     hub,
		router:  mux.NewRouter(),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all routes.
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/rooms", s.handleListRooms).Methods("GET")
	api.HandleFunc("/rooms/{name}", s.handleGetRoom).Methods("GET")
	api.HandleFunc("/health", s.handleHealth).Methods("GET")

	// WebSocket
	s.router.HandleFunc("/ws", s.hub.ServeWS)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Response helpers

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// handleListRooms returns summaries of all rooms.
func (s *Server) handleListRooms(w http.ResponseWriter, r *http.Request) {
	summaries := s.service.Rooms(r.Context())
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"rooms": summaries,
	})
}

// handleGetRoom returns one room's roster.
func (s *Server) handleGetRoom(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	roster, err := s.service.Roster(r.Context(), name)
	if err != nil {
		if errors.Is(err, room.ErrRoomNotFound) {
			respondError(w, http.StatusNotFound, "room not found")
			return
		}
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"roomName":    name,
		"playersRoom": roster,
	})
}

// handleHealth reports liveness with basic counts.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"rooms":  len(s.service.Rooms(r.Context())),
	})
}
