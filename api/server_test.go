package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/songparty/server/game/player"
	"github.com/songparty/server/game/room"
	"github.com/songparty/server/game/service"
	"github.com/songparty/server/transport/websocket"
)

type nullTransport struct{}

func (nullTransport) Send(v any) error { return nil }

func testServer(t *testing.T) (*Server, service.GameService) {
	t.Helper()
	rooms := room.NewRegistry(nil)
	players := player.NewRegistry()
	svc := service.NewGameService(rooms, players)
	hub := websocket.NewHub(svc, players, nil)
	return NewServer(svc, hub), svc
}

func get(t *testing.T, srv *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	srv, _ := testServer(t)

	rec := get(t, srv, "/api/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Bad JSON: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("Expected status ok, got %v", body["status"])
	}
}

func TestListRooms(t *testing.T) {
	srv, svc := testServer(t)
	ctx := context.Background()

	svc.SetUsername(ctx, "alice", "tok-a", nullTransport{})
	svc.CreateRoom(ctx, "party", "alice")

	rec := get(t, srv, "/api/rooms")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var body struct {
		Rooms []room.Summary `json:"rooms"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Bad JSON: %v", err)
	}
	if len(body.Rooms) != 1 {
		t.Fatalf("Expected 1 room, got %d", len(body.Rooms))
	}
	if s := body.Rooms[0]; s.RoomName != "party" || s.CreatedBy != "alice" || s.PlayerCount != 1 {
		t.Errorf("Bad summary: %+v", s)
	}
}

func TestGetRoomRoster(t *testing.T) {
	srv, svc := testServer(t)
	ctx := context.Background()

	svc.SetUsername(ctx, "alice", "tok-a", nullTransport{})
	svc.SetUsername(ctx, "bob", "tok-b", nullTransport{})
	svc.CreateRoom(ctx, "party", "alice")
	svc.JoinRoom(ctx, "party", "bob")

	rec := get(t, srv, "/api/rooms/party")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var body struct {
		RoomName    string   `json:"roomName"`
		PlayersRoom []string `json:"playersRoom"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Bad JSON: %v", err)
	}
	if body.RoomName != "party" {
		t.Errorf("Expected roomName party, got %q", body.RoomName)
	}
	if len(body.PlayersRoom) != 2 || body.PlayersRoom[0] != "alice" || body.PlayersRoom[1] != "bob" {
		t.Errorf("Bad roster: %v", body.PlayersRoom)
	}
}

func TestGetRoomNotFound(t *testing.T) {
	srv, _ := testServer(t)

	rec := get(t, srv, "/api/rooms/ghost")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("Expected 404, got %d", rec.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Bad JSON: %v", err)
	}
	if body["error"] == "" {
		t.Error("Missing error message")
	}
}

func TestRoomsRouteRejectsPost(t *testing.T) {
	srv, _ := testServer(t)

	req := httptest.NewRequest("POST", "/api/rooms", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405, got %d", rec.Code)
	}
}
