package websocket

import (
	"context"
	"encoding/json"
	"log"

	"github.com/songparty/server/game/room"
	"github.com/songparty/server/game/service"
)

// EventType tags an inbound wire message.
type EventType string

const (
	EventSetUsername  EventType = "setUsername"
	EventCreateRoom   EventType = "createRoom"
	EventJoinRoom     EventType = "joinRoom"
	EventGetRooms     EventType = "getRooms"
	EventGetRoomData  EventType = "getRoomData"
	EventStartGame    EventType = "startGame"
	EventSendSong     EventType = "sendSong"
	EventNextSong     EventType = "nextSong"
	EventRevealPlayer EventType = "revealPlayer"
	EventHidePlayer   EventType = "hidePlayer"
)

// envelope is the common shape of every inbound message.
type envelope struct {
	Event EventType `json:"event"`
}

// Inbound payloads, one per event tag.

type setUsernamePayload struct {
	Username  string `json:"username"`
	SessionID string `json:"sessionId"`
}

type createRoomPayload struct {
	RoomName  string `json:"roomName"`
	CreatedBy string `json:"createdBy"`
}

type joinRoomPayload struct {
	RoomName string `json:"roomName"`
	Username string `json:"username"`
}

type roomNamePayload struct {
	RoomName string `json:"roomName"`
}

type sendSongPayload struct {
	RoomName      string      `json:"roomName"`
	SelectedSongs []room.Song `json:"selectedSongs"`
	SessionID     string      `json:"sessionId"`
}

type nextSongPayload struct {
	RoomName  string `json:"roomName"`
	SongIndex int    `json:"songIndex"`
	SessionID string `json:"sessionId"`
}

// handlerFunc processes one decoded inbound message for one connection.
type handlerFunc func(ctx context.Context, c *Client, data []byte)

// EventRouter maps inbound event tags to handlers. Unknown tags and
// malformed payloads are dropped without closing the connection; the
// router holds no game state of its own.
type EventRouter struct {
	svc      service.GameService
	handlers map[EventType]handlerFunc
}

// NewEventRouter builds the dispatch table over the given service.
func NewEventRouter(svc service.GameService) *EventRouter {
	r := &EventRouter{svc: svc}
	r.handlers = map[EventType]handlerFunc{
		EventSetUsername:  r.handleSetUsername,
		EventCreateRoom:   r.handleCreateRoom,
		EventJoinRoom:     r.handleJoinRoom,
		EventGetRooms:     r.handleGetRooms,
		EventGetRoomData:  r.handleGetRoomData,
		EventStartGame:    r.handleStartGame,
		EventSendSong:     r.handleSendSong,
		EventNextSong:     r.handleNextSong,
		EventRevealPlayer: r.handleRevealPlayer,
		EventHidePlayer:   r.handleHidePlayer,
	}
	return r
}

// Dispatch decodes the envelope and routes to the matching handler. A
// payload that fails to parse is dropped and the connection stays open.
func (r *EventRouter) Dispatch(ctx context.Context, c *Client, data []byte) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		log.Printf("[Router] Dropped malformed message on %s: %v", c.id, err)
		return
	}

	handler, ok := r.handlers[env.Event]
	if !ok {
		log.Printf("[Router] Dropped unknown event %q on %s", env.Event, c.id)
		return
	}
	handler(ctx, c, data)
}

func (r *EventRouter) handleSetUsername(ctx context.Context, c *Client, data []byte) {
	var p setUsernamePayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Printf("[Router] Dropped malformed setUsername on %s: %v", c.id, err)
		return
	}

	token, err := r.svc.SetUsername(ctx, p.Username, p.SessionID, c)
	if err != nil {
		return
	}
	c.username = p.Username
	c.sessionID = token
}

func (r *EventRouter) handleCreateRoom(ctx context.Context, c *Client, data []byte) {
	var p createRoomPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Printf("[Router] Dropped malformed createRoom on %s: %v", c.id, err)
		return
	}
	if c.room != "" {
		c.Send(service.ErrorEvent{Event: service.EventError, Message: "already in a room"})
		return
	}

	if err := r.svc.CreateRoom(ctx, p.RoomName, p.CreatedBy); err != nil {
		return
	}
	c.room = p.RoomName
	if c.username == "" {
		c.username = p.CreatedBy
	}
}

func (r *EventRouter) handleJoinRoom(ctx context.Context, c *Client, data []byte) {
	var p joinRoomPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Printf("[Router] Dropped malformed joinRoom on %s: %v", c.id, err)
		return
	}
	if c.room != "" {
		c.Send(service.ErrorEvent{Event: service.EventError, Message: "already in a room"})
		return
	}

	if err := r.svc.JoinRoom(ctx, p.RoomName, p.Username); err != nil {
		return
	}
	c.room = p.RoomName
	if c.username == "" {
		c.username = p.Username
	}
}

func (r *EventRouter) handleGetRooms(ctx context.Context, c *Client, data []byte) {
	r.svc.SendRoomList(ctx, c.username)
}

func (r *EventRouter) handleGetRoomData(ctx context.Context, c *Client, data []byte) {
	var p roomNamePayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Printf("[Router] Dropped malformed getRoomData on %s: %v", c.id, err)
		return
	}
	r.svc.SendRoomData(ctx, p.RoomName, c.username)
}

func (r *EventRouter) handleStartGame(ctx context.Context, c *Client, data []byte) {
	var p roomNamePayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Printf("[Router] Dropped malformed startGame on %s: %v", c.id, err)
		return
	}
	r.svc.StartGame(ctx, p.RoomName, c.username)
}

func (r *EventRouter) handleSendSong(ctx context.Context, c *Client, data []byte) {
	var p sendSongPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Printf("[Router] Dropped malformed sendSong on %s: %v", c.id, err)
		return
	}

	token := p.SessionID
	if token == "" {
		token = c.sessionID
	}
	r.svc.SubmitSongs(ctx, p.RoomName, c.username, token, p.SelectedSongs)
}

func (r *EventRouter) handleNextSong(ctx context.Context, c *Client, data []byte) {
	var p nextSongPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Printf("[Router] Dropped malformed nextSong on %s: %v", c.id, err)
		return
	}

	token := p.SessionID
	if token == "" {
		token = c.sessionID
	}
	r.svc.AdvanceSong(ctx, p.RoomName, token, p.SongIndex)
}

func (r *EventRouter) handleRevealPlayer(ctx context.Context, c *Client, data []byte) {
	var p roomNamePayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Printf("[Router] Dropped malformed revealPlayer on %s: %v", c.id, err)
		return
	}
	r.svc.RevealPlayer(ctx, p.RoomName, c.username)
}

func (r *EventRouter) handleHidePlayer(ctx context.Context, c *Client, data []byte) {
	var p roomNamePayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Printf("[Router] Dropped malformed hidePlayer on %s: %v", c.id, err)
		return
	}
	r.svc.HidePlayer(ctx, p.RoomName, c.username)
}
