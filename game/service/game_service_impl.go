package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/songparty/server/game/player"
	"github.com/songparty/server/game/room"
	"github.com/songparty/server/validate"
)

// gameServiceImpl implements the GameService interface over the room and
// player registries.
type gameServiceImpl struct {
	rooms     *room.Registry
	players   *player.Registry
	broadcast *Broadcaster
}

// NewGameService creates a new game service instance.
func NewGameService(rooms *room.Registry, players *player.Registry) GameService {
	return &gameServiceImpl{
		rooms:     rooms,
		players:   players,
		broadcast: NewBroadcaster(players),
	}
}

// SetUsername registers a player identity, replacing any prior transport
// mapping for that username. An empty session token gets a generated one.
// It returns the session token in effect.
func (s *gameServiceImpl) SetUsername(ctx context.Context, username, sessionID string, t player.Transport) (string, error) {
	if err := validate.Username(username); err != nil {
		if t != nil {
			t.Send(ErrorEvent{Event: EventError, Message: err.Error()})
		}
		return "", err
	}

	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	s.players.Register(username, t, sessionID)
	log.Printf("[Game] Registered player %s", username)
	return sessionID, nil
}

// Disconnect removes a player from their current room and unregisters
// their connection. Both steps are no-ops when already done, so a second
// close for the same identity is harmless.
func (s *gameServiceImpl) Disconnect(ctx context.Context, username, roomName string) {
	if username == "" {
		return
	}
	if roomName != "" {
		if r, err := s.rooms.Get(roomName); err == nil {
			if empty := r.Leave(username); empty {
				s.rooms.Delete(roomName)
				log.Printf("[Game] Room %s emptied, deleted", roomName)
			}
		}
	}
	s.players.Unregister(username)
	log.Printf("[Game] Player %s disconnected", username)
}

// CreateRoom registers a new room with the creator as its only roster
// member. Duplicate names are rejected with an explicit error event.
func (s *gameServiceImpl) CreateRoom(ctx context.Context, roomName, createdBy string) error {
	if err := validate.RoomName(roomName); err != nil {
		s.sendError(createdBy, err.Error())
		return err
	}

	if _, err := s.rooms.Create(roomName, createdBy); err != nil {
		s.sendError(createdBy, err.Error())
		return err
	}
	log.Printf("[Game] Room %s created by %s", roomName, createdBy)
	return nil
}

// JoinRoom appends a player to a room's roster. The joiner and the rest of
// the room are notified; an unknown room is reported to the requester only.
func (s *gameServiceImpl) JoinRoom(ctx context.Context, roomName, username string) error {
	r, err := s.rooms.Get(roomName)
	if err != nil {
		s.broadcast.ToPlayer(username, RoomNotFound{
			Event:   EventRoomNotFound,
			Message: "The room does not exist.",
		})
		return err
	}

	roster, err := r.Join(username)
	if err != nil {
		s.sendError(username, err.Error())
		return err
	}

	joined := PlayerJoined{Event: EventPlayerJoined, Player: username}
	s.broadcast.ToRoomExcept(r, username, joined)
	s.broadcast.ToPlayer(username, joined)
	s.broadcast.ToRoom(r, RoomData{Event: EventRoomData, PlayersRoom: roster})

	log.Printf("[Game] Player %s joined room %s (%d players)", username, roomName, len(roster))
	return nil
}

// SendRoomList sends read-only room summaries to the requester.
func (s *gameServiceImpl) SendRoomList(ctx context.Context, username string) {
	s.broadcast.ToPlayer(username, RoomList{Event: EventRoomList, Rooms: s.rooms.List()})
}

// SendRoomData sends one room's roster to the requester.
func (s *gameServiceImpl) SendRoomData(ctx context.Context, roomName, username string) {
	r, err := s.rooms.Get(roomName)
	if err != nil {
		s.broadcast.ToPlayer(username, RoomNotFound{
			Event:   EventRoomNotFound,
			Message: "The room does not exist.",
		})
		return
	}
	s.broadcast.ToPlayer(username, RoomData{Event: EventRoomData, PlayersRoom: r.Roster()})
}

// StartGame moves a room from lobby to the selecting phase and announces
// the start to every roster member.
func (s *gameServiceImpl) StartGame(ctx context.Context, roomName, username string) error {
	r, err := s.rooms.Get(roomName)
	if err != nil {
		s.sendError(username, err.Error())
		return err
	}
	if err := r.Start(); err != nil {
		s.sendError(username, err.Error())
		return err
	}

	s.broadcast.ToRoom(r, TagOnly{Event: EventGameStarted})
	log.Printf("[Game] Room %s started", roomName)
	return nil
}

// SubmitSongs records a player's song selection. The completing submission
// triggers allPlayersSubmitted followed by the shuffled roomSongs queue,
// each broadcast exactly once per room.
func (s *gameServiceImpl) SubmitSongs(ctx context.Context, roomName, username, sessionID string, songs []room.Song) error {
	if err := validate.Songs(songs); err != nil {
		s.sendError(username, err.Error())
		return err
	}

	r, err := s.rooms.Get(roomName)
	if err != nil {
		s.sendError(username, err.Error())
		return err
	}

	res, err := r.Submit(username, sessionID, songs)
	if err != nil {
		s.sendError(username, err.Error())
		return err
	}

	if res.Complete {
		s.broadcast.ToRoom(r, TagOnly{Event: EventAllPlayersSubmitted})
		s.broadcast.ToRoom(r, RoomSongs{Event: EventRoomSongs, Songs: res.Queue})
		log.Printf("[Game] Room %s complete, %d songs queued", roomName, len(res.Queue))
	}
	return nil
}

// AdvanceSong applies a playback advance and echoes nextSong to the room so
// all clients stay in lock-step. The advance that satisfies the end
// condition additionally fires endGame, once. Failed room lookups and
// post-end retransmissions are deliberate no-ops: they must never disturb
// other players' cursors.
func (s *gameServiceImpl) AdvanceSong(ctx context.Context, roomName, sessionID string, songIndex int) error {
	r, err := s.rooms.Get(roomName)
	if err != nil {
		log.Printf("[Game] Advance for unknown room %s ignored", roomName)
		return err
	}

	res, err := r.Advance(sessionID, songIndex)
	if err != nil {
		if errors.Is(err, room.ErrInvalidPhase) {
			return nil
		}
		return err
	}

	if res.Ended {
		s.broadcast.ToRoom(r, TagOnly{Event: EventEndGame})
		log.Printf("[Game] Room %s ended", roomName)
	}
	s.broadcast.ToRoom(r, NextSong{Event: EventNextSong, SongIndex: songIndex})
	return nil
}

// RevealPlayer broadcasts the stateless reveal event to a room.
func (s *gameServiceImpl) RevealPlayer(ctx context.Context, roomName, username string) error {
	return s.tagBroadcast(roomName, username, EventRevealPlayer)
}

// HidePlayer broadcasts the stateless hide event to a room.
func (s *gameServiceImpl) HidePlayer(ctx context.Context, roomName, username string) error {
	return s.tagBroadcast(roomName, username, EventHidePlayer)
}

// Rooms returns read-only summaries of all rooms.
func (s *gameServiceImpl) Rooms(ctx context.Context) []room.Summary {
	return s.rooms.List()
}

// Roster returns one room's roster in join order.
func (s *gameServiceImpl) Roster(ctx context.Context, roomName string) ([]string, error) {
	r, err := s.rooms.Get(roomName)
	if err != nil {
		return nil, err
	}
	return r.Roster(), nil
}

// PruneIdleRooms drops rooms idle for longer than maxAge and returns how
// many were removed.
func (s *gameServiceImpl) PruneIdleRooms(ctx context.Context, maxAge time.Duration) int {
	removed := s.rooms.PruneIdle(maxAge)
	for _, name := range removed {
		log.Printf("[Game] Pruned idle room %s", name)
	}
	return len(removed)
}

// tagBroadcast fans a payload-free event out to a room's roster.
func (s *gameServiceImpl) tagBroadcast(roomName, username, event string) error {
	r, err := s.rooms.Get(roomName)
	if err != nil {
		s.sendError(username, err.Error())
		return err
	}
	s.broadcast.ToRoom(r, TagOnly{Event: event})
	return nil
}

// sendError surfaces a rejection to the requester only.
func (s *gameServiceImpl) sendError(username, message string) {
	s.broadcast.ToPlayer(username, ErrorEvent{Event: EventError, Message: message})
}
