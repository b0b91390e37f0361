package service

import "github.com/songparty/server/game/room"

// Outbound event tags. One message on the wire is one JSON object carrying
// an "event" tag plus tag-specific fields.
const (
	EventPlayerJoined        = "playerJoined"
	EventRoomData            = "getRoomDataResponse"
	EventRoomNotFound        = "roomNotFound"
	EventRoomList            = "roomList"
	EventGameStarted         = "gameStarted"
	EventAllPlayersSubmitted = "allPlayersSubmitted"
	EventRoomSongs           = "roomSongs"
	EventNextSong            = "nextSong"
	EventEndGame             = "endGame"
	EventRevealPlayer        = "revealPlayer"
	EventHidePlayer          = "hidePlayer"
	EventError               = "error"
)

// TagOnly is an outbound message with no payload beyond its event tag.
type TagOnly struct {
	Event string `json:"event"`
}

// PlayerJoined announces a new roster member to a room.
type PlayerJoined struct {
	Event  string `json:"event"`
	Player string `json:"player"`
}

// RoomData carries a room's roster in join order.
type RoomData struct {
	Event       string   `json:"event"`
	PlayersRoom []string `json:"playersRoom"`
}

// RoomNotFound tells a requester the named room does not exist.
type RoomNotFound struct {
	Event   string `json:"event"`
	Message string `json:"message"`
}

// RoomList carries read-only summaries of all rooms.
type RoomList struct {
	Event string         `json:"event"`
	Rooms []room.Summary `json:"rooms"`
}

// RoomSongs carries the shuffled combined song queue.
type RoomSongs struct {
	Event string            `json:"event"`
	Songs []*room.SongEntry `json:"songs"`
}

// NextSong echoes a playback advance so every client stays in lock-step.
type NextSong struct {
	Event     string `json:"event"`
	SongIndex int    `json:"songIndex"`
}

// ErrorEvent carries an explicit rejection to the requester only.
type ErrorEvent struct {
	Event   string `json:"event"`
	Message string `json:"message"`
}
