package service

import (
	"context"
	"time"

	"github.com/songparty/server/game/player"
	"github.com/songparty/server/game/room"
)

// GameService defines all game operations. The mutating methods map one to
// one onto inbound wire events and must be called from the transport's
// event loop; the view methods are safe from any goroutine.
type GameService interface {
	// Connection lifecycle
	SetUsername(ctx context.Context, username, sessionID string, t player.Transport) (string, error)
	Disconnect(ctx context.Context, username, roomName string)

	// Room lifecycle
	CreateRoom(ctx context.Context, roomName, createdBy string) error
	JoinRoom(ctx context.Context, roomName, username string) error
	SendRoomList(ctx context.Context, username string)
	SendRoomData(ctx context.Context, roomName, username string)

	// Game protocol
	StartGame(ctx context.Context, roomName, username string) error
	SubmitSongs(ctx context.Context, roomName, username, sessionID string, songs []room.Song) error
	AdvanceSong(ctx context.Context, roomName, sessionID string, songIndex int) error
	RevealPlayer(ctx context.Context, roomName, username string) error
	HidePlayer(ctx context.Context, roomName, username string) error

	// Read-only views
	Rooms(ctx context.Context) []room.Summary
	Roster(ctx context.Context, roomName string) ([]string, error)
	PruneIdleRooms(ctx context.Context, maxAge time.Duration) int
}
