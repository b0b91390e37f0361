package service

import (
	"log"

	"github.com/songparty/server/game/player"
	"github.com/songparty/server/game/room"
)

// Broadcaster delivers a message to a subset of a room's connected roster.
// Delivery is best-effort: recipients with no registered transport are
// skipped silently, and failed sends are logged but never retried or
// queued.
type Broadcaster struct {
	players *player.Registry
}

// NewBroadcaster creates a broadcaster over the given connection registry.
func NewBroadcaster(players *player.Registry) *Broadcaster {
	return &Broadcaster{players: players}
}

// ToRoom delivers v to every roster member of r.
func (b *Broadcaster) ToRoom(r *room.Room, v any) {
	for _, username := range r.Roster() {
		b.ToPlayer(username, v)
	}
}

// ToRoomExcept delivers v to every roster member of r except the named
// sender.
func (b *Broadcaster) ToRoomExcept(r *room.Room, except string, v any) {
	for _, username := range r.Roster() {
		if username == except {
			continue
		}
		b.ToPlayer(username, v)
	}
}

// ToPlayer delivers v to a single player, if one is registered under that
// username.
func (b *Broadcaster) ToPlayer(username string, v any) {
	t, ok := b.players.Lookup(username)
	if !ok {
		return
	}
	if err := t.Send(v); err != nil {
		log.Printf("[Broadcaster] Dropped message for %s: %v", username, err)
	}
}
