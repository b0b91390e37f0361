// Package room provides the core state for the Song Party game.
//
// The room package implements:
//   - The Room aggregate: roster, song ledger, and lifecycle phase
//   - The phase state machine (lobby -> selecting -> playing -> ended)
//   - Song submission aggregation and the uniform queue shuffle
//   - Per-player playback cursors and the synchronized end condition
//   - The Registry mapping room names to live rooms
//
// Core Types:
//
// Room is the aggregate for one named game session. Registry owns all rooms
// and enforces the "room exists iff roster is non-empty" invariant: a room is
// created with its creator as the only roster member and is deleted the
// instant the last member leaves.
//
// Phase Machine:
//
// A room starts in PhaseLobby, where players may join. Start moves it to
// PhaseSelecting, where each player submits a song list. Once every roster
// member has submitted, the combined queue is shuffled and the room moves to
// PhasePlaying. When every player has advanced through their whole list the
// room reaches PhaseEnded, which is terminal.
//
// Usage:
//
//	reg := room.NewRegistry(nil)
//	r, err := reg.Create("friday-night", "alice")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	roster, err := r.Join("bob")
//	// ...
//
// Concurrency:
//
// All mutations are expected to arrive from a single event loop, which gives
// them a total order. Rooms and the registry still guard their state with
// RWMutexes because read-only views (REST and MCP) are served from other
// goroutines.
package room
