package service_test

import (
	"context"
	"encoding/json"
	"math/rand"
	"testing"
	"time"

	"github.com/songparty/server/game/player"
	"github.com/songparty/server/game/room"
	"github.com/songparty/server/game/service"
)

// fakeConn implements player.Transport and records every message sent.
type fakeConn struct {
	msgs []any
}

func (f *fakeConn) Send(v any) error {
	f.msgs = append(f.msgs, v)
	return nil
}

// tags returns the event tag of every recorded message, in order.
func (f *fakeConn) tags() []string {
	result := make([]string, 0, len(f.msgs))
	for _, m := range f.msgs {
		data, _ := json.Marshal(m)
		var env struct {
			Event string `json:"event"`
		}
		json.Unmarshal(data, &env)
		result = append(result, env.Event)
	}
	return result
}

// count returns how many recorded messages carry the given event tag.
func (f *fakeConn) count(tag string) int {
	n := 0
	for _, got := range f.tags() {
		if got == tag {
			n++
		}
	}
	return n
}

func newTestService(t *testing.T) service.GameService {
	t.Helper()
	rooms := room.NewRegistry(rand.New(rand.NewSource(7)))
	players := player.NewRegistry()
	return service.NewGameService(rooms, players)
}

// register connects a fake player and returns its recording transport.
func register(t *testing.T, svc service.GameService, name string) *fakeConn {
	t.Helper()
	conn := &fakeConn{}
	if _, err := svc.SetUsername(context.Background(), name, "tok-"+name, conn); err != nil {
		t.Fatalf("SetUsername(%s) failed: %v", name, err)
	}
	return conn
}

func pick(titles ...string) []room.Song {
	result := make([]room.Song, 0, len(titles))
	for _, title := range titles {
		result = append(result, room.Song{Title: title})
	}
	return result
}

func TestFullGameScenario(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	alice := register(t, svc, "alice")
	bob := register(t, svc, "bob")

	if err := svc.CreateRoom(ctx, "R", "alice"); err != nil {
		t.Fatalf("CreateRoom failed: %v", err)
	}
	if err := svc.JoinRoom(ctx, "R", "bob"); err != nil {
		t.Fatalf("JoinRoom failed: %v", err)
	}

	// The joiner and the rest of the room both hear about the join.
	if alice.count(service.EventPlayerJoined) != 1 {
		t.Errorf("alice playerJoined count: %d", alice.count(service.EventPlayerJoined))
	}
	if bob.count(service.EventPlayerJoined) != 1 {
		t.Errorf("bob playerJoined count: %d", bob.count(service.EventPlayerJoined))
	}

	if err := svc.StartGame(ctx, "R", "alice"); err != nil {
		t.Fatalf("StartGame failed: %v", err)
	}
	for name, conn := range map[string]*fakeConn{"alice": alice, "bob": bob} {
		if conn.count(service.EventGameStarted) != 1 {
			t.Errorf("%s gameStarted count: %d", name, conn.count(service.EventGameStarted))
		}
	}

	if err := svc.SubmitSongs(ctx, "R", "alice", "tok-alice", pick("a1", "a2")); err != nil {
		t.Fatalf("SubmitSongs(alice) failed: %v", err)
	}
	if alice.count(service.EventAllPlayersSubmitted) != 0 {
		t.Error("allPlayersSubmitted fired before all submissions")
	}

	if err := svc.SubmitSongs(ctx, "R", "bob", "tok-bob", pick("b1")); err != nil {
		t.Fatalf("SubmitSongs(bob) failed: %v", err)
	}
	for name, conn := range map[string]*fakeConn{"alice": alice, "bob": bob} {
		if conn.count(service.EventAllPlayersSubmitted) != 1 {
			t.Errorf("%s allPlayersSubmitted count: %d", name, conn.count(service.EventAllPlayersSubmitted))
		}
		if conn.count(service.EventRoomSongs) != 1 {
			t.Errorf("%s roomSongs count: %d", name, conn.count(service.EventRoomSongs))
		}
	}

	// The queue carries all three submitted songs.
	var queue service.RoomSongs
	for _, m := range alice.msgs {
		if rs, ok := m.(service.RoomSongs); ok {
			queue = rs
		}
	}
	if len(queue.Songs) != 3 {
		t.Fatalf("Expected 3 queued songs, got %d", len(queue.Songs))
	}

	// Bob's single song already sits on its last index, so alice's one
	// advance ends the game.
	if err := svc.AdvanceSong(ctx, "R", "tok-alice", 0); err != nil {
		t.Fatalf("AdvanceSong failed: %v", err)
	}
	for name, conn := range map[string]*fakeConn{"alice": alice, "bob": bob} {
		if conn.count(service.EventEndGame) != 1 {
			t.Errorf("%s endGame count: %d", name, conn.count(service.EventEndGame))
		}
		if conn.count(service.EventNextSong) != 1 {
			t.Errorf("%s nextSong count: %d", name, conn.count(service.EventNextSong))
		}
	}

	// Retransmissions after the end are silent no-ops.
	if err := svc.AdvanceSong(ctx, "R", "tok-alice", 1); err != nil {
		t.Fatalf("AdvanceSong after end errored: %v", err)
	}
	if alice.count(service.EventEndGame) != 1 || alice.count(service.EventNextSong) != 1 {
		t.Error("Post-end advance re-broadcast events")
	}
}

func TestJoinUnknownRoomRespondsOnlyToRequester(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	alice := register(t, svc, "alice")
	bob := register(t, svc, "bob")

	svc.CreateRoom(ctx, "R", "alice")
	if err := svc.JoinRoom(ctx, "ghost-room", "bob"); err == nil {
		t.Fatal("JoinRoom succeeded for unknown room")
	}

	if bob.count(service.EventRoomNotFound) != 1 {
		t.Errorf("bob roomNotFound count: %d", bob.count(service.EventRoomNotFound))
	}
	if alice.count(service.EventRoomNotFound) != 0 {
		t.Error("roomNotFound leaked to a non-requester")
	}
}

func TestCreateDuplicateRoomRejected(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	register(t, svc, "alice")
	bob := register(t, svc, "bob")

	svc.CreateRoom(ctx, "R", "alice")
	if err := svc.CreateRoom(ctx, "R", "bob"); err == nil {
		t.Fatal("Duplicate room name accepted")
	}
	if bob.count(service.EventError) != 1 {
		t.Errorf("bob error count: %d", bob.count(service.EventError))
	}

	roster, err := svc.Roster(ctx, "R")
	if err != nil {
		t.Fatalf("Roster failed: %v", err)
	}
	if len(roster) != 1 || roster[0] != "alice" {
		t.Errorf("Original room disturbed: %v", roster)
	}
}

func TestJoinTwiceRejected(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	register(t, svc, "alice")
	bob := register(t, svc, "bob")

	svc.CreateRoom(ctx, "R", "alice")
	svc.JoinRoom(ctx, "R", "bob")
	if err := svc.JoinRoom(ctx, "R", "bob"); err == nil {
		t.Fatal("Second join accepted")
	}
	if bob.count(service.EventError) != 1 {
		t.Errorf("bob error count: %d", bob.count(service.EventError))
	}
}

func TestRoomDeletedWhenRosterEmpties(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	register(t, svc, "alice")
	register(t, svc, "bob")
	svc.CreateRoom(ctx, "R", "alice")
	svc.JoinRoom(ctx, "R", "bob")

	svc.Disconnect(ctx, "bob", "R")
	if _, err := svc.Roster(ctx, "R"); err != nil {
		t.Fatalf("Room vanished while alice remained: %v", err)
	}

	svc.Disconnect(ctx, "alice", "R")
	if _, err := svc.Roster(ctx, "R"); err == nil {
		t.Fatal("Room survived an empty roster")
	}
	if len(svc.Rooms(ctx)) != 0 {
		t.Errorf("Expected 0 rooms, got %d", len(svc.Rooms(ctx)))
	}

	// A second close for the same identity is a no-op.
	svc.Disconnect(ctx, "alice", "R")
}

func TestRoomListSentToRequesterOnly(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	alice := register(t, svc, "alice")
	bob := register(t, svc, "bob")
	svc.CreateRoom(ctx, "R", "alice")

	svc.SendRoomList(ctx, "bob")

	if bob.count(service.EventRoomList) != 1 {
		t.Errorf("bob roomList count: %d", bob.count(service.EventRoomList))
	}
	if alice.count(service.EventRoomList) != 0 {
		t.Error("roomList leaked to a non-requester")
	}

	var list service.RoomList
	for _, m := range bob.msgs {
		if rl, ok := m.(service.RoomList); ok {
			list = rl
		}
	}
	if len(list.Rooms) != 1 || list.Rooms[0].RoomName != "R" {
		t.Errorf("Bad room list: %+v", list.Rooms)
	}
}

func TestRoomDataUnknownRoom(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	alice := register(t, svc, "alice")

	svc.SendRoomData(ctx, "ghost-room", "alice")
	if alice.count(service.EventRoomNotFound) != 1 {
		t.Errorf("alice roomNotFound count: %d", alice.count(service.EventRoomNotFound))
	}
}

func TestResubmissionAfterCompleteDoesNotRebroadcast(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	alice := register(t, svc, "alice")
	bob := register(t, svc, "bob")
	svc.CreateRoom(ctx, "R", "alice")
	svc.JoinRoom(ctx, "R", "bob")
	svc.StartGame(ctx, "R", "alice")
	svc.SubmitSongs(ctx, "R", "alice", "tok-alice", pick("a1"))
	svc.SubmitSongs(ctx, "R", "bob", "tok-bob", pick("b1"))

	if err := svc.SubmitSongs(ctx, "R", "bob", "tok-bob", pick("b1")); err == nil {
		t.Fatal("Late resubmission accepted")
	}

	for name, conn := range map[string]*fakeConn{"alice": alice, "bob": bob} {
		if conn.count(service.EventAllPlayersSubmitted) != 1 {
			t.Errorf("%s allPlayersSubmitted count: %d", name, conn.count(service.EventAllPlayersSubmitted))
		}
		if conn.count(service.EventRoomSongs) != 1 {
			t.Errorf("%s roomSongs count: %d", name, conn.count(service.EventRoomSongs))
		}
	}
}

func TestRevealAndHideBroadcast(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	alice := register(t, svc, "alice")
	bob := register(t, svc, "bob")
	svc.CreateRoom(ctx, "R", "alice")
	svc.JoinRoom(ctx, "R", "bob")

	if err := svc.RevealPlayer(ctx, "R", "alice"); err != nil {
		t.Fatalf("RevealPlayer failed: %v", err)
	}
	if err := svc.HidePlayer(ctx, "R", "alice"); err != nil {
		t.Fatalf("HidePlayer failed: %v", err)
	}

	for name, conn := range map[string]*fakeConn{"alice": alice, "bob": bob} {
		if conn.count(service.EventRevealPlayer) != 1 {
			t.Errorf("%s revealPlayer count: %d", name, conn.count(service.EventRevealPlayer))
		}
		if conn.count(service.EventHidePlayer) != 1 {
			t.Errorf("%s hidePlayer count: %d", name, conn.count(service.EventHidePlayer))
		}
	}
}

func TestReRegisteredTransportReceivesInstead(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	register(t, svc, "alice")
	stale := register(t, svc, "bob")
	svc.CreateRoom(ctx, "R", "alice")
	svc.JoinRoom(ctx, "R", "bob")

	// Bob reconnects; the old transport is orphaned.
	fresh := &fakeConn{}
	if _, err := svc.SetUsername(ctx, "bob", "tok-bob", fresh); err != nil {
		t.Fatalf("Re-register failed: %v", err)
	}
	staleBefore := len(stale.msgs)

	svc.StartGame(ctx, "R", "alice")

	if len(stale.msgs) != staleBefore {
		t.Error("Orphaned transport still receives game events")
	}
	if fresh.count(service.EventGameStarted) != 1 {
		t.Errorf("fresh gameStarted count: %d", fresh.count(service.EventGameStarted))
	}
}

func TestPruneIdleRooms(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	register(t, svc, "alice")
	svc.CreateRoom(ctx, "R", "alice")

	if removed := svc.PruneIdleRooms(ctx, time.Hour); removed != 0 {
		t.Errorf("Fresh room pruned: %d", removed)
	}
	if removed := svc.PruneIdleRooms(ctx, 0); removed != 1 {
		t.Errorf("Expected 1 pruned room, got %d", removed)
	}
}

func TestStartGameInvalidPhaseSurfaced(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	alice := register(t, svc, "alice")
	svc.CreateRoom(ctx, "R", "alice")
	svc.StartGame(ctx, "R", "alice")

	if err := svc.StartGame(ctx, "R", "alice"); err == nil {
		t.Fatal("Second start accepted")
	}
	if alice.count(service.EventError) != 1 {
		t.Errorf("alice error count: %d", alice.count(service.EventError))
	}
}
