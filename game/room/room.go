package room

import (
	"math/rand"
	"slices"
	"sync"
	"time"
)

// Phase represents a room's lifecycle phase.
type Phase string

const (
	PhaseLobby     Phase = "lobby"
	PhaseSelecting Phase = "selecting"
	PhasePlaying   Phase = "playing"
	PhaseEnded     Phase = "ended"
)

// Room is the aggregate for one named game session: an ordered roster of
// usernames, a song ledger keyed by session token, and a lifecycle phase.
type Room struct {
	Name      string
	CreatedBy string
	CreatedAt time.Time

	mu         sync.RWMutex
	phase      Phase
	roster     []string
	ledger     map[string]*submission
	queue      []*SongEntry
	lastActive time.Time
	rng        *rand.Rand
}

// SubmitResult reports the outcome of a song submission.
type SubmitResult struct {
	// Complete is true when this submission was the last one outstanding.
	// It is true for exactly one submission per room: the completing one
	// also moves the room to PhasePlaying, and later submissions are
	// rejected by the phase guard.
	Complete bool

	// Queue is the shuffled combined song queue. Set only when Complete.
	Queue []*SongEntry
}

// AdvanceResult reports the outcome of a playback advance.
type AdvanceResult struct {
	// Applied is false when the reported index matched no cursor, which
	// happens on stale retransmissions.
	Applied bool

	// Ended is true when this advance satisfied the end condition and
	// moved the room to PhaseEnded.
	Ended bool
}

// newRoom creates a room in PhaseLobby with the creator as its only roster
// member. Rooms are created through Registry.Create.
func newRoom(name, createdBy string, rng *rand.Rand) *Room {
	now := time.Now()
	return &Room{
		Name:       name,
		CreatedBy:  createdBy,
		CreatedAt:  now,
		phase:      PhaseLobby,
		roster:     []string{createdBy},
		ledger:     make(map[string]*submission),
		lastActive: now,
		rng:        rng,
	}
}

// Phase returns the room's current lifecycle phase.
func (r *Room) Phase() Phase {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.phase
}

// Roster returns a copy of the roster in join order.
func (r *Room) Roster() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.roster)
}

// PlayerCount returns the number of roster members.
func (r *Room) PlayerCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.roster)
}

// HasPlayer reports whether username is on the roster.
func (r *Room) HasPlayer(username string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Contains(r.roster, username)
}

// Queue returns the shuffled combined song queue, or nil before the room
// reaches PhasePlaying.
func (r *Room) Queue() []*SongEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.queue)
}

// IdleFor reports how long ago the room last saw activity.
func (r *Room) IdleFor(now time.Time) time.Duration {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return now.Sub(r.lastActive)
}

// Join appends username to the roster and returns the updated roster.
// Joining is only valid in PhaseLobby; a username already on the roster is
// rejected with ErrAlreadyJoined.
func (r *Room) Join(username string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.phase != PhaseLobby {
		return nil, ErrGameInProgress
	}
	if slices.Contains(r.roster, username) {
		return nil, ErrAlreadyJoined
	}

	r.roster = append(r.roster, username)
	r.lastActive = time.Now()
	return slices.Clone(r.roster), nil
}

// Leave removes username from the roster and reports whether the roster is
// now empty. Removing an absent username is a no-op.
func (r *Room) Leave(username string) (empty bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.roster = slices.DeleteFunc(r.roster, func(s string) bool {
		return s == username
	})
	r.lastActive = time.Now()
	return len(r.roster) == 0
}

// Start moves the room from PhaseLobby to PhaseSelecting.
func (r *Room) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.phase != PhaseLobby {
		return ErrInvalidPhase
	}
	r.phase = PhaseSelecting
	r.lastActive = time.Now()
	return nil
}

// Submit stores a player's song selection in the ledger, keyed by session
// token. Resubmitting under the same token overwrites the prior entry, so
// retransmissions are idempotent. When the number of distinct submissions
// reaches the roster size, the combined queue is shuffled uniformly, the
// room moves to PhasePlaying, and the shuffled queue is returned.
func (r *Room) Submit(username, sessionID string, songs []Song) (*SubmitResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.phase != PhaseSelecting {
		return nil, ErrInvalidPhase
	}

	entries := make([]*SongEntry, 0, len(songs))
	for _, s := range songs {
		entries = append(entries, &SongEntry{
			Song:             s,
			Player:           username,
			SessionID:        sessionID,
			CurrentSongIndex: 0,
			TotalSongs:       len(songs),
		})
	}
	r.ledger[sessionID] = &submission{player: username, entries: entries}
	r.lastActive = time.Now()

	if len(r.ledger) < len(r.roster) {
		return &SubmitResult{}, nil
	}

	// Last outstanding submission: build and shuffle the combined queue.
	combined := make([]*SongEntry, 0)
	for _, sub := range r.ledger {
		combined = append(combined, sub.entries...)
	}
	r.rng.Shuffle(len(combined), func(i, j int) {
		combined[i], combined[j] = combined[j], combined[i]
	})
	r.queue = combined
	r.phase = PhasePlaying

	return &SubmitResult{Complete: true, Queue: slices.Clone(combined)}, nil
}

// Advance applies a playback advance for the given session token. Every
// entry in that player's queue whose cursor equals reportedIndex moves
// forward by one; a mismatched index is ignored, which makes client
// retransmissions safe. After applying, the end condition is evaluated:
// when every roster member has a submission with every cursor on its last
// index, the room moves to PhaseEnded.
func (r *Room) Advance(sessionID string, reportedIndex int) (*AdvanceResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.phase != PhasePlaying {
		return nil, ErrInvalidPhase
	}
	r.lastActive = time.Now()

	res := &AdvanceResult{}
	if sub, ok := r.ledger[sessionID]; ok {
		for _, e := range sub.entries {
			if e.CurrentSongIndex == reportedIndex {
				e.CurrentSongIndex++
				res.Applied = true
			}
		}
	}

	if r.allPlayed() {
		r.phase = PhaseEnded
		res.Ended = true
	}
	return res, nil
}

// allPlayed reports the end condition: every roster member has a submission
// and all of their cursors sit on the last index. Callers hold r.mu.
func (r *Room) allPlayed() bool {
	byPlayer := make(map[string]*submission, len(r.ledger))
	for _, sub := range r.ledger {
		byPlayer[sub.player] = sub
	}
	for _, username := range r.roster {
		sub, ok := byPlayer[username]
		if !ok || !sub.done() {
			return false
		}
	}
	return true
}
