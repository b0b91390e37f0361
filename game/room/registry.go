package room

import (
	"math/rand"
	"sync"
	"time"
)

// Summary is the read-only view of a room exposed by listings. It never
// carries song state.
type Summary struct {
	RoomName    string `json:"roomName"`
	CreatedBy   string `json:"createdBy"`
	PlayerCount int    `json:"playerCount"`
}

// Registry maps room names to live rooms. A room is present exactly while
// its roster is non-empty.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*Room
	rng   *rand.Rand
}

// NewRegistry creates an empty registry. The rand source seeds each room's
// queue shuffle; pass nil for a time-seeded source, or a fixed-seed source
// for deterministic tests.
func NewRegistry(rng *rand.Rand) *Registry {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Registry{
		rooms: make(map[string]*Room),
		rng:   rng,
	}
}

// Create registers a new room with the creator as its only roster member.
// Duplicate room names are rejected with ErrRoomAlreadyExists.
func (g *Registry) Create(name, createdBy string) (*Room, error) {
	if name == "" {
		return nil, ErrEmptyRoomName
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, exists := g.rooms[name]; exists {
		return nil, ErrRoomAlreadyExists
	}

	r := newRoom(name, createdBy, g.rng)
	g.rooms[name] = r
	return r, nil
}

// Get retrieves a room by name.
func (g *Registry) Get(name string) (*Room, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	r, exists := g.rooms[name]
	if !exists {
		return nil, ErrRoomNotFound
	}
	return r, nil
}

// Delete removes a room. Deleting an absent name is a no-op.
func (g *Registry) Delete(name string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.rooms, name)
}

// List returns summaries of all rooms.
func (g *Registry) List() []Summary {
	g.mu.RLock()
	defer g.mu.RUnlock()

	result := make([]Summary, 0, len(g.rooms))
	for _, r := range g.rooms {
		result = append(result, Summary{
			RoomName:    r.Name,
			CreatedBy:   r.CreatedBy,
			PlayerCount: r.PlayerCount(),
		})
	}
	return result
}

// Count returns the number of live rooms.
func (g *Registry) Count() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.rooms)
}

// PruneIdle removes rooms that have seen no activity within maxAge and
// returns their names. It covers rooms whose members disconnected without
// the close path ever running.
func (g *Registry) PruneIdle(maxAge time.Duration) []string {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := time.Now()
	var removed []string
	for name, r := range g.rooms {
		if r.IdleFor(now) > maxAge {
			delete(g.rooms, name)
			removed = append(removed, name)
		}
	}
	return removed
}
