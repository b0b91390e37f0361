// Package player provides the connection registry mapping usernames to live
// transports and session tokens.
//
// The registry holds weak references: transports are owned by their
// connections, never by game state. Re-registering a username overwrites the
// previous mapping, orphaning the old transport without closing it.
package player

import "sync"

// Transport is the send side of one player's connection. Implementations
// must not block: delivery is fire-and-forget.
type Transport interface {
	// Send serializes v and queues it for delivery. A send that cannot be
	// queued is dropped.
	Send(v any) error
}

// Entry is one registered player: their live transport and current session
// token.
type Entry struct {
	Transport Transport
	SessionID string
}

// Registry maps usernames to their live connection entries.
type Registry struct {
	mu      sync.RWMutex
	players map[string]Entry
}

// NewRegistry creates an empty connection registry.
func NewRegistry() *Registry {
	return &Registry{
		players: make(map[string]Entry),
	}
}

// Register maps username to the given transport and session token,
// replacing any prior mapping. It never errors: the previous connection
// simply becomes unreachable by game events.
func (r *Registry) Register(username string, t Transport, sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.players[username] = Entry{Transport: t, SessionID: sessionID}
}

// Lookup returns the transport registered for username, or false when none
// is registered.
func (r *Registry) Lookup(username string) (Transport, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.players[username]
	if !ok {
		return nil, false
	}
	return e.Transport, true
}

// SessionID returns the session token registered for username.
func (r *Registry) SessionID(username string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.players[username]
	if !ok {
		return "", false
	}
	return e.SessionID, true
}

// Unregister removes the mapping for username. Removing an absent username
// is a no-op, which keeps repeated connection-close cleanup idempotent.
func (r *Registry) Unregister(username string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.players, username)
}

// Count returns the number of registered players.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.players)
}
