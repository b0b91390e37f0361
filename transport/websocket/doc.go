// Package websocket provides the WebSocket transport for the Song Party
// server.
//
// The package implements:
//   - Real-time bidirectional communication with game clients
//   - Tagged JSON message routing to game operations
//   - Connection lifecycle and session context management
//   - Keepalive via ping/pong deadlines
//
// Architecture:
//
// A central Hub owns every connection and funnels all inbound messages
// through one event loop. Each message runs to completion, broadcasts
// included, before the next is handled, so game-state mutations across all
// rooms have a total order without per-room locking on the hot path.
//
// Message Protocol:
//
// Every message is one JSON object carrying an "event" tag plus
// tag-specific fields:
//   - Incoming: {"event": "nextSong", "roomName": "R", "songIndex": 2, "sessionId": "abc1"}
//   - Outgoing: {"event": "roomSongs", "songs": [...]}
//
// Unknown tags and malformed payloads are dropped without closing the
// connection.
//
// Session Context:
//
// Each connection tracks the username, session token, and room it acts as,
// set by its own setUsername/createRoom/joinRoom handlers. When a client
// reconnects under the same username, the old connection is orphaned: its
// close path checks the player registry and leaves the newer registration
// untouched.
//
// Usage:
//
//	hub := websocket.NewHub(gameService, players, settings)
//	go hub.Run()
//
//	http.HandleFunc("/ws", hub.ServeWS)
//
// Connection Lifecycle:
//
// 1. Client connects and upgrades
// 2. Connection registered with the hub
// 3. Client registers identity with setUsername
// 4. Client sends game events, receives room broadcasts
// 5. Disconnection removes the player from their room; an emptied room is
// deleted
package websocket
