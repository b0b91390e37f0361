// Package api provides the HTTP surface of the Song Party server.
//
// The api package implements:
//   - WebSocket upgrade handling (the game's real transport)
//   - Read-only REST views over rooms for dashboards and MCP tooling
//   - A health endpoint
//
// Endpoints:
//
//   - GET /ws               - WebSocket upgrade; all game events flow here
//   - GET /api/rooms        - Room summaries {roomName, createdBy, playerCount}
//   - GET /api/rooms/{name} - One room's roster in join order
//   - GET /api/health       - Liveness probe with room/player counts
//
// The REST views never expose song state; game mutations happen only over
// the WebSocket protocol.
//
// Error Handling:
//
// Errors are returned as JSON with appropriate HTTP status codes:
//
//	{
//	  "error": "error message"
//	}
package api
