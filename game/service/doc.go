// Package service provides the business logic layer for the Song Party game.
//
// The service package implements:
//   - The GameService interface: one method per inbound wire event
//   - Aggregation over the room and player registries
//   - The Broadcaster fanning events out to room rosters
//   - Read-only room views for the REST API and MCP tooling
//
// Architecture:
//
// The service layer sits between the transport layer (WebSocket/HTTP/MCP)
// and the room state machine. The WebSocket hub calls every mutating method
// from its single event loop, which serializes all game-state changes; the
// read-only views are safe to call from any goroutine.
//
// Responses and broadcasts are produced inside the handlers: a handler
// mutates the registries and then uses the Broadcaster to notify the
// affected connections. Rejections (unknown room, duplicate join, invalid
// input) are surfaced to the requester as explicit error events rather
// than silently dropped.
//
// Usage:
//
//	rooms := room.NewRegistry(nil)
//	players := player.NewRegistry()
//	svc := service.NewGameService(rooms, players)
//
//	token, err := svc.SetUsername(ctx, "alice", "", conn)
//	err = svc.CreateRoom(ctx, "friday-night", "alice")
package service
