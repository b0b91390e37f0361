// Package mcp provides a Model Context Protocol server for the Song Party
// game server.
//
// The mcp package implements:
//   - MCP tool definitions over the read-only REST views
//   - A thin proxy client that calls the HTTP API
//   - Stdio and HTTP transport modes
//
// MCP Tools:
//
//   - list_rooms: List all rooms with creator and player count
//   - get_room_data: Get one room's roster in join order
//   - server_health: Check server liveness and room count
//
// The game itself is played over WebSocket by real clients; the MCP surface
// is observational, aimed at agents and dashboards inspecting live rooms.
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:2023")
//	server.ServeStdio(client.GetMCPServer())
package mcp
