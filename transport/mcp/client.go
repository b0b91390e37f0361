package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/songparty/server/game/room"
)

// Client is a thin MCP client that proxies to the REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API.
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools.
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Song Party Game",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Song Party Game - MCP Interface

This is a thin client that proxies requests to the REST API server.

The game is a real-time music party: players join named rooms over
WebSocket, submit song picks, and play through a shuffled combined queue.
These tools give read-only visibility into live rooms.

AVAILABLE TOOLS:
- list_rooms: list all rooms with creator and player count
- get_room_data: get the roster of one room
- server_health: check the server is up`),
	)

	c.registerTools()
}

// registerTools registers all MCP tools.
func (c *Client) registerTools() {
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_rooms",
		Description: "List all active rooms with creator and player count",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListRooms)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_room_data",
		Description: "Get one room's roster in join order",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"room_name": map[string]interface{}{
					"type":        "string",
					"description": "Name of the room to inspect",
				},
			},
			Required: []string{"room_name"},
		},
	}, c.handleGetRoomData)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "server_health",
		Description: "Check server liveness and the number of live rooms",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleServerHealth)
}

// GetMCPServer returns the underlying MCP server for serving.
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// apiCall makes an HTTP request to the REST API.
func (c *Client) apiCall(method, path string, body interface{}, result interface{}) error {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

// Tool handlers

func (c *Client) handleListRooms(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var resp struct {
		Rooms []room.Summary `json:"rooms"`
	}
	if err := c.apiCall("GET", "/api/rooms", nil, &resp); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if len(resp.Rooms) == 0 {
		return mcp.NewToolResultText("No active rooms."), nil
	}

	result := "Active Rooms:\n\n"
	for _, r := range resp.Rooms {
		result += fmt.Sprintf("• %s (created by %s, %d players)\n",
			r.RoomName, r.CreatedBy, r.PlayerCount)
	}
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGetRoomData(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	roomName, _ := args["room_name"].(string)

	var resp struct {
		RoomName    string   `json:"roomName"`
		PlayersRoom []string `json:"playersRoom"`
	}
	if err := c.apiCall("GET", fmt.Sprintf("/api/rooms/%s", roomName), nil, &resp); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Room %s:\n", resp.RoomName)
	for i, username := range resp.PlayersRoom {
		result += fmt.Sprintf("%d. %s\n", i+1, username)
	}
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleServerHealth(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var resp struct {
		Status string `json:"status"`
		Rooms  int    `json:"rooms"`
	}
	if err := c.apiCall("GET", "/api/health", nil, &resp); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Status: %s, rooms: %d", resp.Status, resp.Rooms)), nil
}
