// Command simulate drives a full game against a running Song Party server
// with bot players. It connects N WebSocket clients, creates a room, joins
// everyone, submits song picks, and advances through the shuffled queue
// until endGame, printing every event it sees. Useful as an end-to-end
// smoke check.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/urfave/cli/v3"
)

func main() {
	cmd := &cli.Command{
		Name:  "simulate",
		Usage: "run a scripted bot game against a running server",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "url", Value: "ws://localhost:2023/ws", Usage: "WebSocket URL"},
			&cli.IntFlag{Name: "players", Value: 2, Usage: "number of bot players"},
			&cli.IntFlag{Name: "songs", Value: 3, Usage: "songs per player"},
			&cli.StringFlag{Name: "room", Value: "simulated-room", Usage: "room name"},
			&cli.DurationFlag{Name: "timeout", Value: 30 * time.Second, Usage: "overall run timeout"},
		},
		Action: run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

// bot is one scripted player connection.
type bot struct {
	name   string
	token  string
	conn   *websocket.Conn
	events chan map[string]any
}

// run executes the scripted game.
func run(ctx context.Context, cmd *cli.Command) error {
	url := cmd.String("url")
	numPlayers := int(cmd.Int("players"))
	numSongs := int(cmd.Int("songs"))
	roomName := cmd.String("room")

	ctx, cancel := context.WithTimeout(ctx, cmd.Duration("timeout"))
	defer cancel()

	bots := make([]*bot, 0, numPlayers)
	for i := 0; i < numPlayers; i++ {
		b, err := dial(ctx, url, fmt.Sprintf("bot-%d", i))
		if err != nil {
			return fmt.Errorf("failed to connect bot %d: %w", i, err)
		}
		defer b.conn.Close()
		bots = append(bots, b)
	}

	// Register identities
	for _, b := range bots {
		if err := b.send(map[string]any{
			"event": "setUsername", "username": b.name, "sessionId": b.token,
		}); err != nil {
			return err
		}
	}

	// Create and fill the room
	if err := bots[0].send(map[string]any{
		"event": "createRoom", "roomName": roomName, "createdBy": bots[0].name,
	}); err != nil {
		return err
	}
	for _, b := range bots[1:] {
		if err := b.send(map[string]any{
			"event": "joinRoom", "roomName": roomName, "username": b.name,
		}); err != nil {
			return err
		}
	}

	if err := bots[0].send(map[string]any{"event": "startGame", "roomName": roomName}); err != nil {
		return err
	}
	for _, b := range bots {
		if _, err := b.waitFor(ctx, "gameStarted"); err != nil {
			return err
		}
	}
	log.Println("game started, submitting songs")

	for _, b := range bots {
		songs := make([]map[string]any, 0, numSongs)
		for i := 0; i < numSongs; i++ {
			songs = append(songs, map[string]any{
				"title":  fmt.Sprintf("%s track %d", b.name, i),
				"artist": b.name,
			})
		}
		if err := b.send(map[string]any{
			"event": "sendSong", "roomName": roomName,
			"selectedSongs": songs, "sessionId": b.token,
		}); err != nil {
			return err
		}
	}

	for _, b := range bots {
		if _, err := b.waitFor(ctx, "roomSongs"); err != nil {
			return err
		}
	}
	log.Println("queue received, advancing")

	// Each bot walks its own cursor to the end
	for i := 0; i < numSongs-1; i++ {
		for _, b := range bots {
			if err := b.send(map[string]any{
				"event": "nextSong", "roomName": roomName,
				"songIndex": i, "sessionId": b.token,
			}); err != nil {
				return err
			}
		}
	}

	for _, b := range bots {
		if _, err := b.waitFor(ctx, "endGame"); err != nil {
			return err
		}
	}
	log.Println("endGame received by all bots, simulation complete")
	return nil
}

// dial opens one bot connection and starts its read loop.
func dial(ctx context.Context, url, name string) (*bot, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, err
	}

	b := &bot{
		name:   name,
		token:  uuid.NewString(),
		conn:   conn,
		events: make(chan map[string]any, 64),
	}

	go func() {
		defer close(b.events)
		for {
			var msg map[string]any
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}
			log.Printf("[%s] <- %v", b.name, msg["event"])
			b.events <- msg
		}
	}()

	return b, nil
}

// send writes one JSON message.
func (b *bot) send(v map[string]any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return b.conn.WriteMessage(websocket.TextMessage, data)
}

// waitFor blocks until an event with the given tag arrives, skipping
// everything else.
func (b *bot) waitFor(ctx context.Context, event string) (map[string]any, error) {
	for {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%s: timed out waiting for %s", b.name, event)
		case msg, ok := <-b.events:
			if !ok {
				return nil, fmt.Errorf("%s: connection closed waiting for %s", b.name, event)
			}
			if msg["event"] == event {
				return msg, nil
			}
		}
	}
}
