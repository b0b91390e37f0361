package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Defaults for every tunable. Overridable through SONGPARTY_* environment
// variables; main loads a .env file first so a local file works too.
const (
	DefaultHost          = "localhost"
	DefaultPort          = 2023
	DefaultRoomTTL       = 2 * time.Hour
	DefaultSweepInterval = 10 * time.Minute
	DefaultWriteWait     = 10 * time.Second
	DefaultPongWait      = 60 * time.Second
)

// Settings holds the server runtime configuration.
type Settings struct {
	// Host and Port form the HTTP listen address.
	Host string
	Port int

	// RoomTTL is how long a room may sit idle before the sweep removes
	// it. SweepInterval is how often the sweep runs.
	RoomTTL       time.Duration
	SweepInterval time.Duration

	// WriteWait bounds a single WebSocket write; PongWait bounds how long
	// a connection may go without answering a ping.
	WriteWait time.Duration
	PongWait  time.Duration

	// Debug enables verbose logging.
	Debug bool
}

// Load builds Settings from environment variables, falling back to
// defaults. It returns an error for values that do not parse, never for
// missing ones.
func Load() (*Settings, error) {
	s := &Settings{
		Host:          DefaultHost,
		Port:          DefaultPort,
		RoomTTL:       DefaultRoomTTL,
		SweepInterval: DefaultSweepInterval,
		WriteWait:     DefaultWriteWait,
		PongWait:      DefaultPongWait,
	}

	if v := os.Getenv("SONGPARTY_HOST"); v != "" {
		s.Host = v
	}
	if v := os.Getenv("SONGPARTY_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid SONGPARTY_PORT %q: %w", v, err)
		}
		s.Port = port
	}
	if v := os.Getenv("SONGPARTY_ROOM_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid SONGPARTY_ROOM_TTL %q: %w", v, err)
		}
		s.RoomTTL = d
	}
	if v := os.Getenv("SONGPARTY_SWEEP_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid SONGPARTY_SWEEP_INTERVAL %q: %w", v, err)
		}
		s.SweepInterval = d
	}
	if v := os.Getenv("SONGPARTY_DEBUG"); v == "true" || v == "1" {
		s.Debug = true
	}

	return s, nil
}

// Addr returns the host:port listen address.
func (s *Settings) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}
