// Package validate checks client-supplied input before it reaches game
// state. It covers:
//   - Usernames: non-empty, bounded length, printable characters
//   - Room names: non-empty, bounded length, printable characters
//   - Song submissions: non-empty list, bounded size, titled entries
package validate

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/songparty/server/game/room"
)

const (
	MaxUsernameLen = 32
	MaxRoomNameLen = 64
	MaxSongs       = 50
	MaxTitleLen    = 200
)

// Username validates a player-chosen username.
func Username(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("username must not be empty")
	}
	if len(name) > MaxUsernameLen {
		return fmt.Errorf("username exceeds %d characters", MaxUsernameLen)
	}
	if !printable(name) {
		return fmt.Errorf("username contains non-printable characters")
	}
	return nil
}

// RoomName validates a room name.
func RoomName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("room name must not be empty")
	}
	if len(name) > MaxRoomNameLen {
		return fmt.Errorf("room name exceeds %d characters", MaxRoomNameLen)
	}
	if !printable(name) {
		return fmt.Errorf("room name contains non-printable characters")
	}
	return nil
}

// Songs validates a song submission.
func Songs(songs []room.Song) error {
	if len(songs) == 0 {
		return fmt.Errorf("song selection must not be empty")
	}
	if len(songs) > MaxSongs {
		return fmt.Errorf("song selection exceeds %d entries", MaxSongs)
	}
	for i, s := range songs {
		if strings.TrimSpace(s.Title) == "" {
			return fmt.Errorf("song %d has no title", i)
		}
		if len(s.Title) > MaxTitleLen {
			return fmt.Errorf("song %d title exceeds %d characters", i, MaxTitleLen)
		}
	}
	return nil
}

// printable reports whether s contains only printable runes.
func printable(s string) bool {
	for _, r := range s {
		if !unicode.IsPrint(r) {
			return false
		}
	}
	return true
}
