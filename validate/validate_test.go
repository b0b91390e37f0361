package validate

import (
	"strings"
	"testing"

	"github.com/songparty/server/game/room"
)

func TestUsername(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "alice", false},
		{"with spaces", "cool alice", false},
		{"unicode", "アリス", false},
		{"empty", "", true},
		{"whitespace only", "   ", true},
		{"too long", strings.Repeat("a", MaxUsernameLen+1), true},
		{"max length ok", strings.Repeat("a", MaxUsernameLen), false},
		{"control character", "ali\x00ce", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Username(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("Username(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestRoomName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "friday-party", false},
		{"empty", "", true},
		{"whitespace only", "\t ", true},
		{"too long", strings.Repeat("r", MaxRoomNameLen+1), true},
		{"max length ok", strings.Repeat("r", MaxRoomNameLen), false},
		{"newline", "party\nroom", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := RoomName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("RoomName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestSongs(t *testing.T) {
	many := make([]room.Song, MaxSongs+1)
	for i := range many {
		many[i] = room.Song{Title: "t"}
	}

	tests := []struct {
		name    string
		input   []room.Song
		wantErr bool
	}{
		{"one song", []room.Song{{Title: "Bohemian Rhapsody", Artist: "Queen"}}, false},
		{"empty list", nil, true},
		{"too many", many, true},
		{"at limit", many[:MaxSongs], false},
		{"untitled entry", []room.Song{{Title: "ok"}, {Artist: "nobody"}}, true},
		{"blank title", []room.Song{{Title: "  "}}, true},
		{"title too long", []room.Song{{Title: strings.Repeat("x", MaxTitleLen+1)}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Songs(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("Songs(%s) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
		})
	}
}
