package room

// Song is the track metadata a player picks, as sent by the client.
type Song struct {
	Title  string `json:"title"`
	Artist string `json:"artist,omitempty"`
	URI    string `json:"uri,omitempty"`
}

// SongEntry is one song in a player's submitted queue. Entries are created in
// bulk when a player submits their selection and are mutated only by that
// player's own advance events.
type SongEntry struct {
	Song

	// Player is the contributing player's username.
	Player string `json:"player"`

	// SessionID is the session token the submission arrived under.
	SessionID string `json:"sessionId"`

	// CurrentSongIndex is the 0-based playback cursor into the player's
	// personal queue.
	CurrentSongIndex int `json:"currentSongIndex"`

	// TotalSongs is the length of the player's personal queue.
	TotalSongs int `json:"totalSongs"`
}

// submission is one player's stored song queue, keyed in the ledger by
// session token.
type submission struct {
	player  string
	entries []*SongEntry
}

// done reports whether every cursor in the queue sits on the last index.
func (s *submission) done() bool {
	for _, e := range s.entries {
		if e.CurrentSongIndex != e.TotalSongs-1 {
			return false
		}
	}
	return true
}
