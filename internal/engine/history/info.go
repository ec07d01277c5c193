package history

import "time"

// EntryInfo describes a recorded command without exposing it.
type EntryInfo struct {
	// Index is the command's position in the history.
	Index int

	// Description is the command's human-readable description.
	Description string

	// Timestamp is when the command was recorded.
	Timestamp time.Time
}
