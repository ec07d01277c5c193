package history

import (
	"time"

	"github.com/dshills/retrace/internal/clock"
)

// DefaultUndoFloor is the position undo must stay above.
//
// With the default of 1 the first recorded command is never undone, which
// keeps a baseline command (see NewBaselineCommand) in place.
const DefaultUndoFloor = 1

// entry wraps a command with metadata.
type entry[T any] struct {
	command   Command[T]
	timestamp time.Time
}

// Stack is a linear command history with a cursor.
//
// Position counts the commands applied going forward from the initial
// state. It is the index of the command Redo would apply and one past the
// index of the command Undo would reverse. Depth is the number of recorded
// commands. 0 <= Position() <= Depth() holds after every call.
type Stack[T any] struct {
	entries  []*entry[T]
	position int

	// Configuration
	floor      int
	maxEntries int
	clock      clock.Clock
}

// StackOption configures a Stack.
type StackOption func(*stackConfig)

type stackConfig struct {
	floor      int
	maxEntries int
	clock      clock.Clock
}

// WithUndoFloor sets the position undo must stay above. Negative values
// are treated as 0.
func WithUndoFloor(floor int) StackOption {
	return func(c *stackConfig) {
		c.floor = max(floor, 0)
	}
}

// WithMaxEntries caps the history length; the oldest commands are dropped
// first. Zero or negative means unlimited.
func WithMaxEntries(n int) StackOption {
	return func(c *stackConfig) {
		c.maxEntries = max(n, 0)
	}
}

// WithClock sets the clock used to timestamp entries.
func WithClock(c clock.Clock) StackOption {
	return func(cfg *stackConfig) {
		if c != nil {
			cfg.clock = c
		}
	}
}

// NewStack creates an empty history.
func NewStack[T any](opts ...StackOption) *Stack[T] {
	cfg := stackConfig{
		floor: DefaultUndoFloor,
		clock: clock.Real(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Stack[T]{
		floor:      cfg.floor,
		maxEntries: cfg.maxEntries,
		clock:      cfg.clock,
	}
}

// Append records cmd. Commands beyond the cursor are discarded first, then
// the cursor moves to the new head.
func (s *Stack[T]) Append(cmd Command[T]) {
	s.ClearRedo()
	s.entries = append(s.entries, &entry[T]{
		command:   cmd,
		timestamp: s.clock.Now(),
	})
	s.position = len(s.entries)

	// Enforce max entries
	if s.maxEntries > 0 && len(s.entries) > s.maxEntries {
		excess := len(s.entries) - s.maxEntries
		s.entries = s.entries[excess:]
		s.position -= excess
	}
}

// ClearUndo removes the whole history.
func (s *Stack[T]) ClearUndo() {
	s.entries = nil
	s.position = 0
}

// ClearRedo removes the commands at or beyond the cursor.
func (s *Stack[T]) ClearRedo() {
	clear(s.entries[s.position:])
	s.entries = s.entries[:s.position]
}

// Position returns the cursor.
func (s *Stack[T]) Position() int {
	return s.position
}

// Depth returns the number of recorded commands.
func (s *Stack[T]) Depth() int {
	return len(s.entries)
}

// Floor returns the position undo must stay above.
func (s *Stack[T]) Floor() int {
	return s.floor
}

// CanUndo returns true if the cursor is above the undo floor.
func (s *Stack[T]) CanUndo() bool {
	return s.position > s.floor
}

// CanRedo returns true if there are commands beyond the cursor.
func (s *Stack[T]) CanRedo() bool {
	return s.position != len(s.entries) && len(s.entries) > s.position
}

// Undo moves the cursor back and returns the command to reverse.
func (s *Stack[T]) Undo() (Command[T], bool) {
	if !s.CanUndo() {
		return nil, false
	}
	s.position--
	return s.entries[s.position].command, true
}

// Redo moves the cursor forward and returns the command to apply.
func (s *Stack[T]) Redo() (Command[T], bool) {
	if !s.CanRedo() {
		return nil, false
	}
	cmd := s.entries[s.position].command
	s.position++
	return cmd, true
}

// SetMaxEntries changes the history cap. If the history is longer, the
// oldest commands are removed and the cursor shifts with them.
func (s *Stack[T]) SetMaxEntries(n int) {
	s.maxEntries = max(n, 0)
	if s.maxEntries == 0 || len(s.entries) <= s.maxEntries {
		return
	}
	excess := len(s.entries) - s.maxEntries
	s.entries = s.entries[excess:]
	s.position = max(s.position-excess, 0)
}

// MaxEntries returns the history cap; 0 means unlimited.
func (s *Stack[T]) MaxEntries() int {
	return s.maxEntries
}

// PeekUndo returns info about the command Undo would reverse.
func (s *Stack[T]) PeekUndo() (EntryInfo, bool) {
	if !s.CanUndo() {
		return EntryInfo{}, false
	}
	return s.info(s.position - 1), true
}

// PeekRedo returns info about the command Redo would apply.
func (s *Stack[T]) PeekRedo() (EntryInfo, bool) {
	if !s.CanRedo() {
		return EntryInfo{}, false
	}
	return s.info(s.position), true
}

// UndoInfo returns info about the applied commands, oldest first.
func (s *Stack[T]) UndoInfo() []EntryInfo {
	result := make([]EntryInfo, 0, s.position)
	for i := 0; i < s.position; i++ {
		result = append(result, s.info(i))
	}
	return result
}

// RedoInfo returns info about the commands available to redo, next first.
func (s *Stack[T]) RedoInfo() []EntryInfo {
	result := make([]EntryInfo, 0, len(s.entries)-s.position)
	for i := s.position; i < len(s.entries); i++ {
		result = append(result, s.info(i))
	}
	return result
}

func (s *Stack[T]) info(i int) EntryInfo {
	e := s.entries[i]
	return EntryInfo{
		Index:       i,
		Description: e.command.Description(),
		Timestamp:   e.timestamp,
	}
}
