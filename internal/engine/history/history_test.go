package history

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/retrace/internal/clock"
)

// snapshots builds a stack holding one snapshot command per consecutive
// pair of values.
func snapshots(t *testing.T, s *Stack[int], values ...int) {
	t.Helper()
	for i := 1; i < len(values); i++ {
		s.Append(NewSnapshotCommand(values[i-1], values[i]))
	}
}

func assertInvariants(t *testing.T, s *Stack[int]) {
	t.Helper()
	assert.GreaterOrEqual(t, s.Position(), 0)
	assert.LessOrEqual(t, s.Position(), s.Depth())
}

// Command Tests

func TestSnapshotCommand(t *testing.T) {
	cmd := NewSnapshotCommand("old", "new")

	next, ok := cmd.Apply("anything")
	assert.True(t, ok)
	assert.Equal(t, "new", next)

	prev, ok := cmd.Revert("anything")
	assert.True(t, ok)
	assert.Equal(t, "old", prev)

	assert.Equal(t, `Change "old" to "new"`, cmd.Description())
}

func TestBaselineCommand(t *testing.T) {
	cmd := NewBaselineCommand(42)

	next, ok := cmd.Apply(0)
	assert.True(t, ok)
	assert.Equal(t, 42, next)

	_, ok = cmd.Revert(42)
	assert.False(t, ok, "baseline has nothing to revert to")
	assert.Equal(t, `Baseline "42"`, cmd.Description())
}

func TestSnapshotCommand_LongDescription(t *testing.T) {
	cmd := NewSnapshotCommand("", "a fairly long piece of text")
	assert.Equal(t, `Change "" to "a fairly long piece "…`, cmd.Description())
}

func TestFuncCommand(t *testing.T) {
	double := func(v int) (int, bool) { return v * 2, true }
	half := func(v int) (int, bool) { return v / 2, true }

	cmd := NewFuncCommand("Double", double, half)

	next, ok := cmd.Apply(21)
	require.True(t, ok)
	assert.Equal(t, 42, next)

	prev, ok := cmd.Revert(next)
	require.True(t, ok)
	assert.Equal(t, 21, prev)
	assert.Equal(t, "Double", cmd.Description())
}

func TestFuncCommand_NilTransforms(t *testing.T) {
	cmd := NewFuncCommand[int]("", nil, nil)

	_, ok := cmd.Apply(1)
	assert.False(t, ok)
	_, ok = cmd.Revert(1)
	assert.False(t, ok)
	assert.Equal(t, "Edit", cmd.Description())
}

// Stack Tests

func TestStack_Empty(t *testing.T) {
	s := NewStack[int]()

	assert.Zero(t, s.Position())
	assert.Zero(t, s.Depth())
	assert.False(t, s.CanUndo())
	assert.False(t, s.CanRedo())

	_, ok := s.Undo()
	assert.False(t, ok)
	_, ok = s.Redo()
	assert.False(t, ok)
	assertInvariants(t, s)
}

func TestStack_AppendAdvancesToHead(t *testing.T) {
	s := NewStack[int]()

	snapshots(t, s, 42, 43, 44, 45, 46)

	assert.Equal(t, 4, s.Depth())
	assert.Equal(t, 4, s.Position())
	assert.False(t, s.CanRedo())
	assertInvariants(t, s)
}

func TestStack_DefaultFloor(t *testing.T) {
	s := NewStack[int]()
	assert.Equal(t, DefaultUndoFloor, s.Floor())

	snapshots(t, s, 42, 43)
	assert.False(t, s.CanUndo(), "one command does not clear the default floor")

	snapshots(t, s, 43, 44)
	assert.True(t, s.CanUndo())

	cmd, ok := s.Undo()
	require.True(t, ok)
	prev, _ := cmd.Revert(44)
	assert.Equal(t, 43, prev)
	assert.Equal(t, 1, s.Position())
	assert.False(t, s.CanUndo())
	assertInvariants(t, s)
}

func TestStack_ZeroFloor(t *testing.T) {
	s := NewStack[int](WithUndoFloor(0))
	snapshots(t, s, 42, 43)

	require.True(t, s.CanUndo())
	cmd, ok := s.Undo()
	require.True(t, ok)

	prev, _ := cmd.Revert(43)
	assert.Equal(t, 42, prev)
	assert.Zero(t, s.Position())
	assert.False(t, s.CanUndo())
	assert.True(t, s.CanRedo())
}

func TestStack_NegativeFloor(t *testing.T) {
	s := NewStack[int](WithUndoFloor(-3))
	assert.Zero(t, s.Floor())
}

func TestStack_UndoRedoRoundTrip(t *testing.T) {
	s := NewStack[int](WithUndoFloor(0))
	snapshots(t, s, 1, 2, 3)

	undo, ok := s.Undo()
	require.True(t, ok)
	prev, _ := undo.Revert(3)
	assert.Equal(t, 2, prev)

	redo, ok := s.Redo()
	require.True(t, ok)
	next, _ := redo.Apply(prev)
	assert.Equal(t, 3, next)

	assert.Equal(t, 2, s.Position())
	assert.False(t, s.CanRedo())
}

func TestStack_AppendTruncatesRedo(t *testing.T) {
	s := NewStack[int](WithUndoFloor(0))
	snapshots(t, s, 1, 2, 3, 4)

	s.Undo()
	s.Undo()
	require.Equal(t, 1, s.Position())
	require.True(t, s.CanRedo())

	s.Append(NewSnapshotCommand(2, 9))

	assert.Equal(t, 2, s.Depth())
	assert.Equal(t, 2, s.Position())
	assert.False(t, s.CanRedo())
	assertInvariants(t, s)
}

func TestStack_ClearUndo(t *testing.T) {
	s := NewStack[int]()
	snapshots(t, s, 1, 2, 3, 4)
	s.Undo()

	s.ClearUndo()

	assert.Zero(t, s.Position())
	assert.Zero(t, s.Depth())
	assert.False(t, s.CanUndo())
	assert.False(t, s.CanRedo())
}

func TestStack_ClearRedo(t *testing.T) {
	s := NewStack[int](WithUndoFloor(0))
	snapshots(t, s, 1, 2, 3, 4)
	s.Undo()
	s.Undo()

	s.ClearRedo()

	assert.Equal(t, 1, s.Position())
	assert.Equal(t, 1, s.Depth())
	assert.False(t, s.CanRedo())

	s.ClearRedo() // nothing left to drop
	assert.Equal(t, 1, s.Depth())
}

func TestStack_MaxEntries(t *testing.T) {
	s := NewStack[int](WithMaxEntries(3), WithUndoFloor(0))
	snapshots(t, s, 0, 1, 2, 3, 4, 5)

	assert.Equal(t, 3, s.Depth())
	assert.Equal(t, 3, s.Position())
	assert.Equal(t, 3, s.MaxEntries())

	cmd, _ := s.Undo()
	prev, _ := cmd.Revert(5)
	assert.Equal(t, 4, prev)
	assertInvariants(t, s)
}

func TestStack_SetMaxEntries(t *testing.T) {
	s := NewStack[int](WithUndoFloor(0))
	snapshots(t, s, 0, 1, 2, 3, 4, 5)
	s.Undo()
	s.Undo()
	s.Undo()
	s.Undo()
	require.Equal(t, 1, s.Position())

	s.SetMaxEntries(2)

	assert.Equal(t, 2, s.Depth())
	assert.Zero(t, s.Position(), "cursor clamps at zero when its commands are dropped")
	assertInvariants(t, s)

	s.SetMaxEntries(0)
	assert.Zero(t, s.MaxEntries())
	assert.Equal(t, 2, s.Depth())
}

func TestStack_Info(t *testing.T) {
	c := clock.NewFake(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	s := NewStack[int](WithClock(c), WithUndoFloor(0))

	s.Append(NewSnapshotCommand(1, 2))
	c.Advance(time.Second)
	s.Append(NewSnapshotCommand(2, 3))
	c.Advance(time.Second)
	s.Append(NewSnapshotCommand(3, 4))
	s.Undo()

	undo := s.UndoInfo()
	require.Len(t, undo, 2)
	assert.Equal(t, 0, undo[0].Index)
	assert.Equal(t, `Change "1" to "2"`, undo[0].Description)
	assert.Equal(t, c.Now().Add(-2*time.Second), undo[0].Timestamp)

	redo := s.RedoInfo()
	require.Len(t, redo, 1)
	assert.Equal(t, 2, redo[0].Index)

	peek, ok := s.PeekUndo()
	require.True(t, ok)
	assert.Equal(t, 1, peek.Index)

	peek, ok = s.PeekRedo()
	require.True(t, ok)
	assert.Equal(t, `Change "3" to "4"`, peek.Description)

	s.Redo()
	_, ok = s.PeekRedo()
	assert.False(t, ok)
}
