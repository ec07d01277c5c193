package main

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/retrace/internal/clock"
	"github.com/dshills/retrace/internal/config"
	"github.com/dshills/retrace/internal/manager"
)

func newTestSession(t *testing.T) (*session, *bytes.Buffer, *clock.Fake) {
	t.Helper()
	var out bytes.Buffer
	clk := clock.NewFake(time.Unix(0, 0))

	s, err := newSession(&out,
		manager.WithClock(clk),
		manager.WithDebounce(time.Second),
		manager.WithUndoFloor(0),
	)
	require.NoError(t, err)
	t.Cleanup(s.close)
	return s, &out, clk
}

func TestSession_UndoRedo(t *testing.T) {
	s, out, clk := newTestSession(t)

	require.NoError(t, s.handle("hello"))
	clk.Advance(time.Second)
	require.NoError(t, s.handle("hello world"))
	clk.Advance(time.Second)

	require.NoError(t, s.handle(":undo"))
	assert.Equal(t, "hello", s.buffer.Get())

	require.NoError(t, s.handle(":redo"))
	assert.Equal(t, "hello world", s.buffer.Get())

	assert.Equal(t, "= hello\n= hello world\n", out.String())
	assert.Equal(t, 2, s.mgr.Depth())
}

func TestSession_NothingToUndo(t *testing.T) {
	s, out, _ := newTestSession(t)

	require.NoError(t, s.handle(":u"))
	require.NoError(t, s.handle(":r"))

	assert.Equal(t, "nothing to undo\nnothing to redo\n", out.String())
}

func TestSession_FlushAndStatus(t *testing.T) {
	s, out, _ := newTestSession(t)

	require.NoError(t, s.handle("draft"))
	require.NoError(t, s.handle(":flush"))
	require.NoError(t, s.handle(":status"))

	assert.Contains(t, out.String(), `position=1 depth=1 can-undo=true can-redo=false content="draft"`)
	assert.Contains(t, out.String(), "floor=0 max-depth=0 debounce=1s")
	assert.Contains(t, out.String(), `undo: Change "" to "draft"`)
	assert.NotContains(t, out.String(), "redo:")

	out.Reset()
	require.NoError(t, s.handle(":undo"))
	require.NoError(t, s.handle(":status"))
	assert.Contains(t, out.String(), `redo: Change "" to "draft"`)
	assert.NotContains(t, out.String(), "undo:")
}

func TestSession_ApplyConfig(t *testing.T) {
	s, _, _ := newTestSession(t)
	for _, line := range []string{"a", ":w", "b", ":w", "c", ":w"} {
		require.NoError(t, s.handle(line))
	}

	cfg := config.Default()
	cfg.History.Debounce = 50 * time.Millisecond
	cfg.History.MaxDepth = 2
	s.applyConfig(cfg)

	assert.Equal(t, 50*time.Millisecond, s.mgr.Debounce())
	assert.Equal(t, 2, s.mgr.MaxDepth())
	assert.Equal(t, 2, s.mgr.Depth())
	assert.Equal(t, 0, s.mgr.UndoFloor(), "the floor is not reloaded")
}

func TestSession_History(t *testing.T) {
	s, out, _ := newTestSession(t)

	require.NoError(t, s.handle(":history"))
	assert.Equal(t, "(empty)\n", out.String())
	out.Reset()

	require.NoError(t, s.handle("a"))
	require.NoError(t, s.handle(":w"))
	require.NoError(t, s.handle("b"))
	require.NoError(t, s.handle(":w"))
	require.NoError(t, s.handle(":undo"))
	out.Reset()

	require.NoError(t, s.handle(":history"))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], `Change "" to "a"`)
	assert.Contains(t, lines[1], "cursor")
	assert.Contains(t, lines[2], `Change "a" to "b"`)
}

func TestSession_Clear(t *testing.T) {
	s, _, _ := newTestSession(t)

	for _, line := range []string{"a", ":w", "b", ":w", ":undo", ":clear-redo"} {
		require.NoError(t, s.handle(line))
	}
	assert.Equal(t, 1, s.mgr.Depth())

	require.NoError(t, s.handle(":clear-undo"))
	assert.Equal(t, 0, s.mgr.Depth())
	assert.Equal(t, 0, s.mgr.Position())
}

func TestSession_UnknownCommand(t *testing.T) {
	s, _, _ := newTestSession(t)

	err := s.handle(":frobnicate")
	assert.ErrorContains(t, err, "frobnicate")
	assert.ErrorIs(t, s.handle(":quit"), errQuit)
}

func TestSession_Run(t *testing.T) {
	s, out, _ := newTestSession(t)

	in := strings.NewReader("one\n:w\ntwo\n:w\n:undo\n:quit\nignored\n")
	require.NoError(t, s.run(context.Background(), in))

	assert.Equal(t, "one", s.buffer.Get())
	assert.Equal(t, 2, s.mgr.Depth())
	assert.Equal(t, "= one\n", out.String())
}

func TestSession_RunFlushesAtEOF(t *testing.T) {
	s, out, _ := newTestSession(t)

	require.NoError(t, s.run(context.Background(), strings.NewReader("one\n:bogus\n")))

	assert.Equal(t, 1, s.mgr.Depth())
	assert.Contains(t, out.String(), `error: unknown command "bogus"`)
}

func TestSession_RunContextCancelled(t *testing.T) {
	s, _, _ := newTestSession(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// A reader that never returns data.
	r, w := io.Pipe()
	defer w.Close()
	assert.NoError(t, s.run(ctx, r))
}
