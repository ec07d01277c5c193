package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync/atomic"

	"github.com/dshills/retrace/internal/config"
	"github.com/dshills/retrace/internal/event"
	"github.com/dshills/retrace/internal/manager"
)

// errQuit is returned by handle when the user asks to leave.
var errQuit = errors.New("quit")

const commandHelp = `Each line replaces the buffer. Commands:
  :undo        undo the last step
  :redo        redo the next step
  :flush       record pending input now
  :status      show position and depth
  :history     list recorded steps
  :clear-undo  forget all history
  :clear-redo  forget steps that can be redone
  :help        show this help
  :quit        exit`

// session is an interactive line buffer with undo history. The manager
// listens to the buffer, and content it replays is written back into it.
type session struct {
	buffer *event.Value[string]
	mgr    *manager.Manager[string]
	out    io.Writer
}

func newSession(out io.Writer, opts ...manager.Option) (*session, error) {
	s := &session{
		buffer: event.NewValue(""),
		out:    out,
	}

	mgr, err := manager.New[string](s.buffer, "", opts...)
	if err != nil {
		return nil, err
	}
	s.mgr = mgr

	if _, err := mgr.Subscribe(s.replay); err != nil {
		mgr.Close()
		return nil, err
	}
	return s, nil
}

func (s *session) replay(content string) {
	s.buffer.Set(content)
	fmt.Fprintf(s.out, "= %s\n", content)
}

// run reads lines from in until EOF, :quit or ctx is done. Lines are
// pumped through an event source and handled on its goroutine.
func (s *session) run(ctx context.Context, in io.Reader) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	src := event.FromChannel(ctx, lines)
	defer src.Close()

	quit := make(chan struct{})
	var quitting atomic.Bool
	_, err := src.Subscribe(func(line string) {
		if quitting.Load() {
			return
		}
		if err := s.handle(line); err != nil {
			if errors.Is(err, errQuit) {
				quitting.Store(true)
				close(quit)
				return
			}
			fmt.Fprintf(s.out, "error: %v\n", err)
		}
	})
	if err != nil {
		return err
	}

	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	select {
	case <-quit:
		return nil
	case <-src.Done():
	}

	if ctx.Err() != nil {
		return nil
	}
	s.mgr.Flush()
	select {
	case err := <-readErr:
		return err
	default:
		return nil
	}
}

// handle applies one line of input.
func (s *session) handle(line string) error {
	if !strings.HasPrefix(line, ":") {
		s.buffer.Set(line)
		return nil
	}

	switch cmd := strings.TrimSpace(line[1:]); cmd {
	case "undo", "u":
		if !s.mgr.Undo() {
			fmt.Fprintln(s.out, "nothing to undo")
		}
	case "redo", "r":
		if !s.mgr.Redo() {
			fmt.Fprintln(s.out, "nothing to redo")
		}
	case "flush", "w":
		s.mgr.Flush()
	case "status":
		s.status()
	case "history":
		s.history()
	case "clear-undo":
		s.mgr.ClearUndo()
	case "clear-redo":
		s.mgr.ClearRedo()
	case "help", "?":
		fmt.Fprintln(s.out, commandHelp)
	case "quit", "q":
		return errQuit
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
	return nil
}

func (s *session) status() {
	content, _ := s.mgr.Current()
	fmt.Fprintf(s.out, "position=%d depth=%d can-undo=%t can-redo=%t content=%q\n",
		s.mgr.Position(), s.mgr.Depth(), s.mgr.CanUndo(), s.mgr.CanRedo(), content)
	fmt.Fprintf(s.out, "floor=%d max-depth=%d debounce=%s\n",
		s.mgr.UndoFloor(), s.mgr.MaxDepth(), s.mgr.Debounce())
	if next, ok := s.mgr.NextUndo(); ok {
		fmt.Fprintf(s.out, "undo: %s\n", next.Description)
	}
	if next, ok := s.mgr.NextRedo(); ok {
		fmt.Fprintf(s.out, "redo: %s\n", next.Description)
	}
}

func (s *session) history() {
	undo, redo := s.mgr.History()
	if len(undo)+len(redo) == 0 {
		fmt.Fprintln(s.out, "(empty)")
		return
	}
	for _, e := range undo {
		fmt.Fprintf(s.out, "  %3d %s  %s\n", e.Index, e.Timestamp.Format("15:04:05"), e.Description)
	}
	fmt.Fprintln(s.out, "  --- cursor ---")
	for _, e := range redo {
		fmt.Fprintf(s.out, "  %3d %s  %s\n", e.Index, e.Timestamp.Format("15:04:05"), e.Description)
	}
}

// applyConfig applies the history settings that can change while running.
// The undo floor is fixed for the lifetime of the session.
func (s *session) applyConfig(cfg config.Config) {
	s.mgr.SetDebounce(cfg.History.Debounce)
	s.mgr.SetMaxDepth(cfg.History.MaxDepth)
}

func (s *session) close() {
	s.mgr.Close()
	s.buffer.Close()
}
