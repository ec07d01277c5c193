package manager

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dshills/retrace/internal/debounce"
	"github.com/dshills/retrace/internal/engine/history"
	"github.com/dshills/retrace/internal/event"
)

// ErrNilSource is returned when a Manager is created without an input.
var ErrNilSource = errors.New("manager: nil source")

// Manager records settled input as commands and navigates them.
type Manager[T comparable] struct {
	mu sync.Mutex

	stack *history.Stack[T]

	// current is the latest content, from input or from navigation.
	current    T
	hasCurrent bool

	// committed is the content the next command starts from.
	committed    T
	hasCommitted bool

	closed bool

	// version counts cursor transitions. publishCursor uses it to detect
	// transitions that happened while it was publishing.
	version uint64

	coalescer *debounce.Coalescer[T]
	input     event.Subscription

	content  *event.Broadcaster[T]
	position *event.Value[int]
	depth    *event.Value[int]

	logger  *slog.Logger
	metrics *Metrics
	once    sync.Once
}

// New creates a Manager that starts from initial and listens to src.
func New[T comparable](src event.Source[T], initial T, opts ...Option) (*Manager[T], error) {
	m := newManager[T](opts)
	m.current, m.hasCurrent = initial, true
	m.committed, m.hasCommitted = initial, true
	if err := m.listen(src); err != nil {
		return nil, err
	}
	return m, nil
}

// NewUnseeded creates a Manager with no starting content. The first settled
// value is recorded as a baseline command, which has nothing to revert to.
// CanUndo and CanRedo report false until some input has arrived.
func NewUnseeded[T comparable](src event.Source[T], opts ...Option) (*Manager[T], error) {
	m := newManager[T](opts)
	if err := m.listen(src); err != nil {
		return nil, err
	}
	return m, nil
}

func newManager[T comparable](opts []Option) *Manager[T] {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	m := &Manager[T]{
		stack: history.NewStack[T](
			history.WithUndoFloor(o.undoFloor),
			history.WithMaxEntries(o.maxDepth),
			history.WithClock(o.clock),
		),
		content:  event.NewBroadcaster[T](),
		position: event.NewValue(0),
		depth:    event.NewValue(0),
		logger:   o.logger.With("component", "manager"),
		metrics:  o.metrics,
	}
	m.coalescer = debounce.NewCoalescer(o.debounce, m.commit, debounce.WithClock(o.clock))
	m.metrics.cursor(0, 0)
	return m
}

func (m *Manager[T]) listen(src event.Source[T]) error {
	if src == nil {
		return ErrNilSource
	}
	sub, err := src.Subscribe(m.ingest)
	if err != nil {
		return fmt.Errorf("subscribing to input: %w", err)
	}
	m.input = sub
	return nil
}

// ingest handles a raw value from the input.
func (m *Manager[T]) ingest(v T) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return
	}
	if m.hasCurrent && v == m.current {
		m.metrics.ignore(reasonEcho)
		return
	}
	m.current, m.hasCurrent = v, true
	m.coalescer.Push(v)
}

// commit records a settled value.
func (m *Manager[T]) commit(v T) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	if m.hasCommitted && v == m.committed {
		m.mu.Unlock()
		m.metrics.ignore(reasonUnchanged)
		m.logger.Debug("settled value unchanged")
		return
	}
	if !m.hasCurrent || v != m.current {
		// Navigation replaced the content after this value settled.
		m.mu.Unlock()
		m.metrics.ignore(reasonStale)
		m.logger.Debug("discarding stale settle")
		return
	}

	var cmd history.Command[T]
	if m.hasCommitted {
		cmd = history.NewSnapshotCommand(m.committed, v)
	} else {
		cmd = history.NewBaselineCommand(v)
	}
	m.stack.Append(cmd)
	m.committed, m.hasCommitted = v, true
	m.version++
	pos, depth := m.stack.Position(), m.stack.Depth()
	m.mu.Unlock()

	m.metrics.commit()
	m.logger.Debug("recorded command", "description", cmd.Description(), "position", pos, "depth", depth)
	m.publishCursor()
}

// Undo reverses the command before the cursor. It reports false, without
// changing anything, when there is nothing to undo.
func (m *Manager[T]) Undo() bool {
	return m.navigate(true)
}

// Redo reapplies the command at the cursor. It reports false, without
// changing anything, when there is nothing to redo.
func (m *Manager[T]) Redo() bool {
	return m.navigate(false)
}

func (m *Manager[T]) navigate(backward bool) bool {
	m.mu.Lock()
	if m.closed || !m.hasCurrent {
		m.mu.Unlock()
		return false
	}

	var (
		cmd history.Command[T]
		ok  bool
		v   T
		has bool
	)
	if backward {
		cmd, ok = m.stack.Undo()
	} else {
		cmd, ok = m.stack.Redo()
	}
	if !ok {
		m.mu.Unlock()
		return false
	}
	if backward {
		v, has = cmd.Revert(m.current)
	} else {
		v, has = cmd.Apply(m.current)
	}
	if has {
		m.current = v
		m.committed, m.hasCommitted = v, true
		m.coalescer.Cancel()
	}
	m.version++
	pos := m.stack.Position()
	m.mu.Unlock()

	if backward {
		m.metrics.undo()
		m.logger.Debug("undo", "description", cmd.Description(), "position", pos)
	} else {
		m.metrics.redo()
		m.logger.Debug("redo", "description", cmd.Description(), "position", pos)
	}

	if has {
		m.content.Publish(v)
	}
	m.publishCursor()
	return true
}

// CanUndo reports whether Undo would succeed.
func (m *Manager[T]) CanUndo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return !m.closed && m.hasCurrent && m.stack.CanUndo()
}

// CanRedo reports whether Redo would succeed.
func (m *Manager[T]) CanRedo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return !m.closed && m.hasCurrent && m.stack.CanRedo()
}

// ClearUndo removes the whole history.
func (m *Manager[T]) ClearUndo() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.stack.ClearUndo()
	m.version++
	m.mu.Unlock()

	m.publishCursor()
}

// ClearRedo removes the commands beyond the cursor.
func (m *Manager[T]) ClearRedo() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.stack.ClearRedo()
	m.version++
	m.mu.Unlock()

	m.publishCursor()
}

// Position returns the cursor position.
func (m *Manager[T]) Position() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stack.Position()
}

// Depth returns the number of recorded commands.
func (m *Manager[T]) Depth() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stack.Depth()
}

// Current returns the latest content. ok is false if an unseeded Manager
// has not received any input yet.
func (m *Manager[T]) Current() (v T, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current, m.hasCurrent
}

// History describes the recorded commands: undo holds the applied ones,
// oldest first, and redo the ones available to redo, next first.
func (m *Manager[T]) History() (undo, redo []history.EntryInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stack.UndoInfo(), m.stack.RedoInfo()
}

// NextUndo describes the command Undo would reverse.
func (m *Manager[T]) NextUndo() (history.EntryInfo, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed || !m.hasCurrent {
		return history.EntryInfo{}, false
	}
	return m.stack.PeekUndo()
}

// NextRedo describes the command Redo would apply.
func (m *Manager[T]) NextRedo() (history.EntryInfo, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed || !m.hasCurrent {
		return history.EntryInfo{}, false
	}
	return m.stack.PeekRedo()
}

// UndoFloor returns the position undo must stay above.
func (m *Manager[T]) UndoFloor() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stack.Floor()
}

// MaxDepth returns the history cap; 0 means unlimited.
func (m *Manager[T]) MaxDepth() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stack.MaxEntries()
}

// SetMaxDepth changes the history cap. If the history is longer, the oldest
// commands are dropped and the cursor shifts with them. Negative values are
// ignored.
func (m *Manager[T]) SetMaxDepth(n int) {
	if n < 0 {
		return
	}
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.stack.SetMaxEntries(n)
	m.version++
	m.mu.Unlock()

	m.logger.Debug("max depth changed", "max", n)
	m.publishCursor()
}

// Subscribe registers h for content produced by Undo and Redo.
func (m *Manager[T]) Subscribe(h event.Handler[T], opts ...event.SubscriptionOption) (event.Subscription, error) {
	return m.content.Subscribe(h, opts...)
}

// SubscribePosition registers h for changes of the cursor position.
func (m *Manager[T]) SubscribePosition(h event.Handler[int], opts ...event.SubscriptionOption) (event.Subscription, error) {
	return m.position.Subscribe(h, opts...)
}

// SubscribeDepth registers h for changes of the history depth.
func (m *Manager[T]) SubscribeDepth(h event.Handler[int], opts ...event.SubscriptionOption) (event.Subscription, error) {
	return m.depth.Subscribe(h, opts...)
}

// Flush commits pending input now instead of waiting for the quiet window.
func (m *Manager[T]) Flush() {
	m.coalescer.Flush()
}

// SetDebounce changes the quiet window for subsequent input.
func (m *Manager[T]) SetDebounce(d time.Duration) {
	if d < 0 {
		return
	}
	m.coalescer.SetDelay(d)
	m.logger.Debug("debounce changed", "delay", d)
}

// Debounce returns the quiet window.
func (m *Manager[T]) Debounce() time.Duration {
	return m.coalescer.Delay()
}

// Close stops listening to input, drops pending input and removes all
// subscribers. Afterwards navigation reports false and input is ignored.
// Close is idempotent.
func (m *Manager[T]) Close() {
	m.once.Do(func() {
		m.mu.Lock()
		m.closed = true
		m.coalescer.Cancel()
		m.mu.Unlock()

		if m.input != nil {
			m.input.Cancel()
		}
		m.content.Close()
		m.position.Close()
		m.depth.Close()
	})
}

// publishCursor publishes the cursor as it is now. Observers may start new
// transitions while it runs, so it repeats until the published state
// matches the latest version.
func (m *Manager[T]) publishCursor() {
	for {
		m.mu.Lock()
		version := m.version
		pos, depth := m.stack.Position(), m.stack.Depth()
		m.mu.Unlock()

		m.metrics.cursor(pos, depth)
		m.position.Set(pos)
		m.depth.Set(depth)

		m.mu.Lock()
		done := m.version == version
		m.mu.Unlock()
		if done {
			return
		}
	}
}
