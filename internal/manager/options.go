package manager

import (
	"log/slog"
	"time"

	"github.com/dshills/retrace/internal/clock"
	"github.com/dshills/retrace/internal/config"
	"github.com/dshills/retrace/internal/engine/history"
	"github.com/dshills/retrace/internal/logging"
)

// DefaultDebounce is the quiet period after which input is committed.
const DefaultDebounce = time.Second

// Option configures a Manager.
type Option func(*options)

type options struct {
	debounce  time.Duration
	clock     clock.Clock
	undoFloor int
	maxDepth  int
	logger    *slog.Logger
	metrics   *Metrics
}

func defaultOptions() options {
	return options{
		debounce:  DefaultDebounce,
		clock:     clock.Real(),
		undoFloor: history.DefaultUndoFloor,
		logger:    logging.NewNop(),
	}
}

// WithDebounce sets the quiet window. Negative values are ignored.
func WithDebounce(d time.Duration) Option {
	return func(o *options) {
		if d >= 0 {
			o.debounce = d
		}
	}
}

// WithClock sets the clock driving the debounce timer and entry timestamps.
func WithClock(c clock.Clock) Option {
	return func(o *options) {
		if c != nil {
			o.clock = c
		}
	}
}

// WithUndoFloor sets the position undo must stay above. The default of 1
// keeps the first recorded command from being undone.
func WithUndoFloor(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.undoFloor = n
		}
	}
}

// WithMaxDepth caps the number of recorded commands. 0 means unlimited.
func WithMaxDepth(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.maxDepth = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMetrics records activity in m.
func WithMetrics(m *Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithConfig applies the history section of cfg.
func WithConfig(cfg config.Config) Option {
	return func(o *options) {
		WithDebounce(cfg.History.Debounce)(o)
		WithUndoFloor(cfg.History.UndoFloor)(o)
		WithMaxDepth(cfg.History.MaxDepth)(o)
	}
}
