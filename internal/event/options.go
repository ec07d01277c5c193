package event

import "log/slog"

// PanicHandler is called when a subscription handler panics.
type PanicHandler func(err *PanicError)

// DefaultPanicHandler logs the panic through the default slog logger.
func DefaultPanicHandler(err *PanicError) {
	slog.Default().Error("event handler panicked",
		"subscription", err.SubscriptionID,
		"panic", err.Value,
	)
}

// Option configures a Broadcaster or Value.
type Option func(*config)

type config struct {
	panicHandler PanicHandler
}

func defaultConfig() config {
	return config{
		panicHandler: DefaultPanicHandler,
	}
}

// WithPanicHandler sets the handler for recovered panics.
func WithPanicHandler(h PanicHandler) Option {
	return func(c *config) {
		if h != nil {
			c.panicHandler = h
		}
	}
}
