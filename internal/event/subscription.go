package event

import (
	"sync/atomic"

	"github.com/google/uuid"
)

// SubscriptionState represents the state of a subscription.
type SubscriptionState int32

const (
	// SubscriptionStateActive means the subscription is receiving values.
	SubscriptionStateActive SubscriptionState = iota

	// SubscriptionStatePaused means the subscription is temporarily not receiving values.
	SubscriptionStatePaused

	// SubscriptionStateCancelled means the subscription has been permanently cancelled.
	SubscriptionStateCancelled
)

// String returns a human-readable state name.
func (s SubscriptionState) String() string {
	switch s {
	case SubscriptionStateActive:
		return "active"
	case SubscriptionStatePaused:
		return "paused"
	case SubscriptionStateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Subscription represents a registered observer.
// It provides methods to control the subscription lifecycle.
type Subscription interface {
	// ID returns the unique subscription identifier.
	ID() string

	// State returns the current subscription state.
	State() SubscriptionState

	// IsActive returns true if the subscription can receive values.
	IsActive() bool

	// Pause temporarily stops delivery to this subscription.
	Pause()

	// Resume restarts delivery after a pause.
	Resume()

	// Cancel permanently cancels the subscription.
	// After cancellation, the subscription cannot be resumed.
	Cancel()
}

// Handler receives published values.
type Handler[T any] func(T)

// SubscriptionOption configures a subscription.
type SubscriptionOption func(*subscriptionConfig)

type subscriptionConfig struct {
	once bool
}

// WithOnce cancels the subscription after its first delivery.
func WithOnce() SubscriptionOption {
	return func(c *subscriptionConfig) {
		c.once = true
	}
}

// subscription is the internal implementation of Subscription.
type subscription[T any] struct {
	id       string
	handler  Handler[T]
	config   subscriptionConfig
	state    atomic.Int32
	onCancel func(*subscription[T])
}

func newSubscription[T any](h Handler[T], onCancel func(*subscription[T]), opts ...SubscriptionOption) *subscription[T] {
	var cfg subscriptionConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	s := &subscription[T]{
		id:       uuid.NewString(),
		handler:  h,
		config:   cfg,
		onCancel: onCancel,
	}
	s.state.Store(int32(SubscriptionStateActive))
	return s
}

// ID returns the subscription ID.
func (s *subscription[T]) ID() string {
	return s.id
}

// State returns the current subscription state.
func (s *subscription[T]) State() SubscriptionState {
	return SubscriptionState(s.state.Load())
}

// IsActive returns true if the subscription is active.
func (s *subscription[T]) IsActive() bool {
	return s.State() == SubscriptionStateActive
}

// Pause temporarily stops delivery.
func (s *subscription[T]) Pause() {
	s.state.CompareAndSwap(int32(SubscriptionStateActive), int32(SubscriptionStatePaused))
}

// Resume restarts delivery.
func (s *subscription[T]) Resume() {
	s.state.CompareAndSwap(int32(SubscriptionStatePaused), int32(SubscriptionStateActive))
}

// Cancel permanently cancels the subscription and detaches it from its
// broadcaster. Calling Cancel more than once is a no-op.
func (s *subscription[T]) Cancel() {
	if SubscriptionState(s.state.Swap(int32(SubscriptionStateCancelled))) == SubscriptionStateCancelled {
		return
	}
	if s.onCancel != nil {
		s.onCancel(s)
	}
}

// cancelled is a Subscription returned where no real one could be created,
// so callers can always defer Cancel.
type cancelled struct{}

func (cancelled) ID() string               { return "" }
func (cancelled) State() SubscriptionState { return SubscriptionStateCancelled }
func (cancelled) IsActive() bool           { return false }
func (cancelled) Pause()                   {}
func (cancelled) Resume()                  {}
func (cancelled) Cancel()                  {}
