package event

import (
	"runtime/debug"
	"slices"
	"sync"
)

// Broadcaster delivers published values to every active subscription.
//
// Delivery is synchronous and in registration order. The subscription list
// is snapshotted before delivery, so handlers may subscribe or cancel
// (themselves or others) while a value is being delivered.
type Broadcaster[T any] struct {
	mu     sync.RWMutex
	subs   []*subscription[T]
	closed bool
	config config
}

// NewBroadcaster creates a new broadcaster.
func NewBroadcaster[T any](opts ...Option) *Broadcaster[T] {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Broadcaster[T]{config: cfg}
}

// Subscribe registers h to receive published values.
func (b *Broadcaster[T]) Subscribe(h Handler[T], opts ...SubscriptionOption) (Subscription, error) {
	if h == nil {
		return cancelled{}, ErrNilHandler
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return cancelled{}, ErrClosed
	}

	sub := newSubscription(h, b.remove, opts...)
	b.subs = append(b.subs, sub)
	return sub, nil
}

// Publish delivers v to all active subscriptions before returning.
func (b *Broadcaster[T]) Publish(v T) {
	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return
	}
	subs := slices.Clone(b.subs)
	b.mu.RUnlock()

	for _, sub := range subs {
		// Re-checked per subscription: an earlier handler may have cancelled it.
		if !sub.IsActive() {
			continue
		}
		if sub.config.once {
			if !sub.state.CompareAndSwap(int32(SubscriptionStateActive), int32(SubscriptionStateCancelled)) {
				continue
			}
			b.remove(sub)
		}
		b.deliver(sub, v)
	}
}

// Len returns the number of registered subscriptions, paused ones included.
func (b *Broadcaster[T]) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Close cancels every subscription. Later Subscribe calls fail with
// ErrClosed and Publish becomes a no-op.
func (b *Broadcaster[T]) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	subs := b.subs
	b.subs = nil
	b.mu.Unlock()

	for _, sub := range subs {
		sub.state.Store(int32(SubscriptionStateCancelled))
	}
}

func (b *Broadcaster[T]) deliver(sub *subscription[T], v T) {
	defer func() {
		if r := recover(); r != nil {
			b.config.panicHandler(&PanicError{
				SubscriptionID: sub.id,
				Value:          r,
				Stack:          string(debug.Stack()),
			})
		}
	}()

	sub.handler(v)
}

func (b *Broadcaster[T]) remove(sub *subscription[T]) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, s := range b.subs {
		if s == sub {
			b.subs = slices.Delete(b.subs, i, i+1)
			return
		}
	}
}
