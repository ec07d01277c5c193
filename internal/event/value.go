package event

import "sync"

// Value is an observable field. Set publishes the new value to subscribers
// when it differs from the stored one.
type Value[T comparable] struct {
	mu sync.RWMutex
	v  T
	b  *Broadcaster[T]
}

// NewValue creates an observable holding initial.
func NewValue[T comparable](initial T, opts ...Option) *Value[T] {
	return &Value[T]{
		v: initial,
		b: NewBroadcaster[T](opts...),
	}
}

// Get returns the current value.
func (o *Value[T]) Get() T {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.v
}

// Set stores v and publishes it if it changed. It reports whether a change
// was published. Subscribers are called after the value is stored, so Get
// from inside a handler observes v.
func (o *Value[T]) Set(v T) bool {
	o.mu.Lock()
	if o.v == v {
		o.mu.Unlock()
		return false
	}
	o.v = v
	o.mu.Unlock()

	o.b.Publish(v)
	return true
}

// Subscribe registers h for subsequent changes. The current value is not
// replayed.
func (o *Value[T]) Subscribe(h Handler[T], opts ...SubscriptionOption) (Subscription, error) {
	return o.b.Subscribe(h, opts...)
}

// Close drops all subscriptions. The value remains readable.
func (o *Value[T]) Close() {
	o.b.Close()
}
