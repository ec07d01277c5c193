package event

import (
	"context"
	"sync"
)

// Source is an inbound push stream of values. Values are delivered to the
// handler until the returned subscription is cancelled.
type Source[T any] interface {
	Subscribe(h Handler[T], opts ...SubscriptionOption) (Subscription, error)
}

// ChanSource adapts a receive-only channel into a Source. A pump goroutine
// forwards received values to subscribers until the channel is closed, the
// context is done, or Close is called.
type ChanSource[T any] struct {
	b      *Broadcaster[T]
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// FromChannel starts pumping ch into a new ChanSource.
func FromChannel[T any](ctx context.Context, ch <-chan T, opts ...Option) *ChanSource[T] {
	ctx, cancel := context.WithCancel(ctx)
	s := &ChanSource[T]{
		b:      NewBroadcaster[T](opts...),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go s.pump(ctx, ch)
	return s
}

// Subscribe registers h for values received after this call.
func (s *ChanSource[T]) Subscribe(h Handler[T], opts ...SubscriptionOption) (Subscription, error) {
	return s.b.Subscribe(h, opts...)
}

// Done is closed when the pump goroutine exits.
func (s *ChanSource[T]) Done() <-chan struct{} {
	return s.done
}

// Close stops the pump and drops all subscriptions. It waits for the pump
// goroutine to exit, so no handler runs after Close returns. Close must not
// be called from one of this source's handlers.
func (s *ChanSource[T]) Close() {
	s.once.Do(func() {
		s.cancel()
		<-s.done
		s.b.Close()
	})
}

func (s *ChanSource[T]) pump(ctx context.Context, ch <-chan T) {
	defer close(s.done)

	for {
		select {
		case <-ctx.Done():
			return
		case v, ok := <-ch:
			if !ok {
				return
			}
			s.b.Publish(v)
		}
	}
}

// Ensure the package's observables satisfy Source.
var (
	_ Source[int] = (*Broadcaster[int])(nil)
	_ Source[int] = (*Value[int])(nil)
	_ Source[int] = (*ChanSource[int])(nil)
)
