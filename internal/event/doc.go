// Package event provides typed, synchronous fan-out of values to observers.
//
// The package has three building blocks:
//
//   - Broadcaster[T] delivers each published value to every active
//     subscription, in registration order, before Publish returns.
//   - Value[T] is an observable field: Set publishes the new value to its
//     subscribers whenever it changes.
//   - Source[T] is the inbound push-stream contract. Broadcasters and Values
//     are sources; ChanSource adapts a channel.
//
// # Subscriptions
//
// Subscribe returns a Subscription that can be paused, resumed or cancelled
// at any time, including from inside a handler:
//
//	sub, err := b.Subscribe(func(v string) {
//		fmt.Println("got", v)
//	})
//	...
//	sub.Cancel()
//
// A subscription cancelled while a Publish is in flight does not receive that
// value unless its handler was already running.
//
// # Panic Isolation
//
// A panicking handler does not stop delivery to the remaining handlers. The
// panic is recovered and reported to the broadcaster's PanicHandler.
package event
