// Package debounce turns high-frequency calls into low-frequency ones.
//
// A Debouncer runs a callback once after a quiet period with no further
// calls (trailing edge). A Coalescer does the same for a stream of values:
// of a burst of pushes, only the last value is emitted once the stream
// settles.
//
//	c := debounce.NewCoalescer(time.Second, func(text string) {
//		// one call per pause in typing
//	})
//	c.Push("h")
//	c.Push("he")
//	c.Push("hello") // only "hello" is emitted
//
// Both are driven by a clock.Clock so tests can use a virtual clock.
package debounce
