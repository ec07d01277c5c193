// Package manager turns a stream of content snapshots into undoable edits.
//
// A Manager listens to an inbound event.Source. Every raw value becomes the
// current content immediately; a burst of values settles into one command
// after a quiet window. Undo and Redo move a cursor through the recorded
// commands and broadcast the content they produce to subscribers.
//
// # Feedback loops
//
// Subscribers commonly write the broadcast content back into the field the
// manager is listening to. Such echoes equal the current content and are
// ignored, so replaying history never records new commands.
//
// # Concurrency
//
// All state is guarded by one mutex. Broadcasts run after the mutex is
// released, so a subscriber may call back into the Manager.
package manager
