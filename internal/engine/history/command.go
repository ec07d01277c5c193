package history

import (
	"fmt"
)

// Command represents a reversible edit step over content of type T.
type Command[T any] interface {
	// Apply performs the step forward. ok is false if the step yields no
	// value for this content.
	Apply(current T) (next T, ok bool)

	// Revert reverses the step. ok is false if the step yields no value
	// for this content.
	Revert(current T) (prev T, ok bool)

	// Description returns a human-readable description of the command.
	Description() string
}

// Transform maps content to new content, or reports that it yields nothing.
type Transform[T any] func(T) (T, bool)

// SnapshotCommand replaces the content with captured snapshots: Apply
// yields the after snapshot and Revert the before snapshot, whatever the
// current content is.
type SnapshotCommand[T any] struct {
	before    T
	hasBefore bool
	after     T
}

// NewSnapshotCommand creates a command moving between before and after.
func NewSnapshotCommand[T any](before, after T) *SnapshotCommand[T] {
	return &SnapshotCommand[T]{
		before:    before,
		hasBefore: true,
		after:     after,
	}
}

// NewBaselineCommand creates a command with no before snapshot. Its Revert
// yields no value. It records the first known content of a history that
// started without one.
func NewBaselineCommand[T any](after T) *SnapshotCommand[T] {
	return &SnapshotCommand[T]{after: after}
}

// Apply returns the after snapshot.
func (c *SnapshotCommand[T]) Apply(T) (T, bool) {
	return c.after, true
}

// Revert returns the before snapshot, if one was captured.
func (c *SnapshotCommand[T]) Revert(T) (T, bool) {
	return c.before, c.hasBefore
}

// Description returns a human-readable description.
func (c *SnapshotCommand[T]) Description() string {
	if !c.hasBefore {
		return fmt.Sprintf("Baseline %s", abbreviate(c.after))
	}
	return fmt.Sprintf("Change %s to %s", abbreviate(c.before), abbreviate(c.after))
}

// FuncCommand adapts a pair of transforms into a Command.
type FuncCommand[T any] struct {
	Name     string
	Forward  Transform[T]
	Backward Transform[T]
}

// NewFuncCommand creates a command from forward and backward transforms.
// A nil transform yields no value.
func NewFuncCommand[T any](name string, forward, backward Transform[T]) *FuncCommand[T] {
	return &FuncCommand[T]{
		Name:     name,
		Forward:  forward,
		Backward: backward,
	}
}

// Apply runs the forward transform.
func (c *FuncCommand[T]) Apply(current T) (T, bool) {
	if c.Forward == nil {
		var zero T
		return zero, false
	}
	return c.Forward(current)
}

// Revert runs the backward transform.
func (c *FuncCommand[T]) Revert(current T) (T, bool) {
	if c.Backward == nil {
		var zero T
		return zero, false
	}
	return c.Backward(current)
}

// Description returns the command's name.
func (c *FuncCommand[T]) Description() string {
	if c.Name != "" {
		return c.Name
	}
	return "Edit"
}

const maxDescribed = 20

func abbreviate(v any) string {
	s := fmt.Sprintf("%v", v)
	r := []rune(s)
	if len(r) <= maxDescribed {
		return fmt.Sprintf("%q", s)
	}
	return fmt.Sprintf("%q…", string(r[:maxDescribed]))
}
