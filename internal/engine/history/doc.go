// Package history provides the undo/redo history for the command manager.
//
// The history uses the Command pattern: each recorded step is a Command
// with a forward (Apply) and backward (Revert) transform over the content.
//
// # Commands
//
// Built-in commands include:
//   - SnapshotCommand: captures whole before/after snapshots and ignores the
//     content it is applied to
//   - FuncCommand: wraps arbitrary forward/backward transforms; this is the
//     place to plug in diff-based steps
//
// A transform may yield no value. The history still moves its cursor; it is
// up to the caller to skip publishing.
//
// # History Stack
//
// Stack is a linear history with a cursor:
//
//	s := history.NewStack[string]()
//	s.Append(history.NewSnapshotCommand("a", "ab"))
//
//	if cmd, ok := s.Undo(); ok {
//		prev, _ := cmd.Revert(current)
//	}
//
// Appending while the cursor is behind the head discards the redo branch.
// Stack is not safe for concurrent use; its owner serializes access.
package history
