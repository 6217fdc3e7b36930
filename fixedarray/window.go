// Copyright (c) 2026 The flatset Authors.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the LICENSE file.

package fixedarray

// Window is the output view handed to AppendBatch/InsertBatch
// initializers. It exposes a fixed-capacity slice the callback fills in
// from index 0, and a running "committed" count the callback must record
// via Commit before returning.
//
// Go has no destructor to hook a commit-on-unwind the way spec.md §9
// imagines. Array.AppendBatch instead reads w.committed from a deferred
// closure with no recover, so a panic from the initializer still
// propagates to the caller after the defer runs — the array is simply
// left with whatever prefix of slots was committed before the panic.
// Array.InsertBatch has already shifted the suffix to open the gap by
// the time the initializer runs, so it cannot tolerate a partial
// commit the way AppendBatch can; it checks w.committed against the
// full gap size after the initializer returns instead of deferring.
type Window[T any] struct {
	slots     []T
	committed int
}

// Len returns the number of slots available to be filled.
func (w *Window[T]) Len() int {
	return len(w.slots)
}

// Set writes value into slot i of the window. i must be less than Len().
func (w *Window[T]) Set(i int, value T) {
	if i < 0 || i >= len(w.slots) {
		panic(&BoundsError{Op: "Window.Set", Index: i, Count: len(w.slots)})
	}
	w.slots[i] = value
}

// Commit records that the first n slots of the window have been
// initialized by the caller. It may be called more than once; the last
// call before return (or before a panic) wins.
func (w *Window[T]) Commit(n int) {
	if n < 0 || n > len(w.slots) {
		panic(&BoundsError{Op: "Window.Commit", Index: n, Count: len(w.slots)})
	}
	w.committed = n
}
