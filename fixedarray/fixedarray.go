// Copyright (c) 2026 The flatset Authors.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the LICENSE file.

// Package fixedarray implements a capacity-bounded ordered sequence over
// rawstore.Storage: slots [0, count) are initialized and in element
// order, slots [count, capacity) are uninitialized. It never reallocates
// on its own; dynarray layers geometric growth on top of it.
package fixedarray

import "github.com/flatcontainers/flatset/rawstore"

// CapacityError is the panic value raised when an operation would grow
// the array past its fixed capacity.
type CapacityError struct {
	Op       string
	Capacity int
	Count    int
}

func (e *CapacityError) Error() string {
	return "fixedarray: " + e.Op + ": capacity overflow"
}

// BoundsError is the panic value raised when an operation is given an
// index or range outside the array's current element count.
type BoundsError struct {
	Op    string
	Index int
	Count int
}

func (e *BoundsError) Error() string {
	return "fixedarray: " + e.Op + ": index out of range"
}

// Array is a fixed-capacity, ordered sequence of T.
type Array[T any] struct {
	storage rawstore.Storage[T]
	count   int
}

// New returns an empty Array with room for capacity elements.
func New[T any](capacity int) Array[T] {
	return Array[T]{storage: rawstore.Allocate[T](capacity)}
}

// Empty returns a zero-capacity Array.
func Empty[T any]() Array[T] {
	return Array[T]{}
}

// Len returns the number of initialized elements.
func (a *Array[T]) Len() int {
	return a.count
}

// Capacity returns the number of slots backing the array.
func (a *Array[T]) Capacity() int {
	return a.storage.Capacity()
}

// FreeCapacity returns how many more elements can be appended before the
// array is full.
func (a *Array[T]) FreeCapacity() int {
	return a.storage.Capacity() - a.count
}

func (a *Array[T]) checkElementIndex(op string, i int) {
	if i < 0 || i >= a.count {
		panic(&BoundsError{Op: op, Index: i, Count: a.count})
	}
}

// Get returns a pointer to the i'th element.
func (a *Array[T]) Get(i int) *T {
	a.checkElementIndex("Get", i)
	return a.storage.At(i)
}

// Span returns the initialized elements as a slice, [0, Len()).
func (a *Array[T]) Span() []T {
	return a.storage.Span(a.count)
}

// MutableSpan returns the initialized elements as a mutable slice view.
// It is an alias of Span: Go slices are always mutable through their
// backing array, so there is no separate read-only view to distinguish.
func (a *Array[T]) MutableSpan() []T {
	return a.Span()
}

// Append adds value at the end. It panics with CapacityError if the array
// is full.
func (a *Array[T]) Append(value T) {
	if a.count >= a.storage.Capacity() {
		panic(&CapacityError{Op: "Append", Capacity: a.storage.Capacity(), Count: a.count})
	}
	a.storage.InitializeAt(a.count, value)
	a.count++
}

// PushLast appends value if there is room, or returns it back (with ok
// false) without mutating the array if it is full.
func (a *Array[T]) PushLast(value T) (back T, ok bool) {
	if a.count >= a.storage.Capacity() {
		return value, false
	}
	a.storage.InitializeAt(a.count, value)
	a.count++
	var zero T
	return zero, true
}

// AppendBatch reserves up to count trailing slots, hands the caller a
// Window to fill, and advances the array's length by however many slots
// the callback committed (which may be less than count). The callback
// may fill fewer slots than requested but must Commit before returning so
// the reservation is recorded even if it panics partway through.
func (a *Array[T]) AppendBatch(count int, initFn func(w *Window[T])) {
	if count < 0 || a.count+count > a.storage.Capacity() {
		panic(&CapacityError{Op: "AppendBatch", Capacity: a.storage.Capacity(), Count: a.count})
	}
	start := a.count
	w := &Window[T]{slots: a.storage.Span(start + count)[start:]}
	defer func() {
		a.count = start + w.committed
	}()
	initFn(w)
}

// Insert shifts the suffix [at, count) right by one slot and writes value
// at position at. It panics with CapacityError if full, or BoundsError if
// at is out of [0, count].
func (a *Array[T]) Insert(value T, at int) {
	if at < 0 || at > a.count {
		panic(&BoundsError{Op: "Insert", Index: at, Count: a.count})
	}
	if a.count >= a.storage.Capacity() {
		panic(&CapacityError{Op: "Insert", Capacity: a.storage.Capacity(), Count: a.count})
	}
	a.openGap(at, 1)
	a.storage.InitializeAt(at, value)
	a.count++
}

// InsertBatch opens a gap of size count at position at, hands the caller
// a Window over it, and requires the callback fully populate the gap
// (the spec's InsertBatch does not allow the callback to signal failure,
// to avoid having to roll back the pre-shifted suffix; see SPEC_FULL.md
// §9).
func (a *Array[T]) InsertBatch(count, at int, initFn func(w *Window[T])) {
	if at < 0 || at > a.count {
		panic(&BoundsError{Op: "InsertBatch", Index: at, Count: a.count})
	}
	if count < 0 || a.count+count > a.storage.Capacity() {
		panic(&CapacityError{Op: "InsertBatch", Capacity: a.storage.Capacity(), Count: a.count})
	}
	a.openGap(at, count)
	w := &Window[T]{slots: a.storage.Span(at + count)[at:]}
	initFn(w)
	if w.committed != count {
		panic(&CapacityError{Op: "InsertBatch", Capacity: count, Count: w.committed})
	}
	a.count += count
}

// Remove deletes the element at position at and returns it, shifting the
// suffix left by one.
func (a *Array[T]) Remove(at int) T {
	a.checkElementIndex("Remove", at)
	v := a.storage.TakeAt(at)
	a.closeGap(at, 1)
	a.count--
	return v
}

// RemoveRange deletes elements [lo, hi), shifting the suffix left.
func (a *Array[T]) RemoveRange(lo, hi int) {
	if lo < 0 || hi > a.count || lo > hi {
		panic(&BoundsError{Op: "RemoveRange", Index: lo, Count: a.count})
	}
	for i := lo; i < hi; i++ {
		a.storage.DropAt(i)
	}
	a.closeGap(lo, hi-lo)
	a.count -= hi - lo
}

// RemoveLast deletes and returns the last element.
func (a *Array[T]) RemoveLast() T {
	if a.count == 0 {
		panic(&BoundsError{Op: "RemoveLast", Index: -1, Count: 0})
	}
	a.count--
	return a.storage.TakeAt(a.count)
}

// RemoveLastN deletes the last n elements.
func (a *Array[T]) RemoveLastN(n int) {
	if n < 0 || n > a.count {
		panic(&BoundsError{Op: "RemoveLastN", Index: n, Count: a.count})
	}
	for i := a.count - n; i < a.count; i++ {
		a.storage.DropAt(i)
	}
	a.count -= n
}

// Swap exchanges the elements at positions i and j.
func (a *Array[T]) Swap(i, j int) {
	a.checkElementIndex("Swap", i)
	a.checkElementIndex("Swap", j)
	if i == j {
		return
	}
	pi, pj := a.storage.At(i), a.storage.At(j)
	*pi, *pj = *pj, *pi
}

// Reallocate changes the backing capacity to newCapacity, which must be
// at least Len(). Existing elements are preserved in place.
func (a *Array[T]) Reallocate(newCapacity int) {
	if newCapacity < a.count {
		panic(&CapacityError{Op: "Reallocate", Capacity: newCapacity, Count: a.count})
	}
	next := rawstore.Allocate[T](newCapacity)
	if a.count > 0 {
		copy(next.Span(a.count), a.storage.Span(a.count))
	}
	a.storage.Deallocate()
	a.storage = next
}

// Reserve grows the backing capacity, if needed, so that at least n more
// elements can be appended without reallocating again.
func (a *Array[T]) Reserve(n int) {
	if a.FreeCapacity() >= n {
		return
	}
	a.Reallocate(a.count + n)
}

// Copy returns an independent duplicate of the array, using T's Clone
// method (via rawstore.Cloner) when available.
func (a *Array[T]) Copy() Array[T] {
	out := New[T](a.storage.Capacity())
	for i := 0; i < a.count; i++ {
		v := *a.storage.At(i)
		if c, ok := any(v).(rawstore.Cloner[T]); ok {
			v = c.Clone()
		}
		out.storage.InitializeAt(i, v)
	}
	out.count = a.count
	return out
}

// Editor is the resizable in-place view handed to Array.Edit.
type Editor[T any] struct {
	array *Array[T]
}

// Len returns the current element count as seen by the editor.
func (e *Editor[T]) Len() int {
	return e.array.count
}

// Capacity returns the array's fixed capacity.
func (e *Editor[T]) Capacity() int {
	return e.array.storage.Capacity()
}

// Get returns a pointer to the i'th element.
func (e *Editor[T]) Get(i int) *T {
	return e.array.Get(i)
}

// Insert inserts value at position at within the edit.
func (e *Editor[T]) Insert(value T, at int) {
	e.array.Insert(value, at)
}

// Remove removes and returns the element at position at within the edit.
func (e *Editor[T]) Remove(at int) T {
	return e.array.Remove(at)
}

// SetLen records the new element count directly; used after the callback
// has rearranged slots [0, capacity) itself (e.g. a sort or partition)
// without going through Insert/Remove.
func (e *Editor[T]) SetLen(n int) {
	if n < 0 || n > e.array.storage.Capacity() {
		panic(&BoundsError{Op: "Editor.SetLen", Index: n, Count: e.array.count})
	}
	e.array.count = n
}

// Edit hands fn a resizable in-place Editor over the array. fn may
// freely insert/remove/reorder elements; the editor's operations act on
// the array itself, so its count already reflects every change fn made
// when fn returns, including when fn panics.
func (a *Array[T]) Edit(fn func(e *Editor[T])) {
	e := &Editor[T]{array: a}
	fn(e)
}

// openGap relocates the suffix [at, count) to [at+n, count+n), leaving
// [at, at+n) uninitialized for the caller to fill.
func (a *Array[T]) openGap(at, n int) {
	if n == 0 {
		return
	}
	tail := a.count - at
	if tail > 0 {
		a.storage.MoveRange(at+n, at, tail)
	}
}

// closeGap relocates the suffix [at+n, count) back to [at, count-n),
// destroying the gap [at, at+n).
func (a *Array[T]) closeGap(at, n int) {
	if n == 0 {
		return
	}
	tail := a.count - (at + n)
	if tail > 0 {
		a.storage.MoveRange(at, at+n, tail)
	}
}

// GapForReplacement destroys the elements in [lo, hi), opens or closes
// the difference between (hi-lo) and newCount, and returns a Window over
// the freshly uninitialized window of newCount slots at lo for the
// caller to populate. The array's count reflects the replacement
// immediately; the caller must fully populate the window before using
// the array again.
func (a *Array[T]) GapForReplacement(lo, hi, newCount int) *Window[T] {
	if lo < 0 || hi > a.count || lo > hi {
		panic(&BoundsError{Op: "GapForReplacement", Index: lo, Count: a.count})
	}
	oldCount := hi - lo
	for i := lo; i < hi; i++ {
		a.storage.DropAt(i)
	}
	if newCount > oldCount {
		if a.count-oldCount+newCount > a.storage.Capacity() {
			panic(&CapacityError{Op: "GapForReplacement", Capacity: a.storage.Capacity(), Count: a.count})
		}
		a.openGap(hi, newCount-oldCount)
	} else if newCount < oldCount {
		a.closeGap(lo+newCount, oldCount-newCount)
	}
	a.count = a.count - oldCount + newCount
	return &Window[T]{slots: a.storage.Span(lo + newCount)[lo:], committed: newCount}
}

// ChunkBefore returns the elements [0, *idx) and advances *idx to 0, the
// chunk's far end; it exists alongside ChunkAfter to let callers walk the
// array in positional chunks without recomputing offsets each time.
func (a *Array[T]) ChunkBefore(idx *int) []T {
	if *idx < 0 || *idx > a.count {
		panic(&BoundsError{Op: "ChunkBefore", Index: *idx, Count: a.count})
	}
	end := *idx
	*idx = 0
	return a.storage.Span(end)
}

// ChunkAfter returns the elements [*idx, Len()) and advances *idx to
// Len(), the chunk's far end.
func (a *Array[T]) ChunkAfter(idx *int) []T {
	if *idx < 0 || *idx > a.count {
		panic(&BoundsError{Op: "ChunkAfter", Index: *idx, Count: a.count})
	}
	start := *idx
	*idx = a.count
	return a.storage.Span(a.count)[start:]
}
