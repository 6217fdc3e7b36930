// Copyright (c) 2026 The flatset Authors.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the LICENSE file.

// Package dynarray layers geometric capacity growth and exclusive
// ownership over fixedarray.Array. It is the backing store orderedset
// uses for its dense element slice.
package dynarray

import "github.com/flatcontainers/flatset/fixedarray"

// Array is a growing, exclusively-owned ordered sequence of T. The zero
// value is an empty array ready to use.
type Array[T any] struct {
	fixed fixedarray.Array[T]
}

// New returns an empty Array pre-sized to hold capacity elements without
// growing.
func New[T any](capacity int) Array[T] {
	return Array[T]{fixed: fixedarray.New[T](capacity)}
}

// Len returns the number of elements.
func (a *Array[T]) Len() int {
	return a.fixed.Len()
}

// Capacity returns the current backing capacity.
func (a *Array[T]) Capacity() int {
	return a.fixed.Capacity()
}

// grow computes the geometric policy (3*c+1)/2 so repeated appends are
// amortized O(1); ensureFreeCapacity takes the larger of this and
// count+requested.
func grow(capacity int) int {
	return (3*capacity + 1) / 2
}

// ensureFreeCapacity reallocates, if needed, so that at least requested
// more elements can be appended without reallocating again.
func (a *Array[T]) ensureFreeCapacity(requested int) {
	if a.fixed.FreeCapacity() >= requested {
		return
	}
	newCapacity := a.fixed.Len() + requested
	if grown := grow(a.fixed.Capacity()); grown > newCapacity {
		newCapacity = grown
	}
	a.fixed.Reallocate(newCapacity)
}

// Get returns a pointer to the i'th element.
func (a *Array[T]) Get(i int) *T {
	return a.fixed.Get(i)
}

// Span returns the elements as a slice, [0, Len()).
func (a *Array[T]) Span() []T {
	return a.fixed.Span()
}

// Append adds value at the end, growing the backing storage if needed.
func (a *Array[T]) Append(value T) {
	a.ensureFreeCapacity(1)
	a.fixed.Append(value)
}

// AppendBatch reserves count trailing slots (growing if needed), hands
// the caller a fixedarray.Window to fill, and advances the length by
// however many slots the callback committed.
func (a *Array[T]) AppendBatch(count int, initFn func(w *fixedarray.Window[T])) {
	a.ensureFreeCapacity(count)
	a.fixed.AppendBatch(count, initFn)
}

// Insert shifts the suffix [at, Len()) right by one and writes value at
// position at, growing the backing storage if needed.
func (a *Array[T]) Insert(value T, at int) {
	a.ensureFreeCapacity(1)
	a.fixed.Insert(value, at)
}

// InsertBatch opens a gap of size count at position at (growing if
// needed) and hands the caller a Window it must fully populate.
func (a *Array[T]) InsertBatch(count, at int, initFn func(w *fixedarray.Window[T])) {
	a.ensureFreeCapacity(count)
	a.fixed.InsertBatch(count, at, initFn)
}

// Remove deletes and returns the element at position at.
func (a *Array[T]) Remove(at int) T {
	return a.fixed.Remove(at)
}

// RemoveRange deletes elements [lo, hi).
func (a *Array[T]) RemoveRange(lo, hi int) {
	a.fixed.RemoveRange(lo, hi)
}

// RemoveLast deletes and returns the last element.
func (a *Array[T]) RemoveLast() T {
	return a.fixed.RemoveLast()
}

// RemoveLastN deletes the last n elements.
func (a *Array[T]) RemoveLastN(n int) {
	a.fixed.RemoveLastN(n)
}

// Swap exchanges the elements at positions i and j.
func (a *Array[T]) Swap(i, j int) {
	a.fixed.Swap(i, j)
}

// Reserve grows the backing capacity, if needed, so at least n more
// elements can be appended without reallocating again. If persistent is
// true the caller intends this reservation to survive shrink policy
// decisions made by higher layers (orderedset uses this to decide
// whether to keep a hash table around at low element counts).
func (a *Array[T]) Reserve(n int, persistent bool) {
	_ = persistent
	if a.fixed.FreeCapacity() >= n {
		return
	}
	a.fixed.Reallocate(a.fixed.Len() + n)
}

// Copy returns an independent duplicate of the array.
func (a *Array[T]) Copy() Array[T] {
	return Array[T]{fixed: a.fixed.Copy()}
}

// Edit hands fn a resizable in-place Editor over the array. Unlike
// Append/Insert, Edit cannot guess how much room fn's inserts will need;
// callers planning to insert through the editor should Reserve capacity
// first, or fn will see the same CapacityError an over-full fixedarray
// would raise.
func (a *Array[T]) Edit(fn func(e *fixedarray.Editor[T])) {
	a.fixed.Edit(fn)
}

// GapForReplacement destroys [lo, hi) and returns a Window over a
// freshly uninitialized run of newCount slots at lo, growing first if
// newCount widens the array.
func (a *Array[T]) GapForReplacement(lo, hi, newCount int) *fixedarray.Window[T] {
	if grow := newCount - (hi - lo); grow > 0 {
		a.ensureFreeCapacity(grow)
	}
	return a.fixed.GapForReplacement(lo, hi, newCount)
}
