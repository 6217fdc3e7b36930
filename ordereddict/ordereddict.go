// Copyright (c) 2026 The flatset Authors.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the LICENSE file.

// Package ordereddict implements an insertion-ordered map: an
// orderedset.Set of keys paired with a value slice kept in the same
// insertion order as the keys, so "does this key exist" and "find this
// key's position" both come from the key set's existing O(1) membership
// test rather than a second lookup structure.
package ordereddict

import (
	"github.com/flatcontainers/flatset/dynarray"
	"github.com/flatcontainers/flatset/orderedset"
)

// Dict is an insertion-ordered map from K to V.
type Dict[K orderedset.Hashable[K], V any] struct {
	keys   orderedset.Set[K]
	values dynarray.Array[V]
}

// New returns an empty dict.
func New[K orderedset.Hashable[K], V any]() Dict[K, V] {
	return Dict[K, V]{}
}

// WithCapacity returns an empty dict pre-sized to hold n entries without
// reallocating.
func WithCapacity[K orderedset.Hashable[K], V any](n int) Dict[K, V] {
	return Dict[K, V]{
		keys:   orderedset.WithCapacity[K](n),
		values: dynarray.New[V](n),
	}
}

// Len returns the number of entries.
func (d *Dict[K, V]) Len() int {
	return d.keys.Len()
}

// IsEmpty reports whether the dict holds no entries.
func (d *Dict[K, V]) IsEmpty() bool {
	return d.Len() == 0
}

// Capacity mirrors the key set's backing capacity.
func (d *Dict[K, V]) Capacity() int {
	return d.keys.Capacity()
}

// Get returns the value for k, if present.
func (d *Dict[K, V]) Get(k K) (value V, ok bool) {
	idx, found := d.keys.IndexOf(k)
	if !found {
		var zero V
		return zero, false
	}
	return *d.values.Get(idx), true
}

// ContainsKey reports whether k has an entry.
func (d *Dict[K, V]) ContainsKey(k K) bool {
	return d.keys.Contains(k)
}

// InsertValue installs v for key k. If k already has an entry, its
// previous value is replaced and returned with ok=true; otherwise the
// entry is appended and ok=false.
func (d *Dict[K, V]) InsertValue(k K, v V) (previous V, ok bool) {
	idx, found := d.keys.IndexOf(k)
	if found {
		old := *d.values.Get(idx)
		*d.values.Get(idx) = v
		return old, true
	}
	d.keys.Append(k)
	d.values.Append(v)
	var zero V
	return zero, false
}

// UpdateValue overwrites the value for an existing key k, returning the
// value it replaced. If k has no entry, it is inserted exactly as
// InsertValue would.
func (d *Dict[K, V]) UpdateValue(k K, v V) (previous V, ok bool) {
	return d.InsertValue(k, v)
}

// MemoizedValue returns a pointer to k's value, building and installing
// one via build if k has no entry yet. The returned pointer aliases the
// dict's storage and must not be retained across a mutation.
func (d *Dict[K, V]) MemoizedValue(k K, build func() V) *V {
	idx, found := d.keys.IndexOf(k)
	if found {
		return d.values.Get(idx)
	}
	v := build()
	d.keys.Append(k)
	d.values.Append(v)
	return d.values.Get(d.Len() - 1)
}

// RemoveKey deletes k's entry, if present, returning its value.
func (d *Dict[K, V]) RemoveKey(k K) (removed V, ok bool) {
	idx, found := d.keys.IndexOf(k)
	if !found {
		var zero V
		return zero, false
	}
	removed = *d.values.Get(idx)
	d.keys.RemoveAt(idx)
	d.values.Remove(idx)
	return removed, true
}

// Keys returns the keys in insertion order. The returned slice aliases
// the dict's storage and must not be retained across a mutation.
func (d *Dict[K, V]) Keys() []K {
	return d.keys.Iter()
}

// Values returns the values in the same order as Keys. The returned
// slice aliases the dict's storage and must not be retained across a
// mutation.
func (d *Dict[K, V]) Values() []V {
	return d.values.Span()
}

// ReserveCapacity grows the backing storage, as orderedset.Set.ReserveCapacity
// does for the key set, mirroring the reservation onto the value array.
func (d *Dict[K, V]) ReserveCapacity(n int, persistent bool) {
	d.keys.ReserveCapacity(n, persistent)
	d.values.Reserve(n, persistent)
}

// ShrinkByPolicy releases a persistent reservation, matching
// orderedset.Set.ShrinkByPolicy.
func (d *Dict[K, V]) ShrinkByPolicy() {
	d.keys.ShrinkByPolicy()
}
