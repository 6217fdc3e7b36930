// Copyright (c) 2026 The flatset Authors.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the LICENSE file.

// Package orderedset implements an insertion-ordered set: a dense
// element array giving O(1) positional access and order-preserving
// iteration, backed by a hashtable.Table once the element count grows
// past a small linear-scan threshold. Below that threshold (Hashless)
// membership is a plain scan; above it (Hashed) the table stores array
// offsets rather than the elements themselves, which is what lets one
// hashtable.Table implementation serve every element type without ever
// comparing or hashing anything on its own.
package orderedset

import (
	"sort"

	"golang.org/x/exp/rand"

	"github.com/flatcontainers/flatset/dynarray"
	"github.com/flatcontainers/flatset/hashtable"
)

// Hashable is the contract an element type must satisfy to live in a
// Set. Equal compares against another value of the same type directly
// (no interface{} boxing), matching how the teacher's hashmap.Hashable
// combines a hash with an equality check, generalized to T instead of
// interface{}.
type Hashable[T any] interface {
	Hash() uint64
	Equal(other T) bool
}

// BoundsError is raised when an index-taking operation is given an
// index outside [0, Len()) (or, for insertion points, outside
// [0, Len()]).
type BoundsError struct {
	Op    string
	Index int
	Len   int
}

func (e *BoundsError) Error() string {
	return "orderedset: " + e.Op + ": index out of range"
}

// EqualityError is raised by UpdateAt when the replacement value does
// not compare Equal to the element it would replace.
type EqualityError struct {
	Index int
}

func (e *EqualityError) Error() string {
	return "orderedset: UpdateAt: replacement does not equal existing element"
}

// Set is an insertion-ordered collection of unique T values.
type Set[T Hashable[T]] struct {
	elements      dynarray.Array[T]
	table         *hashtable.Table
	reservedScale int
}

// New returns an empty set.
func New[T Hashable[T]]() Set[T] {
	return Set[T]{}
}

// WithCapacity returns an empty set pre-sized to hold n elements without
// reallocating its element array or its table.
func WithCapacity[T Hashable[T]](n int) Set[T] {
	s := Set[T]{elements: dynarray.New[T](n)}
	s.growTableIfNeeded(n, false)
	return s
}

// FromSeq builds a set from seq in order, skipping elements already
// present (first occurrence wins, matching Append's duplicate
// semantics).
func FromSeq[T Hashable[T]](seq []T) Set[T] {
	s := WithCapacity[T](len(seq))
	for _, e := range seq {
		s.Append(e)
	}
	return s
}

// Len returns the number of elements.
func (s *Set[T]) Len() int {
	return s.elements.Len()
}

// IsEmpty reports whether the set holds no elements.
func (s *Set[T]) IsEmpty() bool {
	return s.Len() == 0
}

// Capacity returns the backing element array's capacity, mirrored by
// ordereddict.Dict to size its parallel value storage.
func (s *Set[T]) Capacity() int {
	return s.elements.Capacity()
}

// Get returns a pointer to the element at position i.
func (s *Set[T]) Get(i int) *T {
	s.checkIndex("Get", i, s.Len())
	return s.elements.Get(i)
}

// Iter returns the elements in insertion order. The returned slice
// aliases the set's storage and must not be retained across a mutation.
func (s *Set[T]) Iter() []T {
	return s.elements.Span()
}

func (s *Set[T]) checkIndex(op string, i, limit int) {
	if i < 0 || i >= limit {
		panic(&BoundsError{Op: op, Index: i, Len: s.Len()})
	}
}

func (s *Set[T]) ideal(h uint64) int {
	return s.table.IdealBucket(h)
}

// IndexOf returns the position of e, or ok=false if absent.
func (s *Set[T]) IndexOf(e T) (index int, ok bool) {
	if s.table == nil {
		elems := s.elements.Span()
		for i := range elems {
			if elems[i].Equal(e) {
				return i, true
			}
		}
		return 0, false
	}
	elems := s.elements.Span()
	off, found := s.table.Lookup(s.ideal(e.Hash()), func(offset int) bool {
		return elems[offset].Equal(e)
	})
	return off, found
}

// Contains reports whether e is already a member.
func (s *Set[T]) Contains(e T) bool {
	_, ok := s.IndexOf(e)
	return ok
}

// growTableIfNeeded transitions Hashless -> Hashed (or Hashed -> Hashed'
// at a larger scale) when targetCount would exceed what the current
// state can hold. persistent marks the reservation as surviving a later
// ShrinkByPolicy call.
func (s *Set[T]) growTableIfNeeded(targetCount int, persistent bool) {
	if s.table == nil {
		scale, needed := hashtable.ChooseScale(targetCount)
		if !needed {
			return
		}
		s.table = hashtable.New(scale)
		s.rebuildTable()
	} else if targetCount > hashtable.MaxCapacityForScale(s.table.Scale()) {
		scale, _ := hashtable.ChooseScale(targetCount)
		s.table = hashtable.New(scale)
		s.rebuildTable()
	}
	if persistent && s.table != nil {
		s.reservedScale = s.table.Scale()
		s.table.SetReservedScale(s.reservedScale)
	}
}

func (s *Set[T]) rebuildTable() {
	// Start from an empty table of the same scale so stale offsets from
	// before the reorder or removal do not survive the refill.
	s.table = hashtable.NewReserved(s.table.Scale(), s.table.ReservedScale())
	elems := s.elements.Span()
	hashtable.FillUnique(s.table, elems, func(e T) uint64 { return e.Hash() })
}

func (s *Set[T]) idealBucketOf(elems []T) func(offset int) int {
	return func(offset int) int { return s.ideal(elems[offset].Hash()) }
}

// Append places e at the end if it is not already present. It returns
// whether an insertion happened and the element's final index (the
// existing index, if e was already a member).
func (s *Set[T]) Append(e T) (inserted bool, index int) {
	if idx, ok := s.IndexOf(e); ok {
		return false, idx
	}
	s.growTableIfNeeded(s.Len()+1, false)
	idx = s.Len()
	s.elements.Append(e)
	if s.table != nil {
		s.table.InsertAtEmpty(s.ideal(e.Hash()), idx)
	}
	return true, idx
}

// renumberForInsert bumps every stored offset >= at by +1, choosing the
// whole-table scan when the affected range exceeds capacity/3 and the
// touched-element walk otherwise; as an optimization, when the affected
// prefix [0, at) is smaller than the untouched suffix, it shifts the
// table's bias instead of rewriting the (larger) suffix directly.
func (s *Set[T]) renumberForInsert(at int) {
	if s.table == nil {
		return
	}
	elems := s.elements.Span()
	n := len(elems)
	affected := n - at
	if at < n-at {
		s.shiftPrefixViaBias(at)
		return
	}
	if affected > s.table.BucketCount()/3 {
		s.table.ShiftAllOffsets(at, 1, true)
		return
	}
	for i := n - 1; i >= at; i-- {
		ideal := s.ideal(elems[i].Hash())
		s.table.RewriteOffsetAt(ideal, i, i+1)
	}
}

// shiftPrefixViaBias implements the front-insertion optimization: rather
// than rewrite every offset in [at, n) (the larger half), increment the
// bias (shifting every existing offset's decoded value up by one in
// O(1)) and then walk only the smaller prefix [0, at), rewriting it
// back to its un-shifted value so it reads back correctly.
func (s *Set[T]) shiftPrefixViaBias(at int) {
	elems := s.elements.Span()
	s.table.ShiftBiasForPrepend()
	for i := 0; i < at; i++ {
		ideal := s.ideal(elems[i].Hash())
		// After the bias shift, bucket i's decoded value reads as i+1; walk
		// it back down to i since the prefix did not actually move.
		s.table.RewriteOffsetAt(ideal, i+1, i)
	}
}

// renumberForRemove is the removal-side counterpart: every offset > at
// decreases by one, with the same scan-vs-walk heuristic and front-
// removal bias optimization.
func (s *Set[T]) renumberForRemove(at int) {
	if s.table == nil {
		return
	}
	elems := s.elements.Span()
	n := len(elems)
	affected := n - at
	if at < affected {
		s.shiftPrefixViaBiasForRemove(at)
		return
	}
	if affected > s.table.BucketCount()/3 {
		s.table.ShiftAllOffsets(at, -1, false)
		return
	}
	for i := at; i < n-1; i++ {
		ideal := s.ideal(elems[i+1].Hash())
		s.table.RewriteOffsetAt(ideal, i+1, i)
	}
}

func (s *Set[T]) shiftPrefixViaBiasForRemove(at int) {
	elems := s.elements.Span()
	// Walk downward: offset at is already free (its element was deleted),
	// so each rewrite i -> i+1 targets an offset no other bucket holds.
	for i := at - 1; i >= 0; i-- {
		ideal := s.ideal(elems[i].Hash())
		s.table.RewriteOffsetAt(ideal, i, i+1)
	}
	s.table.ShiftBiasForRemoveFront()
}

// Insert places e at position at if it is not already present,
// renumbering every trailing offset. If e is already a member, no
// insertion happens and the existing index is returned (which may
// differ from at).
func (s *Set[T]) Insert(e T, at int) (inserted bool, index int) {
	if idx, ok := s.IndexOf(e); ok {
		return false, idx
	}
	s.checkIndex("Insert", at, s.Len()+1)
	s.growTableIfNeeded(s.Len()+1, false)
	s.renumberForInsert(at)
	s.elements.Insert(e, at)
	if s.table != nil {
		s.table.InsertAtEmpty(s.ideal(e.Hash()), at)
	}
	return true, at
}

// UpdateOrAppend replaces an existing element equal to e, or appends e
// if none is found. It returns the replaced element, if any.
func (s *Set[T]) UpdateOrAppend(e T) (previous T, hadPrevious bool) {
	if idx, ok := s.IndexOf(e); ok {
		old := *s.elements.Get(idx)
		*s.elements.Get(idx) = e
		return old, true
	}
	s.Append(e)
	var zero T
	return zero, false
}

// UpdateOrInsert replaces an existing element equal to e, or inserts e
// at position at if none is found.
func (s *Set[T]) UpdateOrInsert(e T, at int) (previous T, index int, hadPrevious bool) {
	if idx, ok := s.IndexOf(e); ok {
		old := *s.elements.Get(idx)
		*s.elements.Get(idx) = e
		return old, idx, true
	}
	_, idx := s.Insert(e, at)
	var zero T
	return zero, idx, false
}

// UpdateAt overwrites the element at position i with e, which must
// compare Equal to the element already there (the caller uses this when
// the new value is equal-but-distinguishable, e.g. differs only in
// fields Equal ignores). It returns the replaced element.
func (s *Set[T]) UpdateAt(i int, e T) T {
	s.checkIndex("UpdateAt", i, s.Len())
	old := *s.elements.Get(i)
	if !old.Equal(e) {
		panic(&EqualityError{Index: i})
	}
	*s.elements.Get(i) = e
	return old
}

// Remove deletes e if present, returning it and ok=true.
func (s *Set[T]) Remove(e T) (removed T, ok bool) {
	idx, found := s.IndexOf(e)
	if !found {
		var zero T
		return zero, false
	}
	return s.RemoveAt(idx), true
}

// RemoveAt deletes and returns the element at position i.
func (s *Set[T]) RemoveAt(i int) T {
	s.checkIndex("RemoveAt", i, s.Len())
	removed := *s.elements.Get(i)
	if s.table != nil {
		elems := s.elements.Span()
		ideal := s.ideal(removed.Hash())
		b, _, found := s.table.Probe(ideal, func(offset int) bool { return offset == i })
		if found {
			s.table.Delete(b, s.idealBucketOf(elems))
		}
	}
	s.renumberForRemove(i)
	s.elements.Remove(i)
	s.maybeShrinkTable()
	return removed
}

// RemoveRange deletes elements [lo, hi), renumbering and rebuilding the
// table in one pass (cheaper than repeated RemoveAt calls for a
// contiguous range).
func (s *Set[T]) RemoveRange(lo, hi int) {
	s.checkIndex("RemoveRange", lo, s.Len()+1)
	if hi < lo || hi > s.Len() {
		panic(&BoundsError{Op: "RemoveRange", Index: hi, Len: s.Len()})
	}
	s.elements.RemoveRange(lo, hi)
	if s.table != nil {
		s.rebuildTable()
	}
	s.maybeShrinkTable()
}

// RemoveFirst deletes and returns the first element.
func (s *Set[T]) RemoveFirst() T {
	return s.RemoveAt(0)
}

// RemoveLast deletes and returns the last element.
func (s *Set[T]) RemoveLast() T {
	return s.RemoveAt(s.Len() - 1)
}

// RemoveAllWhere deletes every element for which pred returns true,
// preserving the relative order of survivors, and rebuilds the table
// once rather than renumbering per removal.
func (s *Set[T]) RemoveAllWhere(pred func(T) bool) {
	elems := s.elements.Span()
	// Evaluate pred on every element before moving any, so a pred that
	// panics leaves the set unchanged.
	drop := make([]bool, len(elems))
	for i, e := range elems {
		drop[i] = pred(e)
	}
	kept := elems[:0]
	for i, e := range elems {
		if !drop[i] {
			kept = append(kept, e)
		}
	}
	n := len(kept)
	s.elements.RemoveLastN(s.Len() - n)
	if s.table != nil {
		s.rebuildTable()
	}
	s.maybeShrinkTable()
}

// maybeShrinkTable transitions Hashed -> Hashless once the count drops
// to or below maxUnhashed with no persistent reservation in effect, or
// rebuilds at a smaller scale (never below the reserved scale) once the
// count falls under MinCapacityForScale of the current scale.
func (s *Set[T]) maybeShrinkTable() {
	if s.table == nil {
		return
	}
	n := s.Len()
	if n <= hashtable.MaxUnhashed && s.reservedScale == 0 {
		s.table = nil
		return
	}
	if n < hashtable.MinCapacityForScale(s.table.Scale()) && s.table.Scale() > s.reservedScale {
		scale, ok := hashtable.ChooseScale(max(n, hashtable.MaxUnhashed+1))
		if ok && scale < s.table.Scale() {
			if s.reservedScale > scale {
				scale = s.reservedScale
			}
			s.table = hashtable.New(scale)
			s.rebuildTable()
		}
	}
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// ReserveCapacity grows the backing array and, where the resulting
// count calls for one, the table, so at least n more elements can be
// appended without reallocating. A persistent reservation also records
// the table's scale as a floor, which keeps a table alive even if the
// element count later drops to or below maxUnhashed.
func (s *Set[T]) ReserveCapacity(n int, persistent bool) {
	s.elements.Reserve(n, persistent)
	s.growTableIfNeeded(s.Len()+n, persistent)
}

// ShrinkByPolicy releases a persistent reservation and shrinks the table
// if the current count now falls under the policy thresholds.
func (s *Set[T]) ShrinkByPolicy() {
	s.reservedScale = 0
	if s.table != nil {
		s.table.SetReservedScale(0)
	}
	s.maybeShrinkTable()
}

// Swap exchanges the elements at positions i and j, rewriting their two
// bucket entries to reference each other's new position.
func (s *Set[T]) Swap(i, j int) {
	if i == j {
		return
	}
	s.checkIndex("Swap", i, s.Len())
	s.checkIndex("Swap", j, s.Len())
	if s.table != nil {
		elems := s.elements.Span()
		iIdeal := s.ideal(elems[i].Hash())
		jIdeal := s.ideal(elems[j].Hash())
		// Park i's entry on the unused offset Len() first, so the second
		// rewrite cannot mistake it for j's entry.
		tmp := s.Len()
		s.table.RewriteOffsetAt(iIdeal, i, tmp)
		s.table.RewriteOffsetAt(jIdeal, j, i)
		s.table.RewriteOffsetAt(iIdeal, tmp, j)
	}
	s.elements.Swap(i, j)
}

// Partition reorders elements so every element satisfying pred precedes
// every element that doesn't, and returns the index of the first
// element in the second group (or Len() if every element satisfies
// pred). The table is rebuilt once afterward, since Partition is
// expected to move most elements.
func (s *Set[T]) Partition(pred func(T) bool) int {
	elems := s.elements.Span()
	pivot := 0
	for i := range elems {
		if pred(elems[i]) {
			elems[i], elems[pivot] = elems[pivot], elems[i]
			pivot++
		}
	}
	if s.table != nil {
		s.rebuildTable()
	}
	return pivot
}

// Sort reorders elements by less, rebuilding the table once afterward.
func (s *Set[T]) Sort(less func(a, b T) bool) {
	elems := s.elements.Span()
	sort.Slice(elems, func(i, j int) bool { return less(elems[i], elems[j]) })
	if s.table != nil {
		s.rebuildTable()
	}
}

// Shuffle randomizes element order using rng, rebuilding the table once
// afterward. rng comes from golang.org/x/exp/rand so callers can supply
// a seeded source for reproducible test fixtures, the same idiom the
// teacher's own map tests use for fixture scrambling.
func (s *Set[T]) Shuffle(rng *rand.Rand) {
	elems := s.elements.Span()
	rng.Shuffle(len(elems), func(i, j int) { elems[i], elems[j] = elems[j], elems[i] })
	if s.table != nil {
		s.rebuildTable()
	}
}

// Reverse reverses element order in place, rebuilding the table once
// afterward.
func (s *Set[T]) Reverse() {
	elems := s.elements.Span()
	for i, j := 0, len(elems)-1; i < j; i, j = i+1, j-1 {
		elems[i], elems[j] = elems[j], elems[i]
	}
	if s.table != nil {
		s.rebuildTable()
	}
}
