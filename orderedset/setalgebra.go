// Copyright (c) 2026 The flatset Authors.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the LICENSE file.

package orderedset

import "github.com/flatcontainers/flatset/hashtable"

// bitset is a packed array of 1-bit flags indexed by element position,
// reusing hashtable's width-N bucket packer at width=1 rather than
// re-deriving the word/bit arithmetic.
type bitset struct {
	words []uint64
}

func newBitset(n int) bitset {
	return bitset{words: make([]uint64, hashtable.WordCount(n, 1))}
}

func (b bitset) mark(i int) {
	hashtable.SetBits(b.words, 1, i, 1)
}

func (b bitset) isMarked(i int) bool {
	return hashtable.GetBits(b.words, 1, i) != 0
}

// Union returns a new set containing every element of s followed by
// every element of other not already present.
func (s *Set[T]) Union(other *Set[T]) Set[T] {
	out := s.Copy()
	out.unionInPlace(other)
	return out
}

// UnionInPlace appends every element of other not already present.
func (s *Set[T]) UnionInPlace(other *Set[T]) {
	s.unionInPlace(other)
}

func (s *Set[T]) unionInPlace(other *Set[T]) {
	others := other.elements.Span()
	for _, e := range others {
		s.Append(e)
	}
}

// Intersection visits s once, keeping only elements also present in
// other, preserving s's order (spec.md §4.E: "visits A once, tests
// membership in B per element").
func (s *Set[T]) Intersection(other *Set[T]) Set[T] {
	out := s.Copy()
	out.IntersectionInPlace(other)
	return out
}

// IntersectionInPlace removes every element of s not present in other.
func (s *Set[T]) IntersectionInPlace(other *Set[T]) {
	s.RemoveAllWhere(func(e T) bool { return !other.Contains(e) })
}

// SymmetricDifference returns the elements present in exactly one of s
// and other: s's survivors (those absent from other) in s's order,
// followed by other's survivors (those absent from s) in other's order.
// A bitmap over each operand's positions marks the shared elements in a
// single pass before the result is assembled, per spec.md §4.E.
func (s *Set[T]) SymmetricDifference(other *Set[T]) Set[T] {
	sElems := s.elements.Span()
	oElems := other.elements.Span()
	sShared := newBitset(len(sElems))
	oShared := newBitset(len(oElems))

	for i, e := range sElems {
		if j, ok := other.IndexOf(e); ok {
			sShared.mark(i)
			oShared.mark(j)
		}
	}

	out := WithCapacity[T](len(sElems) + len(oElems))
	for i, e := range sElems {
		if !sShared.isMarked(i) {
			out.Append(e)
		}
	}
	for j, e := range oElems {
		if !oShared.isMarked(j) {
			out.Append(e)
		}
	}
	return out
}

// SymmetricDifferenceInPlace replaces s's contents with
// s.SymmetricDifference(other).
func (s *Set[T]) SymmetricDifferenceInPlace(other *Set[T]) {
	*s = s.SymmetricDifference(other)
}

// Subtracting returns the elements of s not present in other, in s's
// order.
func (s *Set[T]) Subtracting(other *Set[T]) Set[T] {
	out := s.Copy()
	out.SubtractingInPlace(other)
	return out
}

// SubtractingInPlace removes every element of s that is present in
// other.
func (s *Set[T]) SubtractingInPlace(other *Set[T]) {
	s.RemoveAllWhere(func(e T) bool { return other.Contains(e) })
}

// Copy returns an independent duplicate of s.
func (s *Set[T]) Copy() Set[T] {
	out := Set[T]{elements: s.elements.Copy(), reservedScale: s.reservedScale}
	if s.table != nil {
		out.growTableIfNeeded(out.Len(), s.reservedScale != 0)
	}
	return out
}

// Equal reports order-sensitive value equality: same length and the
// same element at every position. This is the "==" of spec.md §4.E;
// IsEqualSet is the unordered comparator.
func (s *Set[T]) Equal(other *Set[T]) bool {
	a, b := s.elements.Span(), other.elements.Span()
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// IsSubset reports whether every element of s is present in other.
func (s *Set[T]) IsSubset(other *Set[T]) bool {
	for _, e := range s.elements.Span() {
		if !other.Contains(e) {
			return false
		}
	}
	return true
}

// IsSuperset reports whether every element of other is present in s.
func (s *Set[T]) IsSuperset(other *Set[T]) bool {
	return other.IsSubset(s)
}

// IsStrictSubset reports whether s is a subset of other and smaller.
func (s *Set[T]) IsStrictSubset(other *Set[T]) bool {
	return s.Len() < other.Len() && s.IsSubset(other)
}

// IsStrictSuperset reports whether s is a superset of other and larger.
func (s *Set[T]) IsStrictSuperset(other *Set[T]) bool {
	return s.Len() > other.Len() && s.IsSuperset(other)
}

// IsDisjoint reports whether s and other share no elements.
func (s *Set[T]) IsDisjoint(other *Set[T]) bool {
	for _, e := range s.elements.Span() {
		if other.Contains(e) {
			return false
		}
	}
	return true
}

// IsEqualSet reports whether s and other contain the same elements,
// ignoring order: a size-check short-circuit, then a bitmap over other's
// positions marking which elements of other were matched by some
// element of s, succeeding iff every position is marked and no element
// of s is left unmatched (spec.md §4.E).
func (s *Set[T]) IsEqualSet(other *Set[T]) bool {
	if s.Len() != other.Len() {
		return false
	}
	oElems := other.elements.Span()
	marked := newBitset(len(oElems))
	for _, e := range s.elements.Span() {
		j, ok := other.IndexOf(e)
		if !ok {
			return false
		}
		marked.mark(j)
	}
	for j := range oElems {
		if !marked.isMarked(j) {
			return false
		}
	}
	return true
}
