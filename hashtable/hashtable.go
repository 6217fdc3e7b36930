// Copyright (c) 2026 The flatset Authors.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the LICENSE file.

// Package hashtable implements the bit-packed, open-addressing table
// that backs orderedset's membership test: B = 2^scale buckets, each an
// s-bit payload packed into a []uint64, decoding to either "empty" or an
// offset into the caller's element slice. The table never stores or
// compares elements itself; callers (orderedset) supply hashes and
// equality via callbacks, which is what lets one Table implementation
// serve any element type.
package hashtable

import (
	"hash/maphash"
	"math/bits"
)

// MinScale is the smallest scale a Table can be constructed at.
const MinScale = 5

// MaxScale is the largest scale a Table can be constructed at: the
// bucket payload must fit comfortably inside a uint64 read/write, and
// the spec caps it below the full word width to leave headroom in the
// two-word combine path; on platforms with a narrower word the word
// width is the cap.
const MaxScale = min(bits.UintSize, 56)

// MaxUnhashed is the largest element count orderedset will track with a
// plain linear scan, below which a Table is not worth the overhead.
const MaxUnhashed = 1<<(MinScale-1) - 1

// BucketCount returns 2^scale, the number of buckets a table of that
// scale holds.
func BucketCount(scale int) int {
	return 1 << scale
}

// MinCapacityForScale returns the smallest element count a table of this
// scale is meant to hold (below it, the table should shrink).
func MinCapacityForScale(scale int) int {
	return BucketCount(scale) / 4
}

// MaxCapacityForScale returns the largest element count a table of this
// scale can hold while keeping the load factor at or below 3/4.
func MaxCapacityForScale(scale int) int {
	return BucketCount(scale) * 3 / 4
}

// ChooseScale returns the smallest scale s >= MinScale with
// floor(2^s * 0.75) >= capacity and 2^s >= capacity+1 (guaranteeing at
// least one empty bucket). ok is false when capacity is small enough
// that no table is needed at all (spec.md's Hashless state).
func ChooseScale(capacity int) (scale int, ok bool) {
	if capacity <= MaxUnhashed {
		return 0, false
	}
	for s := MinScale; s <= MaxScale; s++ {
		b := BucketCount(s)
		if b >= capacity+1 && b*3/4 >= capacity {
			return s, true
		}
	}
	panic(&ScaleError{Op: "ChooseScale", Scale: capacity})
}

// Table is a bit-packed, open-addressing hash table of element offsets.
type Table struct {
	words         []uint64
	scale         int
	bias          int
	reservedScale int
	seed          maphash.Seed
}

// New allocates an empty table at the given scale, with reservedScale
// set to scale (no shrink floor beyond the scale itself).
func New(scale int) *Table {
	return NewReserved(scale, scale)
}

// NewReserved allocates an empty table at the given scale with a shrink
// floor of reservedScale (the table will never be asked to shrink below
// this scale by a persistent capacity reservation).
func NewReserved(scale, reservedScale int) *Table {
	if scale < MinScale || scale > MaxScale {
		panic(&ScaleError{Op: "New", Scale: scale})
	}
	n := BucketCount(scale)
	return &Table{
		words:         make([]uint64, WordCount(n, scale)),
		scale:         scale,
		reservedScale: reservedScale,
		seed:          newSeed(scale),
	}
}

// Scale returns the table's current scale.
func (t *Table) Scale() int {
	return t.scale
}

// ReservedScale returns the shrink floor recorded for this table.
func (t *Table) ReservedScale() int {
	return t.reservedScale
}

// SetReservedScale updates the shrink floor, e.g. after a persistent
// capacity reservation or once it has been released.
func (t *Table) SetReservedScale(scale int) {
	t.reservedScale = scale
}

// BucketCount returns 2^scale for this table.
func (t *Table) BucketCount() int {
	return BucketCount(t.scale)
}

func (t *Table) valueMask() uint64 {
	return uint64(BucketCount(t.scale) - 1)
}

func floorMod(a, m int) int {
	r := a % m
	if r < 0 {
		r += m
	}
	return r
}

// encode returns the nonzero bucket payload for offset under the
// table's current bias.
func (t *Table) encode(offset int) uint64 {
	mask := int(t.valueMask())
	x := floorMod(offset-t.bias, mask)
	return uint64(mask - x)
}

// decode returns the offset a nonzero bucket payload v represents.
// Callers must not call decode with v == 0 (empty); check IsOccupied or
// compare against 0 first.
func (t *Table) decode(v uint64) int {
	mask := int(t.valueMask())
	x := mask - int(v)
	return floorMod(x+t.bias, mask)
}

func (t *Table) bucketValue(i int) uint64 {
	return GetBits(t.words, t.scale, i)
}

func (t *Table) setBucketValue(i int, v uint64) {
	SetBits(t.words, t.scale, i, v)
}

func (t *Table) bucketOccupied(i int) bool {
	return t.bucketValue(i) != 0
}

// HashOf mixes a caller-computed element hash through this table's seed
// to get the 64-bit value IdealBucket reduces mod BucketCount(). It is
// exposed so callers needing to recompute an element's ideal bucket
// later (renumbering, deletion) can do so without re-deriving the mixing
// step.
func (t *Table) HashOf(elementHash uint64) uint64 {
	return t.mix(elementHash)
}

// IdealBucket returns the first bucket probed for an element whose
// raw hash is elementHash.
func (t *Table) IdealBucket(elementHash uint64) int {
	return int(t.HashOf(elementHash) % uint64(t.BucketCount()))
}

// BucketIterator streams bucket values sequentially from a starting
// position, wrapping around the table once. A second wraparound without
// finding an empty bucket is a corruption trap: the table invariant
// guarantees at least one empty bucket always exists.
type BucketIterator struct {
	t     *Table
	pos   int
	steps int
}

// Iterator returns a BucketIterator positioned at bucket start.
func (t *Table) Iterator(start int) *BucketIterator {
	n := t.BucketCount()
	return &BucketIterator{t: t, pos: floorMod(start, n)}
}

// CurrentBucket returns the bucket index the iterator currently sits on.
func (it *BucketIterator) CurrentBucket() int {
	return it.pos
}

// CurrentValue returns the raw bucket payload at the current position.
func (it *BucketIterator) CurrentValue() uint64 {
	return it.t.bucketValue(it.pos)
}

// SetCurrentValue overwrites the raw bucket payload at the current
// position.
func (it *BucketIterator) SetCurrentValue(v uint64) {
	it.t.setBucketValue(it.pos, v)
}

// IsOccupied reports whether the current bucket holds a non-empty
// payload.
func (it *BucketIterator) IsOccupied() bool {
	return it.CurrentValue() != 0
}

// Advance steps the iterator one bucket forward, wrapping at the end of
// the table. It panics with CorruptionError if the chain runs longer
// than the whole table, which can only happen if every bucket is
// occupied (impossible under the table's invariants).
func (it *BucketIterator) Advance() {
	n := it.t.BucketCount()
	it.pos++
	if it.pos >= n {
		it.pos = 0
	}
	it.steps++
	if it.steps > n {
		panic(&CorruptionError{Op: "Advance", Detail: "probe chain visited every bucket without finding an empty one"})
	}
}

// Probe walks the chain starting at ideal looking for a bucket whose
// decoded offset satisfies match. If found, it returns that bucket and
// offset with found=true. If the chain reaches an empty bucket first, it
// returns that empty bucket (ready for insertion) with found=false.
func (t *Table) Probe(ideal int, match func(offset int) bool) (bucket, offset int, found bool) {
	it := t.Iterator(ideal)
	for {
		if !it.IsOccupied() {
			return it.CurrentBucket(), 0, false
		}
		off := t.decode(it.CurrentValue())
		if match(off) {
			return it.CurrentBucket(), off, true
		}
		it.Advance()
	}
}

// Lookup is a thin convenience over Probe for pure membership tests.
func (t *Table) Lookup(ideal int, match func(offset int) bool) (offset int, found bool) {
	_, off, found := t.Probe(ideal, match)
	return off, found
}

// InsertAtEmpty probes from ideal to the first empty bucket and stores
// offset there. The caller must already know offset is not present
// (duplicate checking, if wanted, is the caller's job via Probe/Lookup
// first).
func (t *Table) InsertAtEmpty(ideal, offset int) (bucket int) {
	it := t.Iterator(ideal)
	for it.IsOccupied() {
		it.Advance()
	}
	it.SetCurrentValue(t.encode(offset))
	return it.CurrentBucket()
}

func inCircularRange(lo, hi, x, n int) bool {
	d := func(a int) int { return floorMod(a-lo, n) }
	return d(x) <= d(hi)
}

// Delete removes bucket b from the table using Robin-Hood hole-filling:
// walk forward from b, and for every occupied bucket whose element's
// ideal bucket falls within the shrinking hole's collision-chain range,
// slide that element's offset into the hole and advance the hole to the
// bucket just vacated. idealBucketOf must return the ideal bucket for
// the element currently stored at the given offset (orderedset supplies
// this via the element's Hash()).
func (t *Table) Delete(b int, idealBucketOf func(offset int) int) {
	n := t.BucketCount()
	next := floorMod(b+1, n)
	if !t.bucketOccupied(next) {
		t.setBucketValue(b, 0)
		return
	}

	start := b
	for {
		prev := floorMod(start-1, n)
		if !t.bucketOccupied(prev) {
			break
		}
		start = prev
	}

	hole := b
	cur := next
	for t.bucketOccupied(cur) {
		off := t.decode(t.bucketValue(cur))
		ideal := floorMod(idealBucketOf(off), n)
		if inCircularRange(start, hole, ideal, n) {
			t.setBucketValue(hole, t.encode(off))
			hole = cur
		}
		cur = floorMod(cur+1, n)
	}
	t.setBucketValue(hole, 0)
}

// RewriteOffsetAt overwrites the bucket that currently encodes
// oldOffset (found by probing from ideal) so that it encodes newOffset
// instead. This is the "touched-element walk" renumbering primitive:
// the element's hash, and therefore its ideal bucket, never changes —
// only the array position the bucket refers to does.
func (t *Table) RewriteOffsetAt(ideal, oldOffset, newOffset int) {
	it := t.Iterator(ideal)
	for {
		if !it.IsOccupied() {
			panic(&CorruptionError{Op: "RewriteOffsetAt", Detail: "probe ended at empty bucket before finding the offset to rewrite"})
		}
		if t.decode(it.CurrentValue()) == oldOffset {
			it.SetCurrentValue(t.encode(newOffset))
			return
		}
		it.Advance()
	}
}

// ShiftAllOffsets is the "whole-table scan" renumbering primitive: every
// occupied bucket whose decoded offset is >= threshold (if inclusive) or
// > threshold (otherwise) is rewritten to offset+delta.
func (t *Table) ShiftAllOffsets(threshold, delta int, inclusive bool) {
	n := t.BucketCount()
	for i := 0; i < n; i++ {
		v := t.bucketValue(i)
		if v == 0 {
			continue
		}
		off := t.decode(v)
		match := off > threshold
		if inclusive {
			match = off >= threshold
		}
		if match {
			SetBits(t.words, t.scale, i, t.encode(off+delta))
		}
	}
}

// ShiftBiasForPrepend increments the bias by one, which is equivalent to
// incrementing every currently-stored offset by one without touching a
// single bucket payload: decode(v) = (mask - v + bias) mod mask grows by
// exactly one as bias grows by one. It implements O(1) front-insertion
// renumbering for the side of the table the caller chooses not to
// rewrite directly (see orderedset's heuristic for which side is
// cheaper).
func (t *Table) ShiftBiasForPrepend() {
	mask := int(t.valueMask())
	t.bias = floorMod(t.bias+1, mask)
}

// ShiftBiasForRemoveFront is the inverse of ShiftBiasForPrepend, used
// when the element formerly at offset 0 is removed and every other
// offset needs to decrease by one.
func (t *Table) ShiftBiasForRemoveFront() {
	mask := int(t.valueMask())
	t.bias = floorMod(t.bias-1, mask)
}

// Occupied reports whether bucket i currently holds a value.
func (t *Table) Occupied(i int) bool {
	return t.bucketOccupied(i)
}

// OffsetAt decodes the offset stored at bucket i. The caller must have
// already checked Occupied(i).
func (t *Table) OffsetAt(i int) int {
	return t.decode(t.bucketValue(i))
}

// FillUnique builds an empty table from a slice of elements already
// known to be pairwise distinct, inserting offset i for elements[i] by
// probing straight to an empty bucket.
func FillUnique[T any](t *Table, elements []T, hash func(T) uint64) {
	for i, e := range elements {
		ideal := t.IdealBucket(hash(e))
		t.InsertAtEmpty(ideal, i)
	}
}

// FillUntilFirstDuplicate builds a table the same way FillUnique does,
// but probes for equality before every insert; on the first duplicate it
// stops and returns the index of the element elements[i] collides with,
// without inserting elements[i] itself or anything after it.
func FillUntilFirstDuplicate[T any](t *Table, elements []T, hash func(T) uint64, equal func(a, b T) bool) (dupIndex int, hasDup bool) {
	for i, e := range elements {
		ideal := t.IdealBucket(hash(e))
		bucket, off, found := t.Probe(ideal, func(offset int) bool {
			return equal(elements[offset], e)
		})
		if found {
			return off, true
		}
		SetBits(t.words, t.scale, bucket, t.encode(i))
	}
	return 0, false
}
