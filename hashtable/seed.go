// Copyright (c) 2026 The flatset Authors.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the LICENSE file.

package hashtable

import (
	"encoding/binary"
	"hash/maphash"
)

// DeterministicSeeds, when true as a Table is constructed, gives that
// Table a process-wide shared seed and folds its scale into every hash,
// so its bucket placement depends only on element hashes and scale. The
// shared seed is itself drawn by maphash.MakeSeed at package
// initialization, so placement repeats within one process but not across
// separate runs. Tests that need reproducible bucket placement (without
// caring about collision-attack resistance) set this once at the top of
// the test and restore it afterwards; production code leaves it false.
var DeterministicSeeds = false

var deterministicBase = maphash.MakeSeed()

func newSeed(scale int) maphash.Seed {
	if !DeterministicSeeds {
		return maphash.MakeSeed()
	}
	// Every table built in this mode shares deterministicBase (fixed for
	// the life of the process). maphash.Seed itself can't be constructed
	// from raw bits, so scale is mixed into every hash computed against
	// it instead of into the Seed itself; see (*Table).mix.
	return deterministicBase
}

// mix folds a caller-supplied 64-bit hash (from a T implementing the
// Hashable contract expected by orderedset) through the table's seed,
// the same way key/hash.go in the teacher repo re-mixes a type's own
// Hash() through a maphash.Seed to spread it across all 64 bits.
func (t *Table) mix(h uint64) uint64 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], h)
	var mh maphash.Hash
	mh.SetSeed(t.seed)
	if t.seed == deterministicBase {
		// The table was built in deterministic mode. Fold the scale in
		// too, so distinct scales produce distinct probe orders even
		// though they share deterministicBase.
		var sbuf [8]byte
		binary.LittleEndian.PutUint64(sbuf[:], uint64(t.scale))
		mh.Write(sbuf[:])
	}
	mh.Write(buf[:])
	return mh.Sum64()
}
