// Copyright (c) 2026 The flatset Authors.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the LICENSE file.

package hashtable

// CorruptionError is the panic value raised when probing detects a state
// that should be impossible if the table's invariants held: a probe chain
// that wraps around the whole bucket array twice (every bucket occupied,
// with no terminator), or a decoded offset that doesn't match what the
// caller expected to find there.
type CorruptionError struct {
	Op     string
	Detail string
}

func (e *CorruptionError) Error() string {
	return "hashtable: " + e.Op + ": " + e.Detail
}

// ScaleError is the panic value raised when a requested scale falls
// outside [MinScale, MaxScale], or when ChooseScale finds no scale that
// can hold the requested capacity (Scale then holds that capacity).
type ScaleError struct {
	Op    string
	Scale int
}

func (e *ScaleError) Error() string {
	return "hashtable: " + e.Op + ": scale out of range"
}
