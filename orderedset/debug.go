// Copyright (c) 2026 The flatset Authors.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the LICENSE file.

package orderedset

import (
	"github.com/flatcontainers/flatset/logger"
	"github.com/flatcontainers/flatset/sliceutils"
)

// LogElements writes the set's current elements through log at info
// level, one %v placeholder per element. Callers building format
// strings generically (a fixed prefix plus len(s) placeholders) need
// the elements as []interface{} rather than []T to pass through
// Logger.Infof's variadic any args.
func (s *Set[T]) LogElements(log logger.Logger, format string) {
	log.Infof(format, sliceutils.ToAnySlice(s.Iter())...)
}
