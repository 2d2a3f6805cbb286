package diagram

import "sync/atomic"

// Sequence hands out process-wide unique placeholder identifiers.
// Identifiers are monotonic and never reused: rendered SVG element ids
// derive from them, and a reused id could make a stale cached graphic
// show up under a fresh placeholder.
type Sequence struct {
	n atomic.Uint64
}

// Next returns the next identifier, starting at 1.
func (s *Sequence) Next() uint64 {
	return s.n.Add(1)
}
