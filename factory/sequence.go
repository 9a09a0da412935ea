package factory

import (
	"fmt"
	"sync/atomic"
)

// Sequence hands out increasing numbers for unique fixture values.
//
// Create one per test (or per test run) instead of sharing package state, so
// parallel tests stay independent and reproducible. It is safe for
// concurrent use. The zero value starts at 1.
type Sequence struct {
	n atomic.Int64
}

// NewSequence returns a Sequence whose first Next returns start.
func NewSequence(start int64) *Sequence {
	s := &Sequence{}
	s.n.Store(start - 1)

	return s
}

// Next returns the next number.
func (s *Sequence) Next() int64 {
	return s.n.Add(1)
}

// Sprintf formats the next number into format, e.g. "user%d@example.com".
func (s *Sequence) Sprintf(format string) string {
	return fmt.Sprintf(format, s.Next())
}
