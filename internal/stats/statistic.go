package stats

import (
	"fmt"
	"math"
	"sync/atomic"
)

// Unit names the quantity a Statistic measures.
type Unit string

const (
	UnitCount Unit = "count"
	UnitSum   Unit = "sum"
	UnitMax   Unit = "max"
	UnitMin   Unit = "min"
	UnitAvg   Unit = "avg"
)

// Statistic is a named float64 accumulator that is safe for concurrent use.
//
// The value is kept as IEEE-754 bits in an atomic word: reads are a single
// load and never block, writes retry a compare-and-swap until they win.
type Statistic struct {
	unit Unit
	bits atomic.Uint64
}

// NewStatistic returns a Statistic holding value. The unit never changes.
func NewStatistic(unit Unit, value float64) *Statistic {
	s := &Statistic{unit: unit}
	s.bits.Store(math.Float64bits(value))
	return s
}

func (s *Statistic) Unit() Unit {
	return s.unit
}

func (s *Statistic) Value() float64 {
	return math.Float64frombits(s.bits.Load())
}

// SetValue overwrites the current value.
func (s *Statistic) SetValue(v float64) {
	s.bits.Store(math.Float64bits(v))
}

// Add increments the value by delta.
func (s *Statistic) Add(delta float64) {
	s.Update(func(current float64) float64 {
		return current + delta
	})
}

// Update atomically replaces the value with fn(current) and returns the
// stored result. fn may be called more than once under contention and must
// be free of side effects.
func (s *Statistic) Update(fn func(current float64) float64) float64 {
	for {
		old := s.bits.Load()
		next := fn(math.Float64frombits(old))
		if s.bits.CompareAndSwap(old, math.Float64bits(next)) {
			return next
		}
	}
}

// Merge adds the value of other, which must carry the same unit.
func (s *Statistic) Merge(other *Statistic) error {
	if other == nil {
		return fmt.Errorf("%w: cannot merge into %q", ErrAbsentStatistic, s.unit)
	}
	if other.unit != s.unit {
		return fmt.Errorf("%w: cannot add %q to %q", ErrUnitMismatch, other.unit, s.unit)
	}
	s.Add(other.Value())
	return nil
}

func (s *Statistic) String() string {
	return fmt.Sprintf("%s=%v", s.unit, s.Value())
}
