package stats

import (
	"fmt"
	"math"
	"sync/atomic"
)

// Tracker consumes data points and maintains a single Statistic.
// The set of implementations is closed: Count, Sum, Max and Min.
type Tracker interface {
	Unit() Unit
	// Record folds p into the tracked statistic.
	Record(p DataPoint)
	// Statistic returns the tracked statistic, or nil while it is absent.
	Statistic() *Statistic
	// Merge folds another statistic of the same unit into this tracker.
	// A nil statistic yields ErrAbsentStatistic and changes nothing.
	Merge(s *Statistic) error

	sealed()
}

var (
	_ Tracker = (*CountTracker)(nil)
	_ Tracker = (*SumTracker)(nil)
	_ Tracker = (*MaxTracker)(nil)
	_ Tracker = (*MinTracker)(nil)
)

// CountTracker counts data points.
type CountTracker struct {
	stat *Statistic
}

func NewCountTracker() *CountTracker {
	return &CountTracker{stat: NewStatistic(UnitCount, 0)}
}

func (t *CountTracker) Unit() Unit            { return UnitCount }
func (t *CountTracker) Record(DataPoint)      { t.stat.Add(1) }
func (t *CountTracker) Statistic() *Statistic { return t.stat }
func (t *CountTracker) Merge(s *Statistic) error {
	return t.stat.Merge(s)
}
func (*CountTracker) sealed() {}

// SumTracker sums data point amounts. The sum may be negative.
type SumTracker struct {
	stat *Statistic
}

func NewSumTracker() *SumTracker {
	return &SumTracker{stat: NewStatistic(UnitSum, 0)}
}

func (t *SumTracker) Unit() Unit            { return UnitSum }
func (t *SumTracker) Record(p DataPoint)    { t.stat.Add(p.Amount()) }
func (t *SumTracker) Statistic() *Statistic { return t.stat }
func (t *SumTracker) Merge(s *Statistic) error {
	return t.stat.Merge(s)
}
func (*SumTracker) sealed() {}

// MaxTracker keeps the largest amount seen. It is absent until the first
// observation.
type MaxTracker struct {
	extreme
}

func NewMaxTracker() *MaxTracker {
	return &MaxTracker{extreme{unit: UnitMax, pick: math.Max}}
}

// MinTracker keeps the smallest amount seen. It is absent until the first
// observation.
type MinTracker struct {
	extreme
}

func NewMinTracker() *MinTracker {
	return &MinTracker{extreme{unit: UnitMin, pick: math.Min}}
}

// extreme is the shared state of MaxTracker and MinTracker. The statistic is
// installed lazily with a compare-and-swap so concurrent first observations
// never overwrite each other.
type extreme struct {
	unit Unit
	pick func(current, candidate float64) float64
	stat atomic.Pointer[Statistic]
}

func (e *extreme) Unit() Unit            { return e.unit }
func (e *extreme) Record(p DataPoint)    { e.observe(p.Amount()) }
func (e *extreme) Statistic() *Statistic { return e.stat.Load() }

func (e *extreme) Merge(s *Statistic) error {
	if s == nil {
		return fmt.Errorf("%w: cannot merge into %q", ErrAbsentStatistic, e.unit)
	}
	if s.Unit() != e.unit {
		return fmt.Errorf("%w: cannot fold %q into %q", ErrUnitMismatch, s.Unit(), e.unit)
	}
	e.observe(s.Value())
	return nil
}

func (e *extreme) observe(v float64) {
	for {
		if s := e.stat.Load(); s != nil {
			s.Update(func(current float64) float64 {
				return e.pick(current, v)
			})
			return
		}
		if e.stat.CompareAndSwap(nil, NewStatistic(e.unit, v)) {
			return
		}
	}
}

func (*extreme) sealed() {}
