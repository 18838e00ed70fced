package stats

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"
)

// Report is the derived view of a Bucket. Max and Min are nil when no data
// point has reached the bucket.
type Report struct {
	Count int64    `json:"count"`
	Sum   float64  `json:"sum"`
	Max   *float64 `json:"max"`
	Min   *float64 `json:"min"`
	Avg   float64  `json:"avg"`
}

// Bucket aggregates every data point of a single calendar second.
type Bucket struct {
	second int64

	count *CountTracker
	sum   *SumTracker
	max   *MaxTracker
	min   *MinTracker
}

// NewBucket returns an empty bucket for the given absolute epoch second.
func NewBucket(second int64) *Bucket {
	return &Bucket{
		second: second,
		count:  NewCountTracker(),
		sum:    NewSumTracker(),
		max:    NewMaxTracker(),
		min:    NewMinTracker(),
	}
}

func (b *Bucket) Second() int64 {
	return b.second
}

func (b *Bucket) trackers() [4]Tracker {
	return [4]Tracker{b.count, b.sum, b.max, b.min}
}

// Record fans p out to all four trackers.
func (b *Bucket) Record(p DataPoint) {
	for _, t := range b.trackers() {
		t.Record(p)
	}
}

// Merge folds other into b tracker by tracker. Pairs whose source is absent
// are skipped and reported as ErrAbsentStatistic; the other pairs are still
// merged. The returned error combines every failure.
func (b *Bucket) Merge(other *Bucket) error {
	if other == nil {
		return fmt.Errorf("%w: nil bucket", ErrAbsentStatistic)
	}

	var errs error
	src := other.trackers()
	for i, dst := range b.trackers() {
		if err := dst.Merge(src[i].Statistic()); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("bucket %d: %w", other.second, err))
		}
	}
	return errs
}

// Report derives count, sum, max, min and avg. Concurrent writers may be
// partially visible.
func (b *Bucket) Report() Report {
	r := Report{
		Count: int64(b.count.Statistic().Value()),
		Sum:   b.sum.Statistic().Value(),
		Max:   valueOrNil(b.max.Statistic()),
		Min:   valueOrNil(b.min.Statistic()),
	}
	if r.Count > 0 {
		r.Avg = r.Sum / float64(r.Count)
	}
	return r
}

func valueOrNil(s *Statistic) *float64 {
	if s == nil {
		return nil
	}
	v := s.Value()
	return &v
}

// IsSoftMergeError reports whether every failure in err is a skipped absent
// statistic, i.e. the merge is still usable.
func IsSoftMergeError(err error) bool {
	if err == nil {
		return true
	}
	for _, e := range multierr.Errors(err) {
		if !errors.Is(e, ErrAbsentStatistic) {
			return false
		}
	}
	return true
}
