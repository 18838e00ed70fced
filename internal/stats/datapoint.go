package stats

import (
	"fmt"
	"math"
	"time"
)

const millisPerSecond = 1000

// DataPoint is a single monetary amount observed at a point in time.
// The zero value is invalid.
type DataPoint struct {
	amount          float64
	timestampMillis int64
}

// NewDataPoint validates its input and returns an immutable DataPoint.
func NewDataPoint(amount float64, timestampMillis int64) (DataPoint, error) {
	p := DataPoint{amount: amount, timestampMillis: timestampMillis}
	if err := p.Validate(); err != nil {
		return DataPoint{}, err
	}
	return p, nil
}

// Validate reports whether the point can be folded into a Bucket.
func (p DataPoint) Validate() error {
	if p.timestampMillis <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidTimestamp, p.timestampMillis)
	}
	if math.IsNaN(p.amount) || math.IsInf(p.amount, 0) {
		return fmt.Errorf("%w: got %v", ErrInvalidAmount, p.amount)
	}
	return nil
}

func (p DataPoint) Amount() float64 { return p.amount }

func (p DataPoint) TimestampMillis() int64 { return p.timestampMillis }

// Second returns the absolute epoch second the point falls into.
func (p DataPoint) Second() int64 {
	return p.timestampMillis / millisPerSecond
}

func (p DataPoint) Time() time.Time {
	return time.UnixMilli(p.timestampMillis)
}

func (p DataPoint) String() string {
	return fmt.Sprintf("amount=%v timestamp=%d", p.amount, p.timestampMillis)
}
