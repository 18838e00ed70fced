package window

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/benbjohnson/clock"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/sanspareilsmyn/txlens/internal/stats"
)

const millisPerSecond = 1000

// Store keeps one stats.Bucket per second of a trailing window in a fixed
// ring indexed by second mod window length.
//
// Creating or replacing a bucket is serialized by mu. Recording into a bucket
// that already holds the right second, and reading the ring, take no lock:
// slots are atomic pointers and buckets synchronize per statistic.
type Store struct {
	windowSeconds int64
	windowMillis  int64
	clock         clock.Clock
	logger        *zap.Logger

	mu    sync.Mutex
	slots []atomic.Pointer[stats.Bucket]
}

// New creates an empty Store. A nil cfg selects DefaultConfig, a nil logger
// disables logging.
func New(cfg *Config, logger *zap.Logger) (*Store, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	} else if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Store{
		windowSeconds: int64(cfg.WindowSeconds),
		windowMillis:  int64(cfg.WindowSeconds) * millisPerSecond,
		clock:         cfg.Clock,
		logger:        logger,
		slots:         make([]atomic.Pointer[stats.Bucket], cfg.WindowSeconds),
	}
	logger.Info("Window store initialized", zap.Int("window_seconds", cfg.WindowSeconds))
	return s, nil
}

func (s *Store) WindowSeconds() int {
	return int(s.windowSeconds)
}

// Record folds p into the bucket of its second. The error is non-nil only
// for ResultBadRequest.
func (s *Store) Record(p stats.DataPoint) (Result, error) {
	if err := p.Validate(); err != nil {
		return ResultBadRequest, fmt.Errorf("%w: %w", ErrBadRequest, err)
	}

	age := s.clock.Now().UnixMilli() - p.TimestampMillis()
	if age > s.windowMillis {
		return ResultOld, nil
	}

	second := p.Second()
	slot := &s.slots[second%s.windowSeconds]

	// A writer racing with a replacement of this slot may still land in the
	// bucket being discarded. That is the same outcome as recording just
	// before the replacement.
	if b := slot.Load(); b != nil && b.Second() == second {
		b.Record(p)
		return ResultSuccess, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	b := slot.Load()
	switch {
	case b == nil:
		slot.Store(newBucketWith(second, p))
	case b.Second() == second:
		b.Record(p)
	case b.Second() < second:
		slot.Store(newBucketWith(second, p))
	default:
		s.logger.Debug("Dropping point superseded by a newer bucket",
			zap.Int64("point_second", second),
			zap.Int64("bucket_second", b.Second()),
			zap.Float64("amount", p.Amount()),
		)
		return ResultSuperseded, nil
	}
	return ResultSuccess, nil
}

// newBucketWith returns a bucket that already holds p, so that a published
// bucket never has absent max and min.
func newBucketWith(second int64, p stats.DataPoint) *stats.Bucket {
	b := stats.NewBucket(second)
	b.Record(p)
	return b
}

// Statistics folds every resident bucket into a single report. Buckets are
// only evicted by Record, so after an idle period the report may include
// seconds that have since left the window.
func (s *Store) Statistics() stats.Report {
	acc := stats.NewBucket(s.clock.Now().Unix())
	for i := range s.slots {
		b := s.slots[i].Load()
		if b == nil {
			continue
		}
		if err := acc.Merge(b); err != nil {
			s.logMergeErrors(err)
		}
	}
	return acc.Report()
}

func (s *Store) logMergeErrors(err error) {
	for _, e := range multierr.Errors(err) {
		if errors.Is(e, stats.ErrAbsentStatistic) {
			s.logger.Debug("Skipped absent statistic while folding window", zap.Error(e))
			continue
		}
		s.logger.Error("Failed to fold bucket into window statistics", zap.Error(e))
	}
}

// LiveBuckets returns the number of occupied ring slots.
func (s *Store) LiveBuckets() int {
	n := 0
	for i := range s.slots {
		if s.slots[i].Load() != nil {
			n++
		}
	}
	return n
}
