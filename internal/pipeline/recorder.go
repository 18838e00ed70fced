package pipeline

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/sanspareilsmyn/txlens/internal/config"
	"github.com/sanspareilsmyn/txlens/internal/stats"
	"github.com/sanspareilsmyn/txlens/internal/window"
)

// WindowStore is the part of *window.Store the pipeline depends on.
type WindowStore interface {
	Record(p stats.DataPoint) (window.Result, error)
	Statistics() stats.Report
	LiveBuckets() int
}

// Recorder feeds data points into the window store from a pool of workers,
// so the store sees concurrent writers.
type Recorder struct {
	store   WindowStore
	workers int
	input   <-chan stats.DataPoint
	logger  *zap.Logger
}

// NewRecorder creates a new Recorder instance.
func NewRecorder(cfg config.PipelineConfig, store WindowStore, input <-chan stats.DataPoint, logger *zap.Logger) *Recorder {
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	logger.Info("Recorder initialized", zap.Int("workers", workers))
	return &Recorder{
		store:   store,
		workers: workers,
		input:   input,
		logger:  logger,
	}
}

// Run blocks until every worker has stopped. It returns nil once the input
// is drained and closed, or the context error on cancellation.
func (r *Recorder) Run(ctx context.Context) error {
	sugar := r.logger.Sugar()
	sugar.Info("Starting recorder workers...")
	defer sugar.Info("Recorder workers stopped.")

	var wg sync.WaitGroup
	wg.Add(r.workers)
	for i := 0; i < r.workers; i++ {
		go func(id int) {
			defer wg.Done()
			r.work(ctx, id)
		}(i)
	}
	wg.Wait()

	return ctx.Err()
}

func (r *Recorder) work(ctx context.Context, id int) {
	for {
		select {
		case p, ok := <-r.input:
			if !ok {
				r.logger.Debug("Recorder input closed", zap.Int("worker", id))
				return
			}
			r.record(p)

		case <-ctx.Done():
			return
		}
	}
}

func (r *Recorder) record(p stats.DataPoint) window.Result {
	res, err := r.store.Record(p)
	recordResults.WithLabelValues(res.String()).Inc()

	switch res {
	case window.ResultSuccess:
	case window.ResultBadRequest:
		r.logger.Warn("Window store rejected data point", zap.Stringer("point", p), zap.Error(err))
	default:
		r.logger.Debug("Data point not recorded",
			zap.Stringer("point", p),
			zap.Stringer("result", res),
		)
	}
	return res
}
