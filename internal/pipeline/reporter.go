package pipeline

import (
	"context"
	"math"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/sanspareilsmyn/txlens/internal/config"
	"github.com/sanspareilsmyn/txlens/internal/stats"
)

// Reporter periodically queries the window store, publishes the statistics
// as Prometheus gauges and checks them against configured thresholds.
type Reporter struct {
	store      WindowStore
	interval   time.Duration
	thresholds config.Thresholds
	clock      clock.Clock
	logger     *zap.Logger
}

// NewReporter creates a new Reporter instance.
func NewReporter(cfg config.PipelineConfig, thresholds config.Thresholds, store WindowStore, clk clock.Clock, logger *zap.Logger) *Reporter {
	logger.Debug("Reporter initialized", zap.Duration("interval", cfg.ReportInterval))
	return &Reporter{
		store:      store,
		interval:   cfg.ReportInterval,
		thresholds: thresholds,
		clock:      clk,
		logger:     logger,
	}
}

// Run publishes a report on every tick until the context is cancelled.
func (r *Reporter) Run(ctx context.Context) error {
	sugar := r.logger.Sugar()
	sugar.Info("Starting reporter loop...")
	defer sugar.Info("Reporter loop stopped.")

	ticker := r.clock.Ticker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.Report()

		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Report takes one snapshot of the window and publishes it.
func (r *Reporter) Report() stats.Report {
	report := r.store.Statistics()

	windowCount.Set(float64(report.Count))
	windowSum.Set(report.Sum)
	windowAvg.Set(report.Avg)
	windowMax.Set(valueOrNaN(report.Max))
	windowMin.Set(valueOrNaN(report.Min))
	windowLiveBuckets.Set(float64(r.store.LiveBuckets()))

	r.checkThresholds(report)
	r.logReport(report)
	return report
}

func (r *Reporter) checkThresholds(report stats.Report) {
	t := r.thresholds
	if report.Count > 0 {
		r.checkBelow("avg", report.Avg, t.AvgMin)
		r.checkAbove("avg", report.Avg, t.AvgMax)
	}
	r.checkAbove("count", float64(report.Count), t.CountMax)
	if report.Max != nil {
		r.checkAbove("max_amount", *report.Max, t.MaxAmount)
	}
}

func (r *Reporter) checkBelow(check string, actual float64, threshold *float64) {
	if threshold == nil || actual >= *threshold {
		return
	}
	r.violation(check, "<", actual, *threshold)
}

func (r *Reporter) checkAbove(check string, actual float64, threshold *float64) {
	if threshold == nil || actual <= *threshold {
		return
	}
	r.violation(check, ">", actual, *threshold)
}

func (r *Reporter) violation(check, comparison string, actual, threshold float64) {
	r.logger.Warn("Window threshold violation",
		zap.String("check", check),
		zap.Float64("actual", actual),
		zap.Float64("threshold", threshold),
		zap.String("comparison", comparison),
	)
	alertViolations.WithLabelValues(check, comparison).Inc()
}

func (r *Reporter) logReport(report stats.Report) {
	fields := []zap.Field{
		zap.Int64("count", report.Count),
		zap.Float64("sum", report.Sum),
		zap.Float64("avg", report.Avg),
	}
	if report.Max != nil {
		fields = append(fields, zap.Float64("max", *report.Max))
	}
	if report.Min != nil {
		fields = append(fields, zap.Float64("min", *report.Min))
	}
	r.logger.Info("Window stats published", fields...)
}

func valueOrNaN(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}
