package pipeline

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/sanspareilsmyn/txlens/internal/config"
)

func float(v float64) *float64 { return &v }

func TestReporterPublishesEmptyWindow(t *testing.T) {
	store, clk := newTestStore(t)
	r := NewReporter(config.PipelineConfig{ReportInterval: time.Second}, config.Thresholds{}, store, clk, zaptest.NewLogger(t))

	report := r.Report()
	assert.Zero(t, report.Count)

	assert.Equal(t, 0.0, testutil.ToFloat64(windowCount))
	assert.Equal(t, 0.0, testutil.ToFloat64(windowAvg))
	assert.True(t, math.IsNaN(testutil.ToFloat64(windowMax)))
	assert.True(t, math.IsNaN(testutil.ToFloat64(windowMin)))
	assert.Equal(t, 0.0, testutil.ToFloat64(windowLiveBuckets))
}

func TestReporterPublishesGaugesAndViolations(t *testing.T) {
	store, clk := newTestStore(t)
	for _, amount := range []float64{10.3, 9.7, 200} {
		_, err := store.Record(dataPoint(t, amount, testNowMillis))
		require.NoError(t, err)
	}

	thresholds := config.Thresholds{
		AvgMin:    float(100),
		AvgMax:    float(1000),
		CountMax:  float(2),
		MaxAmount: float(150),
	}
	avgBelow := testutil.ToFloat64(alertViolations.WithLabelValues("avg", "<"))
	avgAbove := testutil.ToFloat64(alertViolations.WithLabelValues("avg", ">"))
	countAbove := testutil.ToFloat64(alertViolations.WithLabelValues("count", ">"))
	maxAbove := testutil.ToFloat64(alertViolations.WithLabelValues("max_amount", ">"))

	r := NewReporter(config.PipelineConfig{ReportInterval: time.Second}, thresholds, store, clk, zaptest.NewLogger(t))
	report := r.Report()

	assert.Equal(t, int64(3), report.Count)
	assert.Equal(t, 3.0, testutil.ToFloat64(windowCount))
	assert.InDelta(t, 220.0, testutil.ToFloat64(windowSum), 1e-9)
	assert.InDelta(t, 220.0/3, testutil.ToFloat64(windowAvg), 1e-9)
	assert.Equal(t, 200.0, testutil.ToFloat64(windowMax))
	assert.Equal(t, 9.7, testutil.ToFloat64(windowMin))
	assert.Equal(t, 1.0, testutil.ToFloat64(windowLiveBuckets))

	assert.Equal(t, avgBelow+1, testutil.ToFloat64(alertViolations.WithLabelValues("avg", "<")))
	assert.Equal(t, avgAbove, testutil.ToFloat64(alertViolations.WithLabelValues("avg", ">")))
	assert.Equal(t, countAbove+1, testutil.ToFloat64(alertViolations.WithLabelValues("count", ">")))
	assert.Equal(t, maxAbove+1, testutil.ToFloat64(alertViolations.WithLabelValues("max_amount", ">")))
}

func TestReporterRunTicks(t *testing.T) {
	store, clk := newTestStore(t)
	for i := 0; i < 7; i++ {
		_, err := store.Record(dataPoint(t, 1, testNowMillis))
		require.NoError(t, err)
	}
	windowCount.Set(-1)

	r := NewReporter(config.PipelineConfig{ReportInterval: time.Second}, config.Thresholds{}, store, clk, zaptest.NewLogger(t))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	assert.Eventually(t, func() bool {
		clk.Add(time.Second)
		return testutil.ToFloat64(windowCount) == 7
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
}
