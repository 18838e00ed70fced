package pipeline

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/sanspareilsmyn/txlens/internal/config"
	"github.com/sanspareilsmyn/txlens/internal/stats"
	"github.com/sanspareilsmyn/txlens/internal/window"
)

func resultCount(r window.Result) float64 {
	return testutil.ToFloat64(recordResults.WithLabelValues(r.String()))
}

func TestRecorderDrainsInputConcurrently(t *testing.T) {
	const n = 500
	store, _ := newTestStore(t)

	successBefore := resultCount(window.ResultSuccess)
	oldBefore := resultCount(window.ResultOld)
	badBefore := resultCount(window.ResultBadRequest)

	in := make(chan stats.DataPoint, n+2)
	for i := 1; i <= n; i++ {
		in <- dataPoint(t, float64(i), testNowMillis-int64(i%10)*1000)
	}
	in <- dataPoint(t, 1, testNowMillis-120_000)
	in <- stats.DataPoint{}
	close(in)

	rec := NewRecorder(config.PipelineConfig{Workers: 8}, store, in, zaptest.NewLogger(t))
	require.NoError(t, rec.Run(context.Background()))

	r := store.Statistics()
	assert.Equal(t, int64(n), r.Count)
	assert.Equal(t, float64(n*(n+1))/2, r.Sum)
	assert.Equal(t, 10, store.LiveBuckets())

	assert.Equal(t, successBefore+n, resultCount(window.ResultSuccess))
	assert.Equal(t, oldBefore+1, resultCount(window.ResultOld))
	assert.Equal(t, badBefore+1, resultCount(window.ResultBadRequest))
}

func TestRecorderDefaultsToOneWorker(t *testing.T) {
	store, _ := newTestStore(t)
	rec := NewRecorder(config.PipelineConfig{}, store, nil, zaptest.NewLogger(t))
	assert.Equal(t, 1, rec.workers)
}

func TestRecorderStopsOnCancel(t *testing.T) {
	store, _ := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rec := NewRecorder(config.PipelineConfig{Workers: 2}, store, make(chan stats.DataPoint), zaptest.NewLogger(t))
	require.ErrorIs(t, rec.Run(ctx), context.Canceled)
}
