package pipeline

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"

	"github.com/sanspareilsmyn/txlens/internal/stats"
	"github.com/sanspareilsmyn/txlens/internal/window"
)

const testNowMillis = int64(1_700_000_000_000)

// fakeReader serves queued messages, then fails with fetchErr if set, or
// blocks until the context is done.
type fakeReader struct {
	mu        sync.Mutex
	queue     [][]byte
	fetchErr  error
	commitErr error
	committed []kafka.Message
	closed    bool
	offset    int64
}

func newFakeReader(msgs ...string) *fakeReader {
	r := &fakeReader{}
	for _, m := range msgs {
		r.queue = append(r.queue, []byte(m))
	}
	return r
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	r.mu.Lock()
	if len(r.queue) > 0 {
		value := r.queue[0]
		r.queue = r.queue[1:]
		r.offset++
		m := kafka.Message{Value: value, Offset: r.offset}
		r.mu.Unlock()
		return m, nil
	}
	err := r.fetchErr
	r.mu.Unlock()

	if err != nil {
		return kafka.Message{}, err
	}
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.commitErr != nil {
		return r.commitErr
	}
	r.committed = append(r.committed, msgs...)
	return nil
}

func (r *fakeReader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

func (r *fakeReader) snapshot() (committed int, closed bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.committed), r.closed
}

func newTestStore(t *testing.T) (*window.Store, *clock.Mock) {
	t.Helper()
	clk := clock.NewMock()
	clk.Set(time.UnixMilli(testNowMillis))
	store, err := window.New(&window.Config{WindowSeconds: 60, Clock: clk}, nil)
	require.NoError(t, err)
	return store, clk
}

func dataPoint(t *testing.T, amount float64, timestampMillis int64) stats.DataPoint {
	t.Helper()
	p, err := stats.NewDataPoint(amount, timestampMillis)
	require.NoError(t, err)
	return p
}
