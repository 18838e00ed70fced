package message

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanspareilsmyn/txlens/internal/stats"
)

func TestParseTransaction(t *testing.T) {
	rfc := time.Date(2023, 11, 14, 22, 13, 20, 250_000_000, time.UTC)

	tests := []struct {
		name       string
		input      string
		wantAmount float64
		wantMillis int64
		wantErr    error
	}{
		{name: "epoch millis", input: `{"id":"a","amount":12.5,"timestamp":1700000000123}`, wantAmount: 12.5, wantMillis: 1700000000123},
		{name: "quoted millis", input: `{"amount":-3,"timestamp":"1700000000123"}`, wantAmount: -3, wantMillis: 1700000000123},
		{name: "RFC3339 string", input: `{"amount":1,"timestamp":"2023-11-14T22:13:20.25Z"}`, wantAmount: 1, wantMillis: rfc.UnixMilli()},
		{name: "space separated string", input: `{"amount":1,"timestamp":"2023-11-14 22:13:20"}`, wantAmount: 1, wantMillis: rfc.Truncate(time.Second).UnixMilli()},
		{name: "missing amount", input: `{"timestamp":1700000000123}`, wantErr: ErrMissingAmount},
		{name: "null amount", input: `{"amount":null,"timestamp":1700000000123}`, wantErr: ErrMissingAmount},
		{name: "missing timestamp", input: `{"amount":4}`, wantErr: ErrMissingTimestamp},
		{name: "null timestamp", input: `{"amount":4,"timestamp":null}`, wantErr: ErrMissingTimestamp},
		{name: "garbage timestamp", input: `{"amount":4,"timestamp":"yesterday"}`, wantErr: ErrJSONUnmarshalFailed},
		{name: "not json", input: `amount=4`, wantErr: ErrJSONUnmarshalFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx, err := ParseTransaction([]byte(tt.input))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, tx.Amount)
			assert.Equal(t, tt.wantAmount, *tx.Amount)
			assert.Equal(t, tt.wantMillis, tx.Timestamp.Millis())
		})
	}
}

func TestTransactionDataPoint(t *testing.T) {
	amount := 7.25
	tx := Transaction{Amount: &amount, Timestamp: NewTimestamp(time.UnixMilli(1700000000999))}

	p, err := tx.DataPoint()
	require.NoError(t, err)
	assert.Equal(t, 7.25, p.Amount())
	assert.Equal(t, int64(1700000000999), p.TimestampMillis())

	tx.Timestamp = Timestamp{millis: -1, set: true}
	_, err = tx.DataPoint()
	require.ErrorIs(t, err, ErrInvalidTransaction)
	require.ErrorIs(t, err, stats.ErrInvalidTimestamp)

	_, err = Transaction{Timestamp: NewTimestamp(time.Now())}.DataPoint()
	require.ErrorIs(t, err, ErrMissingAmount)
}

func TestEncodeTransaction(t *testing.T) {
	amount := 9.7
	raw, err := EncodeTransaction(Transaction{ID: "tx-1", Amount: &amount, Timestamp: NewTimestamp(time.UnixMilli(1700000000000))})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"tx-1","amount":9.7,"timestamp":1700000000000}`, string(raw))

	tx, err := ParseTransaction(raw)
	require.NoError(t, err)
	assert.Equal(t, "tx-1", tx.ID)
}

func TestSnippet(t *testing.T) {
	assert.Equal(t, "abc", Snippet([]byte("abc"), 5))
	assert.Equal(t, "ab...", Snippet([]byte("abcdef"), 2))
	assert.Equal(t, "...", Snippet([]byte("abc"), 0))
}
