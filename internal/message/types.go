package message

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/sanspareilsmyn/txlens/internal/stats"
)

// Transaction is the wire form of a recorded amount.
type Transaction struct {
	ID        string    `json:"id,omitempty"`
	Amount    *float64  `json:"amount"`
	Timestamp Timestamp `json:"timestamp"`
}

// DataPoint converts the transaction into a validated stats.DataPoint.
func (tx Transaction) DataPoint() (stats.DataPoint, error) {
	if tx.Amount == nil {
		return stats.DataPoint{}, ErrMissingAmount
	}
	if !tx.Timestamp.IsSet() {
		return stats.DataPoint{}, ErrMissingTimestamp
	}
	p, err := stats.NewDataPoint(*tx.Amount, tx.Timestamp.Millis())
	if err != nil {
		return stats.DataPoint{}, fmt.Errorf("%w: %w", ErrInvalidTransaction, err)
	}
	return p, nil
}

// timeFormats are tried in order when a timestamp arrives as a string.
var timeFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// Timestamp is epoch milliseconds on the wire. It also accepts a time string
// in one of timeFormats, or a quoted number.
type Timestamp struct {
	millis int64
	set    bool
}

func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{millis: t.UnixMilli(), set: true}
}

func (ts Timestamp) Millis() int64 { return ts.millis }

func (ts Timestamp) IsSet() bool { return ts.set }

func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if !ts.set {
		return []byte("null"), nil
	}
	return strconv.AppendInt(nil, ts.millis, 10), nil
}

func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*ts = Timestamp{}
		return nil
	}

	raw := string(data)
	if len(data) > 0 && data[0] == '"' {
		unquoted, err := strconv.Unquote(raw)
		if err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidTimestampFormat, raw)
		}
		if t, ok := parseTime(unquoted); ok {
			*ts = NewTimestamp(t)
			return nil
		}
		raw = unquoted
	}

	millis, err := parseMillis(raw)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidTimestampFormat, raw)
	}
	*ts = Timestamp{millis: millis, set: true}
	return nil
}

func parseTime(s string) (time.Time, bool) {
	for _, format := range timeFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseMillis(s string) (int64, error) {
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return int64(f), nil
}

// Snippet returns a printable prefix of a raw message, useful for logging.
func Snippet(data []byte, maxLength int) string {
	if maxLength <= 0 {
		return "..."
	}
	if len(data) > maxLength {
		return string(data[:maxLength]) + "..."
	}
	return string(data)
}
