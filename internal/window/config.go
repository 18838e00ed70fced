package window

import (
	"fmt"

	"github.com/benbjohnson/clock"
)

const DefaultWindowSeconds = 60

// Config specifies the window length and the time source of a Store.
type Config struct {
	WindowSeconds int         // length of the trailing window and size of the ring
	Clock         clock.Clock // a clock that may be replaced by a mock when testing
}

// DefaultConfig returns a 60 second window on the wall clock.
func DefaultConfig() *Config {
	return &Config{
		WindowSeconds: DefaultWindowSeconds,
		Clock:         clock.New(),
	}
}

// Validate checks the configuration options and returns an error if any have invalid values.
func (c *Config) Validate() error {
	if c.WindowSeconds <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidWindowLength, c.WindowSeconds)
	}
	if c.Clock == nil {
		return ErrNilClock
	}
	return nil
}
