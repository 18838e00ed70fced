package window

import "errors"

var (
	ErrBadRequest          = errors.New("bad request")
	ErrInvalidWindowLength = errors.New("window length must be positive")
	ErrNilClock            = errors.New("clock must not be nil")
)
