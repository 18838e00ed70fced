package message

import "errors"

var (
	ErrJSONUnmarshalFailed    = errors.New("failed to unmarshal JSON message")
	ErrMissingAmount          = errors.New("transaction amount is missing")
	ErrMissingTimestamp       = errors.New("transaction timestamp is missing")
	ErrInvalidTimestampFormat = errors.New("unrecognized timestamp format")
	ErrInvalidTransaction     = errors.New("invalid transaction")
)
