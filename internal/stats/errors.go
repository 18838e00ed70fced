package stats

import "errors"

var (
	ErrInvalidTimestamp = errors.New("timestamp must be positive")
	ErrInvalidAmount    = errors.New("amount must be a finite number")
	ErrUnitMismatch     = errors.New("statistic unit mismatch")
	ErrAbsentStatistic  = errors.New("statistic is absent")
)
