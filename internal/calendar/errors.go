package calendar

import (
	"errors"
	"fmt"
	"time"
)

// ErrCalendarComputation is matched by every *ComputationError
var ErrCalendarComputation = errors.New("calendar computation failed")

// ComputationError reports that a month's day count or first weekday
// could not be resolved for the given date. It is not retryable.
type ComputationError struct {
	Op     string
	Date   time.Time
	Reason string
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("calendar: %s %04d-%02d-%02d: %s",
		e.Op, e.Date.Year(), int(e.Date.Month()), e.Date.Day(), e.Reason)
}

func (e *ComputationError) Unwrap() error {
	return ErrCalendarComputation
}
