package schedule

import (
	"errors"
	"fmt"
)

// ErrNonConvergent is returned by Calculate when the schedule loop reaches
// the iteration ceiling without the balance paying down to zero, e.g. when a
// derived term is unbounded because the repayment cannot cover the period
// interest.
var ErrNonConvergent = errors.New("schedule did not converge within the iteration ceiling")

// InvalidParameterError reports a loan parameter rejected at construction.
// Invalid input is never clamped into range.
type InvalidParameterError struct {
	Name   string
	Reason string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %s: %s", e.Name, e.Reason)
}
