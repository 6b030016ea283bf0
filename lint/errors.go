package lint

import (
	"errors"
	"fmt"
)

// ErrConfigurationUnavailable is wrapped by check factories whose optional
// backend is missing. The runner skips such checks with a warning.
var ErrConfigurationUnavailable = errors.New("lint: configuration unavailable")

// CheckError carries a failure raised while a check was producing results.
type CheckError struct {
	Check string
	Err   error
}

func (e *CheckError) Error() string {
	return fmt.Sprintf("check %s: %v", e.Check, e.Err)
}

func (e *CheckError) Unwrap() error { return e.Err }
