package sim

import (
	"errors"
	"fmt"
)

// ConfigError reports malformed or internally inconsistent simulation input.
// It is always surfaced before the first simulated day; a run never starts
// on a partially applied configuration.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

func configErr(field, format string, args ...interface{}) error {
	return &ConfigError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// ErrBudgetExceeded is returned when a caller-supplied deadline or
// cancellation fires mid-run. The partially computed series is discarded
// wholesale; callers never receive a truncated result.
var ErrBudgetExceeded = errors.New("simulation budget exceeded")

func budgetErr(day, total int, cause error) error {
	return fmt.Errorf("%w: aborted at day %d of %d: %v", ErrBudgetExceeded, day, total, cause)
}
