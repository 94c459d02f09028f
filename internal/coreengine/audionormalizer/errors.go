package audionormalizer

import (
	"fmt"
	"time"
)

// ConversionError reports a conversion process that failed or could not start.
// ExitCode is -1 when the process never ran.
type ConversionError struct {
	ExitCode int
	Stderr   string
}

func (e *ConversionError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("conversion exited with code %d", e.ExitCode)
	}
	return fmt.Sprintf("conversion exited with code %d: %s", e.ExitCode, e.Stderr)
}

// TimeoutError reports a conversion process killed after exceeding its deadline.
type TimeoutError struct {
	Timeout time.Duration
	Stderr  string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("conversion timed out after %s", e.Timeout)
}
