package clock

import (
	"errors"

	"github.com/psantana5/tictoc/pkg/timespec"
)

// ErrUnavailable is returned when the monotonic clock cannot be read.
// Callers must treat the accompanying timespec as garbage.
var ErrUnavailable = errors.New("monotonic clock unavailable")

// Clock is a monotonic time source. Readings never decrease within a
// process run and are unaffected by wall-clock adjustments.
type Clock interface {
	Now() (timespec.Timespec, error)
}

// Monotonic reads the platform monotonic clock.
type Monotonic struct{}

// New returns the default monotonic clock.
func New() Monotonic {
	return Monotonic{}
}
