//go:build linux || darwin || freebsd || netbsd || openbsd

package clock

import (
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/psantana5/tictoc/pkg/timespec"
)

// Now reads CLOCK_MONOTONIC.
func (Monotonic) Now() (timespec.Timespec, error) {
	var ts unix.Timespec
	if err := unix.ClockGettime(unix.CLOCK_MONOTONIC, &ts); err != nil {
		return timespec.Timespec{}, fmt.Errorf("%w: clock_gettime: %v", ErrUnavailable, err)
	}
	return timespec.Timespec{Sec: int64(ts.Sec), Nsec: int64(ts.Nsec)}, nil
}
