//go:build !(linux || darwin || freebsd || netbsd || openbsd)

package clock

import (
	"time"

	"github.com/psantana5/tictoc/pkg/timespec"
)

// epoch is an arbitrary process-local t0. time.Since reads the runtime
// monotonic reading embedded in it, so the result never goes backward.
var epoch = time.Now()

// Now derives a monotonic reading from the process-local epoch.
func (Monotonic) Now() (timespec.Timespec, error) {
	ns := time.Since(epoch).Nanoseconds()
	return timespec.Timespec{
		Sec:  ns / timespec.NsecPerSec,
		Nsec: ns % timespec.NsecPerSec,
	}, nil
}
