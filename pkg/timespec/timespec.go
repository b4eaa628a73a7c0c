package timespec

// Unit conversion constants
const (
	MsecPerSec = 1000
	UsecPerSec = 1000 * 1000
	NsecPerSec = 1000 * 1000 * 1000
)

// Timespec holds a point in monotonic time or a signed elapsed interval
// as whole seconds plus a nanosecond remainder. Normalized values keep
// Sec and Nsec sign-consistent: both non-negative or both non-positive.
type Timespec struct {
	Sec  int64 `json:"sec" yaml:"sec"`
	Nsec int64 `json:"nsec" yaml:"nsec"`
}

// Sub calculates the time difference t2 - t1. The result is positive
// when t2 is later than t1. Mixed-sign intermediate values are
// normalized by borrowing one second in either direction.
func Sub(t1, t2 Timespec) Timespec {
	td := Timespec{
		Sec:  t2.Sec - t1.Sec,
		Nsec: t2.Nsec - t1.Nsec,
	}
	if td.Sec > 0 && td.Nsec < 0 {
		td.Nsec += NsecPerSec
		td.Sec--
	} else if td.Sec < 0 && td.Nsec > 0 {
		td.Nsec -= NsecPerSec
		td.Sec++
	}
	// sec and nsec already share a sign: nothing to do
	return td
}

// Add calculates the sum of two intervals, carrying into the seconds
// field when the nanosecond sum leaves [-1s, +1s).
func Add(t1, t2 Timespec) Timespec {
	sum := Timespec{
		Sec:  t1.Sec + t2.Sec,
		Nsec: t1.Nsec + t2.Nsec,
	}
	if sum.Nsec >= NsecPerSec {
		sum.Nsec -= NsecPerSec
		sum.Sec++
	} else if sum.Nsec <= -NsecPerSec {
		sum.Nsec += NsecPerSec
		sum.Sec--
	}
	return sum
}

// IsZero reports whether t is the zero interval.
func (t Timespec) IsZero() bool {
	return t.Sec == 0 && t.Nsec == 0
}

// Seconds returns the interval in seconds as a float64.
func (t Timespec) Seconds() float64 {
	return float64(t.Sec) + float64(t.Nsec)/NsecPerSec
}

// Millis returns the interval in milliseconds, truncated toward zero.
func (t Timespec) Millis() int64 {
	return t.Sec*MsecPerSec + t.Nsec/UsecPerSec
}

// Micros returns the interval in microseconds, truncated toward zero.
func (t Timespec) Micros() int64 {
	return t.Sec*UsecPerSec + t.Nsec/MsecPerSec
}

// Nanos returns the interval in nanoseconds. Exact as long as the
// total fits in int64 (roughly 292 years).
func (t Timespec) Nanos() int64 {
	return t.Sec*NsecPerSec + t.Nsec
}
