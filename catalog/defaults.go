package catalog

import (
	"time"
)

// DefaultTimeout is the connection timeout, in seconds, applied when
// the wire config leaves it unset.
func DefaultTimeout() uint32 {
	return 30
}

// DurationFromMillis converts a wire millisecond count into a
// Duration.
func DurationFromMillis(ms int64) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

// MillisFromDuration converts a Duration into the wire millisecond
// count, truncating sub-millisecond precision.
func MillisFromDuration(d time.Duration) int64 {
	return int64(d / time.Millisecond)
}
