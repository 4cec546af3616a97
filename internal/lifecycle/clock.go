// Package lifecycle contains the pure evaluators that decide, for a
// single point in time, whether a membership is active, in grace or
// expired, whether its trainer add-on is separately valid, and which
// weekly charts are due. Nothing in this package performs I/O or reads
// the wall clock; callers pass one `now` value through a whole
// aggregation pass so a membership and its trainer sub-period are never
// judged against two different clock reads.
package lifecycle

import "time"

// Clock supplies the current time. Services hold a Clock instead of
// calling time.Now directly so evaluations stay deterministic in tests.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the real wall clock in UTC.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}
