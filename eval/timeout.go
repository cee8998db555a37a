package eval

import (
	"strconv"
	"time"
)

// timeoutTracker measures elapsed wall-clock time since evaluation started,
// checked at every rule boundary and compound-expression entry, per
// spec.md §4.E.
type timeoutTracker struct {
	start time.Time
}

func newTimeoutTracker() *timeoutTracker { return &timeoutTracker{start: time.Now()} }

// check returns ResourceLimitExceeded once elapsed time passes maxMs.
// maxMs == 0 disables the check.
func (t *timeoutTracker) check(maxMs uint64) error {
	if maxMs == 0 {
		return nil
	}
	elapsed := uint64(time.Since(t.start).Milliseconds())
	if elapsed > maxMs {
		return &ResourceLimitExceeded{
			LimitName:  "max_evaluation_time_ms",
			LimitValue: strconv.FormatUint(maxMs, 10),
			Actual:     strconv.FormatUint(elapsed, 10),
			Suggestion: "Simplify the document or increase the timeout.",
		}
	}
	return nil
}
