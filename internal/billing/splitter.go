// Package billing holds the pure session billing engine: duration
// splitting at the daily rate cutover, unit pricing, extras pricing and
// receipt projection. Nothing in this package does I/O or reads the
// clock; wall time always arrives as an argument so a stored session can
// reproduce its bill exactly.
package billing

import "time"

// CutoverFor returns the rate-switch instant for a session that started
// at start: the configured wall-clock time on start's calendar day in the
// reference timezone. Anchoring to the start day means an overnight
// session crosses the cutover at most once.
func CutoverFor(start time.Time, hour, minute int, loc *time.Location) time.Time {
	local := start.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), hour, minute, 0, 0, loc)
}

// SplitAtCutover divides [start, end) at the cutover instant and reports
// whole seconds on each side. A caller-supplied end before start counts
// as zero duration. before+after always equals max(0, end-start) in
// integer seconds.
func SplitAtCutover(start, end, cutover time.Time) (beforeSec, afterSec int64, overlaps bool) {
	if end.Before(start) {
		end = start
	}
	total := int64(end.Sub(start) / time.Second)

	switch {
	case !end.After(cutover):
		return total, 0, false
	case !start.Before(cutover):
		return 0, total, false
	default:
		beforeSec = int64(cutover.Sub(start) / time.Second)
		return beforeSec, total - beforeSec, true
	}
}
