package jobs

import "time"

// Retention thresholds: how long a job in a terminal state is kept
// before its working directory becomes reclaimable. Measured against
// the job's last status change, inclusive at the boundary.
const (
	DoneRetention   = 28 * 24 * time.Hour
	FailedRetention = 7 * 24 * time.Hour
)

// ShouldRemove reports whether a job with the given short status and
// last status change has aged past its retention threshold. Pending
// and running jobs are never removable regardless of age, and neither
// is anything already removed or unclassifiable.
func ShouldRemove(st ShortStatus, lastChanged, now time.Time) bool {
	switch st {
	case StatusPending, StatusRunning:
		return false
	case StatusDone:
		return now.Sub(lastChanged) >= DoneRetention
	case StatusFailed:
		return now.Sub(lastChanged) >= FailedRetention
	}
	return false
}
