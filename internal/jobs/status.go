package jobs

import "strings"

// ShortStatus is the normalized lifecycle state of a job as derived
// from the raw status string stored in the registry (job:<uid>
// hashes, field "status").
//
// Centralizing the classification here avoids scattering string
// comparisons like "pending" or prefix checks for "removed" across
// packages.
type ShortStatus string

const (
	StatusPending ShortStatus = "pending"
	StatusRunning ShortStatus = "running"
	StatusDone    ShortStatus = "done"
	StatusFailed  ShortStatus = "failed"
	StatusRemoved ShortStatus = "removed"
	StatusUnknown ShortStatus = "unknown"
)

// Classify maps a raw registry status string to its short status.
// Cleanup rewrites statuses to "removed: <original>", so anything
// beginning with "removed" classifies as removed; the four live
// states match exactly. Everything else is unknown, which is never
// eligible for removal.
func Classify(raw string) ShortStatus {
	if strings.HasPrefix(raw, string(StatusRemoved)) {
		return StatusRemoved
	}
	switch ShortStatus(raw) {
	case StatusPending, StatusRunning, StatusDone, StatusFailed:
		return ShortStatus(raw)
	}
	return StatusUnknown
}
