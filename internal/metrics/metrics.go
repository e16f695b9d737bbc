package metrics

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Simple Prometheus-style counters for cleanup runs. In-memory only;
// rendered into the end-of-run summary rather than served over HTTP.

var (
	mu sync.RWMutex

	jobsRemoved      = make(map[string]int64) // prior short status → count
	staleDirsRemoved int64
	jobsSkipped      int64
	passesTotal      = make(map[string]int64) // mode → count
)

// RecordJobRemoved counts one reclaimed job by its prior short status.
func RecordJobRemoved(status string) {
	mu.Lock()
	defer mu.Unlock()
	jobsRemoved[status]++
}

// RecordStaleDirectory counts one stale or orphaned directory
// reconciled against the working root.
func RecordStaleDirectory() {
	mu.Lock()
	defer mu.Unlock()
	staleDirsRemoved++
}

// RecordSkip counts one candidate left in place.
func RecordSkip() {
	mu.Lock()
	defer mu.Unlock()
	jobsSkipped++
}

// RecordPass counts one completed cleanup pass for a traversal mode.
func RecordPass(mode string) {
	mu.Lock()
	defer mu.Unlock()
	passesTotal[mode]++
}

// Export returns Prometheus-style metrics text.
func Export() string {
	mu.RLock()
	defer mu.RUnlock()

	var b strings.Builder

	b.WriteString("# HELP sweeper_jobs_removed_total Jobs reclaimed, by prior short status\n")
	b.WriteString("# TYPE sweeper_jobs_removed_total counter\n")

	// Sort keys for stable output
	var statuses []string
	for s := range jobsRemoved {
		statuses = append(statuses, s)
	}
	sort.Strings(statuses)
	for _, s := range statuses {
		fmt.Fprintf(&b, "sweeper_jobs_removed_total{status=\"%s\"} %d\n", s, jobsRemoved[s])
	}

	b.WriteString("# HELP sweeper_stale_directories_total Stale or orphaned working directories reconciled\n")
	b.WriteString("# TYPE sweeper_stale_directories_total counter\n")
	fmt.Fprintf(&b, "sweeper_stale_directories_total %d\n", staleDirsRemoved)

	b.WriteString("# HELP sweeper_jobs_skipped_total Candidates inspected and left in place\n")
	b.WriteString("# TYPE sweeper_jobs_skipped_total counter\n")
	fmt.Fprintf(&b, "sweeper_jobs_skipped_total %d\n", jobsSkipped)

	b.WriteString("# HELP sweeper_passes_total Cleanup passes completed, by traversal mode\n")
	b.WriteString("# TYPE sweeper_passes_total counter\n")

	var modes []string
	for m := range passesTotal {
		modes = append(modes, m)
	}
	sort.Strings(modes)
	for _, m := range modes {
		fmt.Fprintf(&b, "sweeper_passes_total{mode=\"%s\"} %d\n", m, passesTotal[m])
	}

	return b.String()
}
