package metrics

import (
	"strings"
	"testing"
)

func TestRecordJobRemovedAndExport(t *testing.T) {
	RecordJobRemoved("done")
	RecordJobRemoved("failed")

	out := Export()
	if !strings.Contains(out, "sweeper_jobs_removed_total{status=\"done\"}") {
		t.Fatalf("expected removed counter for done jobs in export, got:\n%s", out)
	}
	if !strings.Contains(out, "sweeper_jobs_removed_total{status=\"failed\"}") {
		t.Fatalf("expected removed counter for failed jobs in export, got:\n%s", out)
	}
}

func TestRecordStaleDirectoryAndSkip(t *testing.T) {
	RecordStaleDirectory()
	RecordSkip()

	out := Export()
	if !strings.Contains(out, "sweeper_stale_directories_total") {
		t.Fatalf("expected stale directory counter in export, got:\n%s", out)
	}
	if !strings.Contains(out, "sweeper_jobs_skipped_total") {
		t.Fatalf("expected skip counter in export, got:\n%s", out)
	}
}

func TestRecordPass(t *testing.T) {
	RecordPass("from_db")

	out := Export()
	if !strings.Contains(out, "sweeper_passes_total{mode=\"from_db\"}") {
		t.Fatalf("expected pass counter for from_db in export, got:\n%s", out)
	}
}
