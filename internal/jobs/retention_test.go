package jobs

import (
	"testing"
	"time"
)

func TestShouldRemoveLiveJobsNever(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	ancient := now.Add(-365 * 24 * time.Hour)

	for _, st := range []ShortStatus{StatusPending, StatusRunning} {
		if ShouldRemove(st, ancient, now) {
			t.Fatalf("ShouldRemove(%q, year-old) = true, want false", st)
		}
	}
}

func TestShouldRemoveDoneBoundary(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		elapsed time.Duration
		want    bool
	}{
		{27 * 24 * time.Hour, false},
		{28*24*time.Hour - time.Second, false},
		{28 * 24 * time.Hour, true}, // boundary is inclusive
		{30 * 24 * time.Hour, true},
	}
	for _, c := range cases {
		if got := ShouldRemove(StatusDone, now.Add(-c.elapsed), now); got != c.want {
			t.Fatalf("ShouldRemove(done, elapsed=%v) = %v, want %v", c.elapsed, got, c.want)
		}
	}
}

func TestShouldRemoveFailedBoundary(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		elapsed time.Duration
		want    bool
	}{
		{2 * 24 * time.Hour, false},
		{7*24*time.Hour - time.Second, false},
		{7 * 24 * time.Hour, true},
		{10 * 24 * time.Hour, true},
	}
	for _, c := range cases {
		if got := ShouldRemove(StatusFailed, now.Add(-c.elapsed), now); got != c.want {
			t.Fatalf("ShouldRemove(failed, elapsed=%v) = %v, want %v", c.elapsed, got, c.want)
		}
	}
}

func TestShouldRemoveTerminalAndUnknownNever(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	ancient := now.Add(-365 * 24 * time.Hour)

	for _, st := range []ShortStatus{StatusRemoved, StatusUnknown} {
		if ShouldRemove(st, ancient, now) {
			t.Fatalf("ShouldRemove(%q, year-old) = true, want false", st)
		}
	}
}
