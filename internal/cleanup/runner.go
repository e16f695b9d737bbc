package cleanup

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"sweeper/internal/config"
	"sweeper/internal/jobs"
	"sweeper/internal/metrics"
	"sweeper/internal/store"
)

// uidGlob is the shape of a plausible job uid: three hyphen-delimited
// parts. Directory-driven traversal only considers entries whose base
// name matches it, so unrelated files under the work root are left
// alone.
const uidGlob = "*-*-*"

// Registry is the slice of the job store a cleanup pass consumes.
// *store.Store satisfies it; tests substitute a fake.
type Registry interface {
	CompletedJobIDs(ctx context.Context) ([]string, error)
	JobExists(ctx context.Context, uid string) (bool, error)
	GetJob(ctx context.Context, uid string) (store.Job, error)
	MarkRemoved(ctx context.Context, job store.Job) error
}

// Stats counts the actions taken by one cleanup pass.
type Stats struct {
	Removed    int
	Reconciled int
	Skipped    int
}

// Runner performs one cleanup pass over the registry and the working
// directory tree. It holds no state between passes; reruns are safe
// because removed jobs classify as removed and are never removable
// again.
type Runner struct {
	cfg      *config.Config
	registry Registry
	logger   *slog.Logger

	// now is swappable so tests can pin the clock.
	now func() time.Time
}

func NewRunner(cfg *config.Config, reg Registry, logger *slog.Logger) *Runner {
	return &Runner{cfg: cfg, registry: reg, logger: logger, now: time.Now}
}

// candidate is one unit of work for the decide-and-act stage: a job
// uid plus its registry record, or no record at all for an orphaned
// directory.
type candidate struct {
	uid    string
	job    store.Job
	orphan bool
}

// Run executes one pass using the configured traversal mode and
// returns what it did. Registry and traversal errors abort the pass;
// there is no retry and no partial-completion state to recover.
func (r *Runner) Run(ctx context.Context) (Stats, error) {
	var (
		cands []candidate
		err   error
	)
	switch r.cfg.Mode {
	case config.ModeFromDirectory:
		cands, err = r.fromDirectory(ctx)
	default:
		cands, err = r.fromDB(ctx)
	}
	if err != nil {
		return Stats{}, err
	}

	var stats Stats
	now := r.now().UTC()
	for _, c := range cands {
		if err := r.act(ctx, c, now, &stats); err != nil {
			return stats, err
		}
	}

	metrics.RecordPass(string(r.cfg.Mode))
	return stats, nil
}

// fromDB enumerates candidates off the registry's completed-jobs
// list. The list is reversed so the most recently completed jobs are
// visited (and reported) first; every id is visited exactly once
// either way.
func (r *Runner) fromDB(ctx context.Context) ([]candidate, error) {
	ids, err := r.registry.CompletedJobIDs(ctx)
	if err != nil {
		return nil, err
	}

	cands := make([]candidate, 0, len(ids))
	for i := len(ids) - 1; i >= 0; i-- {
		job, err := r.registry.GetJob(ctx, ids[i])
		if err != nil {
			return nil, err
		}
		cands = append(cands, candidate{uid: ids[i], job: job})
	}
	return cands, nil
}

// fromDirectory enumerates candidates off the working root itself:
// every directory whose name looks like a job uid. Directories with
// no registry record are orphans and go straight to stale-directory
// reconciliation.
func (r *Runner) fromDirectory(ctx context.Context) ([]candidate, error) {
	matches, err := filepath.Glob(filepath.Join(r.cfg.Workdir, uidGlob))
	if err != nil {
		return nil, fmt.Errorf("scan workdir %s: %w", r.cfg.Workdir, err)
	}

	var cands []candidate
	for _, path := range matches {
		info, err := os.Stat(path)
		if err != nil || !info.IsDir() {
			continue
		}
		uid := filepath.Base(path)

		exists, err := r.registry.JobExists(ctx, uid)
		if err != nil {
			return nil, err
		}
		if !exists {
			cands = append(cands, candidate{uid: uid, orphan: true})
			continue
		}

		job, err := r.registry.GetJob(ctx, uid)
		if err != nil {
			return nil, err
		}
		cands = append(cands, candidate{uid: uid, job: job})
	}
	return cands, nil
}

// act is the decide-and-act stage shared by both traversals.
func (r *Runner) act(ctx context.Context, c candidate, now time.Time, stats *Stats) error {
	if c.orphan {
		found, err := r.reconcileStaleDir(c.uid)
		if err != nil {
			return err
		}
		if found {
			stats.Reconciled++
		}
		return nil
	}

	short := c.job.Short()
	switch {
	case jobs.ShouldRemove(short, c.job.LastChanged, now):
		if err := r.removeJob(ctx, c.job, short); err != nil {
			return err
		}
		stats.Removed++
	case short == jobs.StatusRemoved:
		// Registry already says removed; only the directory may linger.
		found, err := r.reconcileStaleDir(c.uid)
		if err != nil {
			return err
		}
		if found {
			stats.Reconciled++
		}
	default:
		r.logger.Info("not removing",
			"job", c.uid,
			"status", string(short),
			"last_changed", c.job.LastChanged)
		metrics.RecordSkip()
		stats.Skipped++
	}
	return nil
}

// removeJob reclaims one aged-out job: delete its working directory,
// then rewrite the registry status to "removed: <original>" so later
// runs classify it as removed. Deletion tolerates an already absent
// directory. Dry-run reports the intent and touches nothing.
func (r *Runner) removeJob(ctx context.Context, job store.Job, short jobs.ShortStatus) error {
	dir := filepath.Join(r.cfg.Workdir, job.UID)
	r.logger.Info("removing job",
		"job", job.UID,
		"status", string(short),
		"last_changed", job.LastChanged,
		"dry_run", r.cfg.DryRun)
	metrics.RecordJobRemoved(string(short))

	if r.cfg.DryRun {
		return nil
	}
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("remove %s: %w", dir, err)
	}
	return r.registry.MarkRemoved(ctx, job)
}

// reconcileStaleDir deletes a working directory that has no live
// registry entry behind it. No registry write happens here: the entry
// is already marked removed, or never existed. Reports whether a
// directory was actually found.
func (r *Runner) reconcileStaleDir(uid string) (bool, error) {
	dir := filepath.Join(r.cfg.Workdir, uid)
	if _, err := os.Stat(dir); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("stat %s: %w", dir, err)
	}

	r.logger.Info("removing stale directory", "dir", dir, "dry_run", r.cfg.DryRun)
	metrics.RecordStaleDirectory()

	if r.cfg.DryRun {
		return true, nil
	}
	if err := os.RemoveAll(dir); err != nil {
		return true, fmt.Errorf("remove %s: %w", dir, err)
	}
	return true, nil
}
