package store

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"sweeper/internal/jobs"
)

// Registry key layout. Job metadata lives in one hash per job and the
// ids of completed jobs are appended to a shared list in completion
// order.
const (
	completedListKey = "jobs:completed"
	jobKeyPrefix     = "job:"
)

// Job is a registry record for a single job. UID doubles as the name
// of the job's working directory under the configured work root.
type Job struct {
	UID         string
	Status      string
	LastChanged time.Time
}

// Short returns the normalized classification of the job's raw status.
func (j Job) Short() jobs.ShortStatus {
	return jobs.Classify(j.Status)
}

// Store wraps access to the job registry held in Redis.
type Store struct {
	rdb *redis.Client
}

// Open parses a registry URI, connects, and verifies the connection
// with a ping so a bad URI or unreachable registry fails up front.
func Open(ctx context.Context, url string) (*Store, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse queue url %q: %w", url, err)
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to registry %q: %w", url, err)
	}
	return &Store{rdb: rdb}, nil
}

// New wraps an already constructed client.
func New(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	return s.rdb.Close()
}

// CompletedJobIDs returns the ids on the jobs:completed list in stored
// order, oldest completion first.
func (s *Store) CompletedJobIDs(ctx context.Context) ([]string, error) {
	ids, err := s.rdb.LRange(ctx, completedListKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", completedListKey, err)
	}
	return ids, nil
}

// JobExists reports whether the registry holds a record for uid.
func (s *Store) JobExists(ctx context.Context, uid string) (bool, error) {
	n, err := s.rdb.Exists(ctx, jobKeyPrefix+uid).Result()
	if err != nil {
		return false, fmt.Errorf("check job %s: %w", uid, err)
	}
	return n > 0, nil
}

// GetJob loads and validates the job:<uid> hash. A record missing its
// status or last_changed field, or carrying an unparseable timestamp,
// is malformed and fails construction.
func (s *Store) GetJob(ctx context.Context, uid string) (Job, error) {
	fields, err := s.rdb.HGetAll(ctx, jobKeyPrefix+uid).Result()
	if err != nil {
		return Job{}, fmt.Errorf("read job %s: %w", uid, err)
	}

	status, ok := fields["status"]
	if !ok {
		return Job{}, fmt.Errorf("job %s: missing status field", uid)
	}
	raw, ok := fields["last_changed"]
	if !ok {
		return Job{}, fmt.Errorf("job %s: missing last_changed field", uid)
	}
	lastChanged, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return Job{}, fmt.Errorf("job %s: bad last_changed %q: %w", uid, raw, err)
	}

	return Job{UID: uid, Status: status, LastChanged: lastChanged.UTC()}, nil
}

// MarkRemoved rewrites the job's status field to "removed: <original>"
// so later runs classify it as removed. The hash itself is never
// deleted; only the working directory goes away.
func (s *Store) MarkRemoved(ctx context.Context, job Job) error {
	status := "removed: " + job.Status
	if err := s.rdb.HSet(ctx, jobKeyPrefix+job.UID, "status", status).Err(); err != nil {
		return fmt.Errorf("mark job %s removed: %w", job.UID, err)
	}
	return nil
}
