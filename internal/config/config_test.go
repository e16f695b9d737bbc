package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultQueueFromEnv(t *testing.T) {
	t.Setenv(QueueEnv, "redis://queue.internal:6380/2")

	cfg := Default()
	if cfg.Queue != "redis://queue.internal:6380/2" {
		t.Fatalf("Queue = %q, want env override", cfg.Queue)
	}
}

func TestDefaults(t *testing.T) {
	t.Setenv(QueueEnv, "")

	cfg := Default()
	if cfg.Queue != DefaultQueue {
		t.Fatalf("Queue = %q, want %q", cfg.Queue, DefaultQueue)
	}
	if cfg.Workdir != DefaultWorkdir {
		t.Fatalf("Workdir = %q, want %q", cfg.Workdir, DefaultWorkdir)
	}
	if cfg.Mode != ModeFromDB {
		t.Fatalf("Mode = %q, want %q", cfg.Mode, ModeFromDB)
	}
	if cfg.DryRun {
		t.Fatalf("DryRun defaults to true, want false")
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	t.Setenv(QueueEnv, "")

	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "workdir: /srv/jobs\nmode: from_directory\ndryRun: true\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Workdir != "/srv/jobs" || cfg.Mode != ModeFromDirectory || !cfg.DryRun {
		t.Fatalf("Load = %+v, want file values applied", cfg)
	}
	// Unset fields keep their defaults.
	if cfg.Queue != DefaultQueue {
		t.Fatalf("Queue = %q, want default %q", cfg.Queue, DefaultQueue)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("expected error for missing config file, got nil")
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate, got %v", err)
	}

	cfg.Mode = "from_orbit"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for invalid mode, got nil")
	}

	cfg = Default()
	cfg.Workdir = ""
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for empty workdir, got nil")
	}
}
