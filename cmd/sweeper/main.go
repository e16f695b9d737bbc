package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/robfig/cron/v3"

	"sweeper/internal/cleanup"
	"sweeper/internal/config"
	"sweeper/internal/metrics"
	"sweeper/internal/store"
)

const version = "1.0.0"

func main() {
	var (
		configPath string
		queue      string
		workdir    string
		fromDB     bool
		fromDir    bool
		dryRun     bool
		schedule   string
		showVer    bool
	)
	flag.StringVar(&configPath, "config", "", "path to optional YAML config file")
	flag.StringVar(&queue, "queue", "", "registry connection URI (overrides "+config.QueueEnv+" and the config file)")
	flag.StringVar(&queue, "q", "", "shorthand for -queue")
	flag.StringVar(&workdir, "workdir", "", "working directory root")
	flag.StringVar(&workdir, "w", "", "shorthand for -workdir")
	flag.BoolVar(&fromDB, "from-db", false, "enumerate candidates from the registry's completed-jobs list (default)")
	flag.BoolVar(&fromDir, "from-directory", false, "enumerate candidates from the working directory tree")
	flag.BoolVar(&dryRun, "dry-run", false, "report intended actions without deleting or writing anything")
	flag.BoolVar(&dryRun, "n", false, "shorthand for -dry-run")
	flag.StringVar(&schedule, "schedule", "", "cron expression; rerun the pass on this schedule instead of exiting")
	flag.BoolVar(&showVer, "version", false, "print version and exit")
	flag.Parse()

	if showVer {
		fmt.Println("sweeper " + version)
		return
	}

	cfg := config.Default()
	if configPath != "" {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
	}

	// Flags beat the config file and the environment.
	if queue != "" {
		cfg.Queue = queue
	}
	if workdir != "" {
		cfg.Workdir = workdir
	}
	if fromDB && fromDir {
		log.Fatalf("-from-db and -from-directory are mutually exclusive")
	}
	if fromDir {
		cfg.Mode = config.ModeFromDirectory
	}
	if fromDB {
		cfg.Mode = config.ModeFromDB
	}
	if dryRun {
		cfg.DryRun = true
	}
	if schedule != "" {
		cfg.Schedule = schedule
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.LogLevel),
	}))

	ctx := context.Background()
	st, err := store.Open(ctx, cfg.Queue)
	if err != nil {
		log.Fatalf("registry: %v", err)
	}
	defer st.Close()

	runner := cleanup.NewRunner(cfg, st, logger)

	if cfg.Schedule == "" {
		stats, err := runner.Run(ctx)
		if err != nil {
			log.Fatalf("cleanup failed: %v", err)
		}
		logger.Info("cleanup finished",
			"removed", stats.Removed,
			"reconciled", stats.Reconciled,
			"skipped", stats.Skipped,
			"dry_run", cfg.DryRun)
		logger.Debug("run counters", "metrics", metrics.Export())
		return
	}

	runScheduled(ctx, cfg, runner, logger)
}

// runScheduled keeps the process up and reruns the cleanup pass on the
// configured cron schedule until SIGINT/SIGTERM. A failing pass is
// logged and the schedule keeps going; a tick that fires while the
// previous pass is still running is skipped.
func runScheduled(ctx context.Context, cfg *config.Config, runner *cleanup.Runner, logger *slog.Logger) {
	var running atomic.Bool

	c := cron.New()
	_, err := c.AddFunc(cfg.Schedule, func() {
		if !running.CompareAndSwap(false, true) {
			logger.Warn("previous pass still running, skipping this tick")
			return
		}
		defer running.Store(false)

		stats, err := runner.Run(ctx)
		if err != nil {
			logger.Error("cleanup pass failed", "error", err)
			return
		}
		logger.Info("cleanup pass finished",
			"removed", stats.Removed,
			"reconciled", stats.Reconciled,
			"skipped", stats.Skipped,
			"dry_run", cfg.DryRun)
	})
	if err != nil {
		log.Fatalf("invalid schedule %q: %v", cfg.Schedule, err)
	}

	c.Start()
	logger.Info("running on schedule", "schedule", cfg.Schedule, "mode", string(cfg.Mode))

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	<-c.Stop().Done()
	logger.Debug("run counters", "metrics", metrics.Export())
}

func logLevel(name string) slog.Level {
	switch name {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
