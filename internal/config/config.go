package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Mode selects how the cleanup pass enumerates candidate jobs.
type Mode string

const (
	// ModeFromDB walks the registry's list of completed jobs.
	ModeFromDB Mode = "from_db"
	// ModeFromDirectory walks the working directory tree and matches
	// entries back against the registry.
	ModeFromDirectory Mode = "from_directory"
)

const (
	DefaultQueue   = "redis://localhost:6379/0"
	DefaultWorkdir = "upload"

	// QueueEnv overrides the default registry URI when set.
	QueueEnv = "AS_QUEUE"
)

type Config struct {
	// Queue is the registry connection URI.
	Queue string `yaml:"queue"`
	// Workdir is the root under which job working directories live,
	// one per job uid.
	Workdir string `yaml:"workdir"`
	Mode    Mode   `yaml:"mode"`
	DryRun  bool   `yaml:"dryRun"`
	// Schedule is an optional cron expression; when set the process
	// stays up and reruns the cleanup pass on that schedule.
	Schedule string `yaml:"schedule"`
	LogLevel string `yaml:"logLevel"`
}

// Default returns the built-in configuration, with the registry URI
// taken from the AS_QUEUE environment variable when present.
func Default() *Config {
	queue := DefaultQueue
	if v := os.Getenv(QueueEnv); v != "" {
		queue = v
	}
	return &Config{
		Queue:   queue,
		Workdir: DefaultWorkdir,
		Mode:    ModeFromDB,
	}
}

// Load reads a YAML config file over the defaults. Fields absent from
// the file keep their default values.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config file: %w", err)
	}
	defer f.Close()

	cfg := Default()
	if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// Validate rejects configurations the cleanup pass cannot act on.
func (c *Config) Validate() error {
	if c.Queue == "" {
		return fmt.Errorf("queue URI must not be empty")
	}
	if c.Workdir == "" {
		return fmt.Errorf("workdir must not be empty")
	}
	switch c.Mode {
	case ModeFromDB, ModeFromDirectory:
	default:
		return fmt.Errorf("invalid mode %q (expected %s or %s)", c.Mode, ModeFromDB, ModeFromDirectory)
	}
	return nil
}
