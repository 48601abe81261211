package config

import "time"

// JobConfig is the root configuration for a refresh job instance.
type JobConfig struct {
	Instance  InstanceConfig  `yaml:"instance"`
	Universe  UniverseConfig  `yaml:"universe"`
	Provider  ProviderConfig  `yaml:"provider"`
	Output    OutputConfig    `yaml:"output"`
	Publish   PublishConfig   `yaml:"publish"`
	Database  DatabaseConfig  `yaml:"database"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

// InstanceConfig identifies this job instance.
type InstanceConfig struct {
	ID string `yaml:"id"`
}

// UniverseConfig controls which symbols are tracked.
type UniverseConfig struct {
	ConstituentsURL string   `yaml:"constituents_url"`
	ExtraETFs       []string `yaml:"extra_etfs"`
	LookbackYears   int      `yaml:"lookback_years"`
}

// ProviderConfig holds market-data provider settings.
type ProviderConfig struct {
	BaseURL      string        `yaml:"base_url"`
	UserAgent    string        `yaml:"user_agent"`
	Timeout      time.Duration `yaml:"timeout"`
	MaxRetries   int           `yaml:"max_retries"`
	RetryBackoff time.Duration `yaml:"retry_backoff"`

	// Concurrency bounds in-flight series fetches; RequestSpacing is the
	// minimum gap between consecutive requests across all workers.
	Concurrency    int           `yaml:"concurrency"`
	RequestSpacing time.Duration `yaml:"request_spacing"`

	// ProgressEvery logs a progress line after this many symbols.
	ProgressEvery int `yaml:"progress_every"`
}

// OutputConfig names the artifact directory and files.
type OutputConfig struct {
	Dir          string `yaml:"dir"`
	ParquetFile  string `yaml:"parquet_file"`
	SnapshotFile string `yaml:"snapshot_file"`
	MetaFile     string `yaml:"meta_file"`
	FailuresFile string `yaml:"failures_file"`
}

// PublishConfig controls the optional git publish step.
type PublishConfig struct {
	Git    bool   `yaml:"git"`
	Remote string `yaml:"remote"`
	Branch string `yaml:"branch"`
}

// DatabaseConfig holds the optional Postgres mirror connection.
type DatabaseConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	Name      string `yaml:"name"`
	User      string `yaml:"user"`
	Password  string `yaml:"password"`
	SSLMode   string `yaml:"ssl_mode"`
	MaxConns  int    `yaml:"max_conns"`
	MinConns  int    `yaml:"min_conns"`
	BatchSize int    `yaml:"batch_size"`
}

// SchedulerConfig holds the in-process scheduler settings (cmd/scheduler).
type SchedulerConfig struct {
	Cron     string `yaml:"cron"`
	Timezone string `yaml:"timezone"`
}
