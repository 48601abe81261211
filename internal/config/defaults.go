package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultConstituentsURL = "https://raw.githubusercontent.com/datasets/s-and-p-500-companies/main/data/constituents.csv"
	DefaultLookbackYears   = 4
	DefaultProviderURL     = "https://stooq.com"
	DefaultUserAgent       = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	DefaultTimeout         = 20 * time.Second
	DefaultMaxRetries      = 3
	DefaultRetryBackoff    = 250 * time.Millisecond
	DefaultConcurrency     = 4
	DefaultRequestSpacing  = 250 * time.Millisecond
	DefaultProgressEvery   = 25
	DefaultOutputDir       = "data"
	DefaultParquetFile     = "sp500_etf.parquet"
	DefaultSnapshotFile    = "sp500_etf.gob"
	DefaultMetaFile        = "sp500_etf_meta.json"
	DefaultFailuresFile    = "sp500_etf_failures.csv"
	DefaultGitRemote       = "origin"
	DefaultGitBranch       = "main"
	DefaultDBPort          = 5432
	DefaultDBSSLMode       = "prefer"
	DefaultMaxConns        = 10
	DefaultMinConns        = 2
	DefaultBatchSize       = 1000
	DefaultCron            = "30 17 * * 1-5" // weekday evenings
	DefaultTimezone        = "America/New_York"
)

// DefaultExtraETFs is the ETF extension applied on top of the S&P 500
// constituents when the config does not override it.
var DefaultExtraETFs = []string{
	"SPY", "XOP", "XLE", "USO", "DBC", "GLD", "JETS", "PEJ",
	"VNQ", "IYR", "HYG", "JNK", "ANGL", "DVY", "VYM", "SDIV", "EMB", "HYEM",
}

func (c *JobConfig) applyDefaults() {
	// Universe defaults
	if c.Universe.ConstituentsURL == "" {
		c.Universe.ConstituentsURL = DefaultConstituentsURL
	}
	if c.Universe.ExtraETFs == nil {
		c.Universe.ExtraETFs = append([]string(nil), DefaultExtraETFs...)
	}
	if c.Universe.LookbackYears == 0 {
		c.Universe.LookbackYears = DefaultLookbackYears
	}

	// Provider defaults
	if c.Provider.BaseURL == "" {
		c.Provider.BaseURL = DefaultProviderURL
	}
	if c.Provider.UserAgent == "" {
		c.Provider.UserAgent = DefaultUserAgent
	}
	if c.Provider.Timeout == 0 {
		c.Provider.Timeout = DefaultTimeout
	}
	if c.Provider.MaxRetries == 0 {
		c.Provider.MaxRetries = DefaultMaxRetries
	}
	if c.Provider.RetryBackoff == 0 {
		c.Provider.RetryBackoff = DefaultRetryBackoff
	}
	if c.Provider.Concurrency == 0 {
		c.Provider.Concurrency = DefaultConcurrency
	}
	if c.Provider.RequestSpacing == 0 {
		c.Provider.RequestSpacing = DefaultRequestSpacing
	}
	if c.Provider.ProgressEvery == 0 {
		c.Provider.ProgressEvery = DefaultProgressEvery
	}

	// Output defaults
	if c.Output.Dir == "" {
		c.Output.Dir = DefaultOutputDir
	}
	if c.Output.ParquetFile == "" {
		c.Output.ParquetFile = DefaultParquetFile
	}
	if c.Output.SnapshotFile == "" {
		c.Output.SnapshotFile = DefaultSnapshotFile
	}
	if c.Output.MetaFile == "" {
		c.Output.MetaFile = DefaultMetaFile
	}
	if c.Output.FailuresFile == "" {
		c.Output.FailuresFile = DefaultFailuresFile
	}

	// Publish defaults
	if c.Publish.Remote == "" {
		c.Publish.Remote = DefaultGitRemote
	}
	if c.Publish.Branch == "" {
		c.Publish.Branch = DefaultGitBranch
	}

	// Database defaults
	if c.Database.Port == 0 {
		c.Database.Port = DefaultDBPort
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = DefaultDBSSLMode
	}
	if c.Database.MaxConns == 0 {
		c.Database.MaxConns = DefaultMaxConns
	}
	if c.Database.MinConns == 0 {
		c.Database.MinConns = DefaultMinConns
	}
	if c.Database.BatchSize == 0 {
		c.Database.BatchSize = DefaultBatchSize
	}

	// Scheduler defaults
	if c.Scheduler.Cron == "" {
		c.Scheduler.Cron = DefaultCron
	}
	if c.Scheduler.Timezone == "" {
		c.Scheduler.Timezone = DefaultTimezone
	}
}
