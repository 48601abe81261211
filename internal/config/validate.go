package config

import (
	"errors"
	"fmt"
)

// Validate checks that all required fields are set and values are valid.
func (c *JobConfig) Validate() error {
	if c.Instance.ID == "" {
		return errors.New("instance.id is required")
	}

	if c.Universe.ConstituentsURL == "" {
		return errors.New("universe.constituents_url is required")
	}
	if c.Universe.LookbackYears < 1 {
		return errors.New("universe.lookback_years must be >= 1")
	}

	if c.Provider.BaseURL == "" {
		return errors.New("provider.base_url is required")
	}
	if c.Provider.Timeout <= 0 {
		return errors.New("provider.timeout must be > 0")
	}
	if c.Provider.MaxRetries < 0 {
		return errors.New("provider.max_retries must be >= 0")
	}
	if c.Provider.Concurrency < 1 {
		return errors.New("provider.concurrency must be >= 1")
	}

	if c.Output.Dir == "" {
		return errors.New("output.dir is required")
	}

	if c.Publish.Git {
		if c.Publish.Remote == "" {
			return errors.New("publish.remote is required when publish.git is enabled")
		}
		if c.Publish.Branch == "" {
			return errors.New("publish.branch is required when publish.git is enabled")
		}
	}

	if c.Database.Enabled {
		if err := c.Database.validate("database"); err != nil {
			return err
		}
	}

	return nil
}

func (db *DatabaseConfig) validate(prefix string) error {
	if db.Host == "" {
		return fmt.Errorf("%s.host is required", prefix)
	}
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.Port < 1 || db.Port > 65535 {
		return fmt.Errorf("%s.port must be 1-65535", prefix)
	}
	if db.BatchSize < 1 {
		return fmt.Errorf("%s.batch_size must be >= 1", prefix)
	}
	return nil
}
