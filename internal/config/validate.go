package config

import "fmt"

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("database: min_conns (%d) must not exceed max_conns (%d)",
			c.Database.MinConns, c.Database.MaxConns)
	}

	if err := c.Ingest.validate(); err != nil {
		return fmt.Errorf("ingest: %w", err)
	}

	if c.Aggregation.Timeout <= 0 {
		return fmt.Errorf("aggregation: timeout must be > 0 (got %v)", c.Aggregation.Timeout)
	}

	return nil
}

func (c *IngestConfig) validate() error {
	if c.MaxScore <= 0 {
		return fmt.Errorf("max_score must be > 0 (got %v)", c.MaxScore)
	}
	if c.ScoreStep <= 0 {
		return fmt.Errorf("score_step must be > 0 (got %v)", c.ScoreStep)
	}
	if c.DefaultScore < 0 {
		return fmt.Errorf("default_score must be >= 0 (got %v)", c.DefaultScore)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be > 0 (got %v)", c.Timeout)
	}
	return nil
}
