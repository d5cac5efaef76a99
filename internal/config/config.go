package config

import "time"

// Config is the root application configuration.
type Config struct {
	Database    DatabaseConfig    `yaml:"database"`
	Log         LogConfig         `yaml:"log"`
	Ingest      IngestConfig      `yaml:"ingest"`
	Aggregation AggregationConfig `yaml:"aggregation"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// IngestConfig holds ingestion pipeline settings.
type IngestConfig struct {
	// MaxScore is the score assigned to the first-ranked phrase of a block.
	MaxScore float64 `yaml:"max_score" env:"INGEST_MAX_SCORE" env-default:"10"`
	// ScoreStep is subtracted per rank below the first.
	ScoreStep float64 `yaml:"score_step" env:"INGEST_SCORE_STEP" env-default:"1"`
	// DefaultScore is used when no rank-based policy applies.
	DefaultScore float64 `yaml:"default_score" env:"INGEST_DEFAULT_SCORE" env-default:"1"`
	// Timeout bounds one ingestion batch.
	Timeout time.Duration `yaml:"timeout" env:"INGEST_TIMEOUT" env-default:"2m"`
}

// AggregationConfig holds weekly roll-up settings.
type AggregationConfig struct {
	// Timeout bounds one aggregation run.
	Timeout time.Duration `yaml:"timeout" env:"AGGREGATION_TIMEOUT" env-default:"5m"`
}
