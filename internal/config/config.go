// Package config loads a DataGuard run's table/column/rule declarations
// and reader tuning knobs from a YAML file, with environment-variable
// overrides layered on top.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config is a full run declaration: every table to validate, plus the
// reader tuning shared across all of them.
type Config struct {
	Tables []TableConfig `mapstructure:"table"`
	Reader ReaderConfig  `mapstructure:"reader"`
}

// TableConfig declares one CSV or Parquet file, its columns, and any
// cross-column relations to check.
type TableConfig struct {
	Name      string           `mapstructure:"name"`
	Path      string           `mapstructure:"path"`
	Columns   []ColumnConfig   `mapstructure:"column"`
	Relations []RelationConfig `mapstructure:"relation"`
}

// ColumnConfig declares one column's logical type and its ordered rules.
type ColumnConfig struct {
	Name       string       `mapstructure:"name"`
	Datatype   string       `mapstructure:"datatype"` // "string" | "integer" | "float" | "date"
	DateFormat string       `mapstructure:"date_format"`
	Rules      []RuleConfig `mapstructure:"rule"`
}

// RuleConfig is the raw, untyped form of one rule as written in the config
// file; cmd/dataguard's constructor resolves Name against the column's
// datatype and reads only the fields that rule needs.
type RuleConfig struct {
	Name      string  `mapstructure:"name"`
	Threshold float64 `mapstructure:"threshold"`

	MinLength *int     `mapstructure:"min_length"`
	MaxLength *int     `mapstructure:"max_length"`
	Length    *int     `mapstructure:"length"`
	Members   []string `mapstructure:"members"`
	Pattern   string   `mapstructure:"pattern"`
	Flags     string   `mapstructure:"flags"`

	Min *float64 `mapstructure:"min"`
	Max *float64 `mapstructure:"max"`

	MaxStdDev          float64 `mapstructure:"max_std_dev"`
	MaxVariancePercent float64 `mapstructure:"max_variance_percent"`

	Year  int  `mapstructure:"year"`
	Month *int `mapstructure:"month"`
	Day   *int `mapstructure:"day"`

	IsWeek bool `mapstructure:"is_week"`
}

// RelationConfig declares one comparison between two columns in the same
// table, e.g. "start" <= "end".
type RelationConfig struct {
	Left      string  `mapstructure:"left"`
	Right     string  `mapstructure:"right"`
	Op        string  `mapstructure:"op"`
	Threshold float64 `mapstructure:"threshold"`
}

// ReaderConfig mirrors internal/readers.Config in mapstructure form, so it
// can be loaded from file/env and translated once in cmd/dataguard.
type ReaderConfig struct {
	MinChunkSize       int64 `mapstructure:"min_chunk_size"`
	MaxChunkSize       int64 `mapstructure:"max_chunk_size"`
	ChunksPerThread    int   `mapstructure:"chunks_per_thread"`
	BatchSize          int64 `mapstructure:"batch_size"`
	Streaming          bool  `mapstructure:"streaming"`
	StreamingThreshold int64 `mapstructure:"streaming_threshold"`
}

// Load reads configuration from configPath and environment variables.
// Priority: env vars > config file > defaults.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// DATAGUARD_READER_STREAMING, DATAGUARD_READER_BATCH_SIZE, etc.
	v.SetEnvPrefix("DATAGUARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("reader.min_chunk_size", 1<<20)
	v.SetDefault("reader.max_chunk_size", 100<<20)
	v.SetDefault("reader.chunks_per_thread", 5)
	v.SetDefault("reader.batch_size", 128*1024)
	v.SetDefault("reader.streaming", false)
	v.SetDefault("reader.streaming_threshold", 500<<20)
}
