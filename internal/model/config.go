// Package model defines the configuration and report types shared between
// the pipeline, the batch worker pool and the CLI.
package model

import "time"

// Config is the full application configuration, loaded from the config file
// and environment by the CLI and consumed by the pipeline.
type Config struct {
	Parser      ParserConfig      `mapstructure:"parser" yaml:"parser"`
	Cache       CacheConfig       `mapstructure:"cache" yaml:"cache"`
	Concurrency ConcurrencyConfig `mapstructure:"concurrency" yaml:"concurrency"`
	RateLimit   RateLimitConfig   `mapstructure:"rate_limit" yaml:"rate_limit"`
	Output      OutputConfig      `mapstructure:"output" yaml:"output"`
}

// ParserConfig selects and tunes the parsing strategy.
type ParserConfig struct {
	// Strategy is one of plain, pcfg, tagrank.
	Strategy string `mapstructure:"strategy" yaml:"strategy"`

	// Threshold is the beam ratio in (0,1].
	Threshold float64 `mapstructure:"threshold" yaml:"threshold"`

	// MaxArc caps signs per chart cell after beaming; 0 disables the cap.
	MaxArc int `mapstructure:"max_arc" yaml:"max_arc"`

	// Viterbi switches the pcfg strategy to best-derivation merging.
	Viterbi bool `mapstructure:"viterbi" yaml:"viterbi"`

	// Derivations enables derivation traces in reports.
	Derivations bool `mapstructure:"derivations" yaml:"derivations"`

	// Results is the number of top parses reported; 0 means all.
	Results int `mapstructure:"results" yaml:"results"`

	// Timeout bounds one parse; 0 means no limit.
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// CacheConfig controls probability-model memoization.
type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled" yaml:"enabled"`
	TTL     time.Duration `mapstructure:"ttl" yaml:"ttl"`
}

// ConcurrencyConfig controls the batch worker pool.
type ConcurrencyConfig struct {
	Workers int `mapstructure:"workers" yaml:"workers"`
}

// RateLimitConfig throttles batch job starts.
type RateLimitConfig struct {
	// PerSecond is the sustained job-start rate; 0 or negative disables
	// limiting.
	PerSecond float64 `mapstructure:"per_second" yaml:"per_second"`

	// Burst is the token bucket size when limiting is on.
	Burst int `mapstructure:"burst" yaml:"burst"`
}

// OutputConfig controls report rendering.
type OutputConfig struct {
	// Format is text or json.
	Format string `mapstructure:"format" yaml:"format"`

	// Directory receives per-sequence reports in batch mode.
	Directory string `mapstructure:"directory" yaml:"directory"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		Parser: ParserConfig{
			Strategy:  "pcfg",
			Threshold: 0.01,
			MaxArc:    20,
			Results:   5,
		},
		Cache: CacheConfig{
			Enabled: true,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		RateLimit: RateLimitConfig{
			Burst: 1,
		},
		Output: OutputConfig{
			Format:    "text",
			Directory: "reports",
		},
	}
}
