// Package config defines emulator configuration structures and loading hooks.
//
// Conventions follow the rest of the module: defaults come from New,
// Load layers an optional YAML file and PSS_-prefixed environment
// variables on top, and callers receive a plain value struct.
package config

// Config contains process configuration for the emulator.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Host and Port identify the UDP consumer the emulator streams to.
	// 6000 is the direct device-emulation port; 8888 is the consumer
	// application's ingest port.
	Host string `koanf:"host"`
	Port int    `koanf:"port"`

	// Mode selects the run mode: interactive, demo, random, scenario.
	Mode string `koanf:"mode"`

	// Scenario names the catalog entry to run in scenario mode.
	Scenario string `koanf:"scenario"`

	// DurationSeconds bounds random-mode runs.
	DurationSeconds int `koanf:"duration_seconds"`

	// BatchDelayMS is the inter-message delay inside SendBatch.
	BatchDelayMS int `koanf:"batch_delay_ms"`

	// ClockIntervalMS is the clock driver tick interval.
	ClockIntervalMS int `koanf:"clock_interval_ms"`

	// MetricsAddr is the Prometheus /metrics listen address.
	MetricsAddr string `koanf:"metrics_addr"`

	// Seed seeds all random generation; 0 derives a seed from crypto/rand.
	Seed int64 `koanf:"seed"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:        "info",
		Host:            "127.0.0.1",
		Port:            6000,
		Mode:            "scenario",
		Scenario:        "quick-test",
		DurationSeconds: 60,
		BatchDelayMS:    100,
		ClockIntervalMS: 1000,
		MetricsAddr:     ":9090",
		Seed:            0,
	}
}
