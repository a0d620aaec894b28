package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML values like "15m" parse.
type Duration time.Duration

// UnmarshalYAML parses a Go duration string.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped standard-library duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// RadarConfig represents the structure of the radar.yaml file.
// Tuning for the background verifier and optional dev seed data that is
// easier to manage in YAML than env vars.
type RadarConfig struct {
	Verifier VerifierConfig `yaml:"verifier"`
	Seed     SeedConfig     `yaml:"seed"`
}

// VerifierConfig tunes the background coverage verifier.
type VerifierConfig struct {
	Enabled  bool     `yaml:"enabled"`
	Interval Duration `yaml:"interval"` // e.g. "15m"
	Timeout  Duration `yaml:"timeout"`  // per-URL check timeout
}

// SeedConfig lists development seed keywords.
type SeedConfig struct {
	Keywords []SeedKeyword `yaml:"keywords"`
}

// SeedKeyword defines one keyword to insert on startup in dev environments.
type SeedKeyword struct {
	Term       string  `yaml:"term"`
	Score      float64 `yaml:"score"`
	MatchedApp string  `yaml:"matchedApp,omitempty"`
}

// LoadRadarConfig loads the YAML configuration file.
// Path is determined by RADAR_CONFIG env var, defaulting to "radar.yaml".
// Returns nil without error if the config file doesn't exist.
func LoadRadarConfig() (*RadarConfig, error) {
	path := getEnv("RADAR_CONFIG", "radar.yaml")

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Config file is optional
			return nil, nil
		}
		return nil, err
	}

	var cfg RadarConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	// Set defaults
	if cfg.Verifier.Interval <= 0 {
		cfg.Verifier.Interval = Duration(15 * time.Minute)
	}
	if cfg.Verifier.Timeout <= 0 {
		cfg.Verifier.Timeout = Duration(10 * time.Second)
	}

	return &cfg, nil
}
