// Package config defines the build configuration surface. Callers hand in
// raw YAML bytes; file handling is their business.
package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// BuildConfig holds the tunables of a whole pipeline run.
type BuildConfig struct {
	// Density is the target system density in kg/cm^3.
	Density float64 `yaml:"density" validate:"gt=0"`

	// BoxSize presets the cubic box edge in nm; zero derives it from
	// mass and density.
	BoxSize float64 `yaml:"box_size" validate:"gte=0"`

	GridPoints    int     `yaml:"grid_points" validate:"gt=0"`
	StartAttempts int     `yaml:"start_attempts" validate:"gt=0"`
	WalkRetries   int     `yaml:"walk_retries" validate:"gt=0"`
	MaxRescales   int     `yaml:"max_rescales" validate:"gt=0"`
	StepLength    float64 `yaml:"step_length" validate:"gt=0"`
	GrowthFactor  float64 `yaml:"growth_factor" validate:"gt=1"`

	Seed     int64  `yaml:"seed"`
	LogLevel string `yaml:"log_level" validate:"oneof=debug info warn error"`
}

// Default returns the reference configuration.
func Default() BuildConfig {
	return BuildConfig{
		Density:       1.0,
		GridPoints:    250,
		StartAttempts: 80,
		WalkRetries:   50,
		MaxRescales:   64,
		StepLength:    0.47,
		GrowthFactor:  1.1,
		Seed:          1,
		LogLevel:      "info",
	}
}

// Parse unmarshals YAML on top of the defaults and validates the result.
func Parse(data []byte) (BuildConfig, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return BuildConfig{}, fmt.Errorf("parse build config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return BuildConfig{}, err
	}
	return cfg, nil
}

// Validate checks the configuration's constraints.
func (c BuildConfig) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid build config: %w", err)
	}
	return nil
}
