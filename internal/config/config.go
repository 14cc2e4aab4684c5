// Package config loads calendar configuration for the command line tool
// from a TOML file.
package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"

	"almanac/internal/almanac"
	"almanac/internal/model"
)

// FileConfig is the on-disk TOML shape.
type FileConfig struct {
	DayBoundary      string  `toml:"day_boundary" validate:"omitempty,oneof=late-zi early-zi"`
	LeapMode         string  `toml:"leap_mode" validate:"omitempty,oneof=A B C"`
	UseTrueSolarTime bool    `toml:"use_true_solar_time"`
	Longitude        float64 `toml:"longitude" validate:"min=-180,max=180"`
	UTCOffset        float64 `toml:"utc_offset" validate:"min=-14,max=14"`
}

// Load reads and validates a TOML config file and maps it onto the engine
// configuration. Missing file fields keep engine defaults (late-zi
// boundary, unset leap mode).
func Load(path string) (almanac.Config, float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return almanac.Config{}, 0, fmt.Errorf("config load failed (%s): %w", path, err)
	}

	var fc FileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return almanac.Config{}, 0, fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	if err := validator.New().Struct(fc); err != nil {
		return almanac.Config{}, 0, fmt.Errorf("config invalid (%s): %w", path, err)
	}

	cfg, err := fc.engineConfig()
	if err != nil {
		return almanac.Config{}, 0, fmt.Errorf("config invalid (%s): %w", path, err)
	}
	return cfg, fc.UTCOffset, nil
}

// engineConfig maps the file fields onto almanac.Config.
func (fc FileConfig) engineConfig() (almanac.Config, error) {
	cfg := almanac.Config{
		UseTrueSolarTime: fc.UseTrueSolarTime,
		Longitude:        fc.Longitude,
	}

	switch fc.DayBoundary {
	case "", "late-zi":
		cfg.DayBoundary = model.PolicyLateZi
	case "early-zi":
		cfg.DayBoundary = model.PolicyEarlyZi
	default:
		return almanac.Config{}, fmt.Errorf("unknown day_boundary %q", fc.DayBoundary)
	}

	switch fc.LeapMode {
	case "":
		cfg.LeapMode = model.LeapModeUnset
	case "A":
		cfg.LeapMode = model.LeapModeA
	case "B":
		cfg.LeapMode = model.LeapModeB
	case "C":
		cfg.LeapMode = model.LeapModeC
	default:
		return almanac.Config{}, fmt.Errorf("unknown leap_mode %q", fc.LeapMode)
	}

	return cfg, nil
}
