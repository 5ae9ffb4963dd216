package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Log contains logging configuration.
type Log struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Config holds the settings for a conversion run.
type Config struct {
	// DatabaseDir holds the ensdf.NNN mass-chain files.
	DatabaseDir string `toml:"database_dir"`

	// Output is the collection file; a ".xz" suffix compresses it.
	Output string `toml:"output"`

	// SQLiteOutput, if set, also exports the collection to this database.
	SQLiteOutput string `toml:"sqlite_output"`

	// Species lists the symbols to convert, e.g. "26AL".
	Species []string `toml:"species"`

	// EnergyTolerance is the gamma destination matching tolerance in keV.
	EnergyTolerance float64 `toml:"energy_tolerance"`

	// KeepGoing skips a species that fails instead of aborting the run.
	KeepGoing bool `toml:"keep_going"`

	Log Log `toml:"log"`
}

// Load reads the TOML file at path over the defaults. An empty path
// yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
