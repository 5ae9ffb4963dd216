package config

import (
	"errors"
	"fmt"
	"math"

	"github.com/FocuswithJustin/ensdfxml/internal/logging"
	"github.com/FocuswithJustin/ensdfxml/internal/validation"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateTolerance(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if err := validation.ValidatePath(c.DatabaseDir); err != nil {
		return fmt.Errorf("database_dir: %w", err)
	}
	if err := validation.ValidatePath(c.Output); err != nil {
		return fmt.Errorf("output: %w", err)
	}
	if c.SQLiteOutput != "" {
		if err := validation.ValidatePath(c.SQLiteOutput); err != nil {
			return fmt.Errorf("sqlite_output: %w", err)
		}
		if c.SQLiteOutput == c.Output {
			return errors.New("sqlite_output must differ from output")
		}
	}
	return nil
}

func (c *Config) validateTolerance() error {
	if c.EnergyTolerance <= 0 || math.IsNaN(c.EnergyTolerance) || math.IsInf(c.EnergyTolerance, 0) {
		return fmt.Errorf("energy_tolerance must be a positive number, got %v", c.EnergyTolerance)
	}
	return nil
}

func (c *Config) validateLogging() error {
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if _, err := logging.ParseFormat(c.Log.Format); err != nil {
		return fmt.Errorf("log.format: %w", err)
	}
	return nil
}
