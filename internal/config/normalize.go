package config

import "strings"

func (c *Config) normalize() {
	c.DatabaseDir = strings.TrimSpace(c.DatabaseDir)
	if c.DatabaseDir == "" {
		c.DatabaseDir = defaultDatabaseDir
	}
	c.Output = strings.TrimSpace(c.Output)
	if c.Output == "" {
		c.Output = defaultOutput
	}
	c.SQLiteOutput = strings.TrimSpace(c.SQLiteOutput)

	species := c.Species[:0]
	for _, s := range c.Species {
		if s = strings.TrimSpace(s); s != "" {
			species = append(species, s)
		}
	}
	c.Species = species

	if c.EnergyTolerance == 0 {
		c.EnergyTolerance = defaultEnergyTolerance
	}

	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	if c.Log.Level == "" {
		c.Log.Level = defaultLogLevel
	}
	c.Log.Format = strings.ToLower(strings.TrimSpace(c.Log.Format))
	if c.Log.Format == "" {
		c.Log.Format = defaultLogFormat
	}
}

// Normalize trims values and fills empty fields from the defaults. Callers
// that override fields after Load should call it before Validate.
func (c *Config) Normalize() {
	c.normalize()
}
