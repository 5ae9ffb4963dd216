package config

const (
	defaultDatabaseDir     = "."
	defaultOutput          = "nuc_collection.xml"
	defaultEnergyTolerance = 1.0
	defaultLogLevel        = "info"
	defaultLogFormat       = "auto"
)

// Default returns a Config populated with built-in defaults.
func Default() Config {
	return Config{
		DatabaseDir:     defaultDatabaseDir,
		Output:          defaultOutput,
		EnergyTolerance: defaultEnergyTolerance,
		Log: Log{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}
