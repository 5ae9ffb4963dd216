// Package config loads ensdfxml configuration from an optional TOML file.
//
// Values are resolved in order: built-in defaults, then the config file,
// then command-line flags applied by the caller. Load always returns a
// normalised and validated Config.
package config
