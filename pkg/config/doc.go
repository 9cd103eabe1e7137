// Package config loads lbi's configuration.
//
// Values are layered with koanf, later layers winning:
//
//  1. the embedded defaults (embedded/defaults.toml)
//  2. the user file, $XDG_CONFIG_HOME/lbi/config.toml or $LBI_CONFIG
//  3. LBI_* environment variables, "__" separating section and key
//  4. explicit overrides, usually command line flags
//
// The result is decoded into Config with mapstructure, so durations accept
// "250ms" style strings and lists accept comma separated strings.
package config
