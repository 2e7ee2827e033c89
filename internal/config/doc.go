// Package config loads, validates, and normalizes the srtforge TOML
// configuration.
package config
