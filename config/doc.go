// Package config loads and validates the YAML application configuration
// shared by the CLI commands.
package config
