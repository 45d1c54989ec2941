// Package config handles application configuration and setup
package config

import (
	"github.com/retroenv/retrogolib/log"
)

// CreateLogger creates a logger with appropriate settings.
// Instruction tracing is logged at debug level and therefore implies debug.
func CreateLogger(debug, trace, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	switch {
	case debug, trace:
		cfg.Level = log.DebugLevel
	case quiet:
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}
