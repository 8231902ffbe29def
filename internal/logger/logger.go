// Package logger builds the application zerolog logger from the global
// configuration, with console and rotating-file outputs.
package logger

import (
	"iocscan/internal/config"

	"github.com/rs/zerolog"
)

// New creates a new logger instance from the application LogConfig
func New(cfg config.LogConfig) (zerolog.Logger, error) {
	return NewLoggerBuilder().WithConfig(cfg).Build()
}
