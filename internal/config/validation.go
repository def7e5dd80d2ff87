package config

import (
	"errors"
	"fmt"

	"easteregg/internal/difficulty"
	"easteregg/internal/logging"
	"easteregg/internal/store"
)

// ErrInvalid wraps all validation failures.
var ErrInvalid = errors.New("config: invalid")

// Validate checks the configuration for internal consistency.
func (c *Config) Validate() error {
	if c.Version != Version {
		return fmt.Errorf("%w: version %d not supported (want %d)", ErrInvalid, c.Version, Version)
	}
	if !difficulty.Level(c.Engine.Difficulty).Valid() {
		return fmt.Errorf("%w: difficulty %d out of range 1-5", ErrInvalid, c.Engine.Difficulty)
	}

	switch c.Storage.Backend {
	case store.BackendSQLite, store.BackendFile:
		if c.Storage.Path == "" {
			return fmt.Errorf("%w: %s storage requires a path", ErrInvalid, c.Storage.Backend)
		}
	case store.BackendMemory:
	default:
		return fmt.Errorf("%w: unknown storage backend %q", ErrInvalid, c.Storage.Backend)
	}

	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if _, err := logging.ParseFormat(c.Logging.Format); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// LoggerConfig converts the logging section into a logging.Config.
// Call only after Validate.
func (c *Config) LoggerConfig(component string) logging.Config {
	level, _ := logging.ParseLevel(c.Logging.Level)
	format, _ := logging.ParseFormat(c.Logging.Format)
	return logging.Config{
		Level:     level,
		Format:    format,
		Output:    c.Logging.Output,
		FilePath:  c.Logging.FilePath,
		Component: component,
	}
}
