// Package config handles configuration loading, validation, and
// defaults for the discovery engine and its tooling.
//
// Configuration comes from three layers, later layers winning:
// built-in defaults, an optional TOML file, and EGG_* environment
// variables. The engine treats its configuration as static; changing
// it requires re-creating the engine.
package config

// Version is the current configuration schema version.
const Version = 1

// Config is the complete configuration.
type Config struct {
	// Version is the configuration schema version.
	Version int `toml:"version"`

	// Engine configures recognition behavior.
	Engine EngineConfig `toml:"engine"`

	// Patterns configures the pattern set.
	Patterns PatternsConfig `toml:"patterns"`

	// Storage configures progress persistence.
	Storage StorageConfig `toml:"storage"`

	// Logging configures structured logging.
	Logging LoggingConfig `toml:"logging"`
}

// EngineConfig holds the recognized engine options.
type EngineConfig struct {
	// EnableKeyboard forwards key events to the sequence matcher.
	EnableKeyboard bool `toml:"enable_keyboard" env:"EGG_ENABLE_KEYBOARD"`

	// EnableMouse forwards pointer events to the gesture matcher.
	EnableMouse bool `toml:"enable_mouse" env:"EGG_ENABLE_MOUSE"`

	// EnableScroll forwards wheel events to the rhythm matcher.
	EnableScroll bool `toml:"enable_scroll" env:"EGG_ENABLE_SCROLL"`

	// EnableTouch forwards touch events to the gesture matcher.
	EnableTouch bool `toml:"enable_touch" env:"EGG_ENABLE_TOUCH"`

	// Difficulty is the engine-wide difficulty level, 1-5.
	Difficulty int `toml:"difficulty" env:"EGG_DIFFICULTY"`
}

// PatternsConfig holds the pattern set configuration.
type PatternsConfig struct {
	// ManifestPath points at a YAML pattern manifest. Empty means the
	// built-in pattern set.
	ManifestPath string `toml:"manifest_path" env:"EGG_PATTERN_MANIFEST"`
}

// StorageConfig holds persistence configuration.
type StorageConfig struct {
	// Backend is the storage backend: "sqlite", "file", or "memory".
	Backend string `toml:"backend" env:"EGG_STORAGE_BACKEND"`

	// Path is the database or file path. Ignored by the memory backend.
	Path string `toml:"path" env:"EGG_STORAGE_PATH"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error.
	Level string `toml:"level" env:"EGG_LOG_LEVEL"`

	// Format is "text" or "json".
	Format string `toml:"format" env:"EGG_LOG_FORMAT"`

	// Output is "stderr", "stdout", "file", or "discard".
	Output string `toml:"output" env:"EGG_LOG_OUTPUT"`

	// FilePath is the log file when Output is "file".
	FilePath string `toml:"file_path" env:"EGG_LOG_FILE"`
}
