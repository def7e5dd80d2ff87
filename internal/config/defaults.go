package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// Default returns the built-in configuration: every category enabled,
// baseline difficulty, file-backed storage under the platform data
// directory.
func Default() *Config {
	return &Config{
		Version: Version,
		Engine: EngineConfig{
			EnableKeyboard: true,
			EnableMouse:    true,
			EnableScroll:   true,
			EnableTouch:    true,
			Difficulty:     3,
		},
		Storage: StorageConfig{
			Backend: "file",
			Path:    defaultProgressPath(),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
	}
}

// defaultProgressPath returns the platform-specific progress file path.
func defaultProgressPath() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "easteregg", "progress.json")
	case "windows":
		appData := os.Getenv("LOCALAPPDATA")
		if appData == "" {
			appData = os.Getenv("APPDATA")
		}
		return filepath.Join(appData, "easteregg", "progress.json")
	default:
		dataHome := os.Getenv("XDG_DATA_HOME")
		if dataHome == "" {
			home, _ := os.UserHomeDir()
			dataHome = filepath.Join(home, ".local", "share")
		}
		return filepath.Join(dataHome, "easteregg", "progress.json")
	}
}
