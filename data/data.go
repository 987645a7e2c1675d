// Package data provides the foundational data layer for all file I/O operations.
// It encapsulates config, profile, progress, meal log and transcript access behind strongly-typed structs.
//
// Architecture: cmd → service → data
// The data layer is the only layer that should directly access files or viper.
package data

import (
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
)

// AppName is used for the config directory and the config file name.
const AppName = "fitbot"

// GetConfigDir returns the application configuration directory.
// Uses os.UserConfigDir() for cross-platform support.
// Example: ~/.config/fitbot on Linux, ~/Library/Application Support/fitbot on macOS
func GetConfigDir() string {
	userConfigDir, err := os.UserConfigDir()
	if err != nil {
		// Fallback to home directory if UserConfigDir fails
		userConfigDir, _ = homedir.Dir()
		userConfigDir = filepath.Join(userConfigDir, ".config")
	}
	return filepath.Join(userConfigDir, AppName)
}

// GetConfigFilePath returns the path to the configuration file.
func GetConfigFilePath() string {
	return filepath.Join(GetConfigDir(), AppName+".yaml")
}

// GetProfileFilePath returns the path to the user profile.
func GetProfileFilePath() string {
	return filepath.Join(GetConfigDir(), "profile.yaml")
}

// GetProgressFilePath returns the path to the progress log.
func GetProgressFilePath() string {
	return filepath.Join(GetConfigDir(), "progress.json")
}

// GetMealLogFilePath returns the path to the meal log.
func GetMealLogFilePath() string {
	return filepath.Join(GetConfigDir(), "meals.json")
}

// GetConvoDirPath returns the path to the saved transcript directory.
func GetConvoDirPath() string {
	return filepath.Join(GetConfigDir(), "convo")
}

// EnsureConfigDir creates the config directory if it doesn't exist.
func EnsureConfigDir() error {
	return os.MkdirAll(GetConfigDir(), 0750)
}
