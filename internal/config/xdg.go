// Package config provides XDG path helpers.
package config

import (
	"os"
	"path/filepath"
)

// XDGConfigHome returns the XDG config home or a default fallback.
func XDGConfigHome() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".config")
}

// XDGDataHome returns the XDG data home or a default fallback.
func XDGDataHome() string {
	if v := os.Getenv("XDG_DATA_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".local", "share")
}

// DefaultConfigPath returns the default TOML config path.
func DefaultConfigPath() string {
	return filepath.Join(XDGConfigHome(), "gcp-guru", "config.toml")
}

// DefaultStatePath returns the default path for the persisted UI state database.
func DefaultStatePath() string {
	return filepath.Join(XDGDataHome(), "gcp-guru", "state.db")
}

// DefaultLogPath returns the default path for the debug log file.
func DefaultLogPath() string {
	return filepath.Join(XDGDataHome(), "gcp-guru", "gcp-guru.log")
}
