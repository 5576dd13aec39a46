// Package config provides configuration utilities for the application.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandPath expands ~ and environment variables in a file path.
// It handles both ~ for home directory and $VAR style environment variables.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = home
		}
	}

	return os.ExpandEnv(path)
}

// ConfigDir returns the directory holding config.yaml.
func ConfigDir() string {
	return ExpandPath("~/.config/kaba")
}

// SheetsTokenFile is where 'kaba auth sheets' stores the Google OAuth2 token.
func SheetsTokenFile() string {
	return filepath.Join(ConfigDir(), "sheets-token.json")
}

// DefaultDatabasePath returns where the local settings database lives unless configured.
func DefaultDatabasePath() string {
	return ExpandPath("~/.local/share/kaba/kaba.db")
}
