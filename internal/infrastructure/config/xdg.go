package config

import (
	"os"
	"path/filepath"
)

const (
	appName      = "tabshell"
	databaseName = "tabshell.sqlite"
)

// XDGDirs holds the XDG Base Directory paths for the application.
type XDGDirs struct {
	ConfigHome string
	DataHome   string
	StateHome  string
}

// GetXDGDirs returns the XDG Base Directory paths for tabshell:
// $XDG_CONFIG_HOME/tabshell, $XDG_DATA_HOME/tabshell and
// $XDG_STATE_HOME/tabshell, each falling back to the usual home paths.
func GetXDGDirs() (*XDGDirs, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	base := func(env string, fallback ...string) string {
		dir := os.Getenv(env)
		if dir == "" {
			dir = filepath.Join(append([]string{homeDir}, fallback...)...)
		}
		return filepath.Join(dir, appName)
	}

	return &XDGDirs{
		ConfigHome: base("XDG_CONFIG_HOME", ".config"),
		DataHome:   base("XDG_DATA_HOME", ".local", "share"),
		StateHome:  base("XDG_STATE_HOME", ".local", "state"),
	}, nil
}

// GetConfigDir returns the XDG config directory for tabshell.
func GetConfigDir() (string, error) {
	dirs, err := GetXDGDirs()
	if err != nil {
		return "", err
	}
	return dirs.ConfigHome, nil
}

// GetDataDir returns the XDG data directory for tabshell.
func GetDataDir() (string, error) {
	dirs, err := GetXDGDirs()
	if err != nil {
		return "", err
	}
	return dirs.DataHome, nil
}

// GetLogDir returns the log directory under XDG_STATE_HOME.
func GetLogDir() (string, error) {
	dirs, err := GetXDGDirs()
	if err != nil {
		return "", err
	}
	return filepath.Join(dirs.StateHome, "logs"), nil
}

// GetConfigFile returns the path to the main configuration file.
func GetConfigFile() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// GetDatabaseFile returns the path to the history database.
func GetDatabaseFile() (string, error) {
	dataDir, err := GetDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, databaseName), nil
}
