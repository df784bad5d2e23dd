// Package config loads, validates and watches the tabshell configuration.
package config

import "time"

// File permission constants
const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// Config represents the complete configuration for tabshell.
type Config struct {
	Logging     LoggingConfig     `mapstructure:"logging" toml:"logging" json:"logging"`
	Database    DatabaseConfig    `mapstructure:"database" toml:"database" json:"database"`
	Browser     BrowserConfig     `mapstructure:"browser" toml:"browser" json:"browser"`
	Tabs        TabsConfig        `mapstructure:"tabs" toml:"tabs" json:"tabs"`
	Permissions PermissionsConfig `mapstructure:"permissions" toml:"permissions" json:"permissions"`
	Filtering   FilteringConfig   `mapstructure:"filtering" toml:"filtering" json:"filtering"`
	Pages       PagesConfig       `mapstructure:"pages" toml:"pages" json:"pages"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  string `mapstructure:"level" toml:"level" json:"level" jsonschema:"enum=trace,enum=debug,enum=info,enum=warn,enum=error"`
	Format string `mapstructure:"format" toml:"format" json:"format" jsonschema:"enum=console,enum=json"`
	// LogDir overrides where browse writes its rotated log file.
	LogDir     string `mapstructure:"log_dir" toml:"log_dir" json:"log_dir,omitempty"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" toml:"max_size_mb" json:"max_size_mb" jsonschema:"minimum=1"`
	MaxBackups int    `mapstructure:"max_backups" toml:"max_backups" json:"max_backups" jsonschema:"minimum=0"`
}

// DatabaseConfig locates the history database.
type DatabaseConfig struct {
	// Path defaults to $XDG_DATA_HOME/tabshell/tabshell.sqlite.
	Path string `mapstructure:"path" toml:"path" json:"path,omitempty"`
}

// BrowserConfig controls the Chromium host process.
type BrowserConfig struct {
	// ExecPath overrides Chromium discovery.
	ExecPath    string `mapstructure:"exec_path" toml:"exec_path" json:"exec_path,omitempty"`
	Headless    bool   `mapstructure:"headless" toml:"headless" json:"headless"`
	UserDataDir string `mapstructure:"user_data_dir" toml:"user_data_dir" json:"user_data_dir,omitempty"`
	// HomeURL is loaded in new tabs.
	HomeURL string `mapstructure:"home_url" toml:"home_url" json:"home_url"`
}

// TabsConfig tunes the expanded tab overview.
type TabsConfig struct {
	HoverDelay time.Duration `mapstructure:"hover_delay" toml:"hover_delay" json:"hover_delay"`
	// SwipeThresholdY is the magnitude of the negative vertical delta (swipe
	// down, wheel up) that expands the strip.
	SwipeThresholdY float64 `mapstructure:"swipe_threshold_y" toml:"swipe_threshold_y" json:"swipe_threshold_y"`
	// SwipeThresholdX bounds the horizontal delta of an expand swipe.
	SwipeThresholdX float64 `mapstructure:"swipe_threshold_x" toml:"swipe_threshold_x" json:"swipe_threshold_x"`
}

// PermissionsConfig lists the capabilities pages are granted.
type PermissionsConfig struct {
	Allow []string `mapstructure:"allow" toml:"allow" json:"allow"`
}

// FilteringConfig controls request blocking.
type FilteringConfig struct {
	Enabled bool `mapstructure:"enabled" toml:"enabled" json:"enabled"`
	// Patterns are glob patterns matched against request URLs.
	Patterns []string `mapstructure:"patterns" toml:"patterns" json:"patterns"`
}

// PagesConfig controls the local server for reserved pages.
type PagesConfig struct {
	ListenAddr string `mapstructure:"listen_addr" toml:"listen_addr" json:"listen_addr"`
}
