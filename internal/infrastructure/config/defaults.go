package config

import "time"

const (
	defaultHoverDelay      = 125 * time.Millisecond
	defaultSwipeThresholdY = 30
	defaultSwipeThresholdX = 10
	defaultMaxSizeMB       = 10
	defaultMaxBackups      = 3
	defaultListenAddr      = "127.0.0.1:0"
)

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "console",
			MaxSizeMB:  defaultMaxSizeMB,
			MaxBackups: defaultMaxBackups,
		},
		Browser: BrowserConfig{
			HomeURL: "about:blank",
		},
		Tabs: TabsConfig{
			HoverDelay:      defaultHoverDelay,
			SwipeThresholdY: defaultSwipeThresholdY,
			SwipeThresholdX: defaultSwipeThresholdX,
		},
		Permissions: PermissionsConfig{
			Allow: []string{"notifications", "fullscreen"},
		},
		Filtering: FilteringConfig{
			Enabled: true,
			Patterns: []string{
				"*://*.doubleclick.net/*",
				"*://*.googlesyndication.com/*",
				"*://*.google-analytics.com/*",
				"*://*/ads/*",
			},
		},
		Pages: PagesConfig{
			ListenAddr: defaultListenAddr,
		},
	}
}

// setDefaults sets default configuration values in Viper.
func (m *Manager) setDefaults() {
	defaults := DefaultConfig()

	// Database.Path is resolved in Load.

	m.viper.SetDefault("logging.level", defaults.Logging.Level)
	m.viper.SetDefault("logging.format", defaults.Logging.Format)
	m.viper.SetDefault("logging.log_dir", defaults.Logging.LogDir)
	m.viper.SetDefault("logging.max_size_mb", defaults.Logging.MaxSizeMB)
	m.viper.SetDefault("logging.max_backups", defaults.Logging.MaxBackups)

	m.viper.SetDefault("browser.exec_path", defaults.Browser.ExecPath)
	m.viper.SetDefault("browser.headless", defaults.Browser.Headless)
	m.viper.SetDefault("browser.user_data_dir", defaults.Browser.UserDataDir)
	m.viper.SetDefault("browser.home_url", defaults.Browser.HomeURL)

	m.viper.SetDefault("tabs.hover_delay", defaults.Tabs.HoverDelay)
	m.viper.SetDefault("tabs.swipe_threshold_y", defaults.Tabs.SwipeThresholdY)
	m.viper.SetDefault("tabs.swipe_threshold_x", defaults.Tabs.SwipeThresholdX)

	m.viper.SetDefault("permissions.allow", defaults.Permissions.Allow)

	m.viper.SetDefault("filtering.enabled", defaults.Filtering.Enabled)
	m.viper.SetDefault("filtering.patterns", defaults.Filtering.Patterns)

	m.viper.SetDefault("pages.listen_addr", defaults.Pages.ListenAddr)
}
