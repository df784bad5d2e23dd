package config

import (
	"fmt"
	"net"
	"strings"

	"github.com/gobwas/glob"

	"github.com/bnema/tabshell/internal/domain/entity"
)

// validateConfig performs validation of configuration values and reports
// every problem at once.
func validateConfig(config *Config) error {
	var validationErrors []string

	validationErrors = append(validationErrors, validateLogging(config)...)
	validationErrors = append(validationErrors, validateTabs(config)...)
	validationErrors = append(validationErrors, validatePermissions(config)...)
	validationErrors = append(validationErrors, validateFiltering(config)...)
	validationErrors = append(validationErrors, validatePages(config)...)

	if len(validationErrors) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(validationErrors, "\n  - "))
	}
	return nil
}

func validateLogging(config *Config) []string {
	var validationErrors []string
	switch config.Logging.Level {
	case "trace", "debug", "info", "warn", "warning", "error":
	default:
		validationErrors = append(validationErrors, fmt.Sprintf("logging.level %q is not a valid level", config.Logging.Level))
	}
	switch config.Logging.Format {
	case "console", "json":
	default:
		validationErrors = append(validationErrors, fmt.Sprintf("logging.format must be console or json, got %q", config.Logging.Format))
	}
	if config.Logging.MaxSizeMB < 1 {
		validationErrors = append(validationErrors, "logging.max_size_mb must be at least 1")
	}
	if config.Logging.MaxBackups < 0 {
		validationErrors = append(validationErrors, "logging.max_backups must be non-negative")
	}
	return validationErrors
}

func validateTabs(config *Config) []string {
	var validationErrors []string
	if config.Tabs.HoverDelay < 0 {
		validationErrors = append(validationErrors, "tabs.hover_delay must be non-negative")
	}
	if config.Tabs.SwipeThresholdY <= 0 {
		validationErrors = append(validationErrors, "tabs.swipe_threshold_y must be positive")
	}
	if config.Tabs.SwipeThresholdX <= 0 {
		validationErrors = append(validationErrors, "tabs.swipe_threshold_x must be positive")
	}
	return validationErrors
}

func validatePermissions(config *Config) []string {
	var validationErrors []string
	for _, p := range config.Permissions.Allow {
		if !entity.IsKnownPermission(entity.PermissionType(p)) {
			validationErrors = append(validationErrors, fmt.Sprintf("permissions.allow: unknown permission %q", p))
		}
	}
	return validationErrors
}

func validateFiltering(config *Config) []string {
	var validationErrors []string
	for _, pattern := range config.Filtering.Patterns {
		if _, err := glob.Compile(pattern); err != nil {
			validationErrors = append(validationErrors, fmt.Sprintf("filtering.patterns: invalid pattern %q: %v", pattern, err))
		}
	}
	return validationErrors
}

func validatePages(config *Config) []string {
	if _, _, err := net.SplitHostPort(config.Pages.ListenAddr); err != nil {
		return []string{fmt.Sprintf("pages.listen_addr %q must be host:port", config.Pages.ListenAddr)}
	}
	return nil
}
