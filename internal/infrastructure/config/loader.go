package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

// Manager handles configuration loading, watching, and reloading.
type Manager struct {
	config    *Config
	viper     *viper.Viper
	mu        sync.RWMutex
	callbacks []func(*Config)
	watching  bool
	configDir string
}

// NewManager creates a new configuration manager reading from the XDG config
// directory and the working directory.
func NewManager() (*Manager, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to determine config directory: %w\nCheck XDG_CONFIG_HOME environment variable or HOME directory", err)
	}
	return newManager(configDir, ".")
}

// NewManagerForDir creates a manager that only reads from dir.
func NewManagerForDir(dir string) (*Manager, error) {
	return newManager(dir)
}

func newManager(paths ...string) (*Manager, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	// TABSHELL_DATABASE_PATH, TABSHELL_BROWSER_HEADLESS, ...
	v.SetEnvPrefix("TABSHELL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Logging variables are shorter than the key-derived names.
	if err := v.BindEnv("logging.level", "TABSHELL_LOG_LEVEL"); err != nil {
		return nil, fmt.Errorf("failed to bind TABSHELL_LOG_LEVEL: %w", err)
	}
	if err := v.BindEnv("logging.format", "TABSHELL_LOG_FORMAT"); err != nil {
		return nil, fmt.Errorf("failed to bind TABSHELL_LOG_FORMAT: %w", err)
	}

	return &Manager{
		viper:     v,
		callbacks: make([]func(*Config), 0),
		configDir: paths[0],
	}, nil
}

// Load loads the configuration from file and environment variables. A
// default config file is written when none exists.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.setDefaults()

	if err := m.readConfigFile(); err != nil {
		return err
	}
	return m.reload(false)
}

func (m *Manager) readConfigFile() error {
	err := m.viper.ReadInConfig()
	if err == nil {
		return nil
	}

	var notFound viper.ConfigFileNotFoundError
	if !errors.As(err, &notFound) {
		configFile := m.viper.ConfigFileUsed()
		return fmt.Errorf("failed to read config file at %s: %w\nCheck the file format (must be valid TOML) and permissions", configFile, err)
	}

	if createErr := m.createDefaultConfig(); createErr != nil {
		return fmt.Errorf("failed to create default config: %w\nTry creating the directory manually or check permissions", createErr)
	}
	if rereadErr := m.viper.ReadInConfig(); rereadErr != nil {
		return fmt.Errorf("failed to read newly created config file: %w", rereadErr)
	}
	return nil
}

// reload unmarshals, normalizes and validates the current viper state.
// Must be called with m.mu held for write.
func (m *Manager) reload(reread bool) error {
	if reread {
		if err := m.viper.ReadInConfig(); err != nil {
			return err
		}
	}

	config := &Config{}
	if err := m.viper.Unmarshal(config); err != nil {
		return fmt.Errorf(
			"failed to parse config file at %s: %w\nCheck for syntax errors, invalid values, or type mismatches",
			m.viper.ConfigFileUsed(),
			err,
		)
	}
	if err := ensureDatabasePath(config); err != nil {
		return err
	}
	normalizeConfig(config)

	if err := validateConfig(config); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	m.config = config
	return nil
}

func ensureDatabasePath(config *Config) error {
	if config.Database.Path != "" {
		return nil
	}
	dbPath, err := GetDatabaseFile()
	if err != nil {
		return fmt.Errorf("failed to get database path: %w", err)
	}
	config.Database.Path = dbPath
	return nil
}

func normalizeConfig(config *Config) {
	config.Logging.Level = strings.ToLower(strings.TrimSpace(config.Logging.Level))
	config.Logging.Format = strings.ToLower(strings.TrimSpace(config.Logging.Format))
	if config.Logging.Format == "text" {
		config.Logging.Format = "console"
	}

	config.Browser.HomeURL = strings.TrimSpace(config.Browser.HomeURL)
	if config.Browser.HomeURL == "" {
		config.Browser.HomeURL = "about:blank"
	}

	for i, p := range config.Permissions.Allow {
		config.Permissions.Allow[i] = strings.ToLower(strings.TrimSpace(p))
	}
}

// Get returns a copy of the current configuration.
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.config == nil {
		return DefaultConfig()
	}
	configCopy := *m.config
	configCopy.Permissions.Allow = append([]string(nil), m.config.Permissions.Allow...)
	configCopy.Filtering.Patterns = append([]string(nil), m.config.Filtering.Patterns...)
	return &configCopy
}

// GetConfigFile returns the path to the configuration file being used.
func (m *Manager) GetConfigFile() string {
	return m.viper.ConfigFileUsed()
}

// createDefaultConfig writes the defaults to the first config path.
func (m *Manager) createDefaultConfig() error {
	configFile, err := m.defaultConfigFile()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(configFile), dirPerm); err != nil {
		return err
	}

	m.viper.SetConfigType("toml")
	if err := m.viper.SafeWriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return os.Chmod(configFile, filePerm)
}

func (m *Manager) defaultConfigFile() (string, error) {
	if m.configDir == "" {
		return GetConfigFile()
	}
	return filepath.Join(m.configDir, "config.toml"), nil
}
