package model

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// ServerConfig holds the connection settings for the mail backend.
type ServerConfig struct {
	// BaseURL is the root URL of the backend API.
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	// TimeoutSec is the per-request HTTP timeout.
	TimeoutSec int `mapstructure:"timeout_sec" yaml:"timeout_sec"`
}

// MailboxConfig holds listing and polling preferences.
type MailboxConfig struct {
	// PageSize is the listing page size (the backend default is 25).
	PageSize int `mapstructure:"page_size" yaml:"page_size"`

	// DefaultFolder is the folder selected after login.
	DefaultFolder string `mapstructure:"default_folder" yaml:"default_folder"`

	// NotifyPollSec is the unread-notification poll interval.
	NotifyPollSec int `mapstructure:"notify_poll_sec" yaml:"notify_poll_sec"`

	// SchedulerPollSec is the scheduler-status reconcile interval while
	// the scheduler view is active.
	SchedulerPollSec int `mapstructure:"scheduler_poll_sec" yaml:"scheduler_poll_sec"`
}

// StorageConfig holds local file locations.
type StorageConfig struct {
	// DBPath is the sqlite cache file location.
	DBPath string `mapstructure:"db_path" yaml:"db_path"`

	// DownloadsDir is where exports and attachments are saved.
	DownloadsDir string `mapstructure:"downloads_dir" yaml:"downloads_dir"`

	// LogFile is where structured logs are written (the terminal itself
	// belongs to the UI).
	LogFile string `mapstructure:"log_file" yaml:"log_file"`

	// LogLevel is the logrus level name ("debug", "info", "warn", "error").
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
}

// DisplayConfig holds UI preferences.
type DisplayConfig struct {
	Theme string `mapstructure:"theme" yaml:"theme"`
}

// AppConfig is the top-level application configuration, injected at
// startup. Nothing in the application reads configuration from package
// state.
type AppConfig struct {
	Server  ServerConfig  `mapstructure:"server" yaml:"server"`
	Mailbox MailboxConfig `mapstructure:"mailbox" yaml:"mailbox"`
	Storage StorageConfig `mapstructure:"storage" yaml:"storage"`
	Display DisplayConfig `mapstructure:"display" yaml:"display"`
}

// DefaultConfigPath returns the default configuration file location,
// ~/.config/recruitmail/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "recruitmail", "config.yaml")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	dataDir := "."
	if home, err := os.UserHomeDir(); err == nil {
		dataDir = filepath.Join(home, ".local", "share", "recruitmail")
	}
	return &AppConfig{
		Server: ServerConfig{
			BaseURL:    "http://localhost:8000",
			TimeoutSec: 30,
		},
		Mailbox: MailboxConfig{
			PageSize:         25,
			DefaultFolder:    "INBOX",
			NotifyPollSec:    60,
			SchedulerPollSec: 30,
		},
		Storage: StorageConfig{
			DBPath:       filepath.Join(dataDir, "cache.db"),
			DownloadsDir: filepath.Join(dataDir, "downloads"),
			LogFile:      filepath.Join(dataDir, "recruitmail.log"),
			LogLevel:     "info",
		},
		Display: DisplayConfig{Theme: "default"},
	}
}

// LoadConfig reads configuration from the given YAML file path using
// Viper. A missing file yields the default configuration.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	defaults := defaultAppConfig()
	v.SetDefault("server.base_url", defaults.Server.BaseURL)
	v.SetDefault("server.timeout_sec", defaults.Server.TimeoutSec)
	v.SetDefault("mailbox.page_size", defaults.Mailbox.PageSize)
	v.SetDefault("mailbox.default_folder", defaults.Mailbox.DefaultFolder)
	v.SetDefault("mailbox.notify_poll_sec", defaults.Mailbox.NotifyPollSec)
	v.SetDefault("mailbox.scheduler_poll_sec", defaults.Mailbox.SchedulerPollSec)
	v.SetDefault("storage.db_path", defaults.Storage.DBPath)
	v.SetDefault("storage.downloads_dir", defaults.Storage.DownloadsDir)
	v.SetDefault("storage.log_file", defaults.Storage.LogFile)
	v.SetDefault("storage.log_level", defaults.Storage.LogLevel)
	v.SetDefault("display.theme", defaults.Display.Theme)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return defaults, nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaults, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}

// SaveConfig writes the configuration to a YAML file at path, creating
// parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("server", cfg.Server)
	v.Set("mailbox", cfg.Mailbox)
	v.Set("storage", cfg.Storage)
	v.Set("display", cfg.Display)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
