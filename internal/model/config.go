package model

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// ServerConfig describes the TaskGenius API endpoint.
type ServerConfig struct {
	// BaseURL is the root URL of the API (without /api/v1).
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	// TimeoutSec bounds a single HTTP exchange.
	TimeoutSec int `mapstructure:"timeout_sec" yaml:"timeout_sec"`
}

// AccountConfig identifies the user to log in as. The password lives in
// the system keyring, never in this file.
type AccountConfig struct {
	Email string `mapstructure:"email" yaml:"email"`
}

// WorkspaceConfig remembers the last active project and chat room.
type WorkspaceConfig struct {
	ProjectID      string `mapstructure:"project_id" yaml:"project_id"`
	ConversationID string `mapstructure:"conversation_id" yaml:"conversation_id"`
}

// InboxConfig holds the IMAP mailbox scanned for invitation e-mails.
type InboxConfig struct {
	Enabled      bool   `mapstructure:"enabled" yaml:"enabled"`
	Host         string `mapstructure:"host" yaml:"host"`
	Port         string `mapstructure:"port" yaml:"port"`
	Username     string `mapstructure:"username" yaml:"username"`
	TLS          bool   `mapstructure:"tls" yaml:"tls"`
	LookbackDays int    `mapstructure:"lookback_days" yaml:"lookback_days"`
}

// DisplayConfig holds UI/rendering preferences.
type DisplayConfig struct {
	Theme              string `mapstructure:"theme" yaml:"theme"`
	RefreshIntervalSec int    `mapstructure:"refresh_interval_sec" yaml:"refresh_interval_sec"`
}

// LogConfig controls the log file.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
	File  string `mapstructure:"file" yaml:"file"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Server    ServerConfig    `mapstructure:"server" yaml:"server"`
	Account   AccountConfig   `mapstructure:"account" yaml:"account"`
	Workspace WorkspaceConfig `mapstructure:"workspace" yaml:"workspace"`
	Inbox     InboxConfig     `mapstructure:"inbox" yaml:"inbox"`
	Display   DisplayConfig   `mapstructure:"display" yaml:"display"`
	Log       LogConfig       `mapstructure:"log" yaml:"log"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/taskgenius/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "taskgenius", "config.yaml")
}

// DefaultDataDir returns the directory holding the cache and log file.
// It honours XDG_DATA_HOME.
func DefaultDataDir() string {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "."
		}
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "taskgenius")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			BaseURL:    "http://localhost:5000",
			TimeoutSec: 30,
		},
		Inbox: InboxConfig{
			Port:         "993",
			TLS:          true,
			LookbackDays: 30,
		},
		Display: DisplayConfig{
			Theme:              "default",
			RefreshIntervalSec: 60,
		},
		Log: LogConfig{
			Level: "info",
			File:  filepath.Join(DefaultDataDir(), "taskgenius.log"),
		},
	}
}

// setDefaults mirrors defaultAppConfig on a viper instance so missing keys
// resolve to sensible values.
func setDefaults(v *viper.Viper) {
	d := defaultAppConfig()
	v.SetDefault("server.base_url", d.Server.BaseURL)
	v.SetDefault("server.timeout_sec", d.Server.TimeoutSec)
	v.SetDefault("inbox.port", d.Inbox.Port)
	v.SetDefault("inbox.tls", d.Inbox.TLS)
	v.SetDefault("inbox.lookback_days", d.Inbox.LookbackDays)
	v.SetDefault("display.theme", d.Display.Theme)
	v.SetDefault("display.refresh_interval_sec", d.Display.RefreshIntervalSec)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", d.Log.File)

	// Register the remaining keys so AutomaticEnv can override them.
	v.SetDefault("account.email", "")
	v.SetDefault("workspace.project_id", "")
	v.SetDefault("workspace.conversation_id", "")
	v.SetDefault("inbox.enabled", false)
	v.SetDefault("inbox.host", "")
	v.SetDefault("inbox.username", "")
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, defaults are used. Any key can be overridden
// with a TASKGENIUS_ environment variable, e.g. TASKGENIUS_SERVER_BASE_URL.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("taskgenius")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		_, isPathErr := err.(*os.PathError)
		_, isNotFound := err.(viper.ConfigFileNotFoundError)
		if !isPathErr && !isNotFound {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	cfg.Server.BaseURL = strings.TrimRight(cfg.Server.BaseURL, "/")
	if cfg.Server.TimeoutSec <= 0 {
		cfg.Server.TimeoutSec = 30
	}
	if cfg.Inbox.LookbackDays <= 0 {
		cfg.Inbox.LookbackDays = 30
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("server", cfg.Server)
	v.Set("account", cfg.Account)
	v.Set("workspace", cfg.Workspace)
	v.Set("inbox", cfg.Inbox)
	v.Set("display", cfg.Display)
	v.Set("log", cfg.Log)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
