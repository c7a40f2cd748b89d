package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds the runtime configuration. It is loaded once at process
// start and treated as immutable afterwards.
type Config struct {
	// TargetDir is where completed downloads are stored
	TargetDir string `mapstructure:"target_dir"`

	// TempDir is where files are fetched before relocation. Defaults to
	// the OS temp directory when empty.
	TempDir string `mapstructure:"temp_dir"`

	// BotToken authenticates against the Bot API
	BotToken string `mapstructure:"bot_token"`

	// APIBaseURL is the Bot API endpoint (override for self-hosted servers)
	APIBaseURL string `mapstructure:"api_base_url"`

	// LocalMode indicates a local Bot API server that writes fetched files
	// directly to disk under BotAPIDir
	LocalMode bool `mapstructure:"local_mode"`

	// BotAPIDir is the local Bot API server's working directory
	// (required when LocalMode is set)
	BotAPIDir string `mapstructure:"bot_api_dir"`

	// ListenAddr is the address of the status HTTP endpoint
	ListenAddr string `mapstructure:"listen_addr"`

	// LogLevel is one of debug, info, warn, error, none
	LogLevel string `mapstructure:"log_level"`
}

// Load reads configuration from an optional config file, VIDSINK_*
// environment variables and command line flags (highest precedence),
// applies defaults and validates the result.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	v.SetDefault("api_base_url", "https://api.telegram.org")
	v.SetDefault("listen_addr", ":8484")
	v.SetDefault("log_level", "info")

	v.SetEnvPrefix("VIDSINK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for key, flag := range map[string]string{
			"target_dir":   "target-dir",
			"temp_dir":     "temp-dir",
			"bot_token":    "bot-token",
			"api_base_url": "api-base-url",
			"local_mode":   "local-mode",
			"bot_api_dir":  "bot-api-dir",
			"listen_addr":  "listen-addr",
			"log_level":    "log-level",
		} {
			if f := flags.Lookup(flag); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", flag, err)
				}
			}
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that required settings are present and consistent.
func (c *Config) Validate() error {
	if c.TargetDir == "" {
		return fmt.Errorf("target_dir is required")
	}
	if c.BotToken == "" {
		return fmt.Errorf("bot_token is required")
	}
	if c.LocalMode && c.BotAPIDir == "" {
		return fmt.Errorf("bot_api_dir is required in local mode")
	}
	return nil
}
