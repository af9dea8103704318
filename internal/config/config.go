package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DefaultServerURL = "wss://hanab.live/ws"
	DefaultLoginURL  = "https://hanab.live/login"
)

type Bot struct {
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// Config holds the runner configuration. Scalars can be overridden with
// HANABOT_* environment variables, e.g. HANABOT_LOG_LEVEL.
type Config struct {
	ServerURL   string   `mapstructure:"server_url"`
	LoginURL    string   `mapstructure:"login_url"`
	ControlAddr string   `mapstructure:"control_addr"`
	LogLevel    string   `mapstructure:"log_level"`
	Bots        []Bot    `mapstructure:"bots"`
	DefaultBots []string `mapstructure:"default_bots"`
}

// Load reads an optional .env file into the environment, then the config
// file at path.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("HANABOT")
	v.AutomaticEnv()

	v.SetDefault("server_url", DefaultServerURL)
	v.SetDefault("login_url", DefaultLoginURL)
	v.SetDefault("control_addr", "")
	v.SetDefault("log_level", "info")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	seen := make(map[string]bool, len(c.Bots))
	for i, b := range c.Bots {
		if b.Username == "" {
			return fmt.Errorf("bots[%d]: missing username", i)
		}
		if seen[b.Username] {
			return fmt.Errorf("bots[%d]: duplicate username %q", i, b.Username)
		}
		seen[b.Username] = true
	}
	for _, name := range c.DefaultBots {
		if !seen[name] {
			return fmt.Errorf("default bot %q has no credentials", name)
		}
	}
	return nil
}

// Password returns the login password configured for username.
func (c *Config) Password(username string) (string, bool) {
	for _, b := range c.Bots {
		if b.Username == username {
			return b.Password, true
		}
	}
	return "", false
}
