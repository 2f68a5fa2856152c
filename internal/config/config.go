package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port        string   `yaml:"port"`
		Lobby       *bool    `yaml:"lobby"`
		CORSOrigins []string `yaml:"cors_origins"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Quiz struct {
		Bank     string `yaml:"bank"`
		BankFile string `yaml:"bank_file"`
		TTL      string `yaml:"ttl"`
	} `yaml:"quiz"`
	Streak struct {
		Users    []string `yaml:"users"`
		Timezone string   `yaml:"timezone"`
	} `yaml:"streak"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// Load reads YAML config from path and fills in defaults.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Default returns the configuration used when no file is present.
func Default() Config {
	cfg := Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Server.Lobby == nil {
		lobby := true
		c.Server.Lobby = &lobby
	}
	if len(c.Server.CORSOrigins) == 0 {
		c.Server.CORSOrigins = []string{"*"}
	}
	if c.Quiz.Bank == "" {
		c.Quiz.Bank = "default"
	}
	if len(c.Streak.Users) == 0 {
		c.Streak.Users = []string{"user1", "user2"}
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

func (c *Config) validate() error {
	if len(c.Streak.Users) != 2 {
		return fmt.Errorf("streak.users must list exactly 2 users, got %d", len(c.Streak.Users))
	}
	if c.Streak.Users[0] == c.Streak.Users[1] {
		return fmt.Errorf("streak.users must be distinct")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// LobbyEnabled reports whether GET / renders the lobby instead of redirecting to the first question.
func (c Config) LobbyEnabled() bool {
	return c.Server.Lobby == nil || *c.Server.Lobby
}

// StreakUsers returns the two tracked streak participants.
func (c Config) StreakUsers() [2]string {
	return [2]string{c.Streak.Users[0], c.Streak.Users[1]}
}

// Location resolves the streak time zone; empty means the server's local zone.
func (c Config) Location() (*time.Location, error) {
	if c.Streak.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Streak.Timezone)
	if err != nil {
		return nil, fmt.Errorf("streak.timezone: %w", err)
	}
	return loc, nil
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
