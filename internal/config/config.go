package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config defines server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Transport TransportConfig `yaml:"transport"`
	Auth      AuthConfig      `yaml:"auth"`
	Store     StoreConfig     `yaml:"store"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Log       LogConfig       `yaml:"log"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type TransportConfig struct {
	Mode string `yaml:"mode"` // "stdio" or "http"
}

type AuthConfig struct {
	Enabled bool   `yaml:"enabled"`
	Token   string `yaml:"token"`
}

type StoreConfig struct {
	Backend    string `yaml:"backend"` // "file" or "sqlite"
	Path       string `yaml:"path"`
	LegacyPath string `yaml:"legacy_path"`
}

// SchedulerConfig holds the scoring parameters.
type SchedulerConfig struct {
	DefaultScore         float64 `yaml:"default_score"`
	RapprochementFactor  float64 `yaml:"rapprochement_factor"`
	RotationBonus        float64 `yaml:"rotation_bonus"`
	SessionPenaltyWeight float64 `yaml:"session_penalty_weight"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Transport: TransportConfig{
			Mode: "stdio",
		},
		Store: StoreConfig{
			Backend: "file",
			Path:    "rota.json",
		},
		Scheduler: SchedulerConfig{
			DefaultScore:         50,
			RapprochementFactor:  0.2,
			RotationBonus:        1,
			SessionPenaltyWeight: 1,
		},
		Log: LogConfig{
			Level: "info",
		},
	}

	if path := os.Getenv("ROTA_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if host := os.Getenv("ROTA_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("ROTA_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid ROTA_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if mode := os.Getenv("ROTA_TRANSPORT_MODE"); mode != "" {
		cfg.Transport.Mode = mode
	}
	if token := os.Getenv("ROTA_AUTH_TOKEN"); token != "" {
		cfg.Auth.Enabled = true
		cfg.Auth.Token = token
	}
	if backend := os.Getenv("ROTA_STORE_BACKEND"); backend != "" {
		cfg.Store.Backend = backend
	}
	if path := os.Getenv("ROTA_STORE_PATH"); path != "" {
		cfg.Store.Path = path
	}
	if path := os.Getenv("ROTA_STORE_LEGACY_PATH"); path != "" {
		cfg.Store.LegacyPath = path
	}
	if level := os.Getenv("ROTA_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) validate() error {
	if c.Transport.Mode != "stdio" && c.Transport.Mode != "http" {
		return fmt.Errorf("invalid transport mode %q (want stdio or http)", c.Transport.Mode)
	}
	if c.Store.Backend != "file" && c.Store.Backend != "sqlite" {
		return fmt.Errorf("invalid store backend %q (want file or sqlite)", c.Store.Backend)
	}
	s := c.Scheduler
	if s.DefaultScore < 1 || s.DefaultScore > 100 {
		return fmt.Errorf("default_score %v out of range [1, 100]", s.DefaultScore)
	}
	if s.RapprochementFactor <= 0 || s.RapprochementFactor >= 1 {
		return fmt.Errorf("rapprochement_factor %v out of range (0, 1)", s.RapprochementFactor)
	}
	if s.RotationBonus < 0 {
		return fmt.Errorf("rotation_bonus %v must not be negative", s.RotationBonus)
	}
	if s.SessionPenaltyWeight < 0 {
		return fmt.Errorf("session_penalty_weight %v must not be negative", s.SessionPenaltyWeight)
	}
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
