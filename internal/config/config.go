package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	API     APIConfig     `mapstructure:"api"`
	Session SessionConfig `mapstructure:"session"`
	Log     LogConfig     `mapstructure:"log"`
}

type ServerConfig struct {
	Port           int `mapstructure:"port"`
	TimeoutSeconds int `mapstructure:"timeoutSeconds"`
}

// APIConfig points at the upstream hospital REST API.
type APIConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	MaxFailures    int    `mapstructure:"max_failures"`
}

// SessionConfig controls the cookie-backed session store. An empty
// RedisAddr selects the in-process store.
type SessionConfig struct {
	CookieName string `mapstructure:"cookie_name"`
	TTLMinutes int    `mapstructure:"ttl_minutes"`
	RedisAddr  string `mapstructure:"redis_addr"`
	Secure     bool   `mapstructure:"secure"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

func (c APIConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func (c SessionConfig) TTL() time.Duration {
	if c.TTLMinutes <= 0 {
		return 60 * time.Minute
	}
	return time.Duration(c.TTLMinutes) * time.Minute
}

func LoadConfig() (*Config, error) {
	// .env is optional; real env vars win either way.
	_ = godotenv.Load()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.SetDefault("server.port", 3000)
	viper.SetDefault("server.timeoutSeconds", 30)
	viper.SetDefault("api.base_url", "http://localhost:8080/api")
	viper.SetDefault("api.timeout_seconds", 15)
	viper.SetDefault("api.max_failures", 5)
	viper.SetDefault("session.cookie_name", "portal_session")
	viper.SetDefault("session.ttl_minutes", 60)
	viper.SetDefault("log.level", "info")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// Defaults plus environment are enough to run without a file.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}
