// Package config loads service configuration from an optional config file
// and BLOGR_-prefixed environment variables.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all service configuration.
type Config struct {
	Port          string
	DatabaseDSN   string
	RedisAddr     string
	RedisPassword string
	SessionTTL    time.Duration
	CORSOrigins   []string
}

// Load reads config.yaml from the working directory when present, then
// overlays environment variables (BLOGR_SERVER_PORT, BLOGR_DATABASE_DSN,
// BLOGR_REDIS_ADDR, ...).
func Load() (*Config, error) {
	v := viper.New()
	v.SetDefault("server.port", "8080")
	v.SetDefault("database.dsn", "blogr.sqlite")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("session.ttl", "24h")
	v.SetDefault("cors.origins", []string{"http://localhost:5173", "http://localhost:3000"})

	v.SetEnvPrefix("BLOGR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	ttl, err := time.ParseDuration(v.GetString("session.ttl"))
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:          v.GetString("server.port"),
		DatabaseDSN:   v.GetString("database.dsn"),
		RedisAddr:     v.GetString("redis.addr"),
		RedisPassword: v.GetString("redis.password"),
		SessionTTL:    ttl,
		CORSOrigins:   v.GetStringSlice("cors.origins"),
	}, nil
}
