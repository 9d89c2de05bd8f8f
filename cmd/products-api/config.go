package main

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the demo server.
type Config struct {
	Server ServerConfig
	Redis  RedisConfig
	Sentry SentryConfig
	Auth   AuthConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host string
	Port int
	Env  string
}

// RedisConfig holds the product store connection settings.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// SentryConfig holds error reporting configuration. Reporting is disabled
// when DSN is empty.
type SentryConfig struct {
	DSN         string
	Environment string
}

// AuthConfig holds the JWT settings for the write-guard hook.
type AuthConfig struct {
	JWTSecret string
}

// loadConfig reads configuration from environment variables and an optional
// config.yaml next to the binary.
func loadConfig() (*Config, error) {
	v := viper.New()

	v.SetDefault("server_host", "0.0.0.0")
	v.SetDefault("server_port", 8080)
	v.SetDefault("server_env", "development")
	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("sentry_dsn", "")
	v.SetDefault("jwt_secret", "")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// A missing config file is fine; env vars and defaults cover it.
	_ = v.ReadInConfig()

	cfg := &Config{}
	cfg.Server.Host = v.GetString("server_host")
	cfg.Server.Port = v.GetInt("server_port")
	cfg.Server.Env = v.GetString("server_env")

	cfg.Redis.Addr = v.GetString("redis_addr")
	cfg.Redis.Password = v.GetString("redis_password")
	cfg.Redis.DB = v.GetInt("redis_db")

	cfg.Sentry.DSN = v.GetString("sentry_dsn")
	cfg.Sentry.Environment = cfg.Server.Env

	cfg.Auth.JWTSecret = v.GetString("jwt_secret")

	return cfg, nil
}
