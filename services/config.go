package services

import (
	"log/slog"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	CORS      CORSConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Activity  ActivityConfig
	LogLevel  string
}

type ServerConfig struct {
	Port string
}

type DatabaseConfig struct {
	URL          string
	Seed         bool
	LogLevel     string
	MaxIdleConns int
	MaxOpenConns int
}

type JWTConfig struct {
	Secret string
	Expiry time.Duration
}

type CORSConfig struct {
	AllowedOrigins string
}

type RedisConfig struct {
	URL      string
	CacheTTL time.Duration
}

type RateLimitConfig struct {
	RPS   float64
	Burst int
}

type ActivityConfig struct {
	RecentLimit int
}

// LoadConfig loads configuration from environment variables and config files
func LoadConfig() *Config {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("cors.allowed_origins", "")
	viper.SetDefault("jwt.secret", "")
	viper.SetDefault("jwt.expiry", "24h")
	viper.SetDefault("database.url", "")
	viper.SetDefault("database.seed", "false")
	viper.SetDefault("database.log_level", "silent")
	viper.SetDefault("database.max_idle_conns", "10")
	viper.SetDefault("database.max_open_conns", "100")
	viper.SetDefault("redis.url", "")
	viper.SetDefault("redis.cache_ttl", "60s")
	viper.SetDefault("rate_limit.rps", "20")
	viper.SetDefault("rate_limit.burst", "40")
	viper.SetDefault("activity.recent_limit", "100")
	viper.SetDefault("log.level", "info")

	// Map environment variables to config keys
	viper.BindEnv("server.port", "SERVER_PORT")
	viper.BindEnv("cors.allowed_origins", "CORS_ALLOWED_ORIGINS")
	viper.BindEnv("jwt.secret", "JWT_SECRET")
	viper.BindEnv("jwt.expiry", "JWT_EXPIRY")
	viper.BindEnv("database.url", "DATABASE_URL")
	viper.BindEnv("database.seed", "DATABASE_SEED")
	viper.BindEnv("database.log_level", "DATABASE_LOG_LEVEL")
	viper.BindEnv("database.max_idle_conns", "DATABASE_MAX_IDLE_CONNS")
	viper.BindEnv("database.max_open_conns", "DATABASE_MAX_OPEN_CONNS")
	viper.BindEnv("redis.url", "REDIS_URL")
	viper.BindEnv("redis.cache_ttl", "REPORT_CACHE_TTL")
	viper.BindEnv("rate_limit.rps", "RATE_LIMIT_RPS")
	viper.BindEnv("rate_limit.burst", "RATE_LIMIT_BURST")
	viper.BindEnv("activity.recent_limit", "ACTIVITY_RECENT_LIMIT")
	viper.BindEnv("log.level", "LOG_LEVEL")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			slog.Warn("Config file not found, using defaults and environment variables")
		} else {
			slog.Error("Error reading config file", "error", err)
		}
	}

	return &Config{
		Server: ServerConfig{
			Port: viper.GetString("server.port"),
		},
		Database: DatabaseConfig{
			URL:          viper.GetString("database.url"),
			Seed:         viper.GetBool("database.seed"),
			LogLevel:     viper.GetString("database.log_level"),
			MaxIdleConns: viper.GetInt("database.max_idle_conns"),
			MaxOpenConns: viper.GetInt("database.max_open_conns"),
		},
		JWT: JWTConfig{
			Secret: viper.GetString("jwt.secret"),
			Expiry: viper.GetDuration("jwt.expiry"),
		},
		CORS: CORSConfig{
			AllowedOrigins: viper.GetString("cors.allowed_origins"),
		},
		Redis: RedisConfig{
			URL:      viper.GetString("redis.url"),
			CacheTTL: viper.GetDuration("redis.cache_ttl"),
		},
		RateLimit: RateLimitConfig{
			RPS:   viper.GetFloat64("rate_limit.rps"),
			Burst: viper.GetInt("rate_limit.burst"),
		},
		Activity: ActivityConfig{
			RecentLimit: viper.GetInt("activity.recent_limit"),
		},
		LogLevel: viper.GetString("log.level"),
	}
}

// SlogLevel converts the configured level name, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}
