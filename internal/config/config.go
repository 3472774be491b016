package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var ErrMissingEnvironmentVariables = errors.New("missing required environment variables")

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env     string  `mapstructure:"env"`  // current application environment (local, dev, production)
	Port    string  `mapstructure:"port"` // HTTP listen port
	DB      DB      `mapstructure:"database"`
	Redis   Redis   `mapstructure:"redis"`
	Tracker Tracker `mapstructure:"tracker"`
}

// DB contains the postgres sync-mirror connection parameters.
type DB struct {
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	User            string        `mapstructure:"-"` // loaded from environment
	Password        string        `mapstructure:"-"` // loaded from environment
	Name            string        `mapstructure:"name"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DSN returns the postgres connection string if credentials are configured.
func (db DB) DSN() (string, error) {
	if db.User == "" || db.Name == "" {
		return "", ErrMissingEnvironmentVariables
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		db.User, db.Password, db.Host, db.Port, db.Name), nil
}

// Redis contains the key-value goal store connection parameters.
type Redis struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Password string `mapstructure:"-"` // loaded from environment
	DBIndex  int    `mapstructure:"db_index"`
}

// Tracker contains score-engine tuning.
type Tracker struct {
	DefaultTimezone string        `mapstructure:"default_timezone"` // IANA name used when a request carries none
	RateLimit       int           `mapstructure:"rate_limit"`       // requests per window per client IP
	RateWindow      time.Duration `mapstructure:"rate_window"`
}

// Load reads configuration from config files and environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")

	v.SetDefault("env", "local")
	v.SetDefault("port", "8080")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.name", "iman_db")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 25)
	v.SetDefault("database.conn_max_lifetime", "5m")
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", "6379")
	v.SetDefault("redis.db_index", 0)
	v.SetDefault("tracker.default_timezone", "UTC")
	v.SetDefault("tracker.rate_limit", 100)
	v.SetDefault("tracker.rate_window", "1m")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	_ = v.BindEnv("db_user", "DB_USER")
	_ = v.BindEnv("db_password", "DB_PASSWORD")
	_ = v.BindEnv("redis_password", "REDIS_PASSWORD")
	_ = v.BindEnv("env", "APP_ENV")
	_ = v.BindEnv("port", "PORT")

	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	cfg.DB.User = v.GetString("db_user")
	cfg.DB.Password = v.GetString("db_password")
	cfg.Redis.Password = v.GetString("redis_password")

	if cfg.DB.User == "" {
		return nil, ErrMissingEnvironmentVariables
	}

	return &cfg, nil
}
