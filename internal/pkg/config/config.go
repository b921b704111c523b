package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	Database     DatabaseConfig     `mapstructure:"database"`
	Redis        RedisConfig        `mapstructure:"redis"`
	Session      SessionConfig      `mapstructure:"session"`
	Feed         FeedConfig         `mapstructure:"feed"`
	Housekeeping HousekeepingConfig `mapstructure:"housekeeping"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	ReadTimeout  int    `mapstructure:"read_timeout"`
	WriteTimeout int    `mapstructure:"write_timeout"`
	IdleTimeout  int    `mapstructure:"idle_timeout"`
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxConns int    `mapstructure:"max_conns"`
}

// RedisConfig holds the durable key-value storage configuration
type RedisConfig struct {
	URL           string `mapstructure:"url"`
	KeyPrefix     string `mapstructure:"key_prefix"`
	MaxValueBytes int    `mapstructure:"max_value_bytes"`
}

// SessionConfig holds the session gate configuration
type SessionConfig struct {
	JWTSecret       string `mapstructure:"jwt_secret"`
	PasswordSalt    string `mapstructure:"password_salt"`
	ExpirationHours int    `mapstructure:"expiration_hours"`
}

// LeagueConfig identifies one scoreboard feed to sync
type LeagueConfig struct {
	Sport  string `mapstructure:"sport"`
	League string `mapstructure:"league"`
}

// FeedConfig holds the external event feed configuration
type FeedConfig struct {
	BaseURL        string         `mapstructure:"base_url"`
	TimeoutSeconds int            `mapstructure:"timeout_seconds"`
	SyncMinutes    int            `mapstructure:"sync_minutes"`
	Leagues        []LeagueConfig `mapstructure:"leagues"`
}

// HousekeepingConfig holds the stale-event cleanup configuration
type HousekeepingConfig struct {
	DeactivateAfterHours int `mapstructure:"deactivate_after_hours"`
	PurgeAfterHours      int `mapstructure:"purge_after_hours"`
	IntervalMinutes      int `mapstructure:"interval_minutes"`
}

// Load reads configuration from file and environment
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/arenatv")

	// Environment variable overrides
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, use defaults and env vars
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 30)
	viper.SetDefault("server.write_timeout", 30)
	viper.SetDefault("server.idle_timeout", 60)

	// Database defaults
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "arenatv")
	viper.SetDefault("database.password", "arenatv")
	viper.SetDefault("database.dbname", "arenatv")
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("database.max_conns", 20)

	// Storage defaults
	viper.SetDefault("redis.url", "redis://localhost:6379/0")
	viper.SetDefault("redis.key_prefix", "arenatv:")
	viper.SetDefault("redis.max_value_bytes", 512*1024)

	// Session defaults
	viper.SetDefault("session.jwt_secret", "change-me-in-production")
	viper.SetDefault("session.password_salt", "arenatv-salt-v1")
	viper.SetDefault("session.expiration_hours", 24)

	// Feed defaults
	viper.SetDefault("feed.base_url", "https://site.api.espn.com/apis/site/v2/sports")
	viper.SetDefault("feed.timeout_seconds", 15)
	viper.SetDefault("feed.sync_minutes", 10)

	// Housekeeping defaults
	viper.SetDefault("housekeeping.deactivate_after_hours", 3)
	viper.SetDefault("housekeeping.purge_after_hours", 4)
	viper.SetDefault("housekeeping.interval_minutes", 30)
}

// DSN returns PostgreSQL connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// Addr returns server address
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Timeout returns the feed request timeout
func (c *FeedConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Interval returns the housekeeping cadence
func (c *HousekeepingConfig) Interval() time.Duration {
	return time.Duration(c.IntervalMinutes) * time.Minute
}
