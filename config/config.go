// Package config loads the practice hub configuration from the environment.
// A .env file in the working directory is read first; real environment
// variables always win over it.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Environment is the deployment stage.
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvStaging     Environment = "staging"
	EnvProduction  Environment = "production"
)

// Config is the full application configuration.
type Config struct {
	App           AppConfig
	Database      DatabaseConfig
	Redis         RedisConfig
	HTTP          HTTPConfig
	Scheduler     SchedulerConfig
	Dashboard     DashboardConfig
	Observability ObservabilityConfig
}

// AppConfig holds process-wide settings.
type AppConfig struct {
	Name        string
	Environment Environment
	Debug       bool
	Version     string

	// Timezone decides which calendar day "today" is.
	Timezone string
	Location *time.Location

	ShutdownTimeout time.Duration
}

// DatabaseConfig holds PostgreSQL settings. An empty URL runs the hub on
// synthetic data.
type DatabaseConfig struct {
	URL string

	MaxConns        int
	MinConns        int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration

	AutoMigrate bool
}

// RedisConfig holds the roster cache settings.
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int

	PoolSize     int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	Disabled bool
}

// HTTPConfig holds API server settings.
type HTTPConfig struct {
	Host           string
	Port           int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	RequestTimeout time.Duration
}

// SchedulerConfig holds background job settings.
type SchedulerConfig struct {
	Enabled        bool
	RosterInterval time.Duration // roster cache refresh
	JobTimeout     time.Duration
}

// DashboardConfig tunes dashboard composition.
type DashboardConfig struct {
	TopTopics  int
	RosterSize int
	RosterTTL  time.Duration

	// SyntheticActivity serves generated calendars even with a database.
	SyntheticActivity bool
	SyntheticSeed     int64
}

// ObservabilityConfig holds logging settings.
type ObservabilityConfig struct {
	LogLevel string // debug, info, warn, error
}

// Load reads the given dotenv files (".env" when none are given), then the
// environment, and validates the result. Missing dotenv files are ignored.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("dotenv: %w", err)
	}

	cfg := &Config{
		App:           loadAppConfig(),
		Database:      loadDatabaseConfig(),
		Redis:         loadRedisConfig(),
		HTTP:          loadHTTPConfig(),
		Scheduler:     loadSchedulerConfig(),
		Dashboard:     loadDashboardConfig(),
		Observability: loadObservabilityConfig(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

func loadAppConfig() AppConfig {
	env := Environment(getEnv("APP_ENV", "development"))
	timezone := getEnv("APP_TIMEZONE", "UTC")

	// Location stays nil for an unknown zone so Validate can report it.
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		loc = nil
	}

	return AppConfig{
		Name:            getEnv("APP_NAME", "practice-hub"),
		Environment:     env,
		Debug:           env == EnvDevelopment || getEnvBool("APP_DEBUG", false),
		Version:         getEnv("APP_VERSION", "0.1.0"),
		Timezone:        timezone,
		Location:        loc,
		ShutdownTimeout: getEnvDuration("APP_SHUTDOWN_TIMEOUT", 30*time.Second),
	}
}

func loadDatabaseConfig() DatabaseConfig {
	url := getEnv("DATABASE_URL", "")
	if url == "" {
		host := getEnv("DB_HOST", "")
		port := getEnv("DB_PORT", "5432")
		user := getEnv("DB_USER", "")
		pass := getEnv("DB_PASSWORD", "")
		name := getEnv("DB_NAME", "practice_hub")
		sslmode := getEnv("DB_SSLMODE", "require")

		if host != "" && user != "" {
			url = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
				user, pass, host, port, name, sslmode)
		}
	}

	return DatabaseConfig{
		URL:             url,
		MaxConns:        getEnvInt("DB_MAX_CONNS", 10),
		MinConns:        getEnvInt("DB_MIN_CONNS", 2),
		ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", time.Hour),
		ConnMaxIdleTime: getEnvDuration("DB_CONN_MAX_IDLE_TIME", 30*time.Minute),
		AutoMigrate:     getEnvBool("DB_AUTO_MIGRATE", true),
	}
}

func loadRedisConfig() RedisConfig {
	return RedisConfig{
		Host:         getEnv("REDIS_HOST", "localhost"),
		Port:         getEnvInt("REDIS_PORT", 6379),
		Password:     getEnv("REDIS_PASSWORD", ""),
		DB:           getEnvInt("REDIS_DB", 0),
		PoolSize:     getEnvInt("REDIS_POOL_SIZE", 10),
		DialTimeout:  getEnvDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		ReadTimeout:  getEnvDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		WriteTimeout: getEnvDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		Disabled:     getEnvBool("REDIS_DISABLED", false),
	}
}

func loadHTTPConfig() HTTPConfig {
	return HTTPConfig{
		Host:           getEnv("HTTP_HOST", "0.0.0.0"),
		Port:           getEnvInt("HTTP_PORT", 8080),
		ReadTimeout:    getEnvDuration("HTTP_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:   getEnvDuration("HTTP_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:    getEnvDuration("HTTP_IDLE_TIMEOUT", 60*time.Second),
		RequestTimeout: getEnvDuration("HTTP_REQUEST_TIMEOUT", 10*time.Second),
	}
}

func loadSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		Enabled:        getEnvBool("SCHEDULER_ENABLED", true),
		RosterInterval: getEnvDuration("SCHEDULER_ROSTER_INTERVAL", 5*time.Minute),
		JobTimeout:     getEnvDuration("SCHEDULER_JOB_TIMEOUT", time.Minute),
	}
}

func loadDashboardConfig() DashboardConfig {
	return DashboardConfig{
		TopTopics:         getEnvInt("DASHBOARD_TOP_TOPICS", 5),
		RosterSize:        getEnvInt("DASHBOARD_ROSTER_SIZE", 5),
		RosterTTL:         getEnvDuration("DASHBOARD_ROSTER_TTL", 5*time.Minute),
		SyntheticActivity: getEnvBool("DASHBOARD_SYNTHETIC_ACTIVITY", false),
		SyntheticSeed:     getEnvInt64("DASHBOARD_SYNTHETIC_SEED", 20240101),
	}
}

func loadObservabilityConfig() ObservabilityConfig {
	return ObservabilityConfig{
		LogLevel: strings.ToLower(getEnv("LOG_LEVEL", "info")),
	}
}

// Validate checks the configuration and reports every problem at once.
func (c *Config) Validate() error {
	var errs []string

	if c.App.Location == nil {
		errs = append(errs, fmt.Sprintf("APP_TIMEZONE %q is not a known time zone", c.App.Timezone))
	}
	switch c.App.Environment {
	case EnvDevelopment, EnvStaging, EnvProduction:
	default:
		errs = append(errs, fmt.Sprintf("APP_ENV %q must be development, staging or production", c.App.Environment))
	}

	if c.App.Environment == EnvProduction && c.Database.URL == "" {
		errs = append(errs, "DATABASE_URL is required in production")
	}

	if !validPort(c.HTTP.Port) {
		errs = append(errs, "HTTP_PORT must be 1-65535")
	}
	if !c.Redis.Disabled && !validPort(c.Redis.Port) {
		errs = append(errs, "REDIS_PORT must be 1-65535")
	}

	if c.Dashboard.TopTopics <= 0 {
		errs = append(errs, "DASHBOARD_TOP_TOPICS must be positive")
	}
	if c.Dashboard.RosterSize <= 0 {
		errs = append(errs, "DASHBOARD_ROSTER_SIZE must be positive")
	}
	if c.Dashboard.RosterTTL <= 0 {
		errs = append(errs, "DASHBOARD_ROSTER_TTL must be positive")
	}

	if c.Scheduler.Enabled && c.Scheduler.RosterInterval <= 0 {
		errs = append(errs, "SCHEDULER_ROSTER_INTERVAL must be positive")
	}

	switch c.Observability.LogLevel {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Sprintf("LOG_LEVEL %q must be debug, info, warn or error", c.Observability.LogLevel))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == EnvDevelopment
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.App.Environment == EnvProduction
}

// UseSyntheticActivity reports whether calendars come from the generator.
func (c *Config) UseSyntheticActivity() bool {
	return c.Dashboard.SyntheticActivity || c.Database.URL == ""
}

// HasDatabase reports whether a PostgreSQL URL is configured.
func (c *Config) HasDatabase() bool {
	return c.Database.URL != ""
}

// --- Helper functions for environment variable parsing ---

func validPort(p int) bool {
	return p > 0 && p <= 65535
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return defaultVal
	}
	return b
}

func getEnvInt(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvInt64(key string, defaultVal int64) int64 {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}
	return d
}
