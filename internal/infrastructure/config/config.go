package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/IngenieroJosser/credito-sur-backend-sub000/pkg/postgres"
)

// KafkaConfig holds broker addresses for the event channel.
type KafkaConfig struct {
	Brokers []string `toml:"brokers"`
}

// SweepConfig controls the delinquency sweep.
type SweepConfig struct {
	// RunOnStartup runs one sweep when the service boots, before serving.
	RunOnStartup bool `toml:"run_on_startup"`
}

// Config is the full service configuration. Values load from an optional
// TOML file first, then environment variables override field by field.
type Config struct {
	ServiceName string `toml:"service_name"`
	HTTPPort    int    `toml:"http_port"`
	LogLevel    string `toml:"log_level"`
	LogFormat   string `toml:"log_format"`

	DBHost     string `toml:"db_host"`
	DBPort     int    `toml:"db_port"`
	DBUser     string `toml:"db_user"`
	DBPassword string `toml:"db_password"`
	DBName     string `toml:"db_name"`
	DBSSLMode  string `toml:"db_sslmode"`

	MigrationsSource string `toml:"migrations_source"`

	Kafka KafkaConfig `toml:"kafka"`
	Sweep SweepConfig `toml:"sweep"`
}

// Load reads the optional TOML file named by CREDITO_CONFIG and applies
// environment overrides on top of the defaults.
func Load() (Config, error) {
	cfg := Config{
		ServiceName:      "credito-engine",
		HTTPPort:         8080,
		LogLevel:         "info",
		LogFormat:        "json",
		DBHost:           "localhost",
		DBPort:           5432,
		DBUser:           "credito",
		DBName:           "credito",
		DBSSLMode:        "disable",
		MigrationsSource: "file://./migrations",
		Kafka:            KafkaConfig{Brokers: []string{"localhost:9092"}},
		Sweep:            SweepConfig{RunOnStartup: true},
	}

	if path := os.Getenv("CREDITO_CONFIG"); path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: decode %s: %w", path, err)
		}
	}

	cfg.ServiceName = getEnv("SERVICE_NAME", cfg.ServiceName)
	cfg.HTTPPort = getEnvInt("HTTP_PORT", cfg.HTTPPort)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getEnv("LOG_FORMAT", cfg.LogFormat)
	cfg.DBHost = getEnv("DB_HOST", cfg.DBHost)
	cfg.DBPort = getEnvInt("DB_PORT", cfg.DBPort)
	cfg.DBUser = getEnv("DB_USER", cfg.DBUser)
	cfg.DBPassword = getEnv("DB_PASSWORD", cfg.DBPassword)
	cfg.DBName = getEnv("DB_NAME", cfg.DBName)
	cfg.DBSSLMode = getEnv("DB_SSLMODE", cfg.DBSSLMode)
	cfg.MigrationsSource = getEnv("MIGRATIONS_SOURCE", cfg.MigrationsSource)
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		cfg.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("SWEEP_ON_STARTUP"); v != "" {
		cfg.Sweep.RunOnStartup = v == "true" || v == "1"
	}

	return cfg, nil
}

// Validate checks the fields that have no safe default.
func (c Config) Validate() error {
	if c.DBPassword == "" {
		return fmt.Errorf("config: DB_PASSWORD is required")
	}
	return nil
}

// Postgres maps the DB fields onto the shared pool config.
func (c Config) Postgres() postgres.Config {
	return postgres.Config{
		Host:     c.DBHost,
		Port:     c.DBPort,
		User:     c.DBUser,
		Password: c.DBPassword,
		Database: c.DBName,
		SSLMode:  c.DBSSLMode,
	}
}

// HTTPAddr returns the listen address for health and metrics.
func (c Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
