package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. STATUSFX_LOG_LEVEL.
const EnvPrefix = "STATUSFX_"

// Kill log drivers.
const (
	DriverNone     = ""
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds all configuration for the status resolver and its tools.
type Config struct {
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL"`

	Stun     StunConfig     `yaml:"stun" envPrefix:"STUN_"`
	Blocking BlockingConfig `yaml:"blocking" envPrefix:"BLOCKING_"`
	KillLog  KillLogConfig  `yaml:"killlog" envPrefix:"KILLLOG_"`
	Replay   ReplayConfig   `yaml:"replay" envPrefix:"REPLAY_"`
}

// StunConfig tunes entries cascaded by a stun.
type StunConfig struct {
	Priority int    `yaml:"priority" env:"PRIORITY"`
	Suffix   string `yaml:"suffix" env:"SUFFIX"`
}

// BlockingConfig tunes the blocking composite.
type BlockingConfig struct {
	Speed        float64 `yaml:"speed" env:"SPEED"`
	Priority     int     `yaml:"priority" env:"PRIORITY"`
	MeterInitial float64 `yaml:"meter_initial" env:"METER_INITIAL"`
}

// KillLogConfig selects where kill attributions are stored.
// An empty Driver disables the kill log.
type KillLogConfig struct {
	Driver string `yaml:"driver" env:"DRIVER"`
	// DSN overrides Database (postgres) or Path (sqlite) when set.
	DSN      string         `yaml:"dsn" env:"DSN"`
	Path     string         `yaml:"path" env:"PATH"`
	Database DatabaseConfig `yaml:"database" envPrefix:"DB_"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string `yaml:"host" env:"HOST"`
	Port     int    `yaml:"port" env:"PORT"`
	User     string `yaml:"user" env:"USER"`
	Password string `yaml:"password" env:"PASSWORD"`
	DBName   string `yaml:"dbname" env:"NAME"`
	SSLMode  string `yaml:"sslmode" env:"SSLMODE"`
}

// ReplayConfig tunes the scenario runner.
type ReplayConfig struct {
	// Workers caps how many scenarios run at once.
	Workers int `yaml:"workers" env:"WORKERS"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// ConnString returns the data source for the configured driver.
func (k KillLogConfig) ConnString() string {
	if k.DSN != "" {
		return k.DSN
	}
	if k.Driver == DriverSQLite {
		return k.Path
	}
	return k.Database.DSN()
}

// Default returns Config with sensible defaults.
func Default() Config {
	return Config{
		LogLevel: "info",
		Stun: StunConfig{
			Priority: 10,
			Suffix:   "_Stun",
		},
		Blocking: BlockingConfig{
			Speed:    6,
			Priority: 9,
		},
		KillLog: KillLogConfig{
			Driver: DriverNone,
			Path:   "statusfx.db",
			Database: DatabaseConfig{
				Host:     "127.0.0.1",
				Port:     5432,
				User:     "statusfx",
				Password: "statusfx",
				DBName:   "statusfx",
				SSLMode:  "disable",
			},
		},
		Replay: ReplayConfig{
			Workers: 4,
		},
	}
}

// Load loads config from a YAML file, then applies STATUSFX_* environment
// overrides. If the file doesn't exist, defaults are used.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return cfg, fmt.Errorf("parsing env overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("validating config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the values Load cannot coerce.
func (c Config) Validate() error {
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.KillLog.Driver {
	case DriverNone, DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unknown killlog driver %q", c.KillLog.Driver)
	}
	if c.Replay.Workers < 1 {
		return fmt.Errorf("replay workers must be positive, got %d", c.Replay.Workers)
	}
	if c.Stun.Suffix == "" {
		return errors.New("stun suffix must not be empty")
	}
	return nil
}

// ParseLogLevel maps a config log level to slog.Level.
func ParseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", level)
	}
}
