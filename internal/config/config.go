// Package config resolves the settings handed to the bootstrapping code.
//
// Values are taken, in priority order, from command-line flags, an optional
// YAML file named by -config, the MOVIES_DB_* environment variables and the
// built-in defaults. Nothing below cmd/ reads the environment; the resolved
// Config is passed down explicitly.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	EnvDriver   = "MOVIES_DB_DRIVER"
	EnvLocation = "MOVIES_DB_LOCATION"
	EnvUser     = "MOVIES_DB_USER"
	EnvPassword = "MOVIES_DB_PASS"
)

type Config struct {
	Port             int         `yaml:"port"`
	Env              string      `yaml:"env"`
	OtelCollectorUrl string      `yaml:"otel_collector_url"`
	Seed             bool        `yaml:"seed"`
	Store            StoreConfig `yaml:"store"`

	ShowVersion bool `yaml:"-"`
}

type StoreConfig struct {
	Driver         string        `yaml:"driver"`
	Location       string        `yaml:"location"`
	Username       string        `yaml:"username"`
	Password       string        `yaml:"password"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
}

func Default() Config {
	return Config{
		Port: 3000,
		Env:  "dev",
		Seed: true,
		Store: StoreConfig{
			Driver:         DriverPostgres,
			Location:       "postgres://localhost:5432/movies?sslmode=disable",
			Username:       "postgres",
			ConnectTimeout: 3 * time.Second,
		},
	}
}

// Load builds a Config from args (without the program name) and the given
// environment lookup.
func Load(args []string, getenv func(string) string) (Config, error) {
	cfg := Default()
	applyEnv(&cfg, getenv)

	var (
		flagged    Config
		configPath string
	)

	fs := flag.NewFlagSet("movie-catalog", flag.ContinueOnError)

	fs.StringVar(&configPath, "config", "", "Path to a YAML config file")
	fs.IntVar(&flagged.Port, "port", cfg.Port, "HTTP server port")
	fs.StringVar(&flagged.Env, "env", cfg.Env, "Environment (dev|staging|prod)")
	fs.StringVar(&flagged.OtelCollectorUrl, "otel-collector-url", cfg.OtelCollectorUrl, "OpenTelemetry collector gRPC endpoint")
	fs.BoolVar(&flagged.Seed, "seed", cfg.Seed, "Insert a sample movie when the catalog is empty")

	fs.StringVar(&flagged.Store.Driver, "db-driver", cfg.Store.Driver, "Store backend (postgres|sqlite)")
	fs.StringVar(&flagged.Store.Location, "db-location", cfg.Store.Location, "Store location (PostgreSQL DSN or SQLite file)")
	fs.StringVar(&flagged.Store.Username, "db-user", cfg.Store.Username, "Store username")
	fs.StringVar(&flagged.Store.Password, "db-password", cfg.Store.Password, "Store password")
	fs.DurationVar(&flagged.Store.ConnectTimeout, "db-connect-timeout", cfg.Store.ConnectTimeout, "Timeout for establishing the store connection")

	fs.BoolVar(&flagged.ShowVersion, "version", false, "Display version and exit")

	err := fs.Parse(args)
	if err != nil {
		return Config{}, err
	}

	if configPath != "" {
		cfg, err = loadFile(configPath, cfg)
		if err != nil {
			return Config{}, err
		}
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "port":
			cfg.Port = flagged.Port
		case "env":
			cfg.Env = flagged.Env
		case "otel-collector-url":
			cfg.OtelCollectorUrl = flagged.OtelCollectorUrl
		case "seed":
			cfg.Seed = flagged.Seed
		case "db-driver":
			cfg.Store.Driver = flagged.Store.Driver
		case "db-location":
			cfg.Store.Location = flagged.Store.Location
		case "db-user":
			cfg.Store.Username = flagged.Store.Username
		case "db-password":
			cfg.Store.Password = flagged.Store.Password
		case "db-connect-timeout":
			cfg.Store.ConnectTimeout = flagged.Store.ConnectTimeout
		}
	})

	cfg.ShowVersion = flagged.ShowVersion

	return cfg, nil
}

func applyEnv(cfg *Config, getenv func(string) string) {
	if getenv == nil {
		return
	}

	if v := getenv(EnvDriver); v != "" {
		cfg.Store.Driver = v
	}
	if v := getenv(EnvLocation); v != "" {
		cfg.Store.Location = v
	}
	if v := getenv(EnvUser); v != "" {
		cfg.Store.Username = v
	}
	if v := getenv(EnvPassword); v != "" {
		cfg.Store.Password = v
	}
}

// loadFile overlays the YAML file at path on base. Keys absent from the file
// keep the values from base.
func loadFile(path string, base Config) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg := base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error

	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}

	switch c.Store.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		errs = append(errs, fmt.Errorf("unknown store driver %q", c.Store.Driver))
	}

	if c.Store.ConnectTimeout <= 0 {
		errs = append(errs, errors.New("connect timeout must be positive"))
	}

	return errors.Join(errs...)
}
