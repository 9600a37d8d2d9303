// Package config loads the application settings from the environment.
// A .env file in the working directory is read first when present.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	_ "github.com/joho/godotenv/autoload"
)

// Config is the full runtime configuration.
type Config struct {
	Port int `env:"PORT" envDefault:"8080"`

	Auth     AuthConfig
	Database DatabaseConfig

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"https://*,http://*" envSeparator:","`
}

// AuthConfig controls the basic-auth gate. Any non-empty IS_PROD value
// turns the gate on.
type AuthConfig struct {
	IsProd   string `env:"IS_PROD"`
	Username string `env:"AUTH_USERNAME"`
	Password string `env:"AUTH_PASSWORD"`
	Realm    string `env:"AUTH_REALM" envDefault:"Secure Area"`
}

// Guarded reports whether IS_PROD is set to anything at all.
func (c AuthConfig) Guarded() bool {
	return c.IsProd != ""
}

// DatabaseConfig selects the gorm driver and its DSN. For postgres the DSN
// may be left empty and assembled from the BLUEPRINT_DB_* parts.
type DatabaseConfig struct {
	Driver      string `env:"DB_DRIVER" envDefault:"sqlite"`
	DSN         string `env:"DB_DSN"`
	AutoMigrate bool   `env:"DB_AUTO_MIGRATE" envDefault:"true"`
	LogLevel    string `env:"DB_LOG_LEVEL" envDefault:"warn"`

	Host     string `env:"BLUEPRINT_DB_HOST" envDefault:"localhost"`
	DBPort   string `env:"BLUEPRINT_DB_PORT" envDefault:"5432"`
	Username string `env:"BLUEPRINT_DB_USERNAME"`
	Password string `env:"BLUEPRINT_DB_PASSWORD"`
	Name     string `env:"BLUEPRINT_DB_DATABASE"`
}

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// ConnectionString returns the DSN handed to the gorm dialector.
func (c DatabaseConfig) ConnectionString() string {
	if c.DSN != "" {
		return c.DSN
	}
	switch c.Driver {
	case DriverPostgres:
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			c.Host, c.Username, c.Password, c.Name, c.DBPort)
	case DriverSQLite:
		return "memo.db"
	default:
		return ""
	}
}

// Load parses the environment into a Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT %d", c.Port)
	}
	switch c.Database.Driver {
	case DriverSQLite, DriverPostgres, DriverMySQL:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}
	return nil
}
