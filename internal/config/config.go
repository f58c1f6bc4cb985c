// Package config builds the application configuration once at startup.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/Veraticus/expense-ledger/internal/common"
	"github.com/Veraticus/expense-ledger/internal/sheets"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Supported store drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds all configuration for the application.
type Config struct {
	Database DatabaseConfig
	Export   ExportConfig
	Logging  LoggingConfig
	Sheets   sheets.Config
}

// DatabaseConfig selects and locates the relational store.
type DatabaseConfig struct {
	Driver   string
	Path     string
	Host     string
	User     string
	Password string
	Name     string
	SSLMode  string
	Port     int
}

// ExportConfig controls where file exports are written.
type ExportConfig struct {
	CSVPath string
}

// LoggingConfig controls the slog handler.
type LoggingConfig struct {
	Level  string
	Format string
}

// SetDefaults registers default values and environment bindings on v.
// The DB_* variables are the names used by existing .env files.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("database.driver", DriverSQLite)
	v.SetDefault("database.path", "$HOME/.local/share/ledger/ledger.db")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("export.csv_path", "export/report.csv")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetEnvPrefix("LEDGER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	_ = v.BindEnv("database.name", "LEDGER_DATABASE_NAME", "DB_NAME")
	_ = v.BindEnv("database.user", "LEDGER_DATABASE_USER", "DB_USER")
	_ = v.BindEnv("database.password", "LEDGER_DATABASE_PASSWORD", "DB_PASSWORD")
	_ = v.BindEnv("database.host", "LEDGER_DATABASE_HOST", "DB_HOST")
	_ = v.BindEnv("database.port", "LEDGER_DATABASE_PORT", "DB_PORT")
}

// LoadDotEnv loads variables from .env style files. Missing files are ignored;
// variables already present in the environment win.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", file, err)
		}
	}
	return nil
}

// Load builds a Config from v. SetDefaults must have been applied.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Database: DatabaseConfig{
			Driver:   strings.ToLower(v.GetString("database.driver")),
			Path:     ExpandPath(v.GetString("database.path")),
			Host:     v.GetString("database.host"),
			Port:     v.GetInt("database.port"),
			User:     v.GetString("database.user"),
			Password: v.GetString("database.password"),
			Name:     v.GetString("database.name"),
			SSLMode:  v.GetString("database.sslmode"),
		},
		Export: ExportConfig{
			CSVPath: ExpandPath(v.GetString("export.csv_path")),
		},
		Logging: LoggingConfig{
			Level:  v.GetString("logging.level"),
			Format: v.GetString("logging.format"),
		},
		Sheets: loadSheets(v),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func loadSheets(v *viper.Viper) sheets.Config {
	cfg := sheets.DefaultConfig()

	if s := v.GetString("sheets.service_account_path"); s != "" {
		cfg.ServiceAccountPath = ExpandPath(s)
	}
	if s := v.GetString("sheets.client_id"); s != "" {
		cfg.ClientID = s
	}
	if s := v.GetString("sheets.client_secret"); s != "" {
		cfg.ClientSecret = s
	}
	if s := v.GetString("sheets.refresh_token"); s != "" {
		cfg.RefreshToken = s
	}
	if s := v.GetString("sheets.spreadsheet_id"); s != "" {
		cfg.SpreadsheetID = s
	}
	if s := v.GetString("sheets.spreadsheet_name"); s != "" {
		cfg.SpreadsheetName = s
	}

	cfg.LoadFromEnv()
	cfg.ServiceAccountPath = ExpandPath(cfg.ServiceAccountPath)
	return cfg
}

// Validate checks the store selection. Sheets settings are validated only
// when a Sheets export is requested.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverSQLite:
		if c.Database.Path == "" {
			return fmt.Errorf("%w: database.path is required for sqlite", common.ErrMissingConfig)
		}
	case DriverPostgres:
		if c.Database.Name == "" {
			return fmt.Errorf("%w: database name (DB_NAME) is required for postgres", common.ErrMissingConfig)
		}
		if c.Database.Host == "" {
			return fmt.Errorf("%w: database host (DB_HOST) is required for postgres", common.ErrMissingConfig)
		}
		if c.Database.Port <= 0 || c.Database.Port > 65535 {
			return fmt.Errorf("%w: database port %d", common.ErrInvalidConfig, c.Database.Port)
		}
	default:
		return fmt.Errorf("%w: unknown database driver %q", common.ErrInvalidConfig, c.Database.Driver)
	}

	if c.Export.CSVPath == "" {
		return fmt.Errorf("%w: export.csv_path is required", common.ErrMissingConfig)
	}

	return nil
}

// DSN returns the postgres connection URL for database name.
func (d DatabaseConfig) DSN(name string) string {
	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
		Path:   "/" + name,
	}
	if d.User != "" {
		if d.Password != "" {
			u.User = url.UserPassword(d.User, d.Password)
		} else {
			u.User = url.User(d.User)
		}
	}
	if d.SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": []string{d.SSLMode}}.Encode()
	}
	return u.String()
}
