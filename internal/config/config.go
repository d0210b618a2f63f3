// Package config loads the site configuration from defaults, an optional
// YAML file and SITE_* environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// ErrInvalid wraps every validation failure returned by Load.
var ErrInvalid = errors.New("invalid configuration")

// Config is the complete site configuration. Environment variables are
// named SITE_<SECTION>_<FIELD>, e.g. SITE_DATA_FETCH_TIMEOUT.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Data    DataConfig    `yaml:"data"`
	Web     WebConfig     `yaml:"web"`
	Admin   AdminConfig   `yaml:"admin"`
	Store   StoreConfig   `yaml:"store"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Port            int           `yaml:"port" split_words:"true" validate:"min=1,max=65535"`
	Mode            string        `yaml:"mode" split_words:"true" validate:"oneof=debug release test"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" split_words:"true" validate:"gt=0"`
}

// DataConfig says where dataset CSV files come from. Base is either an
// http(s) URL prefix or a local directory.
type DataConfig struct {
	Base         string        `yaml:"base" split_words:"true" validate:"required"`
	FetchTimeout time.Duration `yaml:"fetch_timeout" split_words:"true" validate:"gt=0"`
}

// WebConfig locates the page HTML and static assets.
type WebConfig struct {
	PagesDir  string `yaml:"pages_dir" split_words:"true" validate:"required"`
	StaticDir string `yaml:"static_dir" split_words:"true"`
}

// AdminConfig holds the dashboard credentials and visitor retention.
type AdminConfig struct {
	Username  string        `yaml:"username" split_words:"true"`
	Password  string        `yaml:"password" split_words:"true"`
	Retention time.Duration `yaml:"retention" split_words:"true" validate:"gt=0"`
}

// StoreConfig locates the SQLite database. An empty Path disables tracking.
type StoreConfig struct {
	Path string `yaml:"path" split_words:"true"`
}

// LoggingConfig controls slog output.
type LoggingConfig struct {
	Level  string `yaml:"level" split_words:"true" validate:"oneof=debug info warn warning error"`
	Format string `yaml:"format" split_words:"true" validate:"oneof=json text"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:            8080,
			Mode:            "debug",
			ShutdownTimeout: 10 * time.Second,
		},
		Data: DataConfig{
			Base:         "data",
			FetchTimeout: 10 * time.Second,
		},
		Web: WebConfig{
			PagesDir:  "web",
			StaticDir: "static",
		},
		Admin: AdminConfig{
			Retention: 365 * 24 * time.Hour,
		},
		Store: StoreConfig{
			Path: "site.db",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load builds the configuration. The YAML file named by SITE_CONFIG_FILE is
// applied over the defaults when set, then SITE_* variables. A bare PORT
// variable is honoured when SITE_SERVER_PORT is unset.
func Load() (*Config, error) {
	return LoadFile(os.Getenv("SITE_CONFIG_FILE"))
}

// LoadFile is Load with an explicit YAML path; "" skips the file.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if port, ok := os.LookupEnv("PORT"); ok {
		if _, set := os.LookupEnv("SITE_SERVER_PORT"); !set {
			p, err := strconv.Atoi(port)
			if err != nil {
				return nil, fmt.Errorf("%w: PORT %q is not a number", ErrInvalid, port)
			}
			cfg.Server.Port = p
		}
	}

	if err := envconfig.Process("SITE", &cfg); err != nil {
		return nil, fmt.Errorf("load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}
