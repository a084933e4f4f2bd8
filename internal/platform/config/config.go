package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix namespaces every environment variable, e.g. BEAUTYLIST_ADDR.
const EnvPrefix = "BEAUTYLIST"

// Server captures HTTP server and session configuration.
type Server struct {
	Addr            string        `envconfig:"ADDR" default:":8080"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat       string        `envconfig:"LOG_FORMAT" default:"json"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
	RequestTimeout  time.Duration `envconfig:"REQUEST_TIMEOUT" default:"30s"`
	ExportPrefix    string        `envconfig:"EXPORT_PREFIX" default:"beauty-list"`
	SeedFile        string        `envconfig:"SEED_FILE"`
	DefaultTab      string        `envconfig:"DEFAULT_TAB" default:"skincare"`
	MaxImportBytes  int64         `envconfig:"MAX_IMPORT_BYTES" default:"10485760"`
}

// FromEnv builds a Server config from the environment. Variables found in
// the given .env files (or ./.env when none are given) are loaded first and
// never override variables already set.
func FromEnv(envFiles ...string) (Server, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Server{}, fmt.Errorf("load env file: %w", err)
	}

	var cfg Server
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return Server{}, fmt.Errorf("process environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Server{}, err
	}
	return cfg, nil
}

// Validate rejects values that envconfig accepts but the server cannot use.
func (c Server) Validate() error {
	switch strings.ToLower(c.LogFormat) {
	case "json", "text":
	default:
		return fmt.Errorf("invalid log format %q: must be 'json' or 'text'", c.LogFormat)
	}
	if c.ShutdownTimeout <= 0 {
		return errors.New("shutdown timeout must be positive")
	}
	if c.RequestTimeout <= 0 {
		return errors.New("request timeout must be positive")
	}
	if c.MaxImportBytes <= 0 {
		return errors.New("max import bytes must be positive")
	}
	if strings.TrimSpace(c.ExportPrefix) == "" {
		return errors.New("export prefix is required")
	}
	return nil
}
