package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"

	"github.com/julianstephens/circles/internal/constants"
)

// Env holds settings read from the environment. Command-line flags take
// precedence; these only supply defaults.
type Env struct {
	Config       string `env:"CIRCLES_CONFIG"`
	Debug        bool   `env:"CIRCLES_DEBUG" envDefault:"false"`
	Timezone     string `env:"CIRCLES_TIMEZONE" envDefault:"Local"`
	DBConnection string `env:"CIRCLES_DB_CONNECTION"`
	Watch        bool   `env:"CIRCLES_WATCH" envDefault:"true"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv() (Env, error) {
	var cfg Env
	if err := env.Parse(&cfg); err != nil {
		return Env{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// ExpandPath expands a leading "~" to the user's home directory.
func ExpandPath(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// IsPostgres reports whether the config string is a PostgreSQL connection string.
func IsPostgres(config string) bool {
	return strings.HasPrefix(config, "postgres://") || strings.HasPrefix(config, "postgresql://")
}

// ConfigDir returns the directory used for logs and backups.
// Non-file backends fall back to the default config directory.
func ConfigDir(config string) (string, error) {
	if config == "" || config == constants.MemoryConfigPath || IsPostgres(config) {
		config = constants.DefaultConfigPath
	}
	path, err := ExpandPath(config)
	if err != nil {
		return "", err
	}
	return filepath.Dir(path), nil
}
