package kv

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/julianstephens/circles/internal/config"
	"github.com/julianstephens/circles/internal/constants"
	"github.com/julianstephens/circles/internal/kv/postgres"
	"github.com/julianstephens/circles/internal/kv/sqlite"
)

// Open returns the provider selected by the config string:
//
//	:memory:                     in-process map
//	postgres:// | postgresql://  PostgreSQL
//	*.json                       single JSON file
//	anything else                SQLite database file
//
// The provider is not initialized or loaded.
func Open(cfg string) (Provider, error) {
	switch {
	case cfg == constants.MemoryConfigPath:
		return NewMemoryStore(), nil
	case config.IsPostgres(cfg):
		if postgres.HasEmbeddedCredentials(cfg) {
			return nil, postgres.ErrEmbeddedCredentials
		}
		return postgres.New(cfg), nil
	}

	path, err := config.ExpandPath(cfg)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return nil, fmt.Errorf("empty config path")
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return NewFileStore(path), nil
	}
	return sqlite.NewStore(path), nil
}
