package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/julianstephens/tachoplan/internal/constants"
	"github.com/julianstephens/tachoplan/internal/keyring"
	"github.com/julianstephens/tachoplan/internal/logger"
	"github.com/julianstephens/tachoplan/internal/storage/postgres"
	"github.com/julianstephens/tachoplan/internal/storage/sqlite"
)

// KeyringConfig is the --config value that reads the PostgreSQL connection
// string from the OS keyring.
const KeyringConfig = "keyring"

// IsPostgres reports whether config looks like a PostgreSQL URL
func IsPostgres(config string) bool {
	return strings.HasPrefix(config, "postgres://") || strings.HasPrefix(config, "postgresql://")
}

// Open picks the storage backend for a --config value. Resolution order:
// the TACHOPLAN_DB_CONNECTION environment variable, a PostgreSQL URL (which
// must not embed a password), the "keyring" keyword, then a SQLite file path.
func Open(config string) (Provider, error) {
	if connStr := strings.TrimSpace(os.Getenv(constants.EnvDBConnection)); connStr != "" {
		logger.Debug("Using PostgreSQL connection from environment")
		return postgres.New(connStr), nil
	}

	switch {
	case IsPostgres(config):
		if _, err := postgres.ValidateConnString(config); err != nil {
			return nil, err
		}
		return postgres.New(config), nil
	case config == KeyringConfig:
		connStr, err := keyring.GetConnectionString()
		if err != nil {
			if errors.Is(err, keyring.ErrNotFound) {
				return nil, fmt.Errorf("no connection string in keyring, run '%s keyring set' first: %w", constants.AppName, err)
			}
			return nil, err
		}
		logger.Debug("Using PostgreSQL connection from keyring")
		return postgres.New(connStr), nil
	}

	path, err := ExpandPath(config)
	if err != nil {
		return nil, err
	}
	return sqlite.NewStore(path), nil
}

// ExpandPath resolves a leading "~" to the user's home directory
func ExpandPath(path string) (string, error) {
	if path == "" {
		path = constants.DefaultConfigPath
	}
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
