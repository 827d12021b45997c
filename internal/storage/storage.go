package storage

import (
	"errors"
	"fmt"

	"github.com/julianstephens/remindme/internal/config"
	"github.com/julianstephens/remindme/internal/constants"
	"github.com/julianstephens/remindme/internal/keyring"
)

// lookupDSN is swapped in tests.
var lookupDSN = keyring.GetConnectionString

// New builds the provider selected by cfg.Storage. It does not open it.
func New(cfg *config.Config) (Provider, error) {
	switch cfg.Storage.Backend {
	case constants.BackendJSON, "":
		return NewJSONStore(cfg.Storage.Path), nil
	case constants.BackendSQLite:
		s := NewSQLiteStore(cfg.Storage.Path)
		s.SetPollInterval(cfg.Notifier.PollInterval)
		return s, nil
	case constants.BackendPostgres:
		connStr, err := resolveDSN(cfg.Storage.DSN)
		if err != nil {
			return nil, err
		}
		s := NewPostgresStore(connStr)
		s.SetPollInterval(cfg.Notifier.PollInterval)
		return s, nil
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", cfg.Storage.Backend)
	}
}

// resolveDSN prefers the configured connection string, which must not carry a password,
// and falls back to the one saved in the OS keyring.
func resolveDSN(configured string) (string, error) {
	if configured != "" {
		if err := ValidateConnString(configured); err != nil {
			if errors.Is(err, ErrEmbeddedCredentials) {
				return "", fmt.Errorf("%w; store it with '%s keyring set' or use .pgpass/PGPASSWORD instead", err, constants.AppName)
			}
			return "", err
		}
		return configured, nil
	}

	connStr, err := lookupDSN()
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", fmt.Errorf("no PostgreSQL connection string configured: set storage.dsn or run '%s keyring set'", constants.AppName)
		}
		return "", err
	}
	return connStr, nil
}
