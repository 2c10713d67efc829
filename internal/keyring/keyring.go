// Package keyring stores the postgres connection string in the OS keyring,
// where a DSN with a password is allowed to live.
package keyring

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/circles/internal/constants"
	"github.com/julianstephens/circles/internal/kv/postgres"
)

var (
	// ErrNotFound is returned when no connection string is stored.
	ErrNotFound = errors.New("connection string not found in keyring")
	// ErrUnavailable is returned when the OS keyring cannot be reached.
	ErrUnavailable = errors.New("OS keyring is not available")
)

// Vault is one keyring entry.
type Vault struct {
	Service string
	User    string
}

// Default is the entry circles reads at startup.
var Default = Vault{Service: constants.AppName, User: constants.DefaultKeyringUser}

// ConnectionString returns the stored DSN.
func (v Vault) ConnectionString() (string, error) {
	connStr, err := keyring.Get(v.Service, v.User)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return connStr, nil
}

// SetConnectionString validates connStr and stores it. Unlike a config
// file, the keyring may hold a password.
func (v Vault) SetConnectionString(connStr string) error {
	if connStr == "" {
		return errors.New("connection string cannot be empty")
	}
	if err := postgres.ValidateConnString(connStr); err != nil && !errors.Is(err, postgres.ErrEmbeddedCredentials) {
		return err
	}
	if err := keyring.Set(v.Service, v.User, connStr); err != nil {
		return fmt.Errorf("failed to store connection string in keyring: %w", err)
	}
	return nil
}

// Delete removes the stored DSN.
func (v Vault) Delete() error {
	err := keyring.Delete(v.Service, v.User)
	if errors.Is(err, keyring.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete connection string from keyring: %w", err)
	}
	return nil
}

// Available reports whether the keyring answers at all. An empty keyring
// counts as available.
func (v Vault) Available() bool {
	_, err := keyring.Get(v.Service, "availability-check")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}
