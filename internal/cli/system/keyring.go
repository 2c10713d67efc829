package system

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/julianstephens/circles/internal/cli"
	"github.com/julianstephens/circles/internal/keyring"
)

type KeyringSetCmd struct {
	ConnectionString string `arg:"" help:"PostgreSQL connection string to store in the OS keyring."`
}

func (cmd *KeyringSetCmd) Run(ctx *cli.Context) error {
	if err := ctx.Vault.SetConnectionString(cmd.ConnectionString); err != nil {
		return fmt.Errorf("invalid connection string: %w", err)
	}
	ctx.Println("✓ Connection string stored in OS keyring")
	ctx.Println("  Run circles with --config keyring to use it")
	return nil
}

type KeyringShowCmd struct{}

func (cmd *KeyringShowCmd) Run(ctx *cli.Context) error {
	connStr, err := ctx.Vault.ConnectionString()
	if errors.Is(err, keyring.ErrNotFound) {
		return errors.New("no connection string found in keyring, use 'circles keyring set' to store one")
	}
	if err != nil {
		return err
	}
	ctx.Println(maskPassword(connStr))
	return nil
}

type KeyringDeleteCmd struct{}

func (cmd *KeyringDeleteCmd) Run(ctx *cli.Context) error {
	if err := ctx.Vault.Delete(); err != nil {
		return err
	}
	ctx.Println("✓ Connection string deleted from OS keyring")
	return nil
}

type KeyringStatusCmd struct{}

func (cmd *KeyringStatusCmd) Run(ctx *cli.Context) error {
	if !ctx.Vault.Available() {
		ctx.Println("❌ OS keyring is not available on this system")
		return keyring.ErrUnavailable
	}
	ctx.Println("✓ OS keyring is available")
	if _, err := ctx.Vault.ConnectionString(); err == nil {
		ctx.Println("✓ Connection string is stored in keyring")
	} else {
		ctx.Println("ℹ No connection string stored in keyring")
	}
	return nil
}

// maskPassword hides the password of a URL or key=value connection string.
func maskPassword(connStr string) string {
	if strings.HasPrefix(connStr, "postgres://") || strings.HasPrefix(connStr, "postgresql://") {
		u, err := url.Parse(connStr)
		if err != nil || u.User == nil {
			return connStr
		}
		if _, ok := u.User.Password(); !ok {
			return connStr
		}
		u.User = url.UserPassword(u.User.Username(), "xxxxx")
		return strings.Replace(u.String(), "xxxxx", "****", 1)
	}

	fields := strings.Fields(connStr)
	for i, f := range fields {
		if strings.HasPrefix(f, "password=") {
			fields[i] = "password=****"
		}
	}
	return strings.Join(fields, " ")
}
