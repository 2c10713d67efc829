package system

import (
	"fmt"

	"github.com/julianstephens/circles/internal/cli"
	"github.com/julianstephens/circles/internal/kv"
)

// CopyCmd copies all stored data into another backend, e.g. to move from
// sqlite to PostgreSQL.
type CopyCmd struct {
	Destination string `arg:"" help:"Destination config path, connection string, or 'keyring'."`
}

func (c *CopyCmd) Run(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}
	if err := ctx.Flush(); err != nil {
		return err
	}

	dst, err := cli.ResolveBackend(c.Destination, "", ctx.Vault)
	if err != nil {
		return err
	}
	if dst.GetConfigPath() == ctx.Backend.GetConfigPath() {
		return fmt.Errorf("source and destination are the same: %s", c.Destination)
	}
	if err := dst.Init(); err != nil {
		return fmt.Errorf("failed to initialize destination: %w", err)
	}
	defer dst.Close()

	n, err := kv.Copy(ctx.Ctx, ctx.Backend, dst)
	if err != nil {
		return err
	}
	ctx.Printf("✓ Copied %d keys to %s\n", n, dst.GetConfigPath())
	return nil
}
