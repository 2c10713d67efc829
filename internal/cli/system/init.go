package system

import (
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/circles/internal/cli"
	"github.com/julianstephens/circles/internal/kv"
)

type InitCmd struct {
	Force  bool   `help:"Force reset by deleting the existing database before initialization."`
	Source string `help:"Config path or connection string to copy existing data from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if err := c.reset(ctx); err != nil {
			return err
		}
	}

	if err := ctx.Backend.Init(); err != nil {
		return err
	}
	ctx.Printf("Initialized circles storage at: %s\n", ctx.Backend.GetConfigPath())

	if c.Source != "" {
		src, err := cli.ResolveBackend(c.Source, "", ctx.Vault)
		if err != nil {
			return err
		}
		if src.GetConfigPath() == ctx.Backend.GetConfigPath() {
			return fmt.Errorf("source and destination are the same: %s", c.Source)
		}
		if err := src.Load(); err != nil {
			return fmt.Errorf("failed to load source database: %w", err)
		}
		defer src.Close()

		n, err := kv.Copy(ctx.Ctx, src, ctx.Backend)
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		ctx.Printf("Copied %d keys from %s\n", n, c.Source)
	}

	return ctx.Store.Initialize(ctx.Ctx)
}

// reset deletes a file-backed database. Other backends are left alone.
func (c *InitCmd) reset(ctx *cli.Context) error {
	path := ctx.Backend.GetConfigPath()
	st, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to access existing database: %w", err)
	}
	if st.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}

	if err := ctx.Backend.Close(); err != nil {
		return fmt.Errorf("failed to close existing database: %w", err)
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to delete existing database: %w", err)
	}
	ctx.Printf("Deleted existing database at: %s\n", path)
	return nil
}
