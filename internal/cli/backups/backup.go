package backups

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"github.com/julianstephens/circles/internal/backup"
	"github.com/julianstephens/circles/internal/cli"
	"github.com/julianstephens/circles/internal/constants"
)

func manager(ctx *cli.Context) (*backup.Manager, error) {
	mgr := ctx.BackupManager()
	if mgr == nil {
		return nil, fmt.Errorf("backups are only available for the sqlite backend (config %s)", ctx.Backend.GetConfigPath())
	}
	return mgr, nil
}

type BackupCreateCmd struct{}

func (c *BackupCreateCmd) Run(ctx *cli.Context) error {
	mgr, err := manager(ctx)
	if err != nil {
		return err
	}
	info, err := mgr.Create(ctx.Ctx)
	if err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}

	ctx.Printf("✓ Backup created: %s (%s)\n", info.Name(), humanize.Bytes(uint64(info.Size)))
	return nil
}

type BackupListCmd struct{}

func (c *BackupListCmd) Run(ctx *cli.Context) error {
	mgr, err := manager(ctx)
	if err != nil {
		return err
	}
	backups, err := mgr.List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}

	if len(backups) == 0 {
		ctx.Println("No backups found.")
		ctx.Printf("Backups are stored in: %s\n", mgr.Dir())
		return nil
	}

	ctx.Printf("Available backups (%d total, keeping most recent %d):\n\n", len(backups), constants.MaxBackups)
	for _, b := range backups {
		ctx.Printf("  %s  %s  (%s, %s)\n",
			b.CreatedAt.Format("2006-01-02 15:04:05"), b.Name(), humanize.Bytes(uint64(b.Size)), humanize.Time(b.CreatedAt))
	}
	ctx.Printf("\nBackup directory: %s\n", mgr.Dir())
	return nil
}

type BackupRestoreCmd struct {
	BackupFile string `arg:"" help:"Path or filename of the backup to restore."`
	Yes        bool   `short:"y" help:"Do not ask for confirmation."`
}

func (c *BackupRestoreCmd) Run(ctx *cli.Context) error {
	mgr, err := manager(ctx)
	if err != nil {
		return err
	}

	// a relative path in the working directory wins over a backup name
	path := c.BackupFile
	if _, err := os.Stat(path); err == nil {
		if path, err = filepath.Abs(path); err != nil {
			return fmt.Errorf("failed to resolve backup path: %w", err)
		}
	} else {
		path = mgr.Resolve(c.BackupFile)
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("backup file not found: tried current directory and %s", mgr.Dir())
		}
	}

	if !c.Yes {
		ctx.Println("⚠️  WARNING: This will replace your current database with the backup.")
		ctx.Println("⚠️  Other circles processes keep using their open database until restarted.")
		ctx.Println("A backup of your current database will be created before restoring.")
		ctx.Printf("\nRestore from: %s\n", path)
		ok, err := ctx.Confirm("Continue?")
		if err != nil {
			return err
		}
		if !ok {
			ctx.Println("Restore cancelled.")
			return nil
		}
	}

	if err := ctx.Backend.Close(); err != nil {
		ctx.Printf("Warning: failed to close database connection: %v\n", err)
	}

	safety, err := mgr.Restore(ctx.Ctx, path)
	if err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}
	if safety.Path != "" {
		ctx.Printf("Created backup of current database: %s\n", safety.Name())
	}

	if err := ctx.Load(); err != nil {
		return fmt.Errorf("restored database could not be opened: %w", err)
	}
	if err := ctx.Store.Reload(ctx.Ctx); err != nil {
		return err
	}
	snap := ctx.Store.Snapshot()
	ctx.Printf("✓ Database restored: %d behaviors, %d events\n", len(snap.Behaviors), len(snap.Events))
	return nil
}
