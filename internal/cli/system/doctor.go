package system

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	ps "github.com/mitchellh/go-ps"

	"github.com/julianstephens/circles/internal/cli"
	"github.com/julianstephens/circles/internal/constants"
	"github.com/julianstephens/circles/internal/datastore"
	"github.com/julianstephens/circles/internal/keyring"
)

var (
	processesFunc = ps.Processes
	selfPID       = os.Getpid
)

type schemaVersioner interface {
	SchemaVersion(ctx context.Context) (current, latest int, err error)
}

type check struct {
	name string
	// needsDB checks are skipped when the database is unreachable
	needsDB bool
	// warnOnly failures do not fail the run
	warnOnly bool
	run      func(ctx *cli.Context) error
}

var checks = []check{
	{name: "Schema version", needsDB: true, run: checkSchemaVersion},
	{name: "Stored data", needsDB: true, run: checkStoredData},
	{name: "Pending writes", needsDB: true, run: checkPendingWrites},
	{name: "Backups present", warnOnly: true, run: checkBackupsPresent},
	{name: "Other circles processes", warnOnly: true, run: checkOtherProcesses},
	{name: "Clock/timezone", run: checkClockTimezone},
}

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	hasError := false
	dbReachable := true
	if err := checkDBReachable(ctx); err != nil {
		ctx.Printf("❌ Database reachable: FAIL\n   Error: %v\n", err)
		hasError = true
		dbReachable = false
	} else {
		ctx.Printf("✓ Database reachable: OK (%s)\n", ctx.Backend.GetConfigPath())
	}

	for _, c := range checks {
		if c.needsDB && !dbReachable {
			ctx.Printf("⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		switch {
		case err == nil:
			ctx.Printf("✓ %s: OK\n", c.name)
		case c.warnOnly:
			ctx.Printf("⚠ %s: WARNING\n   %v\n", c.name, err)
		default:
			ctx.Printf("❌ %s: FAIL\n   Error: %v\n", c.name, indent(err))
			hasError = true
		}
	}

	ctx.Printf("ℹ Keyring: %s\n", keyringStatus(ctx.Vault))

	ctx.Println()
	if hasError {
		ctx.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}
	ctx.Println("All diagnostics passed!")
	return nil
}

// indent aligns the lines of a joined error under the first one.
func indent(err error) string {
	return strings.ReplaceAll(err.Error(), "\n", "\n          ")
}

func checkDBReachable(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	if _, _, err := ctx.Backend.Get(ctx.Ctx, constants.StorageKeyPreferences); err != nil {
		return fmt.Errorf("failed to query database: %w", err)
	}
	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	sv, ok := ctx.Backend.(schemaVersioner)
	if !ok {
		// file and memory backends have no schema
		return nil
	}
	current, latest, err := sv.SchemaVersion(ctx.Ctx)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	}
	if current < latest {
		return fmt.Errorf("%d migrations pending, run 'circles init'", latest-current)
	}
	return nil
}

func checkStoredData(ctx *cli.Context) error {
	return datastore.Verify(ctx.Ctx, ctx.Backend)
}

func checkPendingWrites(ctx *cli.Context) error {
	return ctx.Store.Flush(ctx.Ctx)
}

func checkBackupsPresent(ctx *cli.Context) error {
	mgr := ctx.BackupManager()
	if mgr == nil {
		return nil
	}
	backups, err := mgr.List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with 'circles backup create'")
	}
	return nil
}

// checkOtherProcesses warns about concurrent circles processes. They share
// the database safely, but each one only sees the others' writes after a
// reload.
func checkOtherProcesses(ctx *cli.Context) error {
	procs, err := processesFunc()
	if err != nil {
		return fmt.Errorf("failed to list processes: %w", err)
	}
	var others []string
	for _, p := range procs {
		if p.Pid() == selfPID() {
			continue
		}
		exe := strings.TrimSuffix(filepath.Base(p.Executable()), ".exe")
		if exe == constants.AppName {
			others = append(others, fmt.Sprintf("%d", p.Pid()))
		}
	}
	if len(others) > 0 {
		hint := ""
		if !ctx.Watch {
			hint = " and file watching is off (CIRCLES_WATCH=false)"
		}
		return fmt.Errorf("%d other circles process(es) running (pid %s)%s", len(others), strings.Join(others, ", "), hint)
	}
	return nil
}

func checkClockTimezone(ctx *cli.Context) error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	if ctx.Location == nil {
		return errors.New("no timezone configured")
	}
	return nil
}

// keyringStatus is informational; the keyring is optional.
func keyringStatus(v keyring.Vault) string {
	if !v.Available() {
		return "unavailable"
	}
	if _, err := v.ConnectionString(); err == nil {
		return "connection string stored"
	}
	return "available, empty"
}
