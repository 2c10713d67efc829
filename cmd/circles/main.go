package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/alecthomas/kong"

	appcli "github.com/julianstephens/circles/internal/cli"
	"github.com/julianstephens/circles/internal/cli/backups"
	"github.com/julianstephens/circles/internal/cli/behaviors"
	"github.com/julianstephens/circles/internal/cli/events"
	"github.com/julianstephens/circles/internal/cli/settings"
	"github.com/julianstephens/circles/internal/cli/stats"
	"github.com/julianstephens/circles/internal/cli/system"
	"github.com/julianstephens/circles/internal/config"
	"github.com/julianstephens/circles/internal/constants"
	cerrors "github.com/julianstephens/circles/internal/errors"
	"github.com/julianstephens/circles/internal/keyring"
	"github.com/julianstephens/circles/internal/logger"
	"github.com/julianstephens/circles/internal/utils"
)

type CLI struct {
	Version  kong.VersionFlag
	Config   string `help:"Database path, PostgreSQL connection string, ':memory:' or 'keyring'. PostgreSQL credentials must NOT be embedded here; use the OS keyring, CIRCLES_DB_CONNECTION or .pgpass instead." default:"${config}"`
	Debug    bool   `help:"Log debug output to stderr." default:"${debug}"`
	Timezone string `help:"IANA timezone used for calendar days." default:"${timezone}"`
	Watch    bool   `help:"Reload when another process changes the database." default:"${watch}" negatable:""`

	Init     system.InitCmd        `cmd:"" help:"Initialize circles storage."`
	Tui      system.TuiCmd         `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Doctor   system.DoctorCmd      `cmd:"" help:"Run health checks and diagnostics."`
	Copy     system.CopyCmd        `cmd:"" help:"Copy all data to another backend."`
	Behavior behaviors.BehaviorCmd `cmd:"" help:"Manage behaviors in your circles."`
	Log      events.LogCmd         `cmd:"" help:"Log an occurrence of a behavior."`
	Events   events.EventsCmd      `cmd:"" help:"Show or delete logged events."`
	Today    stats.TodayCmd        `cmd:"" help:"Show today's summary."`
	Stats    stats.StatsCmd        `cmd:"" help:"Show event counts over recent days."`
	Prefs    settings.PrefsCmd     `cmd:"" help:"Show or change preferences."`
	Onboard  settings.OnboardCmd   `cmd:"" help:"Set up your circles."`
	Backup   struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage database backups."`
	Keyring struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store a PostgreSQL connection string in the OS keyring."`
		Show   system.KeyringShowCmd   `cmd:"" help:"Show the stored connection string with the password masked."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Remove the stored connection string."`
		Status system.KeyringStatusCmd `cmd:"" help:"Check OS keyring availability." default:"1"`
	} `cmd:"" help:"Manage the PostgreSQL connection string in the OS keyring."`
}

func main() {
	env, err := config.ParseEnv()
	if err != nil {
		cerrors.Fatal(err)
	}
	cerrors.Fatal(run(os.Args[1:], env, os.Stdout))
}

// run parses args and executes the selected command against a freshly
// resolved backend.
func run(args []string, env config.Env, out io.Writer) error {
	defaultConfig := env.Config
	if defaultConfig == "" {
		defaultConfig = constants.DefaultConfigPath
	}

	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name(constants.AppName),
		kong.Description("Track inner, middle and outer circle behaviors"),
		kong.UsageOnError(),
		kong.Writers(out, os.Stderr),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":  constants.Version,
			"config":   defaultConfig,
			"debug":    strconv.FormatBool(env.Debug),
			"timezone": env.Timezone,
			"watch":    strconv.FormatBool(env.Watch),
		},
	)
	if err != nil {
		return err
	}
	kctx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	configDir, err := config.ConfigDir(cli.Config)
	if err != nil {
		return err
	}
	if err := logger.Init(logger.Config{Debug: cli.Debug, ConfigDir: configDir}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}

	loc, err := utils.LoadLocation(cli.Timezone)
	if err != nil {
		return err
	}

	backend, err := appcli.ResolveBackend(cli.Config, env.DBConnection, keyring.Default)
	if err != nil {
		return err
	}
	defer func() {
		if err := backend.Close(); err != nil {
			logger.Warn("Failed to close storage", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appCtx := appcli.NewContext(ctx, backend, loc)
	appCtx.Out = out
	appCtx.Watch = cli.Watch

	logger.Debug("Starting command", "command", kctx.Command(), "backend", backend.GetConfigPath())
	return kctx.Run(appCtx)
}
