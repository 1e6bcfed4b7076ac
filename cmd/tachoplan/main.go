package main

import (
	stderrors "errors"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/julianstephens/tachoplan/internal/cli"
	"github.com/julianstephens/tachoplan/internal/cli/backups"
	"github.com/julianstephens/tachoplan/internal/cli/rests"
	"github.com/julianstephens/tachoplan/internal/cli/settings"
	"github.com/julianstephens/tachoplan/internal/cli/system"
	"github.com/julianstephens/tachoplan/internal/cli/trips"
	"github.com/julianstephens/tachoplan/internal/constants"
	"github.com/julianstephens/tachoplan/internal/errors"
	"github.com/julianstephens/tachoplan/internal/logger"
	"github.com/julianstephens/tachoplan/internal/storage"
	"github.com/julianstephens/tachoplan/internal/storage/postgres"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"SQLite file path, PostgreSQL connection string, or 'keyring'. PostgreSQL connection strings must NOT embed a password; use the environment, .pgpass, or the OS keyring instead." type:"string" default:"${config}" env:"TACHOPLAN_CONFIG"`
	Debug   bool   `help:"Enable debug logging to stderr." env:"TACHOPLAN_DEBUG"`

	Init    system.InitCmd    `cmd:"" help:"Initialize tachoplan storage."`
	Migrate system.MigrateCmd `cmd:"" help:"Run database migrations."`
	Doctor  system.DoctorCmd  `cmd:"" help:"Run health checks and diagnostics."`
	Tui     system.TuiCmd     `cmd:"" help:"Launch the interactive trip planner." default:"1"`
	Serve   system.ServeCmd   `cmd:"" help:"Serve the trip planner over HTTP."`
	Plan    trips.PlanCmd     `cmd:"" help:"Plan a trip and print its schedule."`
	Rests   struct {
		Status rests.StatusCmd `cmd:"" help:"Show reduced rests used this week." default:"1"`
		Reset  rests.ResetCmd  `cmd:"" help:"Clear the reduced rest ledger."`
	} `cmd:"" help:"Manage the weekly reduced rest allowance."`
	Settings settings.SettingsCmd `cmd:"" help:"Manage calculator settings."`
	Backup   struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage database backups."`
	Keyring struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store a PostgreSQL connection string in the OS keyring."`
		Get    system.KeyringGetCmd    `cmd:"" help:"Show the stored connection string with the password masked."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Remove the stored connection string."`
		Status system.KeyringStatusCmd `cmd:"" help:"Report whether the OS keyring is usable." default:"1"`
	} `cmd:"" help:"Manage the PostgreSQL connection string in the OS keyring."`
}

func main() {
	envErr := godotenv.Load()

	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Trip segmentation and ETA planner for road transport driving-time rules"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version": constants.Version,
			"config":  constants.DefaultConfigPath,
		},
	)

	command := ""
	if fields := strings.Fields(ctx.Command()); len(fields) > 0 {
		command = fields[0]
	}

	if err := logger.Init(logger.Config{
		Debug:     CLI.Debug,
		ConfigDir: logDir(CLI.Config),
		JSON:      command == "serve",
		Stderr:    command == "serve",
	}); err != nil {
		errors.Fatal(err)
	}
	if envErr != nil {
		logger.Debug("No .env file loaded", "error", envErr)
	}

	store, err := storage.Open(CLI.Config)
	if err != nil {
		if stderrors.Is(err, postgres.ErrEmbeddedCredentials) {
			err = errors.WithHint(err, "use "+constants.EnvDBConnection+", a .pgpass file, or '"+constants.AppName+" keyring set' with --config keyring")
		}
		errors.Fatal(err)
	}
	defer store.Close()

	// init creates the store and doctor reports on an unreachable one
	if command != "init" && command != "doctor" {
		if err := store.Load(); err != nil {
			errors.Fatal(err)
		}
	}

	appCtx := &cli.Context{Store: store}
	if err := ctx.Run(appCtx); err != nil {
		store.Close()
		errors.Fatal(err)
	}
}

// logDir places logs next to a local database, or under the default
// config directory for remote stores
func logDir(config string) string {
	if storage.IsPostgres(config) || config == storage.KeyringConfig {
		config = constants.DefaultConfigPath
	}
	path, err := storage.ExpandPath(config)
	if err != nil {
		return "."
	}
	return filepath.Dir(path)
}
