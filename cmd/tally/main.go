package main

import (
	"os"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/tally/internal/cli"
	"github.com/julianstephens/tally/internal/cli/backups"
	"github.com/julianstephens/tally/internal/cli/habits"
	"github.com/julianstephens/tally/internal/cli/profile"
	"github.com/julianstephens/tally/internal/cli/progress"
	"github.com/julianstephens/tally/internal/cli/reminders"
	"github.com/julianstephens/tally/internal/cli/system"
	"github.com/julianstephens/tally/internal/cli/timers"
	"github.com/julianstephens/tally/internal/clock"
	"github.com/julianstephens/tally/internal/config"
	"github.com/julianstephens/tally/internal/constants"
	apperrors "github.com/julianstephens/tally/internal/errors"
	"github.com/julianstephens/tally/internal/logger"
	"github.com/julianstephens/tally/internal/storage"
)

var CLI struct {
	Version  kong.VersionFlag
	Config   string `help:"Database path, .json settings path, or PostgreSQL connection string. Use 'keyring' to read the connection string from the OS keyring. Credentials must NOT be embedded in a connection string given here." type:"string" default:"~/.config/tally/tally.db"`
	Debug    bool   `help:"Write debug logs to stderr."`
	Timezone string `help:"IANA timezone used for day boundaries." default:"Local"`

	Init         system.InitCmd           `cmd:"" help:"Initialize tally storage."`
	Today        progress.TodayCmd        `cmd:"" help:"Show today's progress." default:"1"`
	Done         habits.DoneCmd           `cmd:"" help:"Record a habit as done."`
	Undone       habits.UndoneCmd         `cmd:"" help:"Remove a habit's most recent completion."`
	Undo         habits.UndoCmd           `cmd:"" help:"Restore the last removed completion."`
	Habit        habits.HabitCmd          `cmd:"" help:"Manage habit templates."`
	History      progress.HistoryCmd      `cmd:"" help:"Show completions grouped by day."`
	Insights     progress.InsightsCmd     `cmd:"" help:"Show streaks, trends and totals."`
	Achievements progress.AchievementsCmd `cmd:"" help:"Show achievements and gems."`
	Target       progress.TargetCmd       `cmd:"" help:"Show or set the daily point target."`
	Timer        timers.TimerCmd          `cmd:"" help:"Time a habit session."`
	Profile      profile.ProfileCmd       `cmd:"" help:"Show or register your profile."`
	Remind       reminders.RemindCmd      `cmd:"" help:"Manage daily habit reminders."`
	Backup       struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage database backups."`
	Keyring system.KeyringCmd `cmd:"" help:"Manage the PostgreSQL connection string in the OS keyring."`
	Notify  system.NotifyCmd  `cmd:"" hidden:"" help:"Send a notification (used internally)."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Habit tracker with points, streaks and achievements"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	configDir := config.ConfigDir(CLI.Config)
	if err := config.LoadEnv(configDir); err != nil {
		apperrors.Fatal(err)
	}
	debug := CLI.Debug || os.Getenv(constants.EnvDebug) != ""
	if err := logger.Init(logger.Config{Debug: debug, ConfigDir: configDir}); err != nil {
		apperrors.Fatal(err)
	}

	source, err := config.ResolveStore(CLI.Config)
	if err != nil {
		apperrors.Fatal(err)
	}
	location := source.Value
	kind := storage.Detect(location)
	if kind != storage.KindPostgres {
		location = config.ExpandHome(location)
	}
	store, err := storage.Open(location, source.Secret)
	if err != nil {
		apperrors.Fatal(err)
	}
	defer store.Close()

	c, err := clock.New(CLI.Timezone)
	if err != nil {
		apperrors.Fatal(err)
	}

	logger.Debug("Starting", "command", ctx.Command(), "backend", kind)
	err = ctx.Run(&cli.Context{
		Store:     store,
		Kind:      kind,
		Clock:     c,
		ConfigDir: configDir,
	})
	if err != nil {
		store.Close()
		apperrors.Fatal(err)
	}
}
