// Package cmd provides the CLI commands for medtrack.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/manav03panchal/medtrack/internal/config"
	"github.com/manav03panchal/medtrack/internal/errors"
	"github.com/manav03panchal/medtrack/internal/logging"
	"github.com/manav03panchal/medtrack/internal/output"
	"github.com/manav03panchal/medtrack/internal/parser"
	"github.com/manav03panchal/medtrack/internal/runtime"
	"github.com/manav03panchal/medtrack/internal/shell"
)

// Version information (set at build time via ldflags).
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// Global flags.
var (
	flagDB     string
	flagFormat string
	flagColor  string
	flagDebug  bool
)

// rt is the shared runtime context, built before every command that needs
// the database.
var rt *runtime.Context

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "medtrack",
	Short: "Track medications, dosing schedules and reminders",
	Long: `medtrack keeps users, their medications, dosing schedules, reminders and
a permanent dosage history in one SQLite file.

Run without a subcommand to open the interactive menu.

Examples:
  medtrack
  medtrack user add Alice
  medtrack med add 1 Aspirin 100mg
  medtrack remind add 1 "2024-12-25 09:00" "take pill"
  medtrack agenda tomorrow
  medtrack watch`,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeRuntime()
	},
	RunE: runShell,
}

// setup loads configuration, applies flag overrides, starts logging and
// opens the database.
func setup(cmd *cobra.Command, args []string) error {
	switch cmd.Name() {
	case "completion", "help", "version":
		return nil
	}

	format, err := output.ParseFormat(flagFormat)
	if err != nil {
		return err
	}
	colorMode, err := output.ParseColorMode(flagColor)
	if err != nil {
		return err
	}

	cfg := config.Load()
	if flagDB != "" {
		cfg.DatabasePath = flagDB
	}
	if flagDebug {
		cfg.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logCfg := logging.DefaultConfig()
	logCfg.Level = cfg.LogLevel
	logCfg.JSON = cfg.LogJSON
	if flagDebug {
		logCfg = logging.DebugConfig()
	}
	if err := logging.Init(logCfg); err != nil {
		return errors.NewSystemError("failed to start logging", err)
	}
	logging.Debug = flagDebug

	opts := runtime.DefaultOptions()
	opts.Config = cfg
	opts.Format = format
	opts.ColorMode = colorMode
	opts.Writer = cmd.OutOrStdout()

	rt, err = runtime.New(cmd.Context(), opts)
	if err != nil {
		return err
	}
	logging.FromContext(cmd.Context()).Debugw("database opened",
		logging.KeyPath, rt.DB.Path(), "command", cmd.CommandPath())
	return nil
}

func closeRuntime() error {
	if rt == nil {
		return nil
	}
	err := rt.Close()
	rt = nil
	logging.Sync()
	return err
}

// runShell starts the interactive menu.
func runShell(cmd *cobra.Command, args []string) error {
	sh := shell.New(cmd.InOrStdin(), cmd.OutOrStdout(), rt.Formatter, shell.FromRuntime(rt))
	return sh.Run(cmd.Context())
}

// opContext returns a context carrying a fresh request id for one command.
func opContext(cmd *cobra.Command) context.Context {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return logging.NewRequestContext(parent)
}

// argID parses the positional argument at i as a record identifier.
func argID(args []string, i int, field string) (int64, error) {
	return parser.ParseID(field, args[i])
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	err := rootCmd.ExecuteContext(context.Background())
	if cerr := closeRuntime(); err == nil {
		err = cerr
	}
	if err != nil {
		Die(err)
	}
	return nil
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "",
		"Database file (default $XDG_DATA_HOME/medtrack/medicationtracker.db, ':memory:' for none)")
	rootCmd.PersistentFlags().StringVarP(&flagFormat, "format", "f", "cli",
		"Output format: cli, json, plain")
	rootCmd.PersistentFlags().StringVar(&flagColor, "color", "auto",
		"Color output: auto, always, never")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false,
		"Enable debug logging")

	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(versionCmd)
}

// shellCmd is the explicit form of running medtrack without arguments.
var shellCmd = &cobra.Command{
	Use:     "shell",
	Aliases: []string{"menu"},
	Short:   "Open the interactive menu",
	Args:    cobra.NoArgs,
	RunE:    runShell,
}

// versionCmd shows version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("medtrack %s\n", Version)
		cmd.Printf("  commit: %s\n", Commit)
		cmd.Printf("  built: %s\n", BuildTime)
	},
}

// Die prints an error and exits.
func Die(err error) {
	var f *output.Formatter
	if rt != nil {
		f = rt.Formatter
	} else if format, perr := output.ParseFormat(flagFormat); perr == nil {
		f = &output.Formatter{Format: format}
	}
	runtime.ReportError(f, os.Stderr, err)
	os.Exit(1)
}

// exactArgs is cobra.ExactArgs reporting a user error with the usage line.
func exactArgs(n int) cobra.PositionalArgs {
	return rangeArgs(n, n)
}

// rangeArgs is cobra.RangeArgs reporting a user error with the usage line.
func rangeArgs(min, max int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < min || len(args) > max {
			return usageError(cmd)
		}
		return nil
	}
}

func usageError(cmd *cobra.Command) error {
	return errors.NewUserError(fmt.Sprintf("usage: %s", cmd.UseLine()),
		fmt.Sprintf("Run '%s --help' for examples.", cmd.CommandPath()))
}
