package cmd

import (
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/manav03panchal/medtrack/internal/config"
	"github.com/manav03panchal/medtrack/internal/errors"
)

// configCmd represents the config command.
var configCmd = &cobra.Command{
	Use:     "config [KEY]",
	Aliases: []string{"cfg", "settings"},
	Short:   "Show the effective configuration",
	Long: `Show the configuration after .env, MEDTRACK_* variables and flags are applied.

Keys:
  database     Database file              (MEDTRACK_DATABASE, --db)
  log-level    debug, info, warn or error (MEDTRACK_LOG_LEVEL, --debug)
  log-json     JSON log output            (MEDTRACK_LOG_JSON)
  watch-spec   Watcher cron spec          (MEDTRACK_WATCH_SPEC)
  summary-at   Daily summary time         (MEDTRACK_SUMMARY_AT)

Examples:
  medtrack config
  medtrack config database`,
	Args: rangeArgs(0, 1),
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return configKeys(), cobra.ShellCompDirectiveNoFileComp
	},
	RunE: runConfigGet,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func configValues(c *config.Config) map[string]string {
	return map[string]string{
		"database":   c.DatabasePath,
		"log-level":  c.LogLevel,
		"log-json":   strconv.FormatBool(c.LogJSON),
		"watch-spec": c.WatchSpec,
		"summary-at": c.SummaryAt,
	}
}

func configKeys() []string {
	values := configValues(config.Default())
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	values := configValues(rt.Config)

	if len(args) == 1 {
		v, ok := values[args[0]]
		if !ok {
			return errors.NewUserErrorWithField("key", args[0], "unknown configuration key",
				"Run 'medtrack config' to see every key.").Because(errors.ErrInvalidConfig)
		}
		if rt.IsJSON() {
			return rt.Formatter.JSON(map[string]string{args[0]: v})
		}
		rt.Formatter.Println(v)
		return nil
	}

	if rt.IsJSON() {
		return rt.Formatter.JSON(values)
	}
	for _, k := range configKeys() {
		v := values[k]
		if v == "" {
			v = "(not set)"
		}
		rt.Formatter.Printf("%-11s %s\n", k, v)
	}
	return nil
}
