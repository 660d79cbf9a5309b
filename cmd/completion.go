package cmd

import (
	"context"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/manav03panchal/medtrack/internal/config"
	"github.com/manav03panchal/medtrack/internal/runtime"
)

// completionCmd represents the completion command.
var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish]",
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for medtrack.

To load completions:

Bash:
  $ source <(medtrack completion bash)

  # To load completions for each session, execute once:
  $ medtrack completion bash > /etc/bash_completion.d/medtrack

Zsh:
  $ medtrack completion zsh > "${fpath[1]}/_medtrack"

Fish:
  $ medtrack completion fish > ~/.config/fish/completions/medtrack.fish
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(os.Stdout)
		case "zsh":
			return rootCmd.GenZshCompletion(os.Stdout)
		case "fish":
			return rootCmd.GenFishCompletion(os.Stdout, true)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)
}

// completionRuntime returns the shared runtime, opening one from the
// environment and --db when completion runs before setup.
func completionRuntime() (*runtime.Context, func(), bool) {
	if rt != nil {
		return rt, func() {}, true
	}
	opts := runtime.DefaultOptions()
	opts.Config = config.Load()
	if flagDB != "" {
		opts.Config.DatabasePath = flagDB
	}
	c, err := runtime.New(context.Background(), opts)
	if err != nil {
		return nil, nil, false
	}
	return c, func() { c.Close() }, true
}

// completeUserIDs suggests user IDs annotated with names.
func completeUserIDs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) != 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	c, done, ok := completionRuntime()
	if !ok {
		return nil, cobra.ShellCompDirectiveError
	}
	defer done()

	users, err := c.UserRepo.List(context.Background())
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}

	var suggestions []string
	for _, u := range users {
		id := strconv.FormatInt(u.ID, 10)
		if strings.HasPrefix(id, toComplete) {
			suggestions = append(suggestions, id+"\t"+u.Name)
		}
	}
	return suggestions, cobra.ShellCompDirectiveNoFileComp
}

// completeMedicationIDs suggests medication IDs annotated with name and
// dosage.
func completeMedicationIDs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) != 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	c, done, ok := completionRuntime()
	if !ok {
		return nil, cobra.ShellCompDirectiveError
	}
	defer done()

	meds, err := c.MedicationRepo.List(context.Background())
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}

	var suggestions []string
	for _, m := range meds {
		id := strconv.FormatInt(m.ID, 10)
		if strings.HasPrefix(id, toComplete) {
			suggestions = append(suggestions, strings.TrimSpace(id+"\t"+m.Name+" "+m.Dosage))
		}
	}
	return suggestions, cobra.ShellCompDirectiveNoFileComp
}

// completeDays suggests common day expressions.
func completeDays(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	days := []string{
		"today\tthis day",
		"tomorrow\tthe next day",
		"yesterday\tthe previous day",
		"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
	}
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	var filtered []string
	for _, d := range days {
		if strings.HasPrefix(strings.Split(d, "\t")[0], toComplete) {
			filtered = append(filtered, d)
		}
	}
	return filtered, cobra.ShellCompDirectiveNoFileComp
}
