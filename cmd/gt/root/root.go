package root

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"goaltracker/internal/ui"
)

const Version = "0.3.0"

type rootOptions struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "gt",
		Short:         "GoalTracker: local-first habit and goal tracker",
		Long:          "GoalTracker records daily completions for recurring goals and derives streaks, milestones and analytics.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.Version = Version
	cmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Config file (default <data dir>/config.yaml)")

	cmd.AddCommand(
		newAddCmd(opts),
		newListCmd(opts),
		newDoCmd(opts),
		newEditCmd(opts),
		newRmCmd(opts),
		newPauseCmd(opts),
		newArchiveCmd(opts),
		newStatsCmd(opts),
		newAchievementsCmd(opts),
		newDeadlinesCmd(opts),
		newReportCmd(opts),
		newAnalyticsCmd(opts),
		newBackupCmd(opts),
		newSettingsCmd(opts),
		newProfileCmd(opts),
		newBoardCmd(opts),
		newServeCmd(opts),
		newResetCmd(opts),
	)
	return cmd
}

func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Bad.Render(ui.IconError+" "+err.Error()))
		os.Exit(1)
	}
}
