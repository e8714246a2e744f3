package root

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"goaltracker/internal/analytics"
	"goaltracker/internal/engine"
	"goaltracker/internal/ui"
)

func newStatsCmd(opts *rootOptions) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show dashboard statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			s, cleanup, err := openSession(ctx, opts)
			if err != nil {
				return err
			}
			defer cleanup()

			st := s.svc.GetStats()
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconChart, "Stats"))
			fmt.Fprintln(out, ui.LabelValue("Goals", fmt.Sprintf("%d total, %d active, %d completed", st.TotalGoals, st.ActiveGoals, st.CompletedGoals)))
			fmt.Fprintln(out, ui.LabelValue("Completion rate", fmt.Sprintf("%d%%", st.CompletionRate)))
			fmt.Fprintln(out, ui.LabelValue("Average completion", ui.ProgressBar(st.AverageCompletion, 20)))
			fmt.Fprintln(out, ui.LabelValue("Completed days", st.TotalCompletedDays))
			fmt.Fprintln(out, ui.LabelValue("Longest streak", fmt.Sprintf("%s %d", ui.IconFire, st.LongestStreak)))

			if dist := s.svc.GetCategoryDistribution(); len(dist) > 0 {
				fmt.Fprintln(out)
				fmt.Fprintln(out, ui.H2.Render("Categories"))
				keys := make([]string, 0, len(dist))
				for k := range dist {
					keys = append(keys, k)
				}
				sort.Strings(keys)
				for _, k := range keys {
					fmt.Fprintln(out, "  "+ui.LabelValue(engine.Category(k).Label(), fmt.Sprintf("%d%%", dist[k])))
				}
			}

			fmt.Fprintln(out)
			fmt.Fprintln(out, ui.H2.Render(fmt.Sprintf("Last %d days", days)))
			for _, d := range s.svc.GetCompletionHistory(days) {
				fmt.Fprintf(out, "  %s %s %s\n", d.Day, ui.Muted.Render(d.Date), ui.Good.Render(fmt.Sprint(d.Completions)))
			}

			app, err := s.svc.AppStats(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, ui.LabelValue("Days active", app.DaysActive))
			fmt.Fprintln(out, ui.LabelValue("Storage", fmt.Sprintf("%.1f KB (%.2f%%)", float64(app.Storage.Used)/1024, app.Storage.Percentage)))
			fmt.Fprintln(out, ui.LabelValue("Backups", app.BackupsKept))
			fmt.Fprintln(out, ui.LabelValue("Data version", app.Version))
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 7, "Days of completion history to show")

	return cmd
}

func newAchievementsCmd(opts *rootOptions) *cobra.Command {
	var window string

	cmd := &cobra.Command{
		Use:   "achievements",
		Short: "List recent milestones and streaks",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			s, cleanup, err := openSession(ctx, opts)
			if err != nil {
				return err
			}
			defer cleanup()

			out := cmd.OutOrStdout()
			list := s.svc.GetAchievements(engine.ParseWindow(window))
			fmt.Fprintln(out, ui.Heading(ui.IconTrophy, "Achievements"))
			if len(list) == 0 {
				fmt.Fprintln(out, ui.Muted.Render("Nothing yet. Keep going!"))
				return nil
			}
			for _, a := range list {
				icon := ui.IconTrophy
				if a.Type == engine.AchievementStreak {
					icon = ui.IconFire
				}
				fmt.Fprintf(out, "%s %s %s %s\n", icon, ui.Gold.Render(a.Title), a.Description, ui.Muted.Render(a.Date))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&window, "window", "w", string(engine.WindowWeek), "Time window (week|month|all)")

	return cmd
}

func newDeadlinesCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deadlines",
		Short: "List milestones within a week of completions",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			s, cleanup, err := openSession(ctx, opts)
			if err != nil {
				return err
			}
			defer cleanup()

			out := cmd.OutOrStdout()
			list := s.svc.GetUpcomingDeadlines()
			fmt.Fprintln(out, ui.Heading(ui.IconCalend, "Upcoming"))
			if len(list) == 0 {
				fmt.Fprintln(out, ui.Muted.Render("No milestones within reach."))
				return nil
			}
			for _, d := range list {
				fmt.Fprintf(out, "%s %s: %s, %d to go\n", ui.PriorityText(string(d.Priority)), d.Goal, d.Milestone, d.Remaining)
			}
			return nil
		},
	}

	return cmd
}

func newReportCmd(opts *rootOptions) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write a progress report as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			s, cleanup, err := openSession(ctx, opts)
			if err != nil {
				return err
			}
			defer cleanup()

			report := analytics.New(s.svc).GenerateReport()
			payload, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				return err
			}
			if outPath == "" {
				outPath = analytics.ReportFilename(s.svc.Now())
			}
			if err := os.WriteFile(outPath, payload, 0o600); err != nil {
				return fmt.Errorf("write report: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconChart, "Report for "+report.Generated))
			fmt.Fprintln(out, report.Summary)
			for _, r := range report.Recommendations {
				fmt.Fprintln(out, "  • "+r)
			}
			fmt.Fprintln(out, ui.Muted.Render("Saved to "+outPath))
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Output file (default goaltracker_report_<date>.json)")

	return cmd
}

func newAnalyticsCmd(opts *rootOptions) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "analytics",
		Short: "Show consistency and per-goal completion",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			s, cleanup, err := openSession(ctx, opts)
			if err != nil {
				return err
			}
			defer cleanup()

			eng := analytics.New(s.svc)
			a := eng.OverallAnalytics()
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconChart, "Analytics"))
			fmt.Fprintln(out, ui.LabelValue("Consistency", fmt.Sprintf("%d%%", a.ConsistencyScore)))
			if a.MostProductiveDay != nil {
				fmt.Fprintln(out, ui.LabelValue("Most productive day", fmt.Sprintf("%s (%d)", a.MostProductiveDay.Day, a.MostProductiveDay.Completions)))
			}
			rates := eng.GoalCompletionRates()
			if len(rates) > 0 {
				fmt.Fprintln(out)
				fmt.Fprintln(out, ui.H2.Render("Active goals"))
			}
			for _, r := range rates {
				fmt.Fprintf(out, "  %-24s %s\n", r.Name, ui.ProgressBar(r.Completion, 20))
			}

			if days > 0 {
				fmt.Fprintln(out)
				fmt.Fprintln(out, ui.H2.Render(fmt.Sprintf("Trend, last %d days", days)))
				n := len(s.svc.GetGoals(engine.FilterAll))
				for _, d := range eng.ConsistencyTrend(days) {
					pct := 0
					if n > 0 {
						pct = d.Completions * 100 / n
					}
					fmt.Fprintf(out, "  %s %s %s\n", d.Day, ui.Muted.Render(d.Date), ui.ProgressBar(pct, 14))
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 7, "Days of trend to show, 0 to hide")

	cmd.AddCommand(newAnalyticsExportCmd(opts))
	return cmd
}

func newAnalyticsExportCmd(opts *rootOptions) *cobra.Command {
	var format, outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export analytics as json or csv",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			s, cleanup, err := openSession(ctx, opts)
			if err != nil {
				return err
			}
			defer cleanup()

			payload, err := analytics.New(s.svc).ExportAnalytics(format)
			if err != nil {
				return err
			}
			if outPath == "" || outPath == "-" {
				_, err := cmd.OutOrStdout().Write(payload)
				return err
			}
			if err := os.WriteFile(outPath, payload, 0o600); err != nil {
				return fmt.Errorf("write analytics: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("Saved to "+outPath))
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", analytics.FormatJSON, "Format (json|csv)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "-", "Output file, - for stdout")

	return cmd
}
