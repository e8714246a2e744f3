package root

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"goaltracker/internal/engine"
	"goaltracker/internal/storage"
	"goaltracker/internal/ui"
)

func newAddCmd(opts *rootOptions) *cobra.Command {
	var desc, category, priority, target string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a goal",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("name is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			s, cleanup, err := openSession(ctx, opts)
			if err != nil {
				return err
			}
			defer cleanup()

			g, err := s.svc.CreateGoal(ctx, engine.GoalInput{
				Name:        args[0],
				Description: desc,
				Category:    category,
				Priority:    priority,
				Target:      engine.ParseTarget(target),
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconPlus, "Goal created"))
			fmt.Fprintln(out, ui.LabelValue("ID", string(g.ID)))
			fmt.Fprintln(out, ui.LabelValue("Name", g.Name))
			fmt.Fprintln(out, ui.LabelValue("Target", fmt.Sprintf("%d days", g.Target)))
			names := make([]string, 0, len(g.Milestones))
			for _, m := range g.Milestones {
				names = append(names, fmt.Sprintf("%s (%d)", m.Name, m.Target))
			}
			fmt.Fprintln(out, ui.LabelValue("Milestones", strings.Join(names, ", ")))
			return nil
		},
	}

	cmd.Flags().StringVarP(&desc, "desc", "d", "", "Description")
	cmd.Flags().StringVarP(&category, "category", "c", string(engine.CategoryHealth), "Category (health|learning|productivity|mindfulness|finance|career)")
	cmd.Flags().StringVarP(&priority, "priority", "p", string(engine.DefaultPriority), "Priority (low|medium|high)")
	cmd.Flags().StringVarP(&target, "target", "t", "", "Target completions (default 3)")

	return cmd
}

func newListCmd(opts *rootOptions) *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List goals with progress and this week's check-ins",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			s, cleanup, err := openSession(ctx, opts)
			if err != nil {
				return err
			}
			defer cleanup()

			out := cmd.OutOrStdout()
			if s.welcome {
				fmt.Fprintln(out, ui.Gold.Render(ui.IconSparkle+" Welcome back, "+s.svc.Profile().Name+"!"))
			}

			goals := s.svc.GetGoals(engine.ParseFilter(filter))
			if len(goals) == 0 {
				fmt.Fprintln(out, ui.Muted.Render("No goals yet. Add one with: gt add <name>"))
				return nil
			}
			fmt.Fprintln(out, ui.Heading(ui.IconGoal, "Goals"))
			for _, g := range goals {
				printGoal(out, s.svc, g)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&filter, "filter", "f", string(engine.FilterAll), "Filter (all|active|completed|archived)")

	return cmd
}

func printGoal(out io.Writer, svc *engine.Service, g *storage.Goal) {
	fmt.Fprintf(out, "%s %s %s  %s · %s\n",
		ui.StatusIcon(g.Status),
		ui.H2.Render(g.Name),
		ui.Muted.Render("["+shortID(g.ID)+"]"),
		engine.Category(g.Category).Label(),
		ui.PriorityText(g.Priority),
	)
	if g.Description != "" {
		fmt.Fprintln(out, "   "+ui.Dim.Render(g.Description))
	}

	var cells []string
	for _, d := range svc.GetWeekDays(g) {
		cells = append(cells, ui.DayCell(d.Label, d.Completed, d.Today, d.Future))
	}
	fmt.Fprintf(out, "   %s  %s %d  %s\n",
		ui.ProgressBar(engine.CalculateCompletion(g), 20),
		ui.IconFire, g.Streak,
		strings.Join(cells, " "),
	)
}

func newDoCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "do <id> [date]",
		Short: "Toggle a day's completion (default today)",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 || len(args) > 2 {
				return errors.New("usage: gt do <id> [YYYY-MM-DD]")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			s, cleanup, err := openSession(ctx, opts)
			if err != nil {
				return err
			}
			defer cleanup()

			id, err := resolveGoalID(s.svc, args[0])
			if err != nil {
				return err
			}
			date := engine.FormatDate(s.svc.Now())
			if len(args) == 2 {
				date = args[1]
			}

			res, err := s.svc.ToggleDayCompletion(ctx, id, date)
			if err != nil {
				return err
			}
			if res == nil {
				return fmt.Errorf("goal %s not found", id)
			}

			out := cmd.OutOrStdout()
			if res.Completed {
				fmt.Fprintln(out, ui.Good.Render(ui.IconDone+" "+res.Goal.Name+" done for "+date))
			} else {
				fmt.Fprintln(out, ui.Warn.Render(ui.IconInfo+" "+res.Goal.Name+" unmarked for "+date))
			}
			fmt.Fprintln(out, ui.LabelValue("Streak", fmt.Sprintf("%s %d", ui.IconFire, res.Goal.Streak)))
			fmt.Fprintln(out, ui.LabelValue("Progress", ui.ProgressBar(engine.CalculateCompletion(res.Goal), 20)))
			for _, m := range res.NewMilestones {
				fmt.Fprintln(out, ui.BadgeMilestone+" "+ui.Gold.Render(ui.IconTrophy+" "+m.Name))
			}
			return nil
		},
	}

	return cmd
}

func newEditCmd(opts *rootOptions) *cobra.Command {
	var name, desc, category, priority, target, status string

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a goal's fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch engine.GoalPatch
			flags := cmd.Flags()
			if flags.Changed("name") {
				patch.Name = &name
			}
			if flags.Changed("desc") {
				patch.Description = &desc
			}
			if flags.Changed("category") {
				c := string(engine.ParseCategory(category))
				patch.Category = &c
			}
			if flags.Changed("priority") {
				p := strings.ToLower(strings.TrimSpace(priority))
				patch.Priority = &p
			}
			if flags.Changed("target") {
				n := engine.ParseTarget(target)
				if n == nil {
					return engine.ValidationError{Field: "target", Reason: "must be a number"}
				}
				patch.Target = n
			}
			if flags.Changed("status") {
				patch.Status = &status
			}

			ctx := context.Background()
			s, cleanup, err := openSession(ctx, opts)
			if err != nil {
				return err
			}
			defer cleanup()

			id, err := resolveGoalID(s.svc, args[0])
			if err != nil {
				return err
			}
			g, err := s.svc.UpdateGoal(ctx, id, patch)
			if err != nil {
				return err
			}
			if g == nil {
				return fmt.Errorf("goal %s not found", id)
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Good.Render(ui.IconDone+" Updated "+g.Name))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().StringVarP(&desc, "desc", "d", "", "New description")
	cmd.Flags().StringVarP(&category, "category", "c", "", "New category")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "New priority (low|medium|high)")
	cmd.Flags().StringVarP(&target, "target", "t", "", "New target")
	cmd.Flags().StringVar(&status, "status", "", "New status (active|completed|paused|archived)")

	return cmd
}

func newRmCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a goal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			s, cleanup, err := openSession(ctx, opts)
			if err != nil {
				return err
			}
			defer cleanup()

			id, err := resolveGoalID(s.svc, args[0])
			if err != nil {
				return err
			}
			ok, err := s.svc.DeleteGoal(ctx, id)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("goal %s not found", id)
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("Deleted goal "+id))
			return nil
		},
	}

	return cmd
}

func newPauseCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pause <id>",
		Short: "Pause an active goal, or resume a paused one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			s, cleanup, err := openSession(ctx, opts)
			if err != nil {
				return err
			}
			defer cleanup()

			id, err := resolveGoalID(s.svc, args[0])
			if err != nil {
				return err
			}
			g, err := s.svc.ToggleGoalStatus(ctx, id)
			if err != nil {
				return err
			}
			if g == nil {
				return fmt.Errorf("goal %s not found", id)
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.StatusIcon(g.Status)+" "+g.Name+" is now "+ui.StatusText(g.Status))
			return nil
		},
	}

	return cmd
}

func newArchiveCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "archive <id>",
		Short: "Archive a goal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			s, cleanup, err := openSession(ctx, opts)
			if err != nil {
				return err
			}
			defer cleanup()

			id, err := resolveGoalID(s.svc, args[0])
			if err != nil {
				return err
			}
			g, err := s.svc.ArchiveGoal(ctx, id)
			if err != nil {
				return err
			}
			if g == nil {
				return fmt.Errorf("goal %s not found", id)
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.IconBox+" Archived "+g.Name)
			return nil
		},
	}

	return cmd
}
