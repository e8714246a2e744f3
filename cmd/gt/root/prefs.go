package root

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"goaltracker/internal/engine"
	"goaltracker/internal/storage"
	"goaltracker/internal/ui"
)

func newSettingsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change preferences",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			s, cleanup, err := openSession(ctx, opts)
			if err != nil {
				return err
			}
			defer cleanup()

			printSettings(cmd.OutOrStdout(), s.svc.Settings())
			return nil
		},
	}
	cmd.AddCommand(newSettingsSetCmd(opts), newSettingsResetCmd(opts))
	return cmd
}

func printSettings(out io.Writer, st storage.Settings) {
	fmt.Fprintln(out, ui.Heading(ui.IconInfo, "Settings"))
	fmt.Fprintln(out, ui.LabelValue("Theme", st.Theme))
	fmt.Fprintln(out, ui.LabelValue("Week starts on", st.WeekStartsOn))
	fmt.Fprintln(out, ui.LabelValue("Notifications", fmt.Sprintf("%t at %s", st.Notifications, st.NotificationTime)))
	fmt.Fprintln(out, ui.LabelValue("Auto save", st.AutoSave))
	fmt.Fprintln(out, ui.LabelValue("Backup frequency", st.BackupFrequency))
	fmt.Fprintln(out, ui.LabelValue("Default view", st.DefaultView))
	fmt.Fprintln(out, ui.LabelValue("Timezone", st.Timezone))
}

func newSettingsSetCmd(opts *rootOptions) *cobra.Command {
	var theme, weekStart, notifyAt, backupFreq, view, tz string
	var notify, autoSave bool

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change one or more preferences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch engine.SettingsPatch
			flags := cmd.Flags()
			if flags.Changed("theme") {
				patch.Theme = &theme
			}
			if flags.Changed("week-starts-on") {
				patch.WeekStartsOn = &weekStart
			}
			if flags.Changed("notifications") {
				patch.Notifications = &notify
			}
			if flags.Changed("notification-time") {
				patch.NotificationTime = &notifyAt
			}
			if flags.Changed("auto-save") {
				patch.AutoSave = &autoSave
			}
			if flags.Changed("backup-frequency") {
				patch.BackupFrequency = &backupFreq
			}
			if flags.Changed("default-view") {
				patch.DefaultView = &view
			}
			if flags.Changed("timezone") {
				patch.Timezone = &tz
			}

			ctx := context.Background()
			s, cleanup, err := openSession(ctx, opts)
			if err != nil {
				return err
			}
			defer cleanup()

			st, err := s.svc.UpdateSettings(ctx, patch)
			if err != nil {
				return err
			}
			printSettings(cmd.OutOrStdout(), st)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&theme, "theme", "", "dark|light|auto")
	f.StringVar(&weekStart, "week-starts-on", "", "First day of the week (monday..sunday)")
	f.BoolVar(&notify, "notifications", true, "Enable reminders")
	f.StringVar(&notifyAt, "notification-time", "", "Reminder time (HH:MM)")
	f.BoolVar(&autoSave, "auto-save", true, "Save after every change")
	f.StringVar(&backupFreq, "backup-frequency", "", "daily|weekly|monthly")
	f.StringVar(&view, "default-view", "", "dashboard|goals|analytics|achievements")
	f.StringVar(&tz, "timezone", "", "IANA timezone name")

	return cmd
}

func newSettingsResetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Restore default preferences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			s, cleanup, err := openSession(ctx, opts)
			if err != nil {
				return err
			}
			defer cleanup()

			st, err := s.svc.ResetSettings(ctx)
			if err != nil {
				return err
			}
			printSettings(cmd.OutOrStdout(), st)
			return nil
		},
	}
}

func newProfileCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or change the user profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			s, cleanup, err := openSession(ctx, opts)
			if err != nil {
				return err
			}
			defer cleanup()

			printProfile(cmd.OutOrStdout(), s.svc.Profile(), s.svc.DaysActive())
			return nil
		},
	}
	cmd.AddCommand(newProfileSetCmd(opts))
	return cmd
}

func printProfile(out io.Writer, u storage.User, daysActive int) {
	fmt.Fprintln(out, ui.Heading(ui.IconUser, u.Name+" ("+u.Avatar+")"))
	fmt.Fprintln(out, ui.LabelValue("Email", u.Email))
	fmt.Fprintln(out, ui.LabelValue("Role", u.Role))
	for _, kv := range [][2]string{{"Bio", u.Bio}, {"Location", u.Location}, {"Phone", u.Phone}, {"Timezone", u.Timezone}} {
		if kv[1] != "" {
			fmt.Fprintln(out, ui.LabelValue(kv[0], kv[1]))
		}
	}
	fmt.Fprintln(out, ui.LabelValue("Days active", daysActive))
}

func newProfileSetCmd(opts *rootOptions) *cobra.Command {
	var in engine.ProfileInput

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update profile fields; omitted fields keep their value",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			s, cleanup, err := openSession(ctx, opts)
			if err != nil {
				return err
			}
			defer cleanup()

			cur := s.svc.Profile()
			flags := cmd.Flags()
			keep := func(flag string, dst *string, current string) {
				if !flags.Changed(flag) {
					*dst = current
				}
			}
			keep("name", &in.Name, cur.Name)
			keep("email", &in.Email, cur.Email)
			keep("role", &in.Role, cur.Role)
			keep("bio", &in.Bio, cur.Bio)
			keep("location", &in.Location, cur.Location)
			keep("phone", &in.Phone, cur.Phone)
			keep("timezone", &in.Timezone, cur.Timezone)

			u, err := s.svc.UpdateProfile(ctx, in)
			if err != nil {
				return err
			}
			printProfile(cmd.OutOrStdout(), u, s.svc.DaysActive())
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&in.Name, "name", "", "Display name")
	f.StringVar(&in.Email, "email", "", "Email address")
	f.StringVar(&in.Role, "role", "", "Role")
	f.StringVar(&in.Bio, "bio", "", "Short bio")
	f.StringVar(&in.Location, "location", "", "Location")
	f.StringVar(&in.Phone, "phone", "", "Phone number")
	f.StringVar(&in.Timezone, "timezone", "", "IANA timezone name")

	return cmd
}
