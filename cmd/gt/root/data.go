package root

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"goaltracker/internal/analytics"
	"goaltracker/internal/engine"
	"goaltracker/internal/ui"
)

func newBackupCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Create, list, restore and move data snapshots",
	}
	cmd.AddCommand(
		newBackupCreateCmd(opts),
		newBackupListCmd(opts),
		newBackupRestoreCmd(opts),
		newBackupExportCmd(opts),
		newBackupImportCmd(opts),
		newBackupUsageCmd(opts),
	)
	return cmd
}

func newBackupCreateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "create",
		Short: "Snapshot the current data now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			s, cleanup, err := openSession(ctx, opts)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := s.svc.CreateBackup(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Good.Render(ui.IconBox+" Backup created"))
			return nil
		},
	}
}

func newBackupListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List snapshot dates, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			s, cleanup, err := openSession(ctx, opts)
			if err != nil {
				return err
			}
			defer cleanup()

			dates, err := s.svc.ListBackups(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(dates) == 0 {
				fmt.Fprintln(out, ui.Muted.Render("No backups yet."))
				return nil
			}
			for _, d := range dates {
				fmt.Fprintln(out, ui.IconBox+" "+d)
			}
			return nil
		},
	}
}

func newBackupRestoreCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "restore <YYYY-MM-DD>",
		Short: "Replace current data with a snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			s, cleanup, err := openSession(ctx, opts)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := s.svc.RestoreBackup(ctx, args[0]); err != nil {
				return err
			}
			n := len(s.svc.GetGoals(engine.FilterAll))
			fmt.Fprintln(cmd.OutOrStdout(), ui.Good.Render(fmt.Sprintf("%s Restored %s (%d goals)", ui.IconDone, args[0], n)))
			return nil
		},
	}
}

func newBackupExportCmd(opts *rootOptions) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write all data as a JSON document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			s, cleanup, err := openSession(ctx, opts)
			if err != nil {
				return err
			}
			defer cleanup()

			payload, err := s.svc.ExportSnapshot(ctx)
			if err != nil {
				return err
			}
			if outPath == "-" {
				_, err := cmd.OutOrStdout().Write(payload)
				return err
			}
			if outPath == "" {
				outPath = analytics.BackupFilename(s.svc.Now())
			}
			if err := os.WriteFile(outPath, payload, 0o600); err != nil {
				return fmt.Errorf("write export: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("Exported to "+outPath))
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Output file (default goaltracker_backup_<date>.json), - for stdout")

	return cmd
}

func newBackupImportCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace current data with an exported document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var payload []byte
			var err error
			if args[0] == "-" {
				payload, err = io.ReadAll(cmd.InOrStdin())
			} else {
				payload, err = os.ReadFile(args[0])
			}
			if err != nil {
				return fmt.Errorf("read import: %w", err)
			}

			ctx := context.Background()
			s, cleanup, err := openSession(ctx, opts)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := s.svc.ImportSnapshot(ctx, payload); err != nil {
				return err
			}
			n := len(s.svc.GetGoals(engine.FilterAll))
			fmt.Fprintln(cmd.OutOrStdout(), ui.Good.Render(fmt.Sprintf("%s Imported %d goals", ui.IconDone, n)))
			return nil
		},
	}
}

func newBackupUsageCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "usage",
		Short: "Show how much of the storage quota the data uses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			s, cleanup, err := openSession(ctx, opts)
			if err != nil {
				return err
			}
			defer cleanup()

			u, err := s.svc.StorageUsage(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.LabelValue("Used", fmt.Sprintf("%d bytes", u.Used)))
			fmt.Fprintln(out, ui.LabelValue("Quota", fmt.Sprintf("%d bytes", u.Max)))
			fmt.Fprintln(out, ui.LabelValue("Percentage", fmt.Sprintf("%.2f%%", u.Percentage)))
			return nil
		},
	}
}

func newResetCmd(opts *rootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete all goals, profile and settings (snapshots are kept)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("refusing to reset without --yes")
			}
			ctx := context.Background()
			s, cleanup, err := openSession(ctx, opts)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := s.svc.Reset(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Warn.Render(ui.IconWarn+" All data cleared"))
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm the reset")

	return cmd
}
