package main

import (
	"github.com/spf13/cobra"
)

func newRunCmd(g *globalFlags) *cobra.Command {
	f := &runFlags{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Copy new backups and apply the retention policy once",
		Long: `Copy new backups from the source into the destination, then delete the
destination backups that no retention tier keeps.

If copying fails, nothing is deleted and the command exits non-zero. Files
that cannot be deleted are reported but do not change the exit status.

Examples:
  # Default thresholds (1/7/30 days)
  backup-rotator run -s ./backups -d ~/Dropbox/db-backups

  # Show what would be deleted
  backup-rotator run -s ./backups -d ~/Dropbox/db-backups --dry-run -v

  # Keep all for 2 days, daily for 14 days, weekly for 60 days
  backup-rotator run -s ./backups -d /mnt/archive --keep-all 2 --keep-daily 14 --keep-weekly 60`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, g, f, true)
			if err != nil {
				return err
			}

			log, err := newLogger(cmd, g, cfg)
			if err != nil {
				return err
			}
			log.Info("starting",
				"source", cfg.Source,
				"destination", cfg.Destination,
				"dry_run", cfg.DryRun,
				"keep_all", cfg.Retention.KeepAll,
				"keep_daily", cfg.Retention.KeepDaily,
				"keep_weekly", cfg.Retention.KeepWeekly,
			)

			rep, err := newWorker(cfg, log, g.verbosity, nil).RunOnce(cmd.Context())
			if err != nil {
				return err
			}

			if err := writeReport(cmd.OutOrStdout(), rep, f.output, g.verbosity); err != nil {
				return err
			}
			log.Info("done", "run_id", rep.RunID)
			return nil
		},
	}

	f.register(cmd.Flags(), true)
	return cmd
}
