package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/raoulx24/backup-rotator/internal/config"
	"github.com/raoulx24/backup-rotator/internal/mailbox"
	"github.com/raoulx24/backup-rotator/internal/retention"
	"github.com/raoulx24/backup-rotator/internal/schedule"
	"github.com/raoulx24/backup-rotator/internal/watcher"
	"github.com/raoulx24/backup-rotator/internal/worker"
)

type watchFlags struct {
	mode         string
	pollInterval time.Duration
	debounce     time.Duration
	schedule     string
}

func newWatchCmd(g *globalFlags) *cobra.Command {
	f := &runFlags{}
	wf := &watchFlags{}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Keep running and sync whenever backups change or the schedule fires",
		Long: `Run once at startup, then again whenever a backup file is created or
changed in the source directory (watch mode auto, fsnotify or poll) and/or
whenever the cron schedule fires. Runs never overlap; triggers that arrive
during a run are collapsed into one follow-up run.

Examples:
  backup-rotator watch -s ./backups -d /mnt/archive
  backup-rotator watch -s ./backups -d /mnt/archive --watch-mode off --schedule "0 3 * * *"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, g, f, true)
			if err != nil {
				return err
			}
			if err := applyWatchFlags(cmd, wf, cfg); err != nil {
				return err
			}

			log, err := newLogger(cmd, g, cfg)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			// Mailbox for run jobs
			mb := mailbox.New[worker.Job]()

			w := newWorker(cfg, log, g.verbosity, mb)
			out := cmd.OutOrStdout()
			w.OnReport = func(rep *retention.Report, err error) {
				if rep == nil {
					return
				}
				if werr := writeReport(out, rep, f.output, g.verbosity); werr != nil {
					log.Error("writing report failed", "error", werr)
				}
			}

			// Watcher (detects new backups and pushes into mailbox)
			var watch *watcher.Watcher
			if cfg.Watch.Mode != "off" {
				watch = watcher.New(watcher.Config{
					Dir:            cfg.Source,
					Mode:           cfg.Watch.Mode,
					PollInterval:   cfg.Watch.PollInterval,
					DebounceWindow: cfg.Watch.DebounceWindow,
				}, log, mb)
				log.Info("watching source", "dir", cfg.Source, "mode", watch.Resolve())
			}

			sched := schedule.New(cfg.Watch.Schedule, log, mb)
			if err := sched.Start(ctx); err != nil {
				return err
			}
			defer sched.Stop()

			mb.Put(worker.Job{Reason: "startup", At: time.Now()})

			watchErr := make(chan error, 1)
			if watch != nil {
				go func() {
					if err := watch.Start(ctx); err != nil {
						log.Error("watcher failed", "error", err)
						watchErr <- err
						stop()
					}
				}()
			}

			w.Start(ctx)
			log.Info("shutting down")

			select {
			case err := <-watchErr:
				return err
			default:
				return nil
			}
		},
	}

	f.register(cmd.Flags(), true)
	cmd.Flags().StringVar(&wf.mode, "watch-mode", "", "source watching: auto, fsnotify, poll or off")
	cmd.Flags().DurationVar(&wf.pollInterval, "poll-interval", 0, "interval between source scans in poll mode")
	cmd.Flags().DurationVar(&wf.debounce, "debounce", 0, "quiet period after the last change before a run")
	cmd.Flags().StringVar(&wf.schedule, "schedule", "", `cron schedule for periodic runs, e.g. "0 3 * * *"`)
	return cmd
}

func applyWatchFlags(cmd *cobra.Command, wf *watchFlags, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("watch-mode") {
		cfg.Watch.Mode = wf.mode
	}
	if flags.Changed("poll-interval") {
		cfg.Watch.PollInterval = wf.pollInterval
	}
	if flags.Changed("debounce") {
		cfg.Watch.DebounceWindow = wf.debounce
	}
	if flags.Changed("schedule") {
		cfg.Watch.Schedule = wf.schedule
	}

	if err := cfg.Validate(true); err != nil {
		return err
	}
	if cfg.Watch.Mode == "off" && cfg.Watch.Schedule == "" {
		return &config.ConfigurationError{Field: "watch", Message: "watch mode off requires a schedule"}
	}
	return nil
}
