package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/raoulx24/backup-rotator/internal/config"
	"github.com/raoulx24/backup-rotator/internal/logging"
	"github.com/raoulx24/backup-rotator/internal/mailbox"
	"github.com/raoulx24/backup-rotator/internal/metrics"
	"github.com/raoulx24/backup-rotator/internal/mirror"
	"github.com/raoulx24/backup-rotator/internal/retention"
	"github.com/raoulx24/backup-rotator/internal/worker"
)

// runFlags override values from the config file when set explicitly.
type runFlags struct {
	source      string
	destination string
	dryRun      bool
	keepAll     int
	keepDaily   int
	keepWeekly  int
	mirror      string
	rsyncPath   string
	timezone    string
	metricsFile string
	output      string
}

func (f *runFlags) register(fs *pflag.FlagSet, withSource bool) {
	if withSource {
		fs.StringVarP(&f.source, "source", "s", "", "source backup directory to sync from")
		fs.StringVar(&f.mirror, "mirror", "", "mirror method (native, rsync)")
		fs.StringVar(&f.rsyncPath, "rsync-path", "", "rsync binary for --mirror rsync")
		fs.StringVar(&f.metricsFile, "metrics-file", "", "write Prometheus metrics to this textfile after each run")
	}
	fs.StringVarP(&f.destination, "destination", "d", "", "destination directory for backups")
	fs.BoolVarP(&f.dryRun, "dry-run", "n", false, "show what would be deleted without deleting files")
	fs.IntVar(&f.keepAll, "keep-all", 1, "keep all files newer than this many days")
	fs.IntVar(&f.keepDaily, "keep-daily", 7, "keep 1 per day for files newer than this many days")
	fs.IntVar(&f.keepWeekly, "keep-weekly", 30, "keep 1 per week for files newer than this many days")
	fs.StringVar(&f.timezone, "timezone", "", "time zone of file name timestamps (default local)")
	fs.StringVarP(&f.output, "output", "o", "text", "report format (text, json)")
}

// loadConfig builds the effective configuration: defaults, then the config
// file, then explicitly set flags. It validates before returning, so no
// command touches the filesystem with an invalid configuration.
func loadConfig(cmd *cobra.Command, g *globalFlags, f *runFlags, needSource bool) (*config.Config, error) {
	cfg := config.Default()
	if g.cfgFile != "" {
		loaded, err := config.Load(g.cfgFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("source") {
		cfg.Source = f.source
	}
	if flags.Changed("destination") {
		cfg.Destination = f.destination
	}
	if flags.Changed("dry-run") {
		cfg.DryRun = f.dryRun
	}
	if flags.Changed("keep-all") {
		cfg.Retention.KeepAll = f.keepAll
	}
	if flags.Changed("keep-daily") {
		cfg.Retention.KeepDaily = f.keepDaily
	}
	if flags.Changed("keep-weekly") {
		cfg.Retention.KeepWeekly = f.keepWeekly
	}
	if flags.Changed("mirror") {
		cfg.Mirror.Method = f.mirror
	}
	if flags.Changed("rsync-path") {
		cfg.Mirror.RsyncPath = f.rsyncPath
	}
	if flags.Changed("timezone") {
		cfg.Timezone = f.timezone
	}
	if flags.Changed("metrics-file") {
		cfg.Metrics.Textfile = f.metricsFile
	}
	if g.logFormat != "" {
		cfg.Logging.Format = g.logFormat
	}

	switch f.output {
	case "text", "json":
	default:
		return nil, &config.ConfigurationError{Field: "output", Message: fmt.Sprintf("unknown format %q", f.output)}
	}

	if err := cfg.Validate(needSource); err != nil {
		return nil, err
	}
	if needSource {
		if err := cfg.CheckSource(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func newLogger(cmd *cobra.Command, g *globalFlags, cfg *config.Config) (*slog.Logger, error) {
	return logging.New(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Verbosity: g.verbosity,
		Writer:    cmd.ErrOrStderr(),
	})
}

func newEngine(cfg *config.Config, log logging.Logger) *retention.Engine {
	// Validate already rejected unknown zones
	loc, _ := cfg.Location()
	return retention.New(cfg.Thresholds(), log, nil).WithLocation(loc)
}

func newWorker(cfg *config.Config, log logging.Logger, verbosity int, mb *mailbox.Mailbox[worker.Job]) *worker.Worker {
	var m mirror.Mirror
	switch cfg.Mirror.Method {
	case mirror.MethodRsync:
		m = mirror.NewRsync(cfg.Mirror.RsyncPath, verbosity, log, nil)
	default:
		m = mirror.NewNative(log, nil)
	}

	w := worker.New(worker.Options{
		Source:      cfg.Source,
		Destination: cfg.Destination,
		DryRun:      cfg.DryRun,
		MetricsFile: cfg.Metrics.Textfile,
	}, log, m, newEngine(cfg, log), mb)

	if cfg.Metrics.Textfile != "" {
		w.WithMetrics(metrics.NewCollector(nil))
	}
	return w
}

func writeReport(w io.Writer, rep *retention.Report, format string, verbosity int) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	}
	return rep.WriteText(w, verbosity)
}
