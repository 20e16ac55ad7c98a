// Package metrics exposes the outcome of each run as Prometheus metrics,
// written to a node_exporter textfile collector file.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/raoulx24/backup-rotator/internal/retention"
)

const namespace = "backup_rotator"

// Collector holds the per-run metrics. Values describe the last run only.
type Collector struct {
	registry *prometheus.Registry

	files        *prometheus.GaugeVec
	deleteErrors prometheus.Gauge
	warnings     prometheus.Gauge
	mirrorOK     prometheus.Gauge
	lastRun      prometheus.Gauge
	duration     prometheus.Gauge
	runs         *prometheus.CounterVec
}

// NewCollector registers the metrics on registry, or on a fresh registry if nil.
func NewCollector(registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	c := &Collector{
		registry: registry,
		files: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "files",
			Help:      "Backup files per retention decision in the last run.",
		}, []string{"decision"}),
		deleteErrors: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "delete_errors",
			Help:      "Files that could not be removed in the last run.",
		}),
		warnings: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "unparsed_files",
			Help:      "Backup-like files without a parseable timestamp.",
		}),
		mirrorOK: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "mirror_success",
			Help:      "1 if the last mirror step succeeded.",
		}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last run finished.",
		}),
		duration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_duration_seconds",
			Help:      "Wall time of the last run.",
		}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Runs by outcome since the process started.",
		}, []string{"outcome"}),
	}

	registry.MustRegister(c.files, c.deleteErrors, c.warnings, c.mirrorOK, c.lastRun, c.duration, c.runs)
	return c
}

// Registry returns the registry the collector writes to.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// ObserveRun records a finished run. rep is nil when the run failed before
// retention was applied.
func (c *Collector) ObserveRun(rep *retention.Report, mirrorErr error, finished time.Time, took time.Duration) {
	c.lastRun.Set(float64(finished.Unix()))
	c.duration.Set(took.Seconds())

	if mirrorErr != nil {
		c.mirrorOK.Set(0)
	} else {
		c.mirrorOK.Set(1)
	}

	if rep == nil {
		c.runs.WithLabelValues("failed").Inc()
		return
	}

	c.files.WithLabelValues("keep").Set(float64(len(rep.Keep)))
	c.files.WithLabelValues("delete").Set(float64(len(rep.Delete)))
	c.files.WithLabelValues("removed").Set(float64(len(rep.Removed)))
	c.deleteErrors.Set(float64(len(rep.Failures)))
	c.warnings.Set(float64(len(rep.Warnings)))

	if rep.DryRun {
		c.runs.WithLabelValues("dry_run").Inc()
	} else {
		c.runs.WithLabelValues("applied").Inc()
	}
}

// WriteTextfile writes all metrics in the text exposition format. The file
// is replaced atomically so the collector never reads a partial file.
func (c *Collector) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, c.registry)
}
