package docxkit

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts packages built and stripped. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	registry *prometheus.Registry

	packagesBuilt    *prometheus.CounterVec
	partsWritten     prometheus.Counter
	packagesStripped prometheus.Counter
	commentsRemoved  prometheus.Counter
	packageBytes     *prometheus.HistogramVec
	failures         *prometheus.CounterVec
}

// NewMetrics creates the collectors on a private registry
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		packagesBuilt: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "docxkit_packages_built_total",
				Help: "Total number of packages built",
			},
			[]string{"strategy"},
		),
		partsWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "docxkit_parts_written_total",
			Help: "Total number of archive members written by the builder",
		}),
		packagesStripped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "docxkit_packages_stripped_total",
			Help: "Total number of packages run through the comment stripper",
		}),
		commentsRemoved: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "docxkit_comments_removed_total",
			Help: "Total number of XML comments removed from body parts",
		}),
		packageBytes: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "docxkit_package_bytes",
				Help:    "Size of produced archives in bytes",
				Buckets: prometheus.ExponentialBuckets(1024, 4, 8),
			},
			[]string{"operation"},
		),
		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "docxkit_failures_total",
				Help: "Total number of failed operations",
			},
			[]string{"operation"},
		),
	}
	m.registry.MustRegister(
		m.packagesBuilt,
		m.partsWritten,
		m.packagesStripped,
		m.commentsRemoved,
		m.packageBytes,
		m.failures,
	)
	return m
}

// Registry exposes the registry the collectors live on
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// WriteTextfile writes the current values in the node-exporter textfile format
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return NewIOError("write metrics", path, err)
	}
	return nil
}

func (m *Metrics) observeBuild(strategy Strategy, parts, size int) {
	if m == nil {
		return
	}
	m.packagesBuilt.WithLabelValues(string(strategy)).Inc()
	m.partsWritten.Add(float64(parts))
	m.packageBytes.WithLabelValues("build").Observe(float64(size))
}

func (m *Metrics) observeStrip(removed, size int) {
	if m == nil {
		return
	}
	m.packagesStripped.Inc()
	m.commentsRemoved.Add(float64(removed))
	m.packageBytes.WithLabelValues("strip").Observe(float64(size))
}

func (m *Metrics) observeFailure(operation string) {
	if m == nil {
		return
	}
	m.failures.WithLabelValues(operation).Inc()
}
