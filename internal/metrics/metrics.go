package metrics

import (
	"context"
	"log/slog"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"contentradar/internal/db"
)

var (
	gapDepthDesc = prometheus.NewDesc(
		"contentradar_gap_queue_depth",
		"Number of keywords currently in the gap queue",
		nil,
		nil,
	)
	runsDesc = prometheus.NewDesc(
		"contentradar_pipeline_runs_total",
		"Total pipeline run count by status",
		[]string{"status"},
		nil,
	)
)

// RadarCollector is a custom Prometheus collector that reads gap queue depth
// and pipeline run counts from the database on each scrape.
type RadarCollector struct {
	db *db.DB
}

// Describe sends the metric descriptors to the channel.
func (c *RadarCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- gapDepthDesc
	ch <- runsDesc
}

// Collect queries the database and emits the current gauge values.
func (c *RadarCollector) Collect(ch chan<- prometheus.Metric) {
	ctx := context.Background()

	depth, err := c.db.CountGapKeywords(ctx)
	if err != nil {
		slog.Error("failed to collect gap queue depth", "error", err)
	} else {
		ch <- prometheus.MustNewConstMetric(gapDepthDesc, prometheus.GaugeValue, float64(depth))
	}

	counts, err := c.db.CountRunsByStatus(ctx)
	if err != nil {
		slog.Error("failed to collect pipeline run counts", "error", err)
		return
	}
	for status, count := range counts {
		ch <- prometheus.MustNewConstMetric(runsDesc, prometheus.CounterValue, float64(count), status)
	}
}

var registerOnce sync.Once

// Init registers the custom collector. Must be called once at startup.
func Init(database *db.DB) {
	registerOnce.Do(func() {
		prometheus.MustRegister(&RadarCollector{db: database})
	})
}
