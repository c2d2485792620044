package metrics

import (
	"context"
	"log/slog"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"splitpath/internal/db"
)

var (
	eventsDesc = prometheus.NewDesc(
		"splitpath_events_total",
		"Total recorded events by experiment and kind",
		[]string{"experiment", "kind"},
		nil,
	)

	assignmentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "splitpath_assignments_total",
			Help: "Total variant assignments served by visitor type",
		},
		[]string{"visitor"},
	)
)

// EventCollector is a custom Prometheus collector that reads event
// counts from the database on each scrape, so counters survive restarts
// without any in-process state.
type EventCollector struct {
	db *db.DB
}

// Describe sends the metric descriptor to the channel.
func (c *EventCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- eventsDesc
}

// Collect queries the database for event counts and emits them as counters.
func (c *EventCollector) Collect(ch chan<- prometheus.Metric) {
	counts, err := c.db.GetEventCountsByExperimentKind(context.Background())
	if err != nil {
		slog.Error("failed to collect event metrics", "error", err)
		return
	}
	for _, ec := range counts {
		ch <- prometheus.MustNewConstMetric(
			eventsDesc,
			prometheus.CounterValue,
			float64(ec.Count),
			ec.ExperimentName,
			ec.Kind,
		)
	}
}

var initOnce sync.Once

// Init registers the collector and counters. Must be called once at startup.
func Init(database *db.DB) {
	initOnce.Do(func() {
		prometheus.MustRegister(&EventCollector{db: database})
		prometheus.MustRegister(assignmentsTotal)
	})
}

// RecordAssignment counts a served assignment as "new" or "returning".
func RecordAssignment(returning bool) {
	visitor := "new"
	if returning {
		visitor = "returning"
	}
	assignmentsTotal.WithLabelValues(visitor).Inc()
}
