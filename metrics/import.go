package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	importRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_import_runs_total",
			Help: "Finished import runs by final status.",
		},
		[]string{"status"},
	)
	importPagesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "catalog_import_pages_total",
		Help: "Upstream pages processed by import runs.",
	})
	importProductsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "catalog_import_products_total",
		Help: "Products written by import runs.",
	})
	importRetriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_import_retries_total",
			Help: "Import retries by stage.",
		},
		[]string{"stage"},
	)
	importLastRun = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "catalog_import_last_run_timestamp_seconds",
			Help: "Unix time at which the last import run finished, by status.",
		},
		[]string{"status"},
	)
	importDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "catalog_import_duration_seconds",
		Help:    "Wall time of import runs.",
		Buckets: prometheus.ExponentialBuckets(1, 4, 8),
	})
)

func init() {
	prometheus.MustRegister(importRunsTotal, importPagesTotal, importProductsTotal,
		importRetriesTotal, importLastRun, importDuration)
}

func RecordImportPage(products int) {
	importPagesTotal.Inc()
	importProductsTotal.Add(float64(products))
}

// RecordImportRetry counts one retry; stage is "fetch" or "upsert".
func RecordImportRetry(stage string) {
	importRetriesTotal.WithLabelValues(stage).Inc()
}

func RecordImport(status string, start, end time.Time) {
	importRunsTotal.WithLabelValues(status).Inc()
	importLastRun.WithLabelValues(status).Set(float64(end.Unix()))
	importDuration.Observe(end.Sub(start).Seconds())
}
