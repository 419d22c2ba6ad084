package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// File outcome labels for UploadFiles.
const (
	StatusProcessed = "processed"
	StatusSkipped   = "skipped"
	StatusError     = "error"
)

var (
	UploadFiles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "results_upload_files_total",
		Help: "Uploaded result files by outcome.",
	}, []string{"status"})

	UploadRows = promauto.NewCounter(prometheus.CounterOpts{
		Name: "results_upload_rows_total",
		Help: "Student rows merged into the store.",
	})

	StoreStudents = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "results_store_students",
		Help: "Student records held in the last saved snapshot.",
	})

	SnapshotSave = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "results_snapshot_save_seconds",
		Help:    "Time spent writing the store snapshot.",
		Buckets: prometheus.DefBuckets,
	})
)
