package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	FilesScanned = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fbq_files_scanned_total",
		Help: "Total number of archive files seen, labelled by route (or \"unrecognized\").",
	}, []string{"route"})

	FilesWithoutTimestamps = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fbq_files_without_timestamps_total",
		Help: "Total number of recognized files that yielded no events.",
	})

	EventsExtracted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fbq_events_extracted_total",
		Help: "Total number of events extracted, labelled by activity kind.",
	}, []string{"kind"})

	FileProcessingDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "fbq_file_processing_seconds",
		Help:    "Time spent reading, parsing and splitting one archive file.",
		Buckets: []float64{.0005, .001, .005, .01, .05, .1, .5, 1, 5},
	})

	Runs = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fbq_runs_total",
		Help: "Total number of archive runs, labelled by outcome.",
	}, []string{"status"})
)

// WriteTextfile dumps every registered metric to path in the text exposition
// format read by node_exporter's textfile collector.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
