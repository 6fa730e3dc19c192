package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	ParsingDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "condense_parsing_seconds",
		Help:    "Time spent parsing a source file.",
		Buckets: prometheus.DefBuckets,
	}, []string{"language"})

	SummarizeDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "condense_summarize_seconds",
		Help:    "Time spent summarizing a parsed syntax tree.",
		Buckets: prometheus.DefBuckets,
	}, []string{"language"})

	NodesKept = promauto.NewCounter(prometheus.CounterOpts{
		Name: "condense_nodes_kept_total",
		Help: "Total number of syntax nodes kept verbatim.",
	})

	NodesElided = promauto.NewCounter(prometheus.CounterOpts{
		Name: "condense_nodes_elided_total",
		Help: "Total number of syntax nodes collapsed to an elision marker.",
	})

	NodesDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "condense_nodes_dropped_total",
		Help: "Total number of syntax nodes dropped from the output.",
	})

	FilesSummarized = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "condense_files_summarized_total",
		Help: "Total number of files summarized, by language.",
	}, []string{"language"})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "condense_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})

	CacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "condense_cache_hits_total",
		Help: "Total number of summary cache hits.",
	})

	CacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "condense_cache_misses_total",
		Help: "Total number of summary cache misses.",
	})
)
