// Package wcmetrics centralizes the Prometheus counters and histograms
// this core exposes, following the same package-level-vars-plus-init
// registration idiom the rest of the ambient stack uses.
package wcmetrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	StoresOpened = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "wcmeta_stores_opened_total",
			Help: "Total number of working-copy stores opened via wcdb.Open.",
		},
	)

	CommitsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "wcmeta_commits_total",
			Help: "Total number of commit operations applied.",
		},
	)

	CommitDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "wcmeta_commit_duration_seconds",
			Help:    "Time taken to apply a single commit transaction.",
			Buckets: prometheus.DefBuckets,
		},
	)

	RelocationsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "wcmeta_relocations_total",
			Help: "Total number of relocate operations applied.",
		},
	)

	AdvisoryLocksHeld = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "wcmeta_advisory_locks_held",
			Help: "Current number of advisory working-copy locks held.",
		},
	)

	AdvisoryLockContention = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "wcmeta_advisory_lock_contention_total",
			Help: "Total number of lock_set calls that failed because the path was already locked.",
		},
	)

	WorkQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "wcmeta_work_queue_depth",
			Help: "Number of items currently pending in the work queue.",
		},
	)

	WorkItemsCompleted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "wcmeta_work_items_completed_total",
			Help: "Total number of work-queue items marked completed.",
		},
	)
)

// ObserveCommitDuration records how long a commit transaction took,
// matching the teacher's pattern of timing a block with time.Since
// against a histogram.
func ObserveCommitDuration(start time.Time) {
	CommitDuration.Observe(time.Since(start).Seconds())
}

func init() {
	prometheus.MustRegister(StoresOpened)
	prometheus.MustRegister(CommitsTotal)
	prometheus.MustRegister(CommitDuration)
	prometheus.MustRegister(RelocationsTotal)
	prometheus.MustRegister(AdvisoryLocksHeld)
	prometheus.MustRegister(AdvisoryLockContention)
	prometheus.MustRegister(WorkQueueDepth)
	prometheus.MustRegister(WorkItemsCompleted)
}
