// internal/common/metrics/metrics.go
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	MandiRankings = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mandi_rankings_total",
			Help: "Total number of mandi rankings produced, by mode",
		},
		[]string{"mode"},
	)

	MandiQualifiedMarkets = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "mandi_qualified_markets",
			Help:    "Number of markets that qualified for a purchase request",
			Buckets: []float64{0, 1, 2, 3, 5, 8, 13, 21, 50},
		},
	)

	MandiOrdersCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mandi_orders_created_total",
			Help: "Total number of mandi orders created, by product",
		},
		[]string{"product"},
	)

	MandiSnapshotCache = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mandi_snapshot_cache_total",
			Help: "Snapshot cache lookups by result (hit, miss, error)",
		},
		[]string{"result"},
	)
)

// JobTimer tracks one job from start to completion or failure.
type JobTimer struct {
	taskType string
	start    time.Time
	done     bool
}

// StartJob marks a job of taskType active.
func StartJob(taskType string) *JobTimer {
	WorkerJobsActive.WithLabelValues(taskType).Inc()
	return &JobTimer{taskType: taskType, start: time.Now()}
}

// Complete records a successful job. Later calls are ignored.
func (j *JobTimer) Complete() {
	if j.finish() {
		WorkerJobsCompleted.WithLabelValues(j.taskType).Inc()
	}
}

// Fail records a failed job under errorCode. Later calls are ignored.
func (j *JobTimer) Fail(errorCode string) {
	if j.finish() {
		WorkerJobsFailed.WithLabelValues(j.taskType, errorCode).Inc()
	}
}

func (j *JobTimer) finish() bool {
	if j.done {
		return false
	}
	j.done = true
	WorkerJobsActive.WithLabelValues(j.taskType).Dec()
	WorkerJobDuration.WithLabelValues(j.taskType).Observe(time.Since(j.start).Seconds())
	return true
}
