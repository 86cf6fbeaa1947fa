package application

import (
	"context"
	"time"
)

// JobMetrics records the outcome of scheduled work
type JobMetrics interface {
	RecordJobRun(job string, success bool, duration time.Duration)
	RecordIngestionPass(result string)
}

// Job is a unit of periodic work run by the Scheduler
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// Ingestion pass outcomes
const (
	ingestionApplied = "success"
	ingestionSkipped = "skipped"
	ingestionFailed  = "failure"
)

type noopJobMetrics struct{}

func (noopJobMetrics) RecordJobRun(string, bool, time.Duration) {}
func (noopJobMetrics) RecordIngestionPass(string)              {}

func metricsOrNoop(metrics JobMetrics) JobMetrics {
	if metrics == nil {
		return noopJobMetrics{}
	}
	return metrics
}
