package application

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingJob struct {
	name  string
	runs  int32
	fails bool
}

func (j *countingJob) Name() string { return j.name }

func (j *countingJob) Run(ctx context.Context) error {
	atomic.AddInt32(&j.runs, 1)
	if j.fails {
		return errors.New("boom")
	}
	return nil
}

func TestScheduler_RunsJobsImmediatelyAndRecordsOutcome(t *testing.T) {
	metrics := newRecordingMetrics()
	ok := &countingJob{name: "ok"}
	bad := &countingJob{name: "bad", fails: true}

	scheduler := NewScheduler(metrics)
	scheduler.Add(ok, time.Hour)
	scheduler.Add(bad, time.Hour)

	stop, err := scheduler.Start(context.Background())
	require.NoError(t, err)
	defer stop()

	assert.Eventually(t, func() bool {
		return len(metrics.runs("ok")) == 1 && len(metrics.runs("bad")) == 1
	}, 5*time.Second, 10*time.Millisecond)

	assert.Equal(t, []bool{true}, metrics.runs("ok"))
	assert.Equal(t, []bool{false}, metrics.runs("bad"))
}

func TestScheduler_RejectsNonPositiveInterval(t *testing.T) {
	scheduler := NewScheduler(nil)
	scheduler.Add(&countingJob{name: "broken"}, 0)

	_, err := scheduler.Start(context.Background())
	require.Error(t, err)
}

func TestScheduler_SkipsRunsAfterCancel(t *testing.T) {
	job := &countingJob{name: "late"}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	NewScheduler(nil).runJob(ctx, job)

	assert.Equal(t, int32(0), atomic.LoadInt32(&job.runs))
}
