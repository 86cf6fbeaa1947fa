package application

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	log "github.com/sirupsen/logrus"
)

type scheduledJob struct {
	job      Job
	interval time.Duration
}

// Scheduler runs jobs at fixed intervals. A run may overlap the previous run
// of the same job; jobs re-validate every entity they touch.
type Scheduler struct {
	jobs    []scheduledJob
	metrics JobMetrics
}

// NewScheduler creates an empty scheduler
func NewScheduler(metrics JobMetrics) *Scheduler {
	return &Scheduler{metrics: metricsOrNoop(metrics)}
}

// Add registers job to run every interval
func (s *Scheduler) Add(job Job, interval time.Duration) {
	s.jobs = append(s.jobs, scheduledJob{job: job, interval: interval})
}

// Start schedules every job, running each once immediately, and returns a
// function that stops the scheduler and waits for running jobs.
func (s *Scheduler) Start(ctx context.Context) (func(), error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	for _, sj := range s.jobs {
		job := sj.job
		if sj.interval <= 0 {
			sched.Shutdown()
			return nil, fmt.Errorf("job %s has non-positive interval %v", job.Name(), sj.interval)
		}
		_, err := sched.NewJob(
			gocron.DurationJob(sj.interval),
			gocron.NewTask(func() { s.runJob(ctx, job) }),
			gocron.WithName(job.Name()),
			gocron.WithStartAt(gocron.WithStartImmediately()),
		)
		if err != nil {
			sched.Shutdown()
			return nil, fmt.Errorf("failed to schedule job %s: %w", job.Name(), err)
		}
		log.WithFields(log.Fields{
			"job":      job.Name(),
			"interval": sj.interval,
		}).Info("Scheduled job")
	}

	sched.Start()

	return func() {
		if err := sched.Shutdown(); err != nil {
			log.Errorf("Error shutting down scheduler: %v", err)
		}
	}, nil
}

func (s *Scheduler) runJob(ctx context.Context, job Job) {
	if ctx.Err() != nil {
		return
	}

	start := time.Now()
	err := job.Run(ctx)
	duration := time.Since(start)
	s.metrics.RecordJobRun(job.Name(), err == nil, duration)

	if err != nil {
		log.WithFields(log.Fields{
			"job":      job.Name(),
			"duration": duration,
		}).Errorf("Job failed: %v", err)
	}
}
