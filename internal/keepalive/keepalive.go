// Package keepalive runs a periodic log tick that keeps hosted instances from idling out.
package keepalive

import (
	"context"
	"fmt"

	"threadline/internal/middleware"

	"github.com/robfig/cron/v3"
)

// DefaultSchedule fires every 14 minutes.
const DefaultSchedule = "*/14 * * * *"

// Job owns the cron scheduler for the keep-alive tick.
type Job struct {
	cron *cron.Cron
	tick func()
}

// New parses schedule (standard five-field cron syntax) and returns a stopped Job.
func New(schedule string) (*Job, error) {
	if schedule == "" {
		schedule = DefaultSchedule
	}
	j := &Job{cron: cron.New()}
	j.tick = func() {
		middleware.Logger.Info("server keep-alive ping")
	}
	if _, err := j.cron.AddFunc(schedule, func() { j.tick() }); err != nil {
		return nil, fmt.Errorf("invalid keep-alive schedule %q: %w", schedule, err)
	}
	return j, nil
}

// Start begins running the schedule in its own goroutine.
func (j *Job) Start() {
	j.cron.Start()
}

// Stop halts the scheduler and waits for a running tick to finish or ctx to end.
func (j *Job) Stop(ctx context.Context) {
	done := j.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}
