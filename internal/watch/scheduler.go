package watch

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	ferrors "github.com/pabpereza/docsite/internal/foundation/errors"
	"github.com/pabpereza/docsite/internal/logfields"
)

// NewYearCron fires at midnight on January 1st.
const NewYearCron = "0 0 1 1 *"

// Scheduler wraps the gocron scheduler for periodic re-evaluations.
type Scheduler struct {
	scheduler gocron.Scheduler
}

// NewScheduler creates a scheduler whose cron expressions are read in loc.
func NewScheduler(loc *time.Location) (*Scheduler, error) {
	s, err := gocron.NewScheduler(gocron.WithLocation(loc))
	if err != nil {
		return nil, ferrors.RuntimeError("create scheduler").WithCause(err).Build()
	}
	return &Scheduler{scheduler: s}, nil
}

// Start begins running jobs.
func (s *Scheduler) Start() {
	slog.Info("Starting scheduler", slog.Int("jobs", len(s.scheduler.Jobs())))
	s.scheduler.Start()
}

// Stop shuts the scheduler down and waits for running jobs.
func (s *Scheduler) Stop() error {
	return s.scheduler.Shutdown()
}

// ScheduleNewYear runs task when the year changes so the copyright line
// is regenerated. Returns the job ID.
func (s *Scheduler) ScheduleNewYear(task func()) (string, error) {
	return s.schedule("new-year-refresh", NewYearCron, task)
}

// ScheduleCron runs task on a standard five-field cron expression.
func (s *Scheduler) ScheduleCron(expr string, task func()) (string, error) {
	return s.schedule("scheduled-refresh", expr, task)
}

func (s *Scheduler) schedule(name, expr string, task func()) (string, error) {
	job, err := s.scheduler.NewJob(
		gocron.CronJob(expr, false),
		gocron.NewTask(func() {
			slog.Info("Executing scheduled evaluation", slog.String("job", name), logfields.Schedule(expr))
			task()
		}),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return "", ferrors.RuntimeError(fmt.Sprintf("invalid schedule %q", expr)).
			WithCause(err).
			WithContext("job", name).
			UserAction().
			Build()
	}
	return job.ID().String(), nil
}

// NextRun returns the next run time of the named job.
func (s *Scheduler) NextRun(name string) (time.Time, bool) {
	for _, j := range s.scheduler.Jobs() {
		if j.Name() == name {
			next, err := j.NextRun()
			if err != nil {
				return time.Time{}, false
			}
			return next, true
		}
	}
	return time.Time{}, false
}
