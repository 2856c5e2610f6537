package scheduler

import (
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Scheduler fires named jobs on cron schedules.
type Scheduler struct {
	cron *cron.Cron
}

// cronParser accepts both standard 5-field cron expressions and 6-field
// expressions with an optional seconds field.
var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// New creates an empty Scheduler.
func New() *Scheduler {
	return &Scheduler{cron: cron.New(cron.WithParser(cronParser))}
}

// Add registers a job under the given cron schedule.
func (s *Scheduler) Add(schedule, name string, fn func()) error {
	_, err := s.cron.AddFunc(schedule, func() {
		slog.Info("cron firing job", "name", name)
		fn()
	})
	if err != nil {
		return err
	}
	slog.Info("scheduled job", "name", name, "schedule", schedule)
	return nil
}

// Start starts the cron ticker.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops the cron ticker.
func (s *Scheduler) Stop() {
	s.cron.Stop()
}
