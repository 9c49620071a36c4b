// Package agenda runs the scheduled background jobs: the morning agenda log
// and the pending-import sweep.
package agenda

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"roster/domain/schedule"
	"roster/internal"
)

// TodaySource provides today's occurrences
type TodaySource interface {
	TodayOccurrences() []schedule.Occurrence
}

// Sweeper drops expired entries and reports how many
type Sweeper interface {
	Sweep() int
}

// Scheduler wraps a cron runner bound to the roster's zone
type Scheduler struct {
	cron   *cron.Cron
	logger *internal.Logger
}

// New creates a scheduler. agendaSpec is a standard five-field cron spec
// for the agenda log; empty disables it. sweeper may be nil.
func New(loc *time.Location, agendaSpec string, source TodaySource, sweeper Sweeper, logger *internal.Logger) (*Scheduler, error) {
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	s := &Scheduler{
		cron:   cron.New(cron.WithLocation(loc)),
		logger: logger.WithComponent("Agenda"),
	}

	if agendaSpec != "" {
		if _, err := s.cron.AddFunc(agendaSpec, func() { s.LogAgenda(source) }); err != nil {
			return nil, fmt.Errorf("invalid agenda schedule %q: %w", agendaSpec, err)
		}
	}
	if sweeper != nil {
		if _, err := s.cron.AddFunc("@every 1m", func() {
			if n := sweeper.Sweep(); n > 0 {
				s.logger.Info("Dropped %d expired pending imports", n)
			}
		}); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Jobs returns the number of registered jobs
func (s *Scheduler) Jobs() int {
	return len(s.cron.Entries())
}

// LogAgenda writes today's occurrences to the log
func (s *Scheduler) LogAgenda(source TodaySource) []string {
	occurrences := source.TodayOccurrences()
	lines := make([]string, 0, len(occurrences))
	for _, o := range occurrences {
		line := fmt.Sprintf("%s, %s", o.Name, o.Address)
		if o.Phone != "" {
			line += " (" + o.Phone + ")"
		}
		lines = append(lines, line)
	}

	if len(lines) == 0 {
		s.logger.Info("No work scheduled today")
		return lines
	}
	s.logger.Info("%d jobs scheduled today", len(lines))
	for _, l := range lines {
		s.logger.Info("  %s", l)
	}
	return lines
}

// Run starts the scheduler and blocks until ctx is done, then waits for
// running jobs to finish.
func (s *Scheduler) Run(ctx context.Context) error {
	s.cron.Start()
	s.logger.Info("Scheduler started with %d jobs", s.Jobs())
	<-ctx.Done()
	<-s.cron.Stop().Done()
	s.logger.Info("Scheduler stopped")
	return nil
}
