// Package schedule requests runs on a cron schedule.
package schedule

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/raoulx24/backup-rotator/internal/logging"
	"github.com/raoulx24/backup-rotator/internal/mailbox"
	"github.com/raoulx24/backup-rotator/internal/worker"
)

// Scheduler puts a job into the mailbox every time the cron expression
// fires. Runs themselves happen on the worker, so a slow run simply
// absorbs the ticks that arrive while it is busy.
type Scheduler struct {
	spec    string
	mb      *mailbox.Mailbox[worker.Job]
	log     logging.Logger
	cron    *cron.Cron
	mu      sync.Mutex
	running bool
}

// New creates a scheduler for a standard five-field cron expression or a
// descriptor such as "@daily".
func New(spec string, log logging.Logger, mb *mailbox.Mailbox[worker.Job]) *Scheduler {
	return &Scheduler{
		spec: spec,
		mb:   mb,
		log:  log,
		cron: cron.New(),
	}
}

// Start begins scheduling. An empty spec is a no-op.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.spec == "" {
		s.log.Debug("no schedule configured")
		return nil
	}

	if _, err := cron.ParseStandard(s.spec); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", s.spec, err)
	}

	if _, err := s.cron.AddFunc(s.spec, s.fire); err != nil {
		return fmt.Errorf("failed to schedule runs: %w", err)
	}

	s.cron.Start()
	s.running = true
	if next := s.nextLocked(); next != nil {
		s.log.Info("scheduler started", "schedule", s.spec, "next", *next)
	}

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

func (s *Scheduler) fire() {
	s.log.Info("scheduled run due")
	s.mb.Put(worker.Job{Reason: "schedule", At: time.Now()})
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		<-s.cron.Stop().Done()
		s.running = false
		s.log.Info("scheduler stopped")
	}
}

// IsRunning returns true if the scheduler is running.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// NextRun returns the next scheduled run, or nil if none is scheduled.
func (s *Scheduler) NextRun() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextLocked()
}

func (s *Scheduler) nextLocked() *time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return nil
	}
	next := entries[0].Next
	return &next
}
