package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/Nahimba/MotoCRM-sub001/internal/logger"

	"github.com/robfig/cron/v3"
)

// Reconciler rewrites cached account balances from the ledger.
type Reconciler interface {
	ReconcileBalances(ctx context.Context) (int64, error)
}

// Scheduler manages cron job scheduling
type Scheduler struct {
	cron       *cron.Cron
	reconciler Reconciler
	timeout    time.Duration
}

// New builds a scheduler running the balance reconcile on schedule, a
// six-field cron expression evaluated in UTC.
func New(schedule string, reconciler Reconciler) (*Scheduler, error) {
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithSeconds(),
	)

	s := &Scheduler{
		cron:       c,
		reconciler: reconciler,
		timeout:    5 * time.Minute,
	}

	if _, err := s.cron.AddFunc(schedule, s.ReconcileBalances); err != nil {
		return nil, fmt.Errorf("failed to register reconcile job %q: %w", schedule, err)
	}
	logger.WithService("scheduler").WithField("schedule", schedule).Info("Balance reconcile job registered")
	return s, nil
}

// ReconcileBalances runs one reconcile pass. It is the job body and can
// also be called directly.
func (s *Scheduler) ReconcileBalances() {
	entry := logger.WithService("scheduler").WithField("job", "reconcile_balances")

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	n, err := s.reconciler.ReconcileBalances(ctx)
	if err != nil {
		entry.WithError(err).Error("Balance reconcile failed")
		return
	}
	entry.WithFields(map[string]interface{}{
		"accounts_updated": n,
		"took":             time.Since(start).String(),
	}).Info("Balance reconcile finished")
}

// Start begins the cron scheduler
func (s *Scheduler) Start() {
	s.cron.Start()
	logger.WithService("scheduler").Info("Cron scheduler started")
}

// Stop waits for a running job to finish, then stops the scheduler.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.WithService("scheduler").Info("Cron scheduler stopped")
}

// Next reports when the reconcile job runs next; zero before Start.
func (s *Scheduler) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}
