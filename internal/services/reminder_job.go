package services

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/maintledger/backend/usecase/ledger"
)

// ReminderConfig controls the scheduled payment reminder scan.
type ReminderConfig struct {
	// Schedule is a six-field cron expression.
	Schedule      string
	LookAheadDays int
}

// ReminderJob runs the look-ahead payment scan on a fixed cadence and pushes
// one notification per due record.
type ReminderJob struct {
	engine   *ledger.Service
	notifier *Notifier
	logger   *zap.Logger
	cron     *cron.Cron
	cfg      ReminderConfig
}

func NewReminderJob(engine *ledger.Service, notifier *Notifier, logger *zap.Logger, cfg ReminderConfig) *ReminderJob {
	if cfg.Schedule == "" {
		cfg.Schedule = "0 0 0 * * *"
	}
	if cfg.LookAheadDays <= 0 {
		cfg.LookAheadDays = 3
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	job := &ReminderJob{
		engine:   engine,
		notifier: notifier,
		logger:   logger,
		cfg:      cfg,
		cron:     cron.New(cron.WithSeconds()),
	}

	_, _ = job.cron.AddFunc(cfg.Schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if _, err := job.Run(ctx); err != nil {
			job.logger.Error("reminder scan failed", zap.Error(err))
		}
	})

	return job
}

// Start launches the cron scheduler.
func (j *ReminderJob) Start() {
	if j == nil || j.cron == nil {
		return
	}
	j.cron.Start()
	j.logger.Info("reminder job started",
		zap.String("schedule", j.cfg.Schedule),
		zap.Int("look_ahead_days", j.cfg.LookAheadDays))
}

// Stop gracefully stops the scheduler.
func (j *ReminderJob) Stop(ctx context.Context) {
	if j == nil || j.cron == nil {
		return
	}
	stopCtx := j.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	j.logger.Info("reminder job stopped")
}

// Run performs one reminder scan and returns the number of records
// dispatched. Each record is delivered independently: a failed send is
// queued for retry and never blocks the remaining records.
func (j *ReminderJob) Run(ctx context.Context) (int, error) {
	upcoming, err := j.engine.UpcomingPayments(ctx, j.cfg.LookAheadDays)
	if err != nil {
		return 0, err
	}
	if len(upcoming) == 0 {
		j.logger.Info("no upcoming payments due")
		return 0, nil
	}

	for _, payment := range upcoming {
		if err := j.notifier.SendReminder(payment); err != nil {
			j.logger.Error("reminder dispatch failed",
				zap.String("project_id", payment.ProjectID),
				zap.Error(err))
		}
	}

	j.logger.Info("payment reminders dispatched", zap.Int("count", len(upcoming)))
	return len(upcoming), nil
}
