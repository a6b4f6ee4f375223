package services

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/maintledger/backend/internal/infrastructure/outbox"
)

// ProcessorConfig controls how frequently the outbox is drained.
type ProcessorConfig struct {
	Interval   time.Duration
	BatchSize  int
	MaxRetries int
	Retention  time.Duration
}

// OutboxProcessor retries undelivered notifications on a schedule and purges
// stale ones.
type OutboxProcessor struct {
	store  *outbox.Store
	sender MessageSender
	logger *zap.Logger
	cron   *cron.Cron
	cfg    ProcessorConfig
}

func NewOutboxProcessor(store *outbox.Store, sender MessageSender, logger *zap.Logger, cfg ProcessorConfig) *OutboxProcessor {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Minute
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 5
	}
	if cfg.Retention <= 0 {
		cfg.Retention = 48 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	op := &OutboxProcessor{
		store:  store,
		sender: sender,
		logger: logger,
		cfg:    cfg,
		cron:   cron.New(cron.WithSeconds()),
	}

	schedule := fmt.Sprintf("@every %ds", int(cfg.Interval.Seconds()))
	_, _ = op.cron.AddFunc(schedule, func() {
		if err := op.Drain(); err != nil {
			op.logger.Error("outbox drain failed", zap.Error(err))
		}
	})

	return op
}

// Start launches the cron scheduler.
func (op *OutboxProcessor) Start() {
	if op == nil || op.cron == nil {
		return
	}
	op.cron.Start()
	op.logger.Info("outbox processor started")
}

// Stop gracefully stops the scheduler.
func (op *OutboxProcessor) Stop() {
	if op == nil || op.cron == nil {
		return
	}
	<-op.cron.Stop().Done()
	op.logger.Info("outbox processor stopped")
}

// Drain re-sends pending notifications synchronously. Items that keep
// failing are dropped once the retry budget is spent.
func (op *OutboxProcessor) Drain() error {
	if op == nil || op.store == nil || op.sender == nil {
		return nil
	}

	if err := op.store.Cleanup(time.Now().Add(-op.cfg.Retention)); err != nil {
		op.logger.Warn("outbox cleanup failed", zap.Error(err))
	}

	items, err := op.store.GetBatch(op.cfg.BatchSize)
	if err != nil {
		return err
	}

	for _, item := range items {
		if err := op.sender.SendHTML(item.ChatID, item.Message); err != nil {
			op.logger.Warn("outbox retry failed",
				zap.String("item_id", item.ID),
				zap.String("kind", item.Kind),
				zap.Error(err))

			item.Retries++
			if item.Retries >= op.cfg.MaxRetries {
				op.logger.Warn("dropping outbox item (max retries reached)", zap.String("item_id", item.ID))
				_ = op.store.Remove(item)
				continue
			}
			if err := op.store.Remove(item); err != nil {
				op.logger.Warn("failed to remove outbox item", zap.Error(err))
			}
			if err := op.store.Requeue(item); err != nil {
				op.logger.Error("failed to requeue outbox item", zap.Error(err))
			}
			continue
		}

		if err := op.store.Remove(item); err != nil {
			op.logger.Warn("failed to purge delivered outbox item", zap.Error(err))
		}
	}
	return nil
}
