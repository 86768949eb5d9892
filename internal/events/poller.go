// Package events drains the transactional outbox: committed ledger events
// are picked up in batches and published to Kafka. The ledger never waits on
// Kafka; a broker outage only delays event delivery, it cannot fail or
// reorder money movement.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/bankcore-ledger/internal/config"
	"github.com/bankcore-ledger/internal/domain/outbox"
	"github.com/bankcore-ledger/internal/platform/messaging/producers"
	"github.com/panjf2000/ants/v2"
)

// Poller publishes pending outbox messages on a fixed interval
type Poller struct {
	outboxRepo       outbox.Repository
	publisher        producers.MessagePublisher
	pool             *ants.Pool
	logger           *slog.Logger
	pollInterval     time.Duration
	batchSize        int
	maxRetryAttempts int
}

// NewPoller creates a poller that fans each batch out over a worker pool of
// the given size
func NewPoller(
	cfg *config.OutboxConfig,
	poolSize int,
	outboxRepo outbox.Repository,
	publisher producers.MessagePublisher,
	logger *slog.Logger,
) (*Poller, error) {
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create outbox worker pool: %w", err)
	}

	return &Poller{
		outboxRepo:       outboxRepo,
		publisher:        publisher,
		pool:             pool,
		logger:           logger,
		pollInterval:     cfg.PollingInterval,
		batchSize:        cfg.BatchSize,
		maxRetryAttempts: cfg.MaxRetryAttempts,
	}, nil
}

// Start begins polling until the context is canceled
func (p *Poller) Start(ctx context.Context) {
	p.logger.Info("Starting outbox poller",
		"poll_interval", p.pollInterval.String(),
		"batch_size", p.batchSize,
		"max_retry_attempts", p.maxRetryAttempts,
		"workers", p.pool.Cap(),
	)
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("Outbox poller stopping due to context cancellation")
			return
		case <-ticker.C:
			if err := p.processPendingMessages(ctx); err != nil {
				p.logger.Error("Error during batch processing of pending outbox messages", "error", err)
			}
		}
	}
}

// Shutdown releases the worker pool
func (p *Poller) Shutdown() {
	p.logger.Info("Shutting down outbox worker pool", "running_workers", p.pool.Running())
	p.pool.Release()
}

func (p *Poller) processPendingMessages(ctx context.Context) error {
	messages, err := p.outboxRepo.GetPending(ctx, p.batchSize)
	if err != nil {
		return fmt.Errorf("failed to get pending outbox messages: %w", err)
	}

	if len(messages) == 0 {
		p.logger.Debug("No pending outbox messages found")
		return nil
	}

	p.logger.Info("Fetched pending outbox messages", "count", len(messages))

	var wg sync.WaitGroup
	for _, msg := range messages {
		msg := msg
		wg.Add(1)
		submitErr := p.pool.Submit(func() {
			defer wg.Done()
			p.publishMessage(ctx, msg)
		})
		if submitErr != nil {
			wg.Done()
			p.logger.Error("Failed to submit outbox message to worker pool", "outbox_id", msg.ID, "error", submitErr)
		}
	}
	wg.Wait()

	return nil
}

// publishMessage delivers one message and advances its outbox status. A
// message is only marked PROCESSED after the broker acknowledged the write,
// so delivery is at-least-once and consumers must dedupe on operation id.
func (p *Poller) publishMessage(ctx context.Context, msg *outbox.Message) {
	err := p.publisher.Publish(ctx, msg.OperationID.String(), json.RawMessage(msg.Payload))
	if err != nil {
		p.logger.Error("Failed to publish outbox message",
			"outbox_id", msg.ID, "operation_id", msg.OperationID.String(), "current_attempts", msg.Attempts, "error", err,
		)

		if errInc := p.outboxRepo.IncrementAttempts(ctx, msg.ID); errInc != nil {
			p.logger.Error("Failed to increment attempts for outbox message", "outbox_id", msg.ID, "error", errInc)
			return
		}

		if msg.Attempts+1 >= p.maxRetryAttempts {
			p.logger.Warn("Max retry attempts reached for outbox message, marking as FAILED_TO_PUBLISH",
				"outbox_id", msg.ID, "operation_id", msg.OperationID.String(), "attempts_made", msg.Attempts+1,
			)
			if errUpdate := p.outboxRepo.UpdateStatus(ctx, msg.ID, outbox.StatusFailedToPublish); errUpdate != nil {
				p.logger.Error("Failed to update outbox status after max retries", "outbox_id", msg.ID, "error", errUpdate)
			}
		}
		return
	}

	if err := p.outboxRepo.UpdateStatus(ctx, msg.ID, outbox.StatusProcessed); err != nil {
		p.logger.Error("Published outbox message but failed to mark it PROCESSED",
			"outbox_id", msg.ID, "operation_id", msg.OperationID.String(), "error", err,
		)
		return
	}

	p.logger.Info("Outbox message published", "outbox_id", msg.ID, "operation_id", msg.OperationID.String())
}
