// Package notify delivers sale lifecycle events to the background queue.
package notify

import (
	"context"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/meridian-pos/meridian-pos/internal/observability"
	"github.com/meridian-pos/meridian-pos/internal/sales"
	"github.com/meridian-pos/meridian-pos/jobs"
)

// Publisher enqueues sale lifecycle events as Asynq tasks. Publishing is
// best-effort: enqueue failures are logged and counted but never surfaced to
// the aggregate path, since the sale mutation is already committed.
// Delivery is at-least-once.
type Publisher struct {
	client  *asynq.Client
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewPublisher constructs a Publisher backed by the given Redis connection.
func NewPublisher(redisOpts asynq.RedisClientOpt, logger *slog.Logger, metrics *observability.Metrics) *Publisher {
	return &Publisher{
		client:  asynq.NewClient(redisOpts),
		logger:  logger,
		metrics: metrics,
	}
}

// Publish hands the event to the queue and returns immediately.
func (p *Publisher) Publish(ctx context.Context, evt sales.Event) {
	task, err := jobs.NewSaleEventTask(evt)
	if err != nil {
		p.logger.Warn("marshal sale event", slog.String("type", evt.EventType()), slog.Any("error", err))
		p.metrics.EventDropped(evt.EventType())
		return
	}
	if _, err := p.client.EnqueueContext(ctx, task, asynq.Queue(jobs.QueueDefault)); err != nil {
		p.logger.Warn("enqueue sale event", slog.String("type", evt.EventType()), slog.Any("error", err))
		p.metrics.EventDropped(evt.EventType())
		return
	}
	p.metrics.EventPublished(evt.EventType())
}

// Close releases the underlying client.
func (p *Publisher) Close() error {
	return p.client.Close()
}

var _ sales.EventPublisher = (*Publisher)(nil)
