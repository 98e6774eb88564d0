package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/meridian-pos/meridian-pos/internal/observability"
	"github.com/meridian-pos/meridian-pos/internal/sales"
)

// SaleEventConsumer processes sale lifecycle events off the queue. It logs
// each event and feeds the telemetry counters; delivery is at-least-once so
// handlers must tolerate duplicates, which logging and counting do.
type SaleEventConsumer struct {
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewSaleEventConsumer constructs a consumer.
func NewSaleEventConsumer(logger *slog.Logger, metrics *observability.Metrics) *SaleEventConsumer {
	return &SaleEventConsumer{logger: logger, metrics: metrics}
}

// Handlers returns the task registrations for every sale event type.
func (c *SaleEventConsumer) Handlers() []TaskHandler {
	return []TaskHandler{
		{Type: sales.EventSaleCreated, Handler: c.handleSaleCreated},
		{Type: sales.EventSaleUpdated, Handler: c.handleSaleUpdated},
		{Type: sales.EventSaleCanceled, Handler: c.handleSaleCanceled},
		{Type: sales.EventSaleItemCanceled, Handler: c.handleSaleItemCanceled},
	}
}

func (c *SaleEventConsumer) handleSaleCreated(ctx context.Context, t *asynq.Task) error {
	var evt sales.SaleCreatedEvent
	if err := json.Unmarshal(t.Payload(), &evt); err != nil {
		return asynq.SkipRetry
	}
	c.logger.Info("sale created",
		slog.String("sale_number", evt.SaleNumber),
		slog.Float64("total_amount", evt.TotalAmount),
		slog.Time("created_at", evt.CreatedAt),
	)
	c.metrics.EventHandled(sales.EventSaleCreated)
	return nil
}

func (c *SaleEventConsumer) handleSaleUpdated(ctx context.Context, t *asynq.Task) error {
	var evt sales.SaleUpdatedEvent
	if err := json.Unmarshal(t.Payload(), &evt); err != nil {
		return asynq.SkipRetry
	}
	c.logger.Info("sale updated",
		slog.String("sale_number", evt.SaleNumber),
		slog.Float64("total_amount", evt.TotalAmount),
		slog.Time("updated_at", evt.UpdatedAt),
	)
	c.metrics.EventHandled(sales.EventSaleUpdated)
	return nil
}

func (c *SaleEventConsumer) handleSaleCanceled(ctx context.Context, t *asynq.Task) error {
	var evt sales.SaleCanceledEvent
	if err := json.Unmarshal(t.Payload(), &evt); err != nil {
		return asynq.SkipRetry
	}
	c.logger.Info("sale canceled",
		slog.String("sale_number", evt.SaleNumber),
		slog.Float64("total_amount", evt.TotalAmount),
		slog.Time("updated_at", evt.UpdatedAt),
	)
	c.metrics.EventHandled(sales.EventSaleCanceled)
	return nil
}

func (c *SaleEventConsumer) handleSaleItemCanceled(ctx context.Context, t *asynq.Task) error {
	var evt sales.SaleItemCanceledEvent
	if err := json.Unmarshal(t.Payload(), &evt); err != nil {
		return asynq.SkipRetry
	}
	c.logger.Info("sale item canceled",
		slog.String("sale_number", evt.SaleNumber),
		slog.Float64("old_total_amount", evt.OldTotalAmount),
		slog.Float64("total_amount", evt.TotalAmount),
		slog.Time("updated_at", evt.UpdatedAt),
	)
	c.metrics.EventHandled(sales.EventSaleItemCanceled)
	return nil
}
