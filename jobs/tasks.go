package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"

	"github.com/meridian-pos/meridian-pos/internal/sales"
)

// QueueDefault is the queue carrying sale lifecycle events.
const QueueDefault = "default"

// NewSaleEventTask wraps a sale lifecycle event in an Asynq task. The task
// type is the event type, so each event kind gets its own handler.
func NewSaleEventTask(evt sales.Event) (*asynq.Task, error) {
	payload, err := json.Marshal(evt)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(evt.EventType(), payload), nil
}
