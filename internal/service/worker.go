package service

import (
	"encoding/json"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/unclebandit/customer-service/internal/model"
)

// Worker decodes customer events from broker deliveries and hands them to
// Handle. A delivery whose handling fails is requeued once.
type Worker struct {
	Deliveries <-chan amqp.Delivery
	Handle     func(event model.CustomerEvent) error
	Logger     *slog.Logger
}

// Constructor
func NewWorker(deliveries <-chan amqp.Delivery, handle func(event model.CustomerEvent) error, logger *slog.Logger) *Worker {
	return &Worker{
		Deliveries: deliveries,
		Handle:     handle,
		Logger:     logger,
	}
}

// Start processes deliveries until the channel is closed.
func (w *Worker) Start() {
	for d := range w.Deliveries {
		var event model.CustomerEvent
		if err := json.Unmarshal(d.Body, &event); err != nil {
			w.Logger.Warn("invalid event, dropping", "delivery_tag", d.DeliveryTag, "error", err)
			w.settle(d.Nack(false, false))
			continue
		}

		if err := w.Handle(event); err != nil {
			requeue := !d.Redelivered
			w.Logger.Error("failed to handle event", "event_id", event.ID, "requeue", requeue, "error", err)
			w.settle(d.Nack(false, requeue))
			continue
		}

		w.settle(d.Ack(false))
	}
}

func (w *Worker) settle(err error) {
	if err != nil {
		w.Logger.Error("failed to settle delivery", "error", err)
	}
}
