package queue

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/unclebandit/customer-service/internal/logging"
	"github.com/unclebandit/customer-service/internal/model"
)

// TopicCustomerEvents carries model.CustomerEvent payloads.
const TopicCustomerEvents = "customer_events"

// Queue interface
type Queue interface {
	Publish(topic string, payload any) error
	Subscribe(topic string, handler func(payload any) error) error
}

// InMemoryQueue delivers each published payload to every subscriber of the
// topic on its own goroutine, retrying failed deliveries. The zero value is
// usable but does not retry; NewInMemoryQueue sets the usual retry policy.
type InMemoryQueue struct {
	mu       sync.Mutex
	handlers map[string][]func(payload any) error
	logger   *slog.Logger
	wg       sync.WaitGroup

	// MaxRetries bounds redeliveries after the first attempt.
	MaxRetries int
	// Backoff is multiplied by the attempt number between retries.
	Backoff time.Duration
}

// NewInMemoryQueue creates a new queue
func NewInMemoryQueue(logger *slog.Logger) *InMemoryQueue {
	return &InMemoryQueue{
		handlers:   make(map[string][]func(payload any) error),
		logger:     logger,
		MaxRetries: 3,
		Backoff:    500 * time.Millisecond,
	}
}

// JobPayload wraps a message payload with retry info
type JobPayload struct {
	Topic      string
	Payload    any
	RetryCount int
	MaxRetries int
}

// Publish sends a message to all subscribers
func (q *InMemoryQueue) Publish(topic string, payload any) error {
	q.mu.Lock()
	handlers := q.handlers[topic]
	q.mu.Unlock()

	if len(handlers) == 0 {
		return fmt.Errorf("no subscribers for topic %s", topic)
	}

	for _, handler := range handlers {
		job := JobPayload{
			Topic:      topic,
			Payload:    payload,
			MaxRetries: q.MaxRetries,
		}
		q.wg.Add(1)
		go q.processJob(handler, job)
	}

	return nil
}

// processJob handles retries and errors
func (q *InMemoryQueue) processJob(handler func(payload any) error, job JobPayload) {
	defer q.wg.Done()

	for {
		err := handler(job.Payload)
		if err == nil {
			q.log().Debug("job processed", "topic", job.Topic, "attempts", job.RetryCount+1)
			return
		}

		job.RetryCount++
		if job.RetryCount > job.MaxRetries {
			q.log().Error("job permanently failed", "topic", job.Topic, "attempts", job.RetryCount, "error", err)
			return
		}
		q.log().Warn("job failed, retrying", "topic", job.Topic, "attempt", job.RetryCount, "max_retries", job.MaxRetries, "error", err)

		time.Sleep(time.Duration(job.RetryCount) * q.Backoff)
	}
}

// Subscribe adds a handler for a topic
func (q *InMemoryQueue) Subscribe(topic string, handler func(payload any) error) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.handlers == nil {
		q.handlers = make(map[string][]func(payload any) error)
	}
	q.handlers[topic] = append(q.handlers[topic], handler)
	return nil
}

func (q *InMemoryQueue) log() *slog.Logger {
	if q.logger == nil {
		return logging.Nop()
	}
	return q.logger
}

// Wait blocks until every delivery started so far has finished.
func (q *InMemoryQueue) Wait() {
	q.wg.Wait()
}

// StartCustomerEventSubscriber logs every customer event published on q.
func StartCustomerEventSubscriber(q Queue, logger *slog.Logger) error {
	return q.Subscribe(TopicCustomerEvents, func(payload any) error {
		event, ok := payload.(model.CustomerEvent)
		if !ok {
			logger.Warn("invalid payload type, expected CustomerEvent", "type", fmt.Sprintf("%T", payload))
			return nil // no retry
		}

		logger.Info("customer event",
			"event_id", event.ID,
			"type", event.Type,
			"customer_id", event.Customer.ID,
			"name", event.Customer.Name,
		)
		return nil
	})
}
