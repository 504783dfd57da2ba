package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/streadway/amqp"
)

// ErrSubscribeUnsupported is returned by AMQPQueue.Subscribe. Consumers
// read from the broker with cmd/worker instead.
var ErrSubscribeUnsupported = errors.New("amqp queue does not support in-process subscribers")

// AMQPQueue publishes JSON payloads to a durable RabbitMQ queue. Every topic
// is routed to the same queue.
type AMQPQueue struct {
	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
	name string
}

// DeclareQueue declares the durable queue used for customer events.
func DeclareQueue(ch *amqp.Channel, name string) (amqp.Queue, error) {
	return ch.QueueDeclare(
		name,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
}

// DialAMQP connects to url and declares queueName.
func DialAMQP(url, queueName string) (*AMQPQueue, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to queue: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open queue channel: %w", err)
	}

	q, err := DeclareQueue(ch, queueName)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	return &AMQPQueue{conn: conn, ch: ch, name: q.Name}, nil
}

// Publish encodes payload as JSON and publishes it with the topic as type.
func (q *AMQPQueue) Publish(topic string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}

	// amqp.Channel is not safe for concurrent publishing
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.ch.Publish(
		"",
		q.name,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Type:         topic,
			Body:         body,
		},
	)
}

func (q *AMQPQueue) Subscribe(topic string, handler func(payload any) error) error {
	return ErrSubscribeUnsupported
}

// Close releases the channel and the connection.
func (q *AMQPQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	chErr := q.ch.Close()
	connErr := q.conn.Close()
	return errors.Join(chErr, connErr)
}
