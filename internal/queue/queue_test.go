package queue

import (
	"bytes"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unclebandit/customer-service/internal/logging"
	"github.com/unclebandit/customer-service/internal/model"
)

func newTestQueue() *InMemoryQueue {
	q := NewInMemoryQueue(logging.Nop())
	q.Backoff = time.Millisecond
	return q
}

func TestPublishWithoutSubscribers(t *testing.T) {
	q := newTestQueue()
	err := q.Publish(TopicCustomerEvents, "payload")
	assert.ErrorContains(t, err, "no subscribers")
}

func TestPublishFansOut(t *testing.T) {
	q := newTestQueue()

	var mu sync.Mutex
	got := []string{}
	for _, name := range []string{"a", "b"} {
		require.NoError(t, q.Subscribe("topic", func(payload any) error {
			mu.Lock()
			defer mu.Unlock()
			got = append(got, name+":"+payload.(string))
			return nil
		}))
	}

	require.NoError(t, q.Publish("topic", "hello"))
	q.Wait()

	assert.ElementsMatch(t, []string{"a:hello", "b:hello"}, got)
}

func TestRetryUntilSuccess(t *testing.T) {
	q := newTestQueue()

	var calls atomic.Int32
	require.NoError(t, q.Subscribe("topic", func(payload any) error {
		if calls.Add(1) < 3 {
			return errors.New("transient")
		}
		return nil
	}))

	require.NoError(t, q.Publish("topic", 1))
	q.Wait()

	assert.EqualValues(t, 3, calls.Load())
}

func TestRetryGivesUp(t *testing.T) {
	q := newTestQueue()
	q.MaxRetries = 2

	var calls atomic.Int32
	require.NoError(t, q.Subscribe("topic", func(payload any) error {
		calls.Add(1)
		return errors.New("permanent")
	}))

	require.NoError(t, q.Publish("topic", 1))
	q.Wait()

	assert.EqualValues(t, 3, calls.Load())
}

func TestCustomerEventSubscriber(t *testing.T) {
	var buf syncBuffer
	logger := logging.New(logging.Config{Level: slog.LevelInfo, Output: &buf})

	q := newTestQueue()
	require.NoError(t, StartCustomerEventSubscriber(q, logger))

	event := model.NewCustomerCreatedEvent(model.Customer{ID: 42, Name: "Alice"})
	require.NoError(t, q.Publish(TopicCustomerEvents, event))
	require.NoError(t, q.Publish(TopicCustomerEvents, "not an event"))
	q.Wait()

	out := buf.String()
	assert.Contains(t, out, "event_id="+event.ID)
	assert.Contains(t, out, "customer_id=42")
	assert.Contains(t, out, "invalid payload type")
}

func TestAMQPSubscribeUnsupported(t *testing.T) {
	q := &AMQPQueue{}
	assert.ErrorIs(t, q.Subscribe(TopicCustomerEvents, nil), ErrSubscribeUnsupported)
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestZeroValueQueue(t *testing.T) {
	var q InMemoryQueue

	var calls atomic.Int32
	require.NoError(t, q.Subscribe("topic", func(payload any) error {
		calls.Add(1)
		return errors.New("fails once and gives up")
	}))

	require.NoError(t, q.Publish("topic", 1))
	q.Wait()

	assert.EqualValues(t, 1, calls.Load())
}
