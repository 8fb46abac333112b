package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"venue_manager/model"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const OutboundQueue = "outbound_messages"

// Enqueuer hands a stored message to whatever delivers it.
type Enqueuer interface {
	Enqueue(ctx context.Context, messageId uint) error
}

// PollingQueue leaves rows in the table for the cron drain to pick up.
type PollingQueue struct{}

func (PollingQueue) Enqueue(context.Context, uint) error { return nil }

// Outbound is the queue used by request handlers.
var Outbound Enqueuer = PollingQueue{}

// RabbitQueue publishes message ids to a durable RabbitMQ queue.
type RabbitQueue struct {
	conn *amqp.Connection
	ch   *amqp.Channel
	mu   sync.Mutex
}

func DialRabbit(url string) (*RabbitQueue, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq channel: %w", err)
	}
	if _, err := ch.QueueDeclare(OutboundQueue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq declare: %w", err)
	}
	return &RabbitQueue{conn: conn, ch: ch}, nil
}

func (q *RabbitQueue) Enqueue(ctx context.Context, messageId uint) error {
	body, err := json.Marshal(model.MessageJob{MessageId: messageId})
	if err != nil {
		return err
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	return q.ch.PublishWithContext(ctx, "", OutboundQueue, false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		Timestamp:    time.Now(),
		Body:         body,
	})
}

// Consume delivers jobs until ctx ends or the channel closes. Failures are
// recorded on the message row, so every delivery is acked.
func (q *RabbitQueue) Consume(ctx context.Context, d *Dispatcher) error {
	consumerCh, err := q.conn.Channel()
	if err != nil {
		return err
	}
	defer consumerCh.Close()

	if err := consumerCh.Qos(4, 0, false); err != nil {
		return err
	}
	deliveries, err := consumerCh.Consume(OutboundQueue, "venue-dispatcher", false, false, false, false, nil)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-deliveries:
			if !ok {
				return errors.New("rabbitmq delivery channel closed")
			}
			var job model.MessageJob
			if err := json.Unmarshal(msg.Body, &job); err != nil {
				zap.S().Warnf("discarding malformed message job: %v", err)
				_ = msg.Nack(false, false)
				continue
			}
			if err := d.Deliver(ctx, job.MessageId); err != nil {
				zap.S().Errorf("deliver message %d: %v", job.MessageId, err)
			}
			_ = msg.Ack(false)
		}
	}
}

func (q *RabbitQueue) Close() {
	if q.ch != nil {
		_ = q.ch.Close()
	}
	if q.conn != nil {
		_ = q.conn.Close()
	}
}
