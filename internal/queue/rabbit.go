package queue

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/svoya-igra/gamebot/pkg/logger"
)

// Queue is one durable RabbitMQ queue. Delivery is at-least-once: consumers
// ack only after their handler returns nil, failed handlers nack with
// requeue, so every state-mutating handler must tolerate redelivery.
type Queue struct {
	conn *amqp.Connection
	ch   *amqp.Channel
	name string
}

func Connect(url, name string) (*Queue, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	_, err = ch.QueueDeclare(
		name,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue %s: %w", name, err)
	}

	logger.Info("Queue connected", "queue", name)
	return &Queue{conn: conn, ch: ch, name: name}, nil
}

func (q *Queue) Publish(ctx context.Context, body []byte) error {
	err := q.ch.PublishWithContext(ctx,
		"",     // default exchange
		q.name, // routing key
		false,  // mandatory
		false,  // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Body:         body,
		})
	if err != nil {
		return fmt.Errorf("failed to publish to %s: %w", q.name, err)
	}
	return nil
}

// Consume delivers messages to handler one at a time (prefetch 1) and
// blocks until ctx is cancelled or the channel closes. A nil handler result
// acks the message; an error nacks it back onto the queue.
func (q *Queue) Consume(ctx context.Context, handler func([]byte) error) error {
	if err := q.ch.Qos(1, 0, false); err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}

	deliveries, err := q.ch.Consume(
		q.name,
		"",    // consumer tag
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to start consumer on %s: %w", q.name, err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case delivery, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("delivery channel for %s closed", q.name)
			}

			if err := handler(delivery.Body); err != nil {
				logger.Error("Message handling failed, requeueing",
					"queue", q.name, "error", err)
				if nackErr := delivery.Nack(false, true); nackErr != nil {
					logger.Error("Failed to nack message", "queue", q.name, "error", nackErr)
				}
				continue
			}

			if ackErr := delivery.Ack(false); ackErr != nil {
				logger.Error("Failed to ack message", "queue", q.name, "error", ackErr)
			}
		}
	}
}

func (q *Queue) Close() {
	if q.ch != nil {
		q.ch.Close()
	}
	if q.conn != nil {
		q.conn.Close()
	}
}
