package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"hr-portal/domain"
)

// RabbitMQ publishes and consumes notification jobs on a single durable queue.
type RabbitMQ struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   amqp.Queue
	logger  *logrus.Logger
}

func NewRabbitMQ(url, queueName string, logger *logrus.Logger) (*RabbitMQ, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	q, err := ch.QueueDeclare(
		queueName, // queue name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // args
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	logger.WithField("queue", q.Name).Info("connected to RabbitMQ")

	return &RabbitMQ{conn: conn, channel: ch, queue: q, logger: logger}, nil
}

// PublishJob enqueues a notification job.
func (r *RabbitMQ) PublishJob(ctx context.Context, job domain.NotificationJob) error {
	body, err := json.Marshal(job)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return r.channel.PublishWithContext(
		ctx,
		"",           // exchange
		r.queue.Name, // routing key
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
}

// ConsumeJobs runs handler for each delivery until ctx is done.
// Deliveries are acked after the handler returns and dropped when the body is not a job.
func (r *RabbitMQ) ConsumeJobs(ctx context.Context, handler func(context.Context, domain.NotificationJob) error) error {
	msgs, err := r.channel.Consume(
		r.queue.Name,
		"",
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case d, ok := <-msgs:
				if !ok {
					r.logger.Warn("notification queue consumer closed")
					return
				}
				r.handle(ctx, d, handler)
			}
		}
	}()
	return nil
}

func (r *RabbitMQ) handle(ctx context.Context, d amqp.Delivery, handler func(context.Context, domain.NotificationJob) error) {
	var job domain.NotificationJob
	if err := json.Unmarshal(d.Body, &job); err != nil {
		r.logger.WithError(err).Warn("invalid job format")
		_ = d.Nack(false, false)
		return
	}

	if err := handler(ctx, job); err != nil {
		r.logger.WithError(err).WithField("job_type", job.Type).Error("notification job failed")
	}
	_ = d.Ack(false)
}

func (r *RabbitMQ) Close() error {
	if err := r.channel.Close(); err != nil {
		r.conn.Close()
		return err
	}
	return r.conn.Close()
}
