package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"donorseeker/pkg/config"
	"donorseeker/pkg/logger"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	NotificationQueueName      = "notification_queue"
	NotificationExchange       = "notifications"
	DonationAcceptedRoutingKey = "donation_accepted"

	maxPriority     = 10
	defaultPriority = 5
)

type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	logger  *logger.Logger
}

func NewRabbitMQClient(cfg *config.Config, log *logger.Logger) (*Client, error) {
	url := fmt.Sprintf("amqp://%s:%s@%s:%s/",
		cfg.RabbitMQUser,
		cfg.RabbitMQPassword,
		cfg.RabbitMQHost,
		cfg.RabbitMQPort,
	)

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := declareTopology(channel); err != nil {
		channel.Close()
		conn.Close()
		return nil, err
	}

	log.Info("[RABBITMQ] Connected to RabbitMQ at %s:%s", cfg.RabbitMQHost, cfg.RabbitMQPort)

	return &Client{
		conn:    conn,
		channel: channel,
		logger:  log,
	}, nil
}

func declareTopology(channel *amqp.Channel) error {
	err := channel.ExchangeDeclare(
		NotificationExchange, // name
		"direct",             // type
		true,                 // durable
		false,                // auto-deleted
		false,                // internal
		false,                // no-wait
		nil,                  // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	_, err = channel.QueueDeclare(
		NotificationQueueName, // name
		true,                  // durable
		false,                 // delete when unused
		false,                 // exclusive
		false,                 // no-wait
		amqp.Table{
			"x-max-priority": maxPriority,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	err = channel.QueueBind(
		NotificationQueueName,      // queue name
		DonationAcceptedRoutingKey, // routing key
		NotificationExchange,       // exchange
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to bind queue: %w", err)
	}
	return nil
}

func (c *Client) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// ClampPriority keeps a task priority inside the queue's 0..10 range.
func ClampPriority(p int) uint8 {
	if p < 0 {
		return 0
	}
	if p > maxPriority {
		return maxPriority
	}
	return uint8(p)
}

// PublishDonationAccepted publishes a persistent, prioritised task. The
// event id doubles as the AMQP message id so consumers can drop redeliveries.
func (c *Client) PublishDonationAccepted(ctx context.Context, task DonationAcceptedTask) error {
	if task.Priority == 0 {
		task.Priority = defaultPriority
	}

	body, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to marshal task: %w", err)
	}

	err = c.channel.PublishWithContext(ctx,
		NotificationExchange,       // exchange
		DonationAcceptedRoutingKey, // routing key
		false,                      // mandatory
		false,                      // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			MessageId:    task.EventID,
			Body:         body,
			Priority:     ClampPriority(task.Priority),
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		c.logger.Error("[RABBITMQ] Failed to publish message to exchange=%s, routing_key=%s: %v", NotificationExchange, DonationAcceptedRoutingKey, err)
		return fmt.Errorf("failed to publish message: %w", err)
	}

	c.logger.Info("[RABBITMQ] Published donation_accepted task event=%s transaction=%s", task.EventID, task.TransactionID)
	return nil
}

// ConsumeDonationAccepted delivers tasks to handler until ctx is done.
// Malformed bodies are dropped; handler errors requeue the message.
func (c *Client) ConsumeDonationAccepted(ctx context.Context, handler func(ctx context.Context, task DonationAcceptedTask) error) error {
	msgs, err := c.channel.Consume(
		NotificationQueueName, // queue
		"",                    // consumer
		false,                 // auto-ack
		false,                 // exclusive
		false,                 // no-local
		false,                 // no-wait
		nil,                   // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	c.logger.Info("[RABBITMQ] Started consuming from queue: %s", NotificationQueueName)

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return fmt.Errorf("consumer channel closed")
			}
			c.handleDelivery(ctx, msg, handler)
		}
	}
}

func (c *Client) handleDelivery(ctx context.Context, msg amqp.Delivery, handler func(ctx context.Context, task DonationAcceptedTask) error) {
	var task DonationAcceptedTask
	if err := json.Unmarshal(msg.Body, &task); err != nil {
		c.logger.Error("[RABBITMQ] Failed to unmarshal task: %v, body=%s", err, string(msg.Body))
		msg.Nack(false, false)
		return
	}

	if err := handler(ctx, task); err != nil {
		c.logger.Error("[RABBITMQ] Handler failed for event=%s: %v", task.EventID, err)
		msg.Nack(false, true)
		return
	}

	msg.Ack(false)
}

// GetQueueLength returns the number of messages in the queue
func (c *Client) GetQueueLength() (int, error) {
	queue, err := c.channel.QueueInspect(NotificationQueueName)
	if err != nil {
		return 0, err
	}
	return queue.Messages, nil
}
