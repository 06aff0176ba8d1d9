package rabbitmq

import (
	"fmt"
	"log"
	"time"

	amqp "github.com/streadway/amqp"
)

// ActivityQueue is the queue carrying best-effort platform activity events.
const ActivityQueue = "activity_events"

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL string
}

// NewClient connects to RabbitMQ, opens a channel and declares the activity
// queue.
func NewClient(cfg Config) (*Client, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	_, err = ch.QueueDeclare(
		ActivityQueue, // name
		true,          // durable (persists messages across broker restarts)
		false,         // delete when unused
		false,         // exclusive
		false,         // no-wait
		nil,           // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare %s: %w", ActivityQueue, err)
	}

	log.Printf("RabbitMQ client connected and %s declared", ActivityQueue)

	return &Client{
		conn:    conn,
		channel: ch,
	}, nil
}

// Close closes the RabbitMQ connection and channel.
func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("multiple errors occurred during RabbitMQ client close: %v", errs)
	}
	return nil
}

// Publish sends a persistent JSON message to the named queue via the default
// exchange.
func (c *Client) Publish(queue string, body []byte) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available")
	}

	err := c.channel.Publish(
		"",    // exchange: default exchange
		queue, // routing key: the queue name
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		})
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}
	return nil
}

// Consume registers a consumer on the named queue. Messages are acked when
// the handler returns nil; a failed message is requeued for one retry and
// dropped if it fails again.
func (c *Client) Consume(queue string, messageHandler func(msg amqp.Delivery) error) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available for consumption")
	}

	msgs, err := c.channel.Consume(
		queue, // queue
		"",    // consumer tag
		false, // auto-ack: manual acknowledgement
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	go func() {
		for msg := range msgs {
			handleDelivery(msg, messageHandler)
		}
	}()

	return nil
}

// handleDelivery runs the handler and settles the message. A failure on the
// first delivery is nacked with requeue for one retry; a failure on a
// redelivered message is acked away so a poison message cannot cycle through
// the queue forever.
func handleDelivery(msg amqp.Delivery, messageHandler func(msg amqp.Delivery) error) {
	err := messageHandler(msg)
	if err == nil {
		if ackErr := msg.Ack(false); ackErr != nil {
			log.Printf("Error acking message %d: %v", msg.DeliveryTag, ackErr)
		}
		return
	}

	log.Printf("Error processing message %d: %v", msg.DeliveryTag, err)
	if msg.Redelivered {
		log.Printf("Dropping message %d after failed retry", msg.DeliveryTag)
		if ackErr := msg.Ack(false); ackErr != nil {
			log.Printf("Error acking message %d: %v", msg.DeliveryTag, ackErr)
		}
		return
	}
	if requeueErr := msg.Nack(false, true); requeueErr != nil {
		log.Printf("Error nacking message %d: %v", msg.DeliveryTag, requeueErr)
	}
}
