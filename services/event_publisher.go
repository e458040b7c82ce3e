package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/yeremiapane/restoadmin/utils"
)

const defaultEventQueue = "restoadmin.floor_events"

// AMQPPublisher publishes floor events to a durable RabbitMQ queue so that
// other systems (SMS reminders, analytics) can consume them.
type AMQPPublisher struct {
	URL   string
	Queue string
	dial  func(url string) (amqpChannel, func(), error)
}

type amqpChannel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// NewAMQPPublisher returns nil when url is empty, so a missing broker simply
// disables publishing.
func NewAMQPPublisher(url string) *AMQPPublisher {
	if strings.TrimSpace(url) == "" {
		return nil
	}
	return &AMQPPublisher{URL: url, Queue: defaultEventQueue, dial: dialAMQP}
}

func dialAMQP(url string) (amqpChannel, func(), error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("rabbitmq dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("rabbitmq channel: %w", err)
	}
	return ch, func() {
		_ = ch.Close()
		_ = conn.Close()
	}, nil
}

// Notify publishes the event; failures are logged only.
func (p *AMQPPublisher) Notify(ctx context.Context, event Event) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, event); err != nil {
		utils.ErrorLogger.Errorf("rabbitmq: publish %s failed: %v", event.Type, err)
	}
}

// Publish sends one persistent JSON message with the event type as its type.
func (p *AMQPPublisher) Publish(ctx context.Context, event Event) error {
	dial := p.dial
	if dial == nil {
		dial = dialAMQP
	}
	ch, closeFn, err := dial(p.URL)
	if err != nil {
		return err
	}
	defer closeFn()

	queue := p.Queue
	if queue == "" {
		queue = defaultEventQueue
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("rabbitmq queue declare: %w", err)
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	return ch.PublishWithContext(ctx, "", queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Type:         event.Type,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
}
