// Package events publishes quiz lifecycle events to a message broker.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

const (
	DefaultExchange        = "flashcards.events"
	RoutingAttemptFinished = "flashcards.attempt.finished"
)

// AttemptFinished is published once per completed pass through a deck.
type AttemptFinished struct {
	SessionID   string    `json:"session_id"`
	ContentID   string    `json:"content_id"`
	Subject     string    `json:"subject"`
	Score       int       `json:"score"`
	MaxScore    int       `json:"max_score"`
	StatementID string    `json:"statement_id,omitempty"`
	FinishedAt  time.Time `json:"finished_at"`
}

type Publisher interface {
	PublishAttemptFinished(ctx context.Context, e AttemptFinished) error
	Close() error
}

// AMQPPublisher publishes to a durable topic exchange. With an empty URI it
// only logs.
type AMQPPublisher struct {
	conn     *amqp091.Connection
	channel  *amqp091.Channel
	exchange string
	enabled  bool
}

func NewAMQPPublisher(uri, exchange string) (*AMQPPublisher, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}
	if uri == "" {
		log.Println("events: AMQP URI is empty, publishing is disabled")
		return &AMQPPublisher{exchange: exchange}, nil
	}

	conn, err := amqp091.Dial(uri)
	if err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	err = ch.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	log.Printf("events: publishing to exchange %s", exchange)
	return &AMQPPublisher{conn: conn, channel: ch, exchange: exchange, enabled: true}, nil
}

func (p *AMQPPublisher) Enabled() bool { return p.enabled }

func (p *AMQPPublisher) PublishAttemptFinished(ctx context.Context, e AttemptFinished) error {
	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	if !p.enabled {
		log.Printf("events: %s %s", RoutingAttemptFinished, body)
		return nil
	}
	err = p.channel.PublishWithContext(ctx,
		p.exchange,             // exchange
		RoutingAttemptFinished, // routing key
		false,                  // mandatory
		false,                  // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    e.FinishedAt,
			MessageId:    e.StatementID,
			Body:         body,
			Headers: amqp091.Table{
				"event_type": RoutingAttemptFinished,
				"content_id": e.ContentID,
				"session_id": e.SessionID,
			},
		},
	)
	if err != nil {
		return fmt.Errorf("publish %s: %w", RoutingAttemptFinished, err)
	}
	return nil
}

func (p *AMQPPublisher) Close() error {
	if !p.enabled {
		return nil
	}
	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			log.Printf("events: close channel: %v", err)
		}
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil {
			return fmt.Errorf("close broker connection: %w", err)
		}
	}
	return nil
}
