// Package notifierrmq publishes finalized transactions to RabbitMQ.
package notifierrmq

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/go-anri/tx-ledger/internal/domain"
)

const routingKey = "transaction.created"

// Publisher sends transaction messages to a topic exchange.
//
// Delivery is best-effort: callers treat publish failures as
// observations, never as request failures.
type Publisher struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
}

// New dials the broker and declares the durable transactions exchange.
//
// An empty source disables publishing: the returned nil Publisher is
// a no-op whose methods are safe to call.
func New(source, exchange string) (*Publisher, error) {
	if source == "" {
		return nil, nil
	}

	conn, err := amqp.Dial(source)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()

		return nil, err
	}

	return &Publisher{
		conn:     conn,
		ch:       ch,
		exchange: exchange,
	}, nil
}

// SendTransaction publishes the transaction as a JSON message.
func (p *Publisher) SendTransaction(ctx context.Context, transaction domain.Transaction) error {
	if p == nil {
		return nil
	}

	l := zerolog.Ctx(ctx)

	body, err := json.Marshal(transaction)
	if err != nil {
		l.Error().Err(err).Send()
		return err
	}

	return p.ch.PublishWithContext(ctx, p.exchange, routingKey, false, false, amqp.Publishing{
		ContentType: "application/json",
		MessageId:   transaction.ID,
		Timestamp:   time.Now(),
		Body:        body,
	})
}

// Close releases the channel and the broker connection.
func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}

	if err := p.ch.Close(); err != nil {
		p.conn.Close()
		return err
	}

	return p.conn.Close()
}
