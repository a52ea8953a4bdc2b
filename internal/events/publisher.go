package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

type Publisher interface {
	PublishBookingCreated(ctx context.Context, event BookingCreated) error
	Close() error
}

// channel is the part of *amqp.Channel the publisher uses
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	IsClosed() bool
	Close() error
}

// dialFunc opens a connection and a channel with the exchange declared
type dialFunc func() (channel, io.Closer, error)

// AMQPPublisher re-dials on the next publish after the broker drops the channel.
type AMQPPublisher struct {
	mu       sync.Mutex // amqp channels are not safe for concurrent publish
	dial     dialFunc
	conn     io.Closer
	ch       channel
	exchange string
	log      *zap.Logger
}

func NewAMQPPublisher(url, exchange string, log *zap.Logger) (*AMQPPublisher, error) {
	p := newPublisher(amqpDialer(url, exchange), exchange, log)
	if err := p.connect(); err != nil {
		return nil, err
	}
	return p, nil
}

func newPublisher(dial dialFunc, exchange string, log *zap.Logger) *AMQPPublisher {
	return &AMQPPublisher{
		dial:     dial,
		exchange: exchange,
		log:      log.With(zap.String("publisher", "amqp")),
	}
}

func amqpDialer(url, exchange string) dialFunc {
	return func() (channel, io.Closer, error) {
		conn, err := amqp.Dial(url)
		if err != nil {
			return nil, nil, fmt.Errorf("dial rabbitmq: %w", err)
		}
		ch, err := conn.Channel()
		if err != nil {
			_ = conn.Close()
			return nil, nil, fmt.Errorf("open channel: %w", err)
		}
		if err := declareExchange(ch, exchange); err != nil {
			_ = ch.Close()
			_ = conn.Close()
			return nil, nil, err
		}
		return ch, conn, nil
	}
}

// connect replaces the current connection. Caller holds mu or owns p exclusively.
func (p *AMQPPublisher) connect() error {
	p.closeLocked()

	ch, conn, err := p.dial()
	if err != nil {
		return err
	}
	p.ch, p.conn = ch, conn
	return nil
}

func (p *AMQPPublisher) PublishBookingCreated(ctx context.Context, event BookingCreated) error {
	return p.publishJSON(ctx, RoutingKeyBookingCreated, event)
}

func (p *AMQPPublisher) publishJSON(ctx context.Context, key string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch == nil || p.ch.IsClosed() {
		p.log.Warn("Channel closed, reconnecting to broker")
		if err := p.connect(); err != nil {
			return fmt.Errorf("reconnect for %s: %w", key, err)
		}
	}

	err = p.ch.PublishWithContext(ctx, p.exchange, key, false, false, msg)
	if errors.Is(err, amqp.ErrClosed) {
		// dropped after the IsClosed check, retry once on a fresh channel
		if err := p.connect(); err != nil {
			return fmt.Errorf("reconnect for %s: %w", key, err)
		}
		err = p.ch.PublishWithContext(ctx, p.exchange, key, false, false, msg)
	}
	if err != nil {
		return fmt.Errorf("publish %s: %w", key, err)
	}

	p.log.Debug("Event published", zap.String("routing_key", key))
	return nil
}

func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closeLocked()
}

func (p *AMQPPublisher) closeLocked() error {
	var err error
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		err = p.conn.Close()
		p.conn = nil
	}
	return err
}

// NoopPublisher drops events. Used when RABBITMQ_URL is empty.
type NoopPublisher struct {
	log *zap.Logger
}

func NewNoopPublisher(log *zap.Logger) *NoopPublisher {
	return &NoopPublisher{log: log.With(zap.String("publisher", "noop"))}
}

func (p *NoopPublisher) PublishBookingCreated(_ context.Context, event BookingCreated) error {
	p.log.Debug("Event dropped, broker disabled",
		zap.String("routing_key", RoutingKeyBookingCreated),
		zap.Int64("booking_id", event.BookingID))
	return nil
}

func (p *NoopPublisher) Close() error { return nil }

func declareExchange(ch *amqp.Channel, exchange string) error {
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	return nil
}
