package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"venue-booking/internal/data/entity"
	"venue-booking/pkg/mailer"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const bookingQueueName = "venue-booking.booking-created.mail"

type UserFinder interface {
	FindByID(ctx context.Context, id int64) (*entity.User, error)
}

// Consumer mails the booker when a booking.created event arrives.
type Consumer struct {
	url      string
	exchange string
	users    UserFinder
	mail     mailer.Mailer
	log      *zap.Logger
}

func NewConsumer(url, exchange string, users UserFinder, mail mailer.Mailer, log *zap.Logger) *Consumer {
	return &Consumer{
		url:      url,
		exchange: exchange,
		users:    users,
		mail:     mail,
		log:      log.With(zap.String("consumer", "booking_created")),
	}
}

// Run reconnects with exponential backoff until ctx is cancelled.
func (c *Consumer) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(c.url)
		if err != nil {
			c.log.Warn("Failed to dial broker", zap.Error(err), zap.Duration("retry_in", backoff))
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = c.consume(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}

		c.log.Warn("Consume loop ended, reconnecting", zap.Error(err))
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func (c *Consumer) consume(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(20, 0, false); err != nil {
		c.log.Warn("Failed to set QoS", zap.Error(err))
	}
	if err := declareExchange(ch, c.exchange); err != nil {
		return err
	}

	q, err := ch.QueueDeclare(bookingQueueName, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}
	if err := ch.QueueBind(q.Name, RoutingKeyBookingCreated, c.exchange, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}

	msgs, err := ch.ConsumeWithContext(ctx, q.Name, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}

	c.log.Info("Consuming booking events", zap.String("queue", q.Name))

	for d := range msgs {
		if err := c.Handle(ctx, d.Body); err != nil {
			c.log.Error("Failed to handle booking event", zap.Error(err))
			// dropped, never requeued
			_ = d.Nack(false, false)
			continue
		}
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}

// Handle decodes one booking.created payload and mails the booker.
func (c *Consumer) Handle(ctx context.Context, body []byte) error {
	var event BookingCreated
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("unmarshal booking event: %w", err)
	}

	user, err := c.users.FindByID(ctx, event.UserID)
	if err != nil {
		return fmt.Errorf("find booker %d: %w", event.UserID, err)
	}
	if user == nil {
		c.log.Warn("Booker no longer exists", zap.Int64("user_id", event.UserID))
		return nil
	}

	msg := mailer.BookingConfirmation(user.Email, user.Name, event.BookingID, event.FieldName, event.PlayDateStart, event.PlayDateEnd)
	if err := c.mail.Send(ctx, msg); err != nil {
		return fmt.Errorf("mail booker %d: %w", event.UserID, err)
	}

	c.log.Info("Booking confirmation sent",
		zap.Int64("booking_id", event.BookingID),
		zap.Int64("user_id", event.UserID))
	return nil
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
