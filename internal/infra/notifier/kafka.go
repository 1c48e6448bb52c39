package notifier

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"booking-reconciler/internal/domain/booking"
	"booking-reconciler/internal/infra"
	"booking-reconciler/internal/pkg/clock"
	"booking-reconciler/internal/pkg/config"
	"booking-reconciler/internal/pkg/errs"
	"booking-reconciler/internal/usecase/reconcile"

	"github.com/segmentio/kafka-go"
)

const (
	HeaderEventType   = "event-type"
	HeaderContentType = "content-type"
)

// MessageWriter is the subset of *kafka.Writer the notifier needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Kafka publishes notification events keyed by booking id, so events of
// one booking stay ordered within a partition.
type Kafka struct {
	writer  MessageWriter
	clock   clock.Clock
	logger  *slog.Logger
	timeout time.Duration
}

func NewKafkaWriter(cfg config.KafkaConfig, logger *slog.Logger) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.NotificationTopic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		MaxAttempts:  3,
		BatchTimeout: 50 * time.Millisecond,
		WriteTimeout: cfg.WriteTimeout,
		Logger:       kafka.LoggerFunc(func(string, ...any) {}),
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...any) {
			logger.Error("kafka writer: "+msg, "args", args)
		}),
	}
}

func NewKafka(writer MessageWriter, clock clock.Clock, logger *slog.Logger, timeout time.Duration) *Kafka {
	return &Kafka{writer: writer, clock: clock, logger: logger, timeout: timeout}
}

func (k *Kafka) PaymentReminder(ctx context.Context, r reconcile.PaymentReminder) error {
	return k.publish(ctx, reminderEvent(r, k.clock.Now()))
}

func (k *Kafka) BookingDisputed(ctx context.Context, b booking.Booking) error {
	return k.publish(ctx, bookingEvent(EventBookingDisputed, b, k.clock.Now()))
}

func (k *Kafka) BookingExpired(ctx context.Context, b booking.Booking) error {
	return k.publish(ctx, bookingEvent(EventBookingExpired, b, k.clock.Now()))
}

func (k *Kafka) Close() error {
	return k.writer.Close()
}

func (k *Kafka) publish(ctx context.Context, e Event) error {
	value, err := json.Marshal(e)
	if err != nil {
		return errs.Wrap(err, "encode notification event")
	}
	msg := kafka.Message{
		Key:   []byte(e.BookingID.String()),
		Value: value,
		Time:  e.OccurredAt,
		Headers: []kafka.Header{
			{Key: HeaderEventType, Value: []byte(e.Type)},
			{Key: HeaderContentType, Value: []byte("application/json")},
		},
	}

	if k.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, k.timeout)
		defer cancel()
	}
	if err := k.writer.WriteMessages(ctx, msg); err != nil {
		return errs.Mark(
			infra.WrapRepoErr(k.logger, infra.KindPublish, "failed to publish "+e.Type, err),
			errs.ErrNotificationFailure,
		)
	}
	k.logger.Debug("notification published", "type", e.Type, "booking_id", e.BookingID)
	return nil
}
