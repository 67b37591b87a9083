package consumer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
	"github.com/sportsacademy/academy-backend/internal/repository"
)

// statusReceipt is what the SMS gateway worker posts back after a delivery
// attempt.
type statusReceipt struct {
	NotificationID uuid.UUID `json:"notification_id"`
	Status         string    `json:"status"`
	DeliveredAt    time.Time `json:"delivered_at"`
}

// SMSStatusConsumer applies gateway delivery receipts to notification rows.
type SMSStatusConsumer struct {
	notifications repository.NotificationRepository
	logger        zerolog.Logger
}

func NewSMSStatusConsumer(notifications repository.NotificationRepository, logger zerolog.Logger) *SMSStatusConsumer {
	return &SMSStatusConsumer{notifications: notifications, logger: logger}
}

func (sc *SMSStatusConsumer) Start(msgs <-chan amqp.Delivery) {
	go func() {
		for msg := range msgs {
			sc.handleMessage(msg)
		}
		sc.logger.Info().Msg("sms status channel closed, stopping consumer")
	}()
}

func (sc *SMSStatusConsumer) handleMessage(msg amqp.Delivery) {
	var receipt statusReceipt
	if err := json.Unmarshal(msg.Body, &receipt); err != nil {
		sc.logger.Error().Err(err).Msg("sms status: failed to unmarshal receipt")
		msg.Nack(false, false)
		return
	}

	if receipt.Status != "delivered" || receipt.NotificationID == uuid.Nil {
		// Failed deliveries are log-only; the fan-out already recorded the
		// attempt and there is no retry pipeline.
		sc.logger.Warn().Str("status", receipt.Status).Msg("sms status: non-delivery receipt")
		msg.Ack(false)
		return
	}

	at := receipt.DeliveredAt
	if at.IsZero() {
		at = time.Now()
	}
	if err := sc.notifications.MarkDelivered(context.Background(), receipt.NotificationID, at); err != nil {
		sc.logger.Error().Err(err).
			Str("notification_id", receipt.NotificationID.String()).
			Msg("sms status: failed to record delivery")
		msg.Nack(false, true) // requeue
		return
	}

	msg.Ack(false)
}
