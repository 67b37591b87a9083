package sms

import (
	"context"
	"fmt"
)

const dispatchKey = "sms.dispatch"

// publisher is satisfied by rabbitmq.Publisher.
type publisher interface {
	Publish(routingKey string, payload any) error
}

type amqpTransport struct {
	pub publisher
}

// NewAMQPTransport hands messages to the SMS gateway worker through the
// message broker.
func NewAMQPTransport(pub publisher) Transport {
	return &amqpTransport{pub: pub}
}

func (t *amqpTransport) Send(_ context.Context, msg Message) error {
	if len(msg.Recipients) == 0 {
		return fmt.Errorf("sms: no recipients")
	}
	if err := t.pub.Publish(dispatchKey, msg); err != nil {
		return fmt.Errorf("sms dispatch: %w", err)
	}
	return nil
}
