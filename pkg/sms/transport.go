// Package sms abstracts the outbound SMS transport. Delivery itself is an
// external worker's job; this service only hands messages off.
package sms

import (
	"context"

	"github.com/google/uuid"
)

type Recipient struct {
	Phone  string    `json:"phone"`
	UserID uuid.UUID `json:"user_id"`
}

type Message struct {
	RecipientType string      `json:"recipient_type"`
	Recipients    []Recipient `json:"recipients"`
	Body          string      `json:"message"`
	// NotificationID, when set, lets the gateway post delivery receipts back
	// against the persisted notification record.
	NotificationID *uuid.UUID `json:"notification_id,omitempty"`
}

type Transport interface {
	Send(ctx context.Context, msg Message) error
}
