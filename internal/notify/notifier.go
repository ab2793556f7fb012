// Package notify defines the outbound notification seam. Reconciliation
// treats notification as fire-and-forget: a delivery failure never blocks or
// rolls back a payment state change.
package notify

import (
	"context"

	"github.com/rs/zerolog/log"
)

// Notifier delivers a booking-confirmed message to the reservation's owner.
type Notifier interface {
	NotifyPaid(ctx context.Context, requesterID, reservationID string) error
}

// LogNotifier writes notifications to the structured log. It stands in for a
// real channel (email, push) in development and tests.
type LogNotifier struct{}

// NotifyPaid logs the confirmation.
func (LogNotifier) NotifyPaid(ctx context.Context, requesterID, reservationID string) error {
	log.Info().
		Str("requester_id", requesterID).
		Str("reservation_id", reservationID).
		Msg("booking confirmed notification")
	return nil
}
