// Package services – WebhookService
//
// This file implements the WebhookService, which reconciles payment outcomes
// delivered by the processor. Webhooks are the only path by which money state
// enters the system, and they arrive with none of the usual guarantees: at
// least once, out of order, sometimes forged. The service therefore layers
// three defenses before touching any row:
//
//  1. an HMAC-SHA256 signature check over the raw body,
//  2. the processed-event ledger, which absorbs redeliveries,
//  3. conditional status updates, which make reordered events no-ops.
//
// Structural problems (bad signature, malformed payload, unknown intent) are
// surfaced as distinct errors so the handler can return 4xx and stop the
// processor from retrying; transient storage failures propagate as plain
// errors for a 5xx and a retry.
package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/slotcast/go-booking-backend/internal/domain"
	"github.com/slotcast/go-booking-backend/internal/notify"
	"github.com/slotcast/go-booking-backend/internal/repo"
)

// WebhookOutcome reports what handling an event amounted to.
type WebhookOutcome string

const (
	// OutcomeProcessed means the event applied a state change.
	OutcomeProcessed WebhookOutcome = "processed"
	// OutcomeDuplicate means the event was already in the ledger.
	OutcomeDuplicate WebhookOutcome = "duplicate"
	// OutcomeIgnored means the event type is not one we act on.
	OutcomeIgnored WebhookOutcome = "ignored"
)

// Event types the processor sends.
const (
	eventCheckoutCompleted = "checkout_completed"
	eventPaymentSucceeded  = "payment_succeeded"
	eventPaymentFailed     = "payment_failed"
)

// webhookEvent is the wire shape of a processor event.
type webhookEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		IntentID  string `json:"intent_id"`
		SessionID string `json:"session_id"`
	} `json:"data"`
}

// WebhookService verifies and applies payment processor events.
type WebhookService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB

	// Secret is the shared HMAC key for signature verification.
	Secret []byte

	// Notifier receives fire-and-forget booking confirmations.
	Notifier notify.Notifier
}

// NewWebhookService constructs a WebhookService.
func NewWebhookService(db *gorm.DB, secret string, notifier notify.Notifier) *WebhookService {
	return &WebhookService{DB: db, Secret: []byte(secret), Notifier: notifier}
}

// VerifySignature checks the hex HMAC-SHA256 of body against signature in
// constant time. ErrBadSignature on mismatch.
func (s *WebhookService) VerifySignature(body []byte, signature string) error {
	mac := hmac.New(sha256.New, s.Secret)
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(strings.TrimSpace(signature)), []byte(expected)) {
		return ErrBadSignature
	}
	return nil
}

// Handle verifies, deduplicates, and applies one raw webhook delivery.
//
// Errors: ErrBadSignature, ErrValidation (malformed payload), or
// ErrReservationNotFound (intent correlates to nothing; structural, the
// processor must not retry). Everything else is transient.
func (s *WebhookService) Handle(ctx context.Context, body []byte, signature string) (WebhookOutcome, error) {
	if err := s.VerifySignature(body, signature); err != nil {
		log.Warn().Msg("webhook rejected: signature mismatch")
		return "", err
	}

	var ev webhookEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return "", fmt.Errorf("%w: malformed event payload", ErrValidation)
	}
	if strings.TrimSpace(ev.ID) == "" || strings.TrimSpace(ev.Type) == "" {
		return "", fmt.Errorf("%w: event id and type are required", ErrValidation)
	}

	seen, err := repo.SeenEvent(ctx, s.DB, ev.ID)
	if err != nil {
		return "", err
	}
	if seen {
		log.Info().Str("event_id", ev.ID).Str("type", ev.Type).Msg("webhook replay absorbed")
		return OutcomeDuplicate, nil
	}

	switch ev.Type {
	case eventCheckoutCompleted, eventPaymentSucceeded:
		return s.applyOutcome(ctx, ev, domain.PaymentCompleted)
	case eventPaymentFailed:
		return s.applyOutcome(ctx, ev, domain.PaymentFailed)
	default:
		// Unknown types are acknowledged and ledgered so redeliveries stay
		// cheap, but nothing changes state.
		if err := repo.RecordProcessedEvent(ctx, s.DB, ev.ID, ev.Type); err != nil && !errors.Is(err, repo.ErrDuplicate) {
			return "", err
		}
		log.Info().Str("event_id", ev.ID).Str("type", ev.Type).Msg("webhook type ignored")
		return OutcomeIgnored, nil
	}
}

// applyOutcome records the event and applies the payment outcome in one
// transaction, so a crash can never ledger an event whose effects were lost.
func (s *WebhookService) applyOutcome(ctx context.Context, ev webhookEvent, to domain.PaymentStatus) (WebhookOutcome, error) {
	if strings.TrimSpace(ev.Data.IntentID) == "" {
		return "", fmt.Errorf("%w: event carries no intent id", ErrValidation)
	}

	pay, err := repo.GetPaymentByIntent(ctx, s.DB, ev.Data.IntentID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return "", ErrReservationNotFound
		}
		return "", err
	}

	var notifyRequester string
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repo.RecordProcessedEvent(ctx, tx, ev.ID, ev.Type); err != nil {
			return err
		}

		// Late or reordered deliveries lose the conditional update and are
		// dropped here without failing the whole event.
		err := repo.UpdatePaymentStatusIf(ctx, tx, pay.ID, domain.PaymentPending, to)
		if errors.Is(err, repo.ErrStaleTransition) {
			log.Info().
				Str("event_id", ev.ID).
				Str("intent_id", ev.Data.IntentID).
				Msg("payment already settled, event had no effect")
			return nil
		}
		if err != nil {
			return err
		}

		if to != domain.PaymentCompleted {
			// A failed attempt cancels the reservation and releases the slot.
			// Losing the conditional update means the reservation already
			// moved on (paid via a racing success, or swept); drop quietly.
			err := repo.UpdateStatusIf(ctx, tx, pay.ReservationID,
				domain.ReservationAwaitingPayment, domain.ReservationCancelled)
			if errors.Is(err, repo.ErrStaleTransition) {
				log.Info().
					Str("event_id", ev.ID).
					Str("reservation_id", pay.ReservationID).
					Msg("payment failed but reservation already left awaiting_payment")
				return nil
			}
			return err
		}

		err = repo.UpdateStatusIf(ctx, tx, pay.ReservationID,
			domain.ReservationAwaitingPayment, domain.ReservationPaid)
		if errors.Is(err, repo.ErrStaleTransition) {
			log.Warn().
				Str("event_id", ev.ID).
				Str("reservation_id", pay.ReservationID).
				Msg("payment completed but reservation left awaiting_payment")
			return nil
		}
		if err != nil {
			return err
		}

		r, err := repo.GetReservation(ctx, tx, pay.ReservationID)
		if err != nil {
			return err
		}
		notifyRequester = r.RequesterID
		return nil
	})
	if errors.Is(err, repo.ErrDuplicate) {
		// Concurrent delivery of the same event won the ledger insert.
		return OutcomeDuplicate, nil
	}
	if err != nil {
		return "", err
	}

	if notifyRequester != "" && s.Notifier != nil {
		// Fire-and-forget: notification failures never affect the webhook
		// response or the committed state.
		go func(requesterID, reservationID string) {
			if err := s.Notifier.NotifyPaid(context.Background(), requesterID, reservationID); err != nil {
				log.Warn().Err(err).Str("reservation_id", reservationID).Msg("paid notification failed")
			}
		}(notifyRequester, pay.ReservationID)
	}

	log.Info().
		Str("event_id", ev.ID).
		Str("type", ev.Type).
		Str("intent_id", ev.Data.IntentID).
		Msg("webhook processed")
	return OutcomeProcessed, nil
}
