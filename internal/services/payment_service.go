// Package services – PaymentService
//
// This file implements the PaymentService, the broker between reservations
// and the external payment processor. It opens checkout sessions for pending
// reservations, reuses a live session instead of minting a second one, and
// retries provider calls with backoff before giving up.
//
// The broker never marks anything paid. Confirmation arrives exclusively
// through the webhook reconciler; a checkout URL in hand proves nothing about
// the outcome of the payment.
package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/slotcast/go-booking-backend/internal/domain"
	"github.com/slotcast/go-booking-backend/internal/repo"
	"github.com/slotcast/go-booking-backend/pkg/payment"
)

// providerAttempts bounds how many times one CreateSession call may hit the
// processor before surfacing ErrPaymentProvider.
const providerAttempts = 3

// providerBackoff is the base delay between provider retries; attempt n waits
// n times this value.
const providerBackoff = 200 * time.Millisecond

// CheckoutSession is what the broker hands back to the client: everything
// needed to complete payment, nothing that lets the client influence pricing.
type CheckoutSession struct {
	ReservationID string          `json:"reservation_id"`
	SessionID     string          `json:"session_id"`
	CheckoutURL   string          `json:"checkout_url"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	ExpiresAt     time.Time       `json:"expires_at"`
	Reused        bool            `json:"reused"`
}

// PaymentService brokers checkout sessions with the payment provider.
type PaymentService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB

	// Provider is the payment processor adapter.
	Provider payment.Provider

	// SessionTTL is how long a minted checkout session stays redeemable.
	SessionTTL time.Duration

	// Now allows tests to pin the clock; defaults to time.Now.
	Now func() time.Time

	// Sleep allows tests to skip retry backoff; defaults to time.Sleep.
	Sleep func(time.Duration)
}

// NewPaymentService constructs a PaymentService.
func NewPaymentService(db *gorm.DB, provider payment.Provider, sessionTTL time.Duration) *PaymentService {
	return &PaymentService{
		DB:         db,
		Provider:   provider,
		SessionTTL: sessionTTL,
		Now:        time.Now,
		Sleep:      time.Sleep,
	}
}

// CreateSession opens (or returns) the checkout session for a reservation.
//
// Idempotency: a reservation already awaiting payment with an unexpired
// session gets that same session back, so double-clicked checkout buttons and
// client retries never mint duplicate charges. A lapsed session is replaced
// with a fresh one on the same reservation.
//
// Errors: ErrReservationNotFound, ErrNotOwner, ErrInvalidState (reservation
// is paid, cancelled, or expired), ErrPaymentProvider (processor unreachable
// after retries), or a DB error.
func (s *PaymentService) CreateSession(ctx context.Context, reservationID, requesterID string) (*CheckoutSession, error) {
	r, err := repo.GetReservation(ctx, s.DB, reservationID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	if r.RequesterID != requesterID {
		return nil, ErrNotOwner
	}

	now := s.now().UTC()
	switch r.Status {
	case domain.ReservationPending:
		// fall through and mint below
	case domain.ReservationAwaitingPayment:
		if r.SessionID != nil && r.SessionExpiresAt != nil && r.SessionExpiresAt.After(now) {
			return &CheckoutSession{
				ReservationID: r.ID,
				SessionID:     *r.SessionID,
				CheckoutURL:   s.checkoutURLFor(*r.SessionID),
				Amount:        r.TotalAmount,
				Currency:      r.Currency,
				ExpiresAt:     *r.SessionExpiresAt,
				Reused:        true,
			}, nil
		}
	default:
		return nil, ErrInvalidState
	}

	sess, err := s.openWithRetry(ctx, payment.SessionRequest{
		ReservationID:  r.ID,
		Amount:         r.TotalAmount,
		Currency:       r.Currency,
		IdempotencyKey: r.ID,
		Description:    "screen slot " + r.Date + " " + FormatClock(r.StartMin) + "-" + FormatClock(r.EndMin),
		ExpiresIn:      s.SessionTTL,
		Metadata:       map[string]string{"reservation_id": r.ID},
	})
	if err != nil {
		return nil, err
	}

	// Session liveness is judged against s.Now, so the expiry is stamped from
	// the same clock rather than whatever the provider returns.
	expiresAt := now.Add(s.SessionTTL)

	// Record insert and session attach commit together: losing the attach to
	// a concurrent webhook or sweep must roll back the record, or an orphan
	// pending attempt with a live intent id would remain claimable.
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rec := &domain.PaymentRecord{
			ReservationID: r.ID,
			Amount:        r.TotalAmount,
			Currency:      r.Currency,
			IntentID:      sess.IntentID,
		}
		if err := repo.CreatePaymentRecord(ctx, tx, rec); err != nil {
			return err
		}
		if r.Status == domain.ReservationPending {
			return repo.AttachSession(ctx, tx, r.ID, sess.ID, expiresAt)
		}
		return repo.RefreshSession(ctx, tx, r.ID, sess.ID, expiresAt)
	})
	if errors.Is(err, repo.ErrStaleTransition) {
		// The reservation moved (webhook landed, hold expired) between our
		// read and the attach.
		return nil, ErrInvalidState
	}
	if err != nil {
		return nil, err
	}

	return &CheckoutSession{
		ReservationID: r.ID,
		SessionID:     sess.ID,
		CheckoutURL:   sess.CheckoutURL,
		Amount:        r.TotalAmount,
		Currency:      r.Currency,
		ExpiresAt:     expiresAt,
	}, nil
}

// openWithRetry calls the provider up to providerAttempts times with linear
// backoff, honoring context cancellation between attempts.
func (s *PaymentService) openWithRetry(ctx context.Context, req payment.SessionRequest) (*payment.Session, error) {
	var lastErr error
	for attempt := 1; attempt <= providerAttempts; attempt++ {
		sess, err := s.Provider.CreateSession(ctx, req)
		if err == nil {
			return sess, nil
		}
		lastErr = err
		log.Warn().
			Err(err).
			Str("reservation_id", req.ReservationID).
			Int("attempt", attempt).
			Msg("payment provider call failed")
		if attempt == providerAttempts || ctx.Err() != nil {
			break
		}
		s.sleep(time.Duration(attempt) * providerBackoff)
	}
	log.Error().
		Err(lastErr).
		Str("reservation_id", req.ReservationID).
		Msg("payment provider unreachable, giving up")
	return nil, ErrPaymentProvider
}

// checkoutURLFor rebuilds the checkout URL for a reused session. The stub
// provider derives URLs from session ids, so no provider round trip is
// needed; adapters for real processors store the URL alongside the session.
func (s *PaymentService) checkoutURLFor(sessionID string) string {
	if p, ok := s.Provider.(*payment.StubProvider); ok {
		return p.CheckoutBase + "/" + sessionID
	}
	return sessionID
}

func (s *PaymentService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *PaymentService) sleep(d time.Duration) {
	if s.Sleep != nil {
		s.Sleep(d)
		return
	}
	time.Sleep(d)
}
