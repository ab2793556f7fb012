// Package payment abstracts the external payment processor behind a small
// Provider interface so the broker logic stays testable and processor-agnostic.
package payment

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// SessionRequest describes one checkout session to open with the processor.
type SessionRequest struct {
	ReservationID  string
	Amount         decimal.Decimal
	Currency       string
	IdempotencyKey string
	Description    string
	ExpiresIn      time.Duration
	Metadata       map[string]string
}

// Session is the processor's handle for a checkout flow.
type Session struct {
	ID          string
	IntentID    string
	CheckoutURL string
	Status      string
	ExpiresAt   time.Time
}

// Provider is implemented by payment processor adapters.
type Provider interface {
	CreateSession(ctx context.Context, req SessionRequest) (*Session, error)
	VerifySession(ctx context.Context, sessionID string) (bool, error)
}
