package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// StubProvider is a local in-process Provider for development and tests. It
// mints deterministic-looking session handles without talking to any
// processor; completion is driven entirely by the webhook endpoint.
type StubProvider struct {
	// CheckoutBase is prefixed to the session ID to form the checkout URL.
	CheckoutBase string

	// Fail, when set, is consulted before every call so tests can simulate
	// provider outages.
	Fail func() error
}

// NewStubProvider returns a StubProvider pointing at checkoutBase.
func NewStubProvider(checkoutBase string) *StubProvider {
	return &StubProvider{CheckoutBase: checkoutBase}
}

// CreateSession mints a new local session handle.
func (p *StubProvider) CreateSession(ctx context.Context, req SessionRequest) (*Session, error) {
	if p.Fail != nil {
		if err := p.Fail(); err != nil {
			return nil, err
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	id := "cs_" + uuid.NewString()
	return &Session{
		ID:          id,
		IntentID:    "pi_" + uuid.NewString(),
		CheckoutURL: fmt.Sprintf("%s/%s", p.CheckoutBase, id),
		Status:      "open",
		ExpiresAt:   time.Now().UTC().Add(req.ExpiresIn),
	}, nil
}

// VerifySession reports whether the session handle looks like one we minted.
func (p *StubProvider) VerifySession(ctx context.Context, sessionID string) (bool, error) {
	if p.Fail != nil {
		if err := p.Fail(); err != nil {
			return false, err
		}
	}
	return len(sessionID) > 3 && sessionID[:3] == "cs_", nil
}
