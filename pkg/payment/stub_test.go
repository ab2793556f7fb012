package payment

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestStubProvider_CreateSession(t *testing.T) {
	p := NewStubProvider("http://pay.local/checkout")

	s, err := p.CreateSession(context.Background(), SessionRequest{
		ReservationID: "res-1",
		ExpiresIn:     30 * time.Minute,
	})
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if !strings.HasPrefix(s.ID, "cs_") || !strings.HasPrefix(s.IntentID, "pi_") {
		t.Fatalf("unexpected handles: id=%q intent=%q", s.ID, s.IntentID)
	}
	if s.CheckoutURL != "http://pay.local/checkout/"+s.ID {
		t.Fatalf("unexpected checkout url: %q", s.CheckoutURL)
	}
	if s.Status != "open" {
		t.Fatalf("unexpected status: %q", s.Status)
	}
	if !s.ExpiresAt.After(time.Now().UTC().Add(29 * time.Minute)) {
		t.Fatalf("expiry not honored: %v", s.ExpiresAt)
	}

	// Handles are unique per call.
	s2, err := p.CreateSession(context.Background(), SessionRequest{ReservationID: "res-1"})
	if err != nil {
		t.Fatalf("second CreateSession: %v", err)
	}
	if s2.ID == s.ID || s2.IntentID == s.IntentID {
		t.Fatalf("expected fresh handles, got %q / %q", s2.ID, s2.IntentID)
	}
}

func TestStubProvider_CreateSession_FailHookAndContext(t *testing.T) {
	outage := errors.New("provider down")
	p := &StubProvider{CheckoutBase: "http://pay.local", Fail: func() error { return outage }}

	if _, err := p.CreateSession(context.Background(), SessionRequest{}); !errors.Is(err, outage) {
		t.Fatalf("expected outage error, got %v", err)
	}

	p.Fail = nil
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := p.CreateSession(ctx, SessionRequest{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context error, got %v", err)
	}
}

func TestStubProvider_VerifySession(t *testing.T) {
	p := NewStubProvider("http://pay.local")

	if ok, err := p.VerifySession(context.Background(), "cs_abc"); err != nil || !ok {
		t.Fatalf("expected minted handle to verify: ok=%v err=%v", ok, err)
	}
	if ok, err := p.VerifySession(context.Background(), "sess-123"); err != nil || ok {
		t.Fatalf("foreign handle must not verify: ok=%v err=%v", ok, err)
	}

	outage := errors.New("provider down")
	p.Fail = func() error { return outage }
	if _, err := p.VerifySession(context.Background(), "cs_abc"); !errors.Is(err, outage) {
		t.Fatalf("expected outage error, got %v", err)
	}
}
