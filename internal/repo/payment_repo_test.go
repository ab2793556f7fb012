package repo

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/slotcast/go-booking-backend/internal/domain"
)

func TestCreatePaymentRecord_DefaultsAndDuplicateIntent(t *testing.T) {
	db := newTestDB(t)
	s := seedScreen(t, db)
	r := seedReservation(t, db, s.ID, 600, 720, domain.ReservationPending)

	p := &domain.PaymentRecord{
		ReservationID: r.ID,
		Amount:        decimal.NewFromInt(88),
		Currency:      "USD",
		IntentID:      "pi_abc",
	}
	if err := CreatePaymentRecord(context.Background(), db, p); err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.ID == "" {
		t.Fatal("expected generated ID")
	}
	if p.Status != domain.PaymentPending {
		t.Fatalf("default status = %s; want pending", p.Status)
	}

	dup := &domain.PaymentRecord{
		ReservationID: r.ID,
		Amount:        decimal.NewFromInt(88),
		Currency:      "USD",
		IntentID:      "pi_abc",
	}
	err := CreatePaymentRecord(context.Background(), db, dup)
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate for replayed intent, got %v", err)
	}
}

func TestUpdatePaymentStatusIf_Monotonic(t *testing.T) {
	db := newTestDB(t)
	s := seedScreen(t, db)
	r := seedReservation(t, db, s.ID, 600, 720, domain.ReservationAwaitingPayment)

	p := &domain.PaymentRecord{
		ReservationID: r.ID,
		Amount:        decimal.NewFromInt(88),
		Currency:      "USD",
		IntentID:      "pi_mono",
	}
	if err := CreatePaymentRecord(context.Background(), db, p); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := UpdatePaymentStatusIf(context.Background(), db, p.ID, domain.PaymentPending, domain.PaymentCompleted); err != nil {
		t.Fatalf("pending → completed: %v", err)
	}

	// A late failure must not downgrade the completed attempt.
	err := UpdatePaymentStatusIf(context.Background(), db, p.ID, domain.PaymentPending, domain.PaymentFailed)
	if !errors.Is(err, ErrStaleTransition) {
		t.Fatalf("expected ErrStaleTransition, got %v", err)
	}
	// Nor may completed → failed ever be expressed.
	err = UpdatePaymentStatusIf(context.Background(), db, p.ID, domain.PaymentCompleted, domain.PaymentFailed)
	if !errors.Is(err, ErrStaleTransition) {
		t.Fatalf("expected ErrStaleTransition for completed → failed, got %v", err)
	}

	got, err := GetPaymentByIntent(context.Background(), db, "pi_mono")
	if err != nil {
		t.Fatalf("get by intent: %v", err)
	}
	if got.Status != domain.PaymentCompleted {
		t.Fatalf("status = %s; want completed", got.Status)
	}
}

func TestGetPendingPaymentForReservation(t *testing.T) {
	db := newTestDB(t)
	s := seedScreen(t, db)
	r := seedReservation(t, db, s.ID, 600, 720, domain.ReservationAwaitingPayment)

	if _, err := GetPendingPaymentForReservation(context.Background(), db, r.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound with no attempts, got %v", err)
	}

	p := &domain.PaymentRecord{
		ReservationID: r.ID,
		Amount:        decimal.NewFromInt(88),
		Currency:      "USD",
		IntentID:      "pi_pending",
	}
	if err := CreatePaymentRecord(context.Background(), db, p); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := GetPendingPaymentForReservation(context.Background(), db, r.ID)
	if err != nil {
		t.Fatalf("get pending: %v", err)
	}
	if got.IntentID != "pi_pending" {
		t.Fatalf("intent = %s; want pi_pending", got.IntentID)
	}
}
