package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/slotcast/go-booking-backend/internal/domain"
)

func TestGetIdempotency_BlankScreenID_ReturnsNotFound(t *testing.T) {
	db := newTestDB(t)
	now := time.Now().UTC()

	rec, err := GetIdempotency(context.Background(), db, "u1", "   ", "k1", now)
	if rec != nil || !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for blank screen id, got rec=%v err=%v", rec, err)
	}
}

func TestGetIdempotency_ExpiredOrMissing_ReturnsNotFound(t *testing.T) {
	db := newTestDB(t)
	now := time.Now().UTC()

	exp := &domain.Idempotency{
		ID:            "idem-expired",
		UserID:        "u1",
		ScreenID:      "s1",
		Key:           "k1",
		ReservationID: "r1",
		Status:        201,
		CreatedAt:     now.Add(-2 * time.Hour),
		ExpiresAt:     now.Add(-time.Hour),
	}
	if err := db.Create(exp).Error; err != nil {
		t.Fatalf("seed expired record: %v", err)
	}

	if rec, err := GetIdempotency(context.Background(), db, "u1", "s1", "k1", now); rec != nil || !errors.Is(err, ErrNotFound) {
		t.Fatalf("expired record must not be returned: rec=%v err=%v", rec, err)
	}
	if rec, err := GetIdempotency(context.Background(), db, "u1", "s1", "missing", now); rec != nil || !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing key must return ErrNotFound: rec=%v err=%v", rec, err)
	}
}

func TestGetIdempotency_Success(t *testing.T) {
	db := newTestDB(t)
	now := time.Now().UTC()

	live := &domain.Idempotency{
		ID:            "idem-live",
		UserID:        "u1",
		ScreenID:      "s2",
		Key:           "k2",
		ReservationID: "r2",
		Status:        201,
		CreatedAt:     now,
		ExpiresAt:     now.Add(time.Hour),
	}
	if err := db.Create(live).Error; err != nil {
		t.Fatalf("seed record: %v", err)
	}

	rec, err := GetIdempotency(context.Background(), db, "u1", "s2", "k2", now)
	if err != nil {
		t.Fatalf("GetIdempotency: %v", err)
	}
	if rec.ReservationID != "r2" || rec.Status != 201 {
		t.Fatalf("unexpected record: %+v", rec)
	}
}

func TestCreateIdempotency_SuccessAndDuplicate(t *testing.T) {
	db := newTestDB(t)
	ttl := time.Hour

	rec, err := CreateIdempotency(context.Background(), db, "u9", "s9", "k9", "r9", 201, ttl)
	if err != nil {
		t.Fatalf("CreateIdempotency: %v", err)
	}
	if rec.ID == "" || rec.ReservationID != "r9" {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if !rec.ExpiresAt.After(rec.CreatedAt) {
		t.Fatalf("expiry must be after creation: %+v", rec)
	}

	// Same tuple again, different reservation: unique index wins.
	if _, err := CreateIdempotency(context.Background(), db, "u9", "s9", "k9", "rX", 200, ttl); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}
