package repo

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/slotcast/go-booking-backend/internal/domain"
)

func TestCreateScreen_FillsDefaults(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	s := &domain.Screen{
		OwnerID:        "owner-1",
		Name:           "Pier West",
		HourlyPrice:    decimal.NewFromInt(25),
		OpenMin:        8 * 60,
		CloseMin:       20 * 60,
		GranularityMin: 60,
		Active:         true,
	}
	if err := CreateScreen(ctx, db, s); err != nil {
		t.Fatalf("create: %v", err)
	}
	if s.ID == "" {
		t.Fatal("expected a generated ID")
	}
	if s.CreatedAt.IsZero() {
		t.Fatal("expected CreatedAt to be set")
	}

	got, err := GetScreen(ctx, db, s.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "Pier West" || !got.HourlyPrice.Equal(decimal.NewFromInt(25)) {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestGetScreen_NotFound(t *testing.T) {
	db := newTestDB(t)
	if _, err := GetScreen(context.Background(), db, uuid.NewString()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v; want ErrNotFound", err)
	}
}

func TestListActiveScreens(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	mk := func(name string, active bool) {
		s := &domain.Screen{
			OwnerID:        "owner-1",
			Name:           name,
			HourlyPrice:    decimal.NewFromInt(10),
			OpenMin:        9 * 60,
			CloseMin:       17 * 60,
			GranularityMin: 30,
			Active:         active,
		}
		if err := CreateScreen(ctx, db, s); err != nil {
			t.Fatalf("seed %s: %v", name, err)
		}
	}
	mk("Charlie", true)
	mk("Alpha", true)
	mk("Bravo", false) // inactive, must be filtered out

	got, err := ListActiveScreens(ctx, db)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d; want 2", len(got))
	}
	if got[0].Name != "Alpha" || got[1].Name != "Charlie" {
		t.Fatalf("order unexpected: %q, %q", got[0].Name, got[1].Name)
	}
}

func TestListActiveScreens_Empty(t *testing.T) {
	db := newTestDB(t)
	got, err := ListActiveScreens(context.Background(), db)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("len = %d; want 0", len(got))
	}
}
