package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/slotcast/go-booking-backend/internal/domain"
)

func newReservationSvc(t *testing.T) (*ReservationService, *domain.Screen) {
	t.Helper()
	db := newTestDB(t)
	svc := NewReservationService(db, "USD", 15*time.Minute)
	svc.Now = func() time.Time { return fixedNow }
	return svc, seedScreen(t, db)
}

func TestQuote(t *testing.T) {
	cases := []struct {
		hourly   int64
		duration int
		want     string
	}{
		{40, 120, "88"},    // 2h * 40 = 80, +10% fee
		{40, 30, "22"},     // half hour
		{99, 90, "163.35"}, // 1.5h * 99 = 148.50, +10% = 163.35
	}
	for _, tc := range cases {
		got := Quote(decimal.NewFromInt(tc.hourly), tc.duration)
		if !got.Equal(decimal.RequireFromString(tc.want)) {
			t.Fatalf("Quote(%d, %d) = %s; want %s", tc.hourly, tc.duration, got, tc.want)
		}
	}
}

func TestCreate_HappyPath(t *testing.T) {
	svc, s := newReservationSvc(t)

	r, err := svc.Create(context.Background(), s.ID, "user-1", testDate, 10*60, 120)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if r.Status != domain.ReservationPending {
		t.Fatalf("status = %s; want pending", r.Status)
	}
	if r.EndMin != 12*60 {
		t.Fatalf("end = %d; want 720", r.EndMin)
	}
	if !r.TotalAmount.Equal(decimal.NewFromInt(88)) {
		t.Fatalf("amount = %s; want 88 (server-side pricing)", r.TotalAmount)
	}
	if r.Currency != "USD" {
		t.Fatalf("currency = %s; want USD", r.Currency)
	}
	if !r.HoldExpiresAt.Equal(fixedNow.Add(15 * time.Minute)) {
		t.Fatalf("hold expiry = %v; want now+15m", r.HoldExpiresAt)
	}
}

func TestCreate_Validation(t *testing.T) {
	svc, s := newReservationSvc(t)

	cases := []struct {
		name     string
		screenID string
		date     string
		start    int
		duration int
		want     error
	}{
		{"bad date", s.ID, "June 1", 600, 60, ErrValidation},
		{"past date", s.ID, "2020-01-01", 600, 60, ErrValidation},
		{"zero duration", s.ID, testDate, 600, 0, ErrValidation},
		{"negative duration", s.ID, testDate, 600, -30, ErrValidation},
		{"off-granularity duration", s.ID, testDate, 600, 45, ErrValidation},
		{"off-grid start", s.ID, testDate, 610, 60, ErrValidation},
		{"before opening", s.ID, testDate, 8 * 60, 60, ErrValidation},
		{"past closing", s.ID, testDate, 20*60 + 30, 60, ErrValidation},
		{"unknown screen", "nope", testDate, 600, 60, ErrScreenNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tc.screenID, "user-1", tc.date, tc.start, tc.duration)
			if !errors.Is(err, tc.want) {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
		})
	}
}

func TestCreate_SlotEdges(t *testing.T) {
	svc, s := newReservationSvc(t)

	// The full operating window in one booking is legal.
	if _, err := svc.Create(context.Background(), s.ID, "user-1", testDate, s.OpenMin, s.CloseMin-s.OpenMin); err != nil {
		t.Fatalf("full-window booking: %v", err)
	}
}

func TestCreate_OverlapRejected(t *testing.T) {
	svc, s := newReservationSvc(t)
	seedReservation(t, svc.DB, s.ID, "user-1", 10*60, 12*60, domain.ReservationPaid)

	cases := []struct {
		name  string
		start int
		dur   int
	}{
		{"identical", 10 * 60, 120},
		{"straddles start", 9 * 60, 120},
		{"straddles end", 11 * 60, 120},
		{"contained", 10*60 + 30, 60},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), s.ID, "user-2", testDate, tc.start, tc.dur)
			if !errors.Is(err, ErrSlotConflict) {
				t.Fatalf("got %v, want ErrSlotConflict", err)
			}
		})
	}

	// Adjacent bookings share a boundary minute and must both succeed.
	if _, err := svc.Create(context.Background(), s.ID, "user-2", testDate, 12*60, 60); err != nil {
		t.Fatalf("back-to-back after: %v", err)
	}
	if _, err := svc.Create(context.Background(), s.ID, "user-2", testDate, 9*60, 60); err != nil {
		t.Fatalf("back-to-back before: %v", err)
	}
}

func TestCreate_ReleasedSlotRebookable(t *testing.T) {
	svc, s := newReservationSvc(t)
	seedReservation(t, svc.DB, s.ID, "user-1", 10*60, 12*60, domain.ReservationExpired)

	if _, err := svc.Create(context.Background(), s.ID, "user-2", testDate, 10*60, 120); err != nil {
		t.Fatalf("expired hold should not block rebooking: %v", err)
	}
}

func TestCancel(t *testing.T) {
	svc, s := newReservationSvc(t)
	r := seedReservation(t, svc.DB, s.ID, "user-1", 10*60, 12*60, domain.ReservationPending)

	if err := svc.Cancel(context.Background(), r.ID, "someone-else"); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
	if err := svc.Cancel(context.Background(), "missing", "user-1"); !errors.Is(err, ErrReservationNotFound) {
		t.Fatalf("expected ErrReservationNotFound, got %v", err)
	}

	if err := svc.Cancel(context.Background(), r.ID, "user-1"); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	got, _ := svc.Get(context.Background(), r.ID, "user-1")
	if got.Status != domain.ReservationCancelled {
		t.Fatalf("status = %s; want cancelled", got.Status)
	}

	// The freed slot is bookable again.
	if _, err := svc.Create(context.Background(), s.ID, "user-2", testDate, 10*60, 120); err != nil {
		t.Fatalf("rebook after cancel: %v", err)
	}
}

func TestCancel_TerminalStates(t *testing.T) {
	svc, s := newReservationSvc(t)

	for i, status := range []domain.ReservationStatus{
		domain.ReservationPaid,
		domain.ReservationCompleted,
		domain.ReservationCancelled,
		domain.ReservationExpired,
	} {
		start := (10 + i) * 60
		r := seedReservation(t, svc.DB, s.ID, "user-1", start, start+60, status)
		if err := svc.Cancel(context.Background(), r.ID, "user-1"); !errors.Is(err, ErrInvalidState) {
			t.Fatalf("cancel from %s: got %v, want ErrInvalidState", status, err)
		}
	}
}

func TestSweep(t *testing.T) {
	svc, s := newReservationSvc(t)

	stale := seedReservation(t, svc.DB, s.ID, "user-1", 10*60, 11*60, domain.ReservationPending)
	svc.DB.Model(&domain.Reservation{}).Where("id = ?", stale.ID).
		Update("hold_expires_at", fixedNow.Add(-time.Minute))
	fresh := seedReservation(t, svc.DB, s.ID, "user-1", 11*60, 12*60, domain.ReservationAwaitingPayment)

	// A paid reservation on today's date whose window has elapsed.
	today := fixedNow.Format("2006-01-02")
	done := seedReservation(t, svc.DB, s.ID, "user-2", 7*60, 8*60, domain.ReservationPaid)
	svc.DB.Model(&domain.Reservation{}).Where("id = ?", done.ID).Update("date", today)

	expired, completed, err := svc.Sweep(context.Background())
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if expired != 1 || completed != 1 {
		t.Fatalf("sweep = (%d expired, %d completed); want (1, 1)", expired, completed)
	}

	var got domain.Reservation
	svc.DB.First(&got, "id = ?", fresh.ID)
	if got.Status != domain.ReservationAwaitingPayment {
		t.Fatalf("fresh hold swept: %s", got.Status)
	}
}

func TestCancel_ConcurrentTransitionSurfaced(t *testing.T) {
	svc, s := newReservationSvc(t)
	r := seedReservation(t, svc.DB, s.ID, "user-1", 10*60, 12*60, domain.ReservationPending)

	// Another actor flips the row between our read and our update.
	flipped := false
	err := svc.DB.Callback().Update().Before("gorm:update").Register("flip_once", func(tx *gorm.DB) {
		if !flipped {
			flipped = true
			svc.DB.Session(&gorm.Session{NewDB: true, SkipHooks: true}).
				Exec("UPDATE reservations SET status = ? WHERE id = ?", domain.ReservationExpired, r.ID)
		}
	})
	if err != nil {
		t.Fatalf("register callback: %v", err)
	}
	defer svc.DB.Callback().Update().Remove("flip_once")

	if err := svc.Cancel(context.Background(), r.ID, "user-1"); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState on lost race, got %v", err)
	}
}
