// Package services – ReservationService
//
// This file implements the ReservationService, which owns the reservation
// state machine. It validates slot requests against the screen's operating
// hours and granularity, re-checks for conflicts immediately before writing,
// computes the total amount server-side, and inserts the row inside one
// transaction so the storage layer, not application code, has the last word
// on slot exclusivity.
//
// Service-level errors (ErrSlotConflict, ErrInvalidState, …) are returned for
// predictable cases so handlers can map them to HTTP results consistently.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/slotcast/go-booking-backend/internal/domain"
	"github.com/slotcast/go-booking-backend/internal/repo"
)

// platformFeePercent is the platform's cut applied on top of the screen
// rental price. Fee schedule v1; changing it is a product decision, never a
// client input.
var platformFeePercent = decimal.NewFromInt(10)

var minutesPerHour = decimal.NewFromInt(60)

// Quote computes the total amount charged for renting at hourlyPrice for
// durationMin minutes: base price plus the platform fee, rounded to cents.
// Deterministic for fixed inputs and independent of any client-supplied
// amount.
func Quote(hourlyPrice decimal.Decimal, durationMin int) decimal.Decimal {
	base := hourlyPrice.Mul(decimal.NewFromInt(int64(durationMin))).Div(minutesPerHour)
	fee := base.Mul(platformFeePercent).Div(decimal.NewFromInt(100))
	return base.Add(fee).Round(2)
}

// ReservationService creates and cancels reservations and sweeps stale holds.
type ReservationService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB

	// Currency is the ISO-4217 settlement currency applied to new
	// reservations (validated at config load).
	Currency string

	// HoldTTL bounds how long an unpaid reservation keeps its slot before
	// the sweeper reclaims it.
	HoldTTL time.Duration

	// Now allows tests to pin the clock; defaults to time.Now.
	Now func() time.Time
}

// NewReservationService constructs a ReservationService.
func NewReservationService(db *gorm.DB, currency string, holdTTL time.Duration) *ReservationService {
	return &ReservationService{DB: db, Currency: currency, HoldTTL: holdTTL, Now: time.Now}
}

// Create reserves [startMin, startMin+durationMin) on screenID/date for
// requesterID and returns the pending reservation.
//
// Steps:
//  1. Validate date, granularity, and operating-hours fit.
//  2. Re-check for overlap against the current active set.
//  3. Price the slot server-side (Quote).
//  4. Insert with status=pending.
//
// Steps 2 and 4 run in one transaction; together with the active-slot unique
// index this prevents two concurrent creates from both succeeding.
//
// Errors: ErrScreenNotFound, ErrValidation, ErrSlotConflict, or a DB error.
func (s *ReservationService) Create(ctx context.Context, screenID, requesterID, date string, startMin, durationMin int) (*domain.Reservation, error) {
	day, err := time.ParseInLocation(dateLayout, date, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrValidation)
	}
	now := s.now().UTC()
	if day.Before(now.Truncate(24 * time.Hour)) {
		return nil, fmt.Errorf("%w: date is in the past", ErrValidation)
	}

	screen, err := repo.GetScreen(ctx, s.DB, screenID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrScreenNotFound
		}
		return nil, err
	}
	if !screen.Active {
		return nil, ErrScreenNotFound
	}

	endMin := startMin + durationMin
	switch {
	case durationMin <= 0 || durationMin%screen.GranularityMin != 0:
		return nil, fmt.Errorf("%w: duration must be a positive multiple of %d minutes",
			ErrValidation, screen.GranularityMin)
	case startMin < screen.OpenMin || (startMin-screen.OpenMin)%screen.GranularityMin != 0:
		// The grid is anchored at opening time, the same grid the
		// availability resolver offers slots on.
		return nil, fmt.Errorf("%w: start time must align to the %d-minute grid from %s",
			ErrValidation, screen.GranularityMin, FormatClock(screen.OpenMin))
	case startMin < screen.OpenMin || endMin > screen.CloseMin:
		return nil, fmt.Errorf("%w: slot is outside operating hours %s-%s",
			ErrValidation, FormatClock(screen.OpenMin), FormatClock(screen.CloseMin))
	}

	r := &domain.Reservation{
		ID:            uuid.NewString(),
		ScreenID:      screenID,
		RequesterID:   requesterID,
		Date:          date,
		StartMin:      startMin,
		EndMin:        endMin,
		DurationMin:   durationMin,
		TotalAmount:   Quote(screen.HourlyPrice, durationMin),
		Currency:      s.Currency,
		Status:        domain.ReservationPending,
		HoldExpiresAt: now.Add(s.HoldTTL),
		CreatedAt:     now,
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Conflict re-check immediately before the write, inside the same
		// transaction as the insert.
		active, err := repo.ListActiveByScreenDate(ctx, tx, screenID, date)
		if err != nil {
			return err
		}
		for _, other := range active {
			if other.Overlaps(startMin, endMin) {
				return ErrSlotConflict
			}
		}
		return repo.CreateReservation(ctx, tx, r)
	})
	if errors.Is(err, repo.ErrDuplicate) {
		// Lost the race to the unique index.
		return nil, ErrSlotConflict
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Cancel releases a reservation's slot on behalf of its owner.
//
// Semantics:
//   - Only the requester that created the reservation may cancel it
//     (ErrNotOwner otherwise).
//   - Cancellation is permitted only from pending or awaiting_payment
//     (ErrInvalidState otherwise) and frees the interval immediately.
func (s *ReservationService) Cancel(ctx context.Context, reservationID, requesterID string) error {
	r, err := repo.GetReservation(ctx, s.DB, reservationID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrReservationNotFound
		}
		return err
	}
	if r.RequesterID != requesterID {
		return ErrNotOwner
	}

	err = repo.UpdateStatusIf(ctx, s.DB, reservationID, r.Status, domain.ReservationCancelled)
	if errors.Is(err, repo.ErrStaleTransition) {
		return ErrInvalidState
	}
	return err
}

// Get returns a reservation owned by requesterID, ErrReservationNotFound if
// missing, or ErrNotOwner when it belongs to someone else.
func (s *ReservationService) Get(ctx context.Context, reservationID, requesterID string) (*domain.Reservation, error) {
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
	return r, nil
}

// Sweep reclaims stale unpaid holds and completes paid reservations whose
// broadcast window has elapsed. It returns (expired, completed) row counts
// and is intended to run on a ticker from the server entrypoint. Abandoned
// checkout flows would otherwise lock their slots forever.
func (s *ReservationService) Sweep(ctx context.Context) (int64, int64, error) {
	now := s.now().UTC()
	expired, err := repo.ExpireStaleHolds(ctx, s.DB, now)
	if err != nil {
		return expired, 0, err
	}
	nowMin := now.Hour()*60 + now.Minute()
	completed, err := repo.CompleteElapsed(ctx, s.DB, now.Format(dateLayout), nowMin)
	return expired, completed, err
}

func (s *ReservationService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
