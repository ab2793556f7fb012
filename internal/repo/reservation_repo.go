// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Reservation
// model, including the conditional status updates that enforce the transition
// table at the storage layer.
//
// Error semantics:
//   - ErrNotFound when a reservation does not exist.
//   - ErrStaleTransition when a conditional update matched no row because the
//     reservation is no longer in the expected predecessor status. Callers
//     decide whether that is a conflict, an invalid-state error, or a benign
//     duplicate delivery.
//   - ErrDuplicate when an insert trips the active-slot unique index.
package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/slotcast/go-booking-backend/internal/domain"
)

// ErrDuplicate indicates that an insert violated a uniqueness constraint
// (active slot already taken, or a processed event replayed).
var ErrDuplicate = errors.New("duplicate")

// ErrStaleTransition indicates a conditional status update matched no row:
// the record exists but is not in the expected predecessor status.
var ErrStaleTransition = errors.New("stale transition")

// isUniqueViolation detects unique-constraint violations across drivers.
// glebarez/sqlite often returns plain-text errors for UNIQUE violations.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	low := strings.ToLower(err.Error())
	return strings.Contains(low, "unique constraint failed") ||
		strings.Contains(low, "constraint failed: unique") ||
		strings.Contains(low, "duplicate key")
}

// CreateReservation inserts a reservation row. It maps active-slot unique
// index violations to ErrDuplicate so the service layer can report a slot
// conflict. The caller is expected to run this inside the same transaction as
// its overlap re-check.
func CreateReservation(ctx context.Context, db *gorm.DB, r *domain.Reservation) error {
	if err := db.WithContext(ctx).Create(r).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// GetReservation fetches a reservation by ID, or ErrNotFound.
func GetReservation(ctx context.Context, db *gorm.DB, id string) (*domain.Reservation, error) {
	var r domain.Reservation
	err := db.WithContext(ctx).Where("id = ?", id).First(&r).Error
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// ListActiveByScreenDate returns every reservation occupying a slot on the
// given screen and date (status in the active set), ordered by start time.
// This is the working set for both availability computation and conflict
// re-checks.
func ListActiveByScreenDate(ctx context.Context, db *gorm.DB, screenID, date string) ([]domain.Reservation, error) {
	var out []domain.Reservation
	err := db.WithContext(ctx).
		Where("screen_id = ? AND date = ? AND status IN ?", screenID, date, domain.ActiveReservationStatuses).
		Order("start_min asc").
		Find(&out).Error
	return out, err
}

// UpdateStatusIf moves a reservation from `from` to `to` as a single
// conditional UPDATE. It returns ErrStaleTransition when the row is not in
// the expected `from` status (missing rows included), which makes duplicate
// and out-of-order webhook deliveries harmless at this layer.
func UpdateStatusIf(ctx context.Context, db *gorm.DB, id string, from, to domain.ReservationStatus) error {
	if !domain.CanTransition(from, to) {
		return ErrStaleTransition
	}
	res := db.WithContext(ctx).
		Model(&domain.Reservation{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStaleTransition
	}
	return nil
}

// AttachSession records the external checkout session on a pending
// reservation and moves it to awaiting_payment in one conditional UPDATE.
// Returns ErrStaleTransition if the reservation left the pending state.
func AttachSession(ctx context.Context, db *gorm.DB, id, sessionID string, expiresAt time.Time) error {
	res := db.WithContext(ctx).
		Model(&domain.Reservation{}).
		Where("id = ? AND status = ?", id, domain.ReservationPending).
		Updates(map[string]any{
			"status":             domain.ReservationAwaitingPayment,
			"session_id":         sessionID,
			"session_expires_at": expiresAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStaleTransition
	}
	return nil
}

// RefreshSession swaps the checkout session on a reservation already in
// awaiting_payment, for when the previous session lapsed before the customer
// paid. Returns ErrStaleTransition if the reservation is no longer awaiting
// payment.
func RefreshSession(ctx context.Context, db *gorm.DB, id, sessionID string, expiresAt time.Time) error {
	res := db.WithContext(ctx).
		Model(&domain.Reservation{}).
		Where("id = ? AND status = ?", id, domain.ReservationAwaitingPayment).
		Updates(map[string]any{
			"session_id":         sessionID,
			"session_expires_at": expiresAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStaleTransition
	}
	return nil
}

// ExpireStaleHolds transitions every unpaid hold whose hold_expires_at lies
// before `cutoff` to expired and returns how many rows were reclaimed. The
// single UPDATE keeps the sweep safe under concurrent webhook processing: a
// reservation that just moved to paid no longer matches the predicate.
func ExpireStaleHolds(ctx context.Context, db *gorm.DB, cutoff time.Time) (int64, error) {
	res := db.WithContext(ctx).
		Model(&domain.Reservation{}).
		Where("status IN ? AND hold_expires_at < ?",
			[]domain.ReservationStatus{domain.ReservationPending, domain.ReservationAwaitingPayment}, cutoff).
		Update("status", domain.ReservationExpired)
	return res.RowsAffected, res.Error
}

// CompleteElapsed transitions paid reservations whose broadcast window has
// fully elapsed (date before today, or end time passed on `date`) to
// completed. Invoked by the same background sweep as ExpireStaleHolds.
func CompleteElapsed(ctx context.Context, db *gorm.DB, date string, nowMin int) (int64, error) {
	res := db.WithContext(ctx).
		Model(&domain.Reservation{}).
		Where("status = ? AND (date < ? OR (date = ? AND end_min <= ?))",
			domain.ReservationPaid, date, date, nowMin).
		Update("status", domain.ReservationCompleted)
	return res.RowsAffected, res.Error
}
