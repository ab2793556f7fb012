// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the
// PaymentRecord model. The conditional updates here are what make payment
// state monotonic: a completed attempt can never be overwritten by a late or
// reordered failure event.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/slotcast/go-booking-backend/internal/domain"
)

// CreatePaymentRecord inserts a pending payment attempt for a reservation.
// A replayed intent id trips the unique index and surfaces as ErrDuplicate.
func CreatePaymentRecord(ctx context.Context, db *gorm.DB, p *domain.PaymentRecord) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Status == "" {
		p.Status = domain.PaymentPending
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	if err := db.WithContext(ctx).Create(p).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// GetPaymentByIntent fetches the payment attempt correlated with an external
// payment intent / session id, or ErrNotFound.
func GetPaymentByIntent(ctx context.Context, db *gorm.DB, intentID string) (*domain.PaymentRecord, error) {
	var p domain.PaymentRecord
	err := db.WithContext(ctx).Where("intent_id = ?", intentID).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetPendingPaymentForReservation returns the current pending attempt for a
// reservation, or ErrNotFound when none exists.
func GetPendingPaymentForReservation(ctx context.Context, db *gorm.DB, reservationID string) (*domain.PaymentRecord, error) {
	var p domain.PaymentRecord
	err := db.WithContext(ctx).
		Where("reservation_id = ? AND status = ?", reservationID, domain.PaymentPending).
		Order("created_at desc").
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdatePaymentStatusIf moves a payment attempt from `from` to `to` as a
// single conditional UPDATE. ErrStaleTransition means the attempt was not in
// the expected predecessor state; the caller treats that as a no-op for
// duplicate/out-of-order deliveries rather than an error.
func UpdatePaymentStatusIf(ctx context.Context, db *gorm.DB, id string, from, to domain.PaymentStatus) error {
	if !domain.PaymentCanTransition(from, to) {
		return ErrStaleTransition
	}
	res := db.WithContext(ctx).
		Model(&domain.PaymentRecord{}).
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
