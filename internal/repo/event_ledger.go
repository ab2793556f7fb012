// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository helpers for the
// ProcessedEvent ledger used to deduplicate at-least-once webhook deliveries.
package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/slotcast/go-booking-backend/internal/domain"
)

// SeenEvent reports whether an external event id has already been applied.
func SeenEvent(ctx context.Context, db *gorm.DB, eventID string) (bool, error) {
	if strings.TrimSpace(eventID) == "" {
		return false, nil
	}
	var rec domain.ProcessedEvent
	err := db.WithContext(ctx).Where("event_id = ?", eventID).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// RecordProcessedEvent inserts a ledger row for an applied event and returns
// ErrDuplicate on primary-key violation. Inserting inside the same
// transaction as the state change makes "applied" and "recorded" atomic: a
// crash between the two cannot leave an event half-applied.
func RecordProcessedEvent(ctx context.Context, db *gorm.DB, eventID, eventType string) error {
	rec := &domain.ProcessedEvent{
		EventID:   eventID,
		Type:      eventType,
		AppliedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(rec).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// PruneProcessedEvents deletes ledger rows applied before `cutoff`. The
// ledger only needs to span the processor's retry horizon; pruning keeps it
// bounded.
func PruneProcessedEvents(ctx context.Context, db *gorm.DB, cutoff time.Time) (int64, error) {
	res := db.WithContext(ctx).
		Where("applied_at < ?", cutoff).
		Delete(&domain.ProcessedEvent{})
	return res.RowsAffected, res.Error
}
