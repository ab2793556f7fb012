// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides small aggregate/statistics queries used
// primarily for conditional responses (e.g., ETag generation) in the HTTP
// layer. Each function is context-aware and safe to call from services or
// handlers.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/slotcast/go-booking-backend/internal/domain"
)

// ScreenDayStats returns aggregate metadata for the active reservations of a
// screen on one date: the total number of rows and the maximum UpdatedAt
// timestamp among them. The availability endpoint derives a weak ETag from
// these two values, so clients polling for free slots get 304s while the
// day's calendar is unchanged.
//
// Return values:
//   - count:        active reservations for (screenID, date)
//   - maxUpdatedAt: pointer to the greatest UpdatedAt, or nil if no rows
//   - err:          database error, if any
func ScreenDayStats(ctx context.Context, db *gorm.DB, screenID, date string) (count int64, maxUpdatedAt *time.Time, err error) {
	q := db.WithContext(ctx).
		Model(&domain.Reservation{}).
		Where("screen_id = ? AND date = ? AND status IN ?", screenID, date, domain.ActiveReservationStatuses)

	// Count
	if err = q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Get latest updated_at (avoid MAX() -> TEXT in SQLite)
	var row struct {
		UpdatedAt time.Time
	}
	if err = q.Select("updated_at").Order("updated_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.UpdatedAt, nil
}
