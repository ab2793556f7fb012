// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Screen
// model. Screens are reference data for the reservation core: it reads
// pricing and operating hours from here and never mutates them.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations.
//
// Error semantics:
//   - When a screen is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/slotcast/go-booking-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// CreateScreen inserts a new Screen row. The screen ID is a randomly
// generated UUID (string) unless the caller pre-set one, and CreatedAt is set
// to UTC. Used by seeding and tests; the reservation core never creates
// screens.
func CreateScreen(ctx context.Context, db *gorm.DB, s *domain.Screen) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	return db.WithContext(ctx).Create(s).Error
}

// GetScreen fetches a single screen by ID. If the record does not exist, it
// returns ErrNotFound. On other DB errors, the raw error is returned.
func GetScreen(ctx context.Context, db *gorm.DB, id string) (*domain.Screen, error) {
	var s domain.Screen
	err := db.WithContext(ctx).Where("id = ?", id).First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ListActiveScreens returns all screens currently accepting reservations,
// ordered by name. It returns an empty slice when none exist.
func ListActiveScreens(ctx context.Context, db *gorm.DB) ([]domain.Screen, error) {
	var out []domain.Screen
	err := db.WithContext(ctx).
		Where("active = ?", true).
		Order("name asc").
		Find(&out).Error
	return out, err
}
