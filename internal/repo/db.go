// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file contains database bootstrapping helpers for
// SQLite (pure Go driver) and schema migrations.
package repo

import (
	"os"
	"path/filepath"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/plugin/opentelemetry/tracing"

	"github.com/slotcast/go-booking-backend/internal/domain"
)

// OpenSQLite opens (or creates) a SQLite database and applies PRAGMAs.
func OpenSQLite(path string) (*gorm.DB, error) {
	// Fail early if parent directory does not exist (instead of sqlite "out of memory (14)" on Windows).
	if dir := filepath.Dir(path); dir != "." {
		if _, err := os.Stat(dir); err != nil {
			return nil, err
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	// PRAGMAs
	db.Exec("PRAGMA journal_mode=WAL;")
	db.Exec("PRAGMA synchronous=NORMAL;")
	db.Exec("PRAGMA foreign_keys=ON;")
	db.Exec("PRAGMA busy_timeout=5000;")

	// Trace queries alongside HTTP spans.
	if err := db.Use(tracing.NewPlugin(tracing.WithoutMetrics())); err != nil {
		return nil, err
	}

	// Pool
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetConnMaxIdleTime(5 * time.Minute)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}

	return db, nil
}

// AutoMigrate creates/updates the schema for all domain models and installs
// the partial unique index that backs the slot-exclusion guarantee.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&domain.Screen{},
		&domain.Reservation{},
		&domain.PaymentRecord{},
		&domain.ProcessedEvent{},
		&domain.Idempotency{},
	); err != nil {
		return err
	}

	// Two concurrent inserts for the same slot must not both succeed even if
	// both passed the application-level overlap re-check. GORM tags cannot
	// express a partial index, so it is created directly: equal start times in
	// an active status collide here; non-equal overlapping intervals are
	// rejected by the re-check running inside the insert transaction.
	return db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS ux_active_slot
		ON reservations (screen_id, date, start_min)
		WHERE status IN ('pending','awaiting_payment','paid') AND deleted_at IS NULL
	`).Error
}
