// Package domain defines the core persistence models for the application.
// These types are used by GORM for database schema mapping and are shared
// across the repository and service layers.
package domain

import "time"

// ProcessedEvent records an external payment-processor event that has already
// been applied, keyed by the processor's event id. It is the idempotency
// ledger for webhook deliveries: an event id present here is acknowledged
// without re-executing side effects, which turns at-least-once delivery into
// exactly-once effect application when combined with the monotonic transition
// guards on PaymentRecord and Reservation.
type ProcessedEvent struct {
	EventID   string    `gorm:"type:varchar(128);primaryKey"`
	Type      string    `gorm:"type:varchar(64);not null"`
	AppliedAt time.Time `gorm:"type:DATETIME NOT NULL;index"`
}

// TableName implements the GORM tabler interface.
func (ProcessedEvent) TableName() string { return "processed_events" }
