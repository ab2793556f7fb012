// Package domain defines the persistence models for screens, reservations,
// payments, and the processed-event ledger. These types are mapped with GORM
// and form the core data layer of the booking backend.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Screen represents a physical broadcast screen that owners list for rent.
// The reservation core treats screens as read-only reference data: pricing
// and operating hours come from here, mutations happen elsewhere.
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - OwnerID: identifier of the screen owner; indexed.
//   - HourlyPrice: rental price per hour, exact decimal (no float money).
//   - OpenMin / CloseMin: operating window as minutes from midnight,
//     half-open [OpenMin, CloseMin).
//   - GranularityMin: minimum bookable unit in minutes; every reservation
//     duration and start offset must be a multiple of it.
//   - Active: inactive screens accept no new reservations.
type Screen struct {
	ID             string          `json:"id"              gorm:"type:char(36);primaryKey"`
	OwnerID        string          `json:"owner_id"        gorm:"type:varchar(64);not null;index"`
	Name           string          `json:"name"            gorm:"type:varchar(255);not null"`
	HourlyPrice    decimal.Decimal `json:"hourly_price"    gorm:"type:NUMERIC;not null"`
	OpenMin        int             `json:"open_min"        gorm:"not null"`
	CloseMin       int             `json:"close_min"       gorm:"not null"`
	GranularityMin int             `json:"granularity_min" gorm:"not null;default:60"`
	// No column default here: GORM would substitute it for the zero value
	// and silently store an inactive screen as active.
	Active bool `json:"active" gorm:"not null"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	DeletedAt      gorm.DeletedAt  `json:"-"               gorm:"index"`
}

// TableName returns the database table name for Screen.
func (Screen) TableName() string { return "screens" }

// Reservation is the central entity: an exclusive hold on a screen time slot.
//
// Intervals are half-open [StartMin, EndMin) in minutes from midnight on
// Date (YYYY-MM-DD), so back-to-back bookings do not conflict. The invariant
// enforced by the coordinator and the storage layer is that, per screen, all
// reservations whose status is in the active set have pairwise disjoint
// intervals.
//
// Rows are soft-deleted only; a reservation in an active status is never
// hard-deleted. Status changes go exclusively through the transition table in
// status.go via conditional updates.
type Reservation struct {
	ID          string            `json:"id"           gorm:"type:char(36);primaryKey"`
	ScreenID    string            `json:"screen_id"    gorm:"type:char(36);not null;index:idx_screen_day,priority:1"`
	RequesterID string            `json:"requester_id" gorm:"type:varchar(64);not null;index"`
	Date        string            `json:"date"         gorm:"type:char(10);not null;index:idx_screen_day,priority:2"`
	StartMin    int               `json:"start_min"    gorm:"not null"`
	EndMin      int               `json:"end_min"      gorm:"not null"`
	DurationMin int               `json:"duration_min" gorm:"not null"`
	TotalAmount decimal.Decimal   `json:"total_amount" gorm:"type:NUMERIC;not null"`
	Currency    string            `json:"currency"     gorm:"type:char(3);not null"`
	Status      ReservationStatus `json:"status"       gorm:"type:varchar(20);not null;index"`

	// SessionID is the external checkout session attached by the payment
	// session broker; nil until a session is issued.
	SessionID        *string    `json:"session_id,omitempty"         gorm:"type:varchar(128);index"`
	SessionExpiresAt *time.Time `json:"session_expires_at,omitempty"`

	// HoldExpiresAt bounds how long an unpaid hold keeps the slot. The
	// sweeper expires pending/awaiting_payment rows past this instant.
	HoldExpiresAt time.Time `json:"hold_expires_at" gorm:"not null;index"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Screen Screen `json:"-" gorm:"foreignKey:ScreenID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

// TableName returns the database table name for Reservation.
func (Reservation) TableName() string { return "reservations" }

// Overlaps reports whether the reservation's interval intersects
// [startMin, endMin) under half-open semantics.
func (r Reservation) Overlaps(startMin, endMin int) bool {
	return r.StartMin < endMin && startMin < r.EndMin
}

// PaymentRecord tracks one payment attempt for a reservation. Exactly one
// non-failed attempt exists per reservation at a time.
//
// Status is monotonic: once completed, no later webhook delivery may move the
// attempt back to pending or failed. The repository enforces this with
// conditional updates (UPDATE ... WHERE status = 'pending').
type PaymentRecord struct {
	ID            string          `json:"id"             gorm:"type:char(36);primaryKey"`
	ReservationID string          `json:"reservation_id" gorm:"type:char(36);not null;index"`
	Amount        decimal.Decimal `json:"amount"         gorm:"type:NUMERIC;not null"`
	Currency      string          `json:"currency"       gorm:"type:char(3);not null"`

	// IntentID is the payment processor's identifier for this attempt
	// (checkout session / payment intent), used to correlate webhooks.
	IntentID string        `json:"intent_id" gorm:"type:varchar(128);not null;uniqueIndex:ux_payment_intent"`
	Status   PaymentStatus `json:"status"    gorm:"type:varchar(16);not null;index"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Reservation Reservation `json:"-" gorm:"foreignKey:ReservationID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

// TableName returns the database table name for PaymentRecord.
func (PaymentRecord) TableName() string { return "payment_records" }
