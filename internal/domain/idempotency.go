package domain

import "time"

// Idempotency records the outcome of a previously processed booking request,
// keyed by (user_id, screen_id, key). It lets clients retry POST /reservations
// safely: a replayed key returns the originally created reservation instead of
// attempting a second hold on the slot.
type Idempotency struct {
	ID            string    `gorm:"type:TEXT NOT NULL;primaryKey"`
	UserID        string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_user_screen_key,priority:1"`
	ScreenID      string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_user_screen_key,priority:2"`
	Key           string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_user_screen_key,priority:3"`
	ReservationID string    `gorm:"type:TEXT NOT NULL"`
	Status        int       `gorm:"type:INTEGER NOT NULL"`
	CreatedAt     time.Time `gorm:"type:DATETIME NOT NULL;autoCreateTime"`
	ExpiresAt     time.Time `gorm:"type:DATETIME NOT NULL;index"`
}

// TableName implements the GORM tabler interface.
func (Idempotency) TableName() string { return "idempotency" }
