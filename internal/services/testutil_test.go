package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/slotcast/go-booking-backend/internal/domain"
	"github.com/slotcast/go-booking-backend/internal/repo"
)

// fixedNow is well before testDate so no test trips the past-date guard.
var fixedNow = time.Date(2030, 5, 20, 10, 0, 0, 0, time.UTC)

const testDate = "2030-06-01"

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", uuid.NewString())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.Exec("PRAGMA foreign_keys=ON;")
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func seedScreen(t *testing.T, db *gorm.DB) *domain.Screen {
	t.Helper()
	s := &domain.Screen{
		ID:             uuid.NewString(),
		OwnerID:        "owner-1",
		Name:           "Times Square East",
		HourlyPrice:    decimal.NewFromInt(40),
		OpenMin:        9 * 60,
		CloseMin:       21 * 60,
		GranularityMin: 30,
		Active:         true,
	}
	if err := repo.CreateScreen(context.Background(), db, s); err != nil {
		t.Fatalf("seed screen: %v", err)
	}
	return s
}

func seedReservation(t *testing.T, db *gorm.DB, screenID, requesterID string, startMin, endMin int, status domain.ReservationStatus) *domain.Reservation {
	t.Helper()
	r := &domain.Reservation{
		ID:            uuid.NewString(),
		ScreenID:      screenID,
		RequesterID:   requesterID,
		Date:          testDate,
		StartMin:      startMin,
		EndMin:        endMin,
		DurationMin:   endMin - startMin,
		TotalAmount:   decimal.NewFromInt(88),
		Currency:      "USD",
		Status:        status,
		HoldExpiresAt: fixedNow.Add(15 * time.Minute),
	}
	if err := repo.CreateReservation(context.Background(), db, r); err != nil {
		t.Fatalf("seed reservation: %v", err)
	}
	return r
}
