package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/slotcast/go-booking-backend/internal/domain"
	"github.com/slotcast/go-booking-backend/internal/repo"
	"github.com/slotcast/go-booking-backend/internal/services"
)

// Replay detection needs the concrete service (for its DB handle), so this
// test wires a real ReservationService over in-memory sqlite instead of the
// function-field stubs.
func newIdemRouter(t *testing.T) (*gin.Engine, string) {
	t.Helper()
	dsn := fmt.Sprintf("file:handlers_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}

	screen := &domain.Screen{
		ID:             uuid.NewString(),
		OwnerID:        "owner-1",
		Name:           "Harbor North",
		HourlyPrice:    decimal.NewFromInt(40),
		OpenMin:        9 * 60,
		CloseMin:       21 * 60,
		GranularityMin: 30,
		Active:         true,
	}
	if err := repo.CreateScreen(context.Background(), db, screen); err != nil {
		t.Fatalf("seed screen: %v", err)
	}

	svc := services.NewReservationService(db, "USD", 15*time.Minute)
	svc.Now = func() time.Time { return time.Date(2030, 5, 20, 10, 0, 0, 0, time.UTC) }

	h := New(stubAvailability{}, svc, stubPayment{}, stubWebhook{}, stubRateLimit{}, "")
	r := gin.New()
	r.POST("/reservations", h.CreateReservation)
	return r, screen.ID
}

func TestCreateReservation_IdempotencyKeyReplay(t *testing.T) {
	r, screenID := newIdemRouter(t)

	body := CreateReservationRequest{
		ScreenID:    screenID,
		Date:        "2030-06-01",
		StartTime:   "10:00",
		DurationMin: 120,
	}
	hdr := map[string]string{"X-User-ID": "user-7", "Idempotency-Key": "retry-1"}

	w := doJSON(t, r, http.MethodPost, "/reservations", body, hdr)
	if w.Code != http.StatusCreated {
		t.Fatalf("first create = %d body=%s", w.Code, w.Body.String())
	}
	var first ReservationResponse
	if err := json.Unmarshal(w.Body.Bytes(), &first); err != nil {
		t.Fatalf("decode first: %v", err)
	}

	// Same key replays the original hold instead of hitting the conflict path.
	w = doJSON(t, r, http.MethodPost, "/reservations", body, hdr)
	if w.Code != http.StatusOK {
		t.Fatalf("replay = %d body=%s", w.Code, w.Body.String())
	}
	if w.Header().Get("Idempotency-Replayed") != "true" {
		t.Fatalf("expected Idempotency-Replayed header")
	}
	var replay ReservationResponse
	if err := json.Unmarshal(w.Body.Bytes(), &replay); err != nil {
		t.Fatalf("decode replay: %v", err)
	}
	if replay.ReservationID != first.ReservationID {
		t.Fatalf("replay returned a different reservation: %q vs %q", replay.ReservationID, first.ReservationID)
	}

	// A fresh key for the same slot is a genuine second attempt and conflicts.
	hdr["Idempotency-Key"] = "retry-2"
	if w := doJSON(t, r, http.MethodPost, "/reservations", body, hdr); w.Code != http.StatusConflict {
		t.Fatalf("new key on taken slot = %d, want 409", w.Code)
	}

	// Another user cannot replay someone else's key.
	other := map[string]string{"X-User-ID": "user-8", "Idempotency-Key": "retry-1"}
	if w := doJSON(t, r, http.MethodPost, "/reservations", body, other); w.Code != http.StatusConflict {
		t.Fatalf("foreign replay = %d, want 409 (no replay, slot taken)", w.Code)
	}
}
