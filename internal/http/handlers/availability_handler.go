// Availability HTTP handlers.
//
// This file exposes the read side of the booking calendar:
//   - GET /screens                   (active screens with pricing and hours)
//   - GET /screens/{id}/free-slots   (free start times for a date + duration)
//
// Handlers are transport-thin: they validate input, call application services,
// and translate results into HTTP responses (including conditional responses).
package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/slotcast/go-booking-backend/internal/domain"
	"github.com/slotcast/go-booking-backend/internal/repo"
	"github.com/slotcast/go-booking-backend/internal/services"
	"github.com/slotcast/go-booking-backend/internal/utils"
)

//
// Service contracts (context-aware)
//

// AvailabilityService computes free slots for a screen on one date.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type AvailabilityService interface {
	// FreeSlots returns the ordered start times (minutes from midnight) at
	// which a reservation of durationMin can begin.
	FreeSlots(ctx context.Context, screenID, date string, durationMin int) ([]int, error)
	// Screens lists the screens currently accepting reservations.
	Screens(ctx context.Context) ([]domain.Screen, error)
}

//
// DTOs
//

// FreeSlot is one bookable start time.
type FreeSlot struct {
	StartMin int    `json:"start_min" example:"540"`
	Start    string `json:"start" example:"09:00"`
	End      string `json:"end" example:"11:00"`
}

// FreeSlotsResponse wraps the free slots of one screen/date query.
type FreeSlotsResponse struct {
	ScreenID    string     `json:"screen_id"`
	Date        string     `json:"date" example:"2026-09-01"`
	DurationMin int        `json:"duration_min" example:"120"`
	Slots       []FreeSlot `json:"slots"`
}

// ListScreens godoc
// @ID          listScreens
// @Summary     List bookable screens
// @Description Returns every active screen with its pricing and operating window.
// @Tags        Availability
// @Produce     json
//
// @Success     200  {array}  domain.Screen
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /screens [get]
func (h *Handlers) ListScreens(c *gin.Context) {
	screens, err := h.availabilitySvc.Screens(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, screens)
}

// FreeSlots godoc
// @ID          freeSlots
// @Summary     List free slots for a screen
// @Description Returns every start time at which a reservation of the given duration fits on the screen's calendar for one date. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Availability
// @Produce     json
//
// @Param       id             path    string  true  "Screen ID (UUID)"             format(uuid)
// @Param       date           query   string  true  "Date (YYYY-MM-DD)"            example(2026-09-01)
// @Param       duration       query   int     true  "Duration in minutes"          example(120)
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"
//
// @Success     200  {object} handlers.FreeSlotsResponse
// @Header      200  {string} ETag "Weak ETag for current calendar state"
// @Success     304  {string} string "Not Modified"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Screen not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /screens/{id}/free-slots [get]
func (h *Handlers) FreeSlots(c *gin.Context) {
	ctx := c.Request.Context()
	screenID := c.Param("id")
	date := strings.TrimSpace(c.Query("date"))
	duration := utils.AtoiDefault(c.Query("duration"), 0)

	if date == "" || duration <= 0 {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "date and a positive duration are required")
		return
	}

	// ETag pre-check (best effort): any change to the day's active set bumps
	// either the row count or the max updated_at.
	var db *gorm.DB
	if svc, ok := h.availabilitySvc.(*services.AvailabilityService); ok {
		db = svc.DB
	}
	if db != nil {
		count, maxTS, err := repo.ScreenDayStats(ctx, db, screenID, date)
		if err == nil {
			var ts int64
			if maxTS != nil {
				ts = maxTS.Unix()
			}
			etag := fmt.Sprintf(`W/"slots:%s:%s:%d:%d:%d"`, screenID, date, duration, count, ts)
			c.Header("ETag", etag)
			if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
				c.Status(http.StatusNotModified)
				return
			}
		}
	}

	starts, err := h.availabilitySvc.FreeSlots(ctx, screenID, date, duration)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrScreenNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "screen not found")
		case errors.Is(err, services.ErrValidation):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}

	slots := make([]FreeSlot, 0, len(starts))
	for _, start := range starts {
		slots = append(slots, FreeSlot{
			StartMin: start,
			Start:    services.FormatClock(start),
			End:      services.FormatClock(start + duration),
		})
	}
	ok(c, http.StatusOK, FreeSlotsResponse{
		ScreenID:    screenID,
		Date:        date,
		DurationMin: duration,
		Slots:       slots,
	})
}
