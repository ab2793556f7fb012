// Reservation HTTP handlers.
//
// This file exposes REST endpoints for reservation resources:
//   - POST /reservations              (create a hold on a slot)
//   - GET  /reservations/{id}        (fetch one reservation)
//   - POST /reservations/{id}/cancel (owner-initiated cancellation)
//
// Handlers are transport-thin: they validate input, call application services,
// and translate results into HTTP responses.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/slotcast/go-booking-backend/internal/domain"
	"github.com/slotcast/go-booking-backend/internal/http/middleware"
	"github.com/slotcast/go-booking-backend/internal/repo"
	"github.com/slotcast/go-booking-backend/internal/services"
)

//
// Service contracts (context-aware)
//

// ReservationService defines the reservation lifecycle operations consumed by
// HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type ReservationService interface {
	// Create places a pending hold on [startMin, startMin+durationMin).
	Create(ctx context.Context, screenID, requesterID, date string, startMin, durationMin int) (*domain.Reservation, error)
	// Cancel releases a reservation on behalf of its owner.
	Cancel(ctx context.Context, reservationID, requesterID string) error
	// Get fetches a reservation owned by requesterID.
	Get(ctx context.Context, reservationID, requesterID string) (*domain.Reservation, error)
}

//
// Handler wiring
//

// Handlers groups the HTTP endpoints for availability, reservations, payment
// sessions, webhooks, and rate limiting. It depends on abstract service
// interfaces to keep transport concerns separate from business logic.
type Handlers struct {
	availabilitySvc AvailabilityService
	reservationSvc  ReservationService
	paymentSvc      PaymentService
	webhookSvc      WebhookService
	rateLimitSvc    RateLimitService

	// adminToken guards the rate-limit reset action; empty disables it.
	adminToken string
}

// New constructs and returns a Handlers instance bound to the given services.
func New(availabilitySvc AvailabilityService, reservationSvc ReservationService, paymentSvc PaymentService, webhookSvc WebhookService, rateLimitSvc RateLimitService, adminToken string) *Handlers {
	return &Handlers{
		availabilitySvc: availabilitySvc,
		reservationSvc:  reservationSvc,
		paymentSvc:      paymentSvc,
		webhookSvc:      webhookSvc,
		rateLimitSvc:    rateLimitSvc,
		adminToken:      adminToken,
	}
}

// requesterID extracts the authenticated requester id from Gin context (set by
// upstream auth middleware). If absent, it falls back to "X-User-ID" header
// (tests use it), and finally to "demo-user". It never touches c.Request if
// it's nil.
func requesterID(c *gin.Context) string {
	if v, ok := c.Get("userID"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	if c != nil && c.Request != nil {
		if h := strings.TrimSpace(c.GetHeader("X-User-ID")); h != "" {
			return h
		}
	}
	return "demo-user"
}

//
// DTOs
//

// CreateReservationRequest is the JSON payload for creating a reservation.
type CreateReservationRequest struct {
	// ScreenID identifies the screen to book.
	ScreenID string `json:"screen_id" binding:"required" example:"141add05-4415-4938-b5a1-17e0d3171aff"`
	// Date is the booking day, YYYY-MM-DD.
	Date string `json:"date" binding:"required" example:"2026-09-01"`
	// StartTime is the slot start, "HH:MM" on the screen's granularity grid.
	StartTime string `json:"start_time" binding:"required" example:"10:00"`
	// DurationMin is the slot length in minutes.
	DurationMin int `json:"duration_min" binding:"required" example:"120"`
}

// ReservationResponse is the reservation resource as returned to clients.
// Pricing comes exclusively from the server; nothing in the request can
// influence it.
type ReservationResponse struct {
	ReservationID string     `json:"reservation_id"`
	ScreenID      string     `json:"screen_id"`
	Date          string     `json:"date" example:"2026-09-01"`
	Start         string     `json:"start" example:"10:00"`
	End           string     `json:"end" example:"12:00"`
	Status        string     `json:"status" example:"pending"`
	TotalAmount   string     `json:"total_amount" example:"88"`
	Currency      string     `json:"currency" example:"USD"`
	HoldExpiresAt time.Time  `json:"hold_expires_at"`
	SessionID     *string    `json:"session_id,omitempty"`
	SessionExpiry *time.Time `json:"session_expires_at,omitempty"`
}

func toReservationResponse(r *domain.Reservation) ReservationResponse {
	return ReservationResponse{
		ReservationID: r.ID,
		ScreenID:      r.ScreenID,
		Date:          r.Date,
		Start:         services.FormatClock(r.StartMin),
		End:           services.FormatClock(r.EndMin),
		Status:        string(r.Status),
		TotalAmount:   r.TotalAmount.String(),
		Currency:      r.Currency,
		HoldExpiresAt: r.HoldExpiresAt,
		SessionID:     r.SessionID,
		SessionExpiry: r.SessionExpiresAt,
	}
}

//
// Handlers
//

// CreateReservation godoc
// @ID          createReservation
// @Summary     Reserve a slot
// @Description Places a pending hold on the requested interval. The total amount is computed server-side from the screen's hourly price.
// @Tags        Reservations
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  false "Requester ID (demo header)"  example(user123)
// @Param       body       body    handlers.CreateReservationRequest  true  "Reservation payload"
//
// @Success     201  {object}  handlers.ReservationResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Validation failed"
// @Failure     404  {object}  handlers.ErrorResponse  "Screen not found"
// @Failure     409  {object}  handlers.ErrorResponse  "Slot conflict"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /reservations [post]
func (h *Handlers) CreateReservation(c *gin.Context) {
	var req CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	startMin, err := services.ParseClock(req.StartTime)
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "start_time must be HH:MM")
		return
	}

	ctx := c.Request.Context()
	currentUser := requesterID(c)

	// Idempotency (replay path): a retried key returns the original hold
	// instead of racing for the slot again.
	idemKey := idempotencyKeyFrom(c)
	if idemKey != "" {
		if svc, okSvc := h.reservationSvc.(*services.ReservationService); okSvc && svc.DB != nil {
			if rec, err := repo.GetIdempotency(ctx, svc.DB, currentUser, req.ScreenID, idemKey, time.Now().UTC()); err == nil && rec != nil {
				if prev, err2 := repo.GetReservation(ctx, svc.DB, rec.ReservationID); err2 == nil && prev.RequesterID == currentUser {
					c.Header("Idempotency-Replayed", "true")
					ok(c, http.StatusOK, toReservationResponse(prev))
					return
				}
			}
		}
	}

	r, err := h.reservationSvc.Create(ctx, req.ScreenID, currentUser, req.Date, startMin, req.DurationMin)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSlotConflict):
			fail(c, http.StatusConflict, ErrCodeConflict, "slot no longer available")
		case errors.Is(err, services.ErrScreenNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "screen not found")
		case errors.Is(err, services.ErrValidation):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}

	// Idempotency (store path): best effort.
	if idemKey != "" {
		if svc, okSvc := h.reservationSvc.(*services.ReservationService); okSvc && svc.DB != nil {
			ttl := 24 * time.Hour
			_, _ = repo.CreateIdempotency(ctx, svc.DB, currentUser, req.ScreenID, idemKey, r.ID, http.StatusCreated, ttl)
		}
	}

	ok(c, http.StatusCreated, toReservationResponse(r))
}

// idempotencyKeyFrom returns the validated Idempotency-Key stashed by upstream
// middleware, falling back to the raw header when the middleware is absent.
func idempotencyKeyFrom(c *gin.Context) string {
	if k, okKey := middleware.GetIdempotencyKey(c); okKey {
		return k
	}
	return strings.TrimSpace(c.GetHeader("Idempotency-Key"))
}

// GetReservation godoc
// @ID          getReservation
// @Summary     Fetch a reservation
// @Description Returns one reservation owned by the current requester.
// @Tags        Reservations
// @Produce     json
//
// @Param       X-User-ID  header  string  false "Requester ID (demo header)"  example(user123)
// @Param       id         path    string  true  "Reservation ID (UUID)"       format(uuid)
//
// @Success     200  {object}  handlers.ReservationResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     403  {object}  handlers.ErrorResponse  "Not the owner"
// @Failure     404  {object}  handlers.ErrorResponse  "Reservation not found"
// @Router      /reservations/{id} [get]
func (h *Handlers) GetReservation(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "reservation id must be a UUID")
		return
	}

	r, err := h.reservationSvc.Get(c.Request.Context(), id, requesterID(c))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrReservationNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "reservation not found")
		case errors.Is(err, services.ErrNotOwner):
			fail(c, http.StatusForbidden, ErrCodeForbidden, "reservation belongs to another requester")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}
	ok(c, http.StatusOK, toReservationResponse(r))
}

// CancelReservation godoc
// @ID          cancelReservation
// @Summary     Cancel a reservation
// @Description Cancels a pending or awaiting_payment reservation owned by the current requester and frees its slot.
// @Tags        Reservations
// @Produce     json
//
// @Param       X-User-ID  header  string  false "Requester ID (demo header)"  example(user123)
// @Param       id         path    string  true  "Reservation ID (UUID)"       format(uuid)
//
// @Success     200  {object}  map[string]string
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     403  {object}  handlers.ErrorResponse  "Not the owner"
// @Failure     404  {object}  handlers.ErrorResponse  "Reservation not found"
// @Failure     409  {object}  handlers.ErrorResponse  "Not cancellable in current state"
// @Router      /reservations/{id}/cancel [post]
func (h *Handlers) CancelReservation(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "reservation id must be a UUID")
		return
	}

	err := h.reservationSvc.Cancel(c.Request.Context(), id, requesterID(c))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrReservationNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "reservation not found")
		case errors.Is(err, services.ErrNotOwner):
			fail(c, http.StatusForbidden, ErrCodeForbidden, "reservation belongs to another requester")
		case errors.Is(err, services.ErrInvalidState):
			fail(c, http.StatusConflict, ErrCodeInvalidState, "reservation is not cancellable in its current state")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}
	ok(c, http.StatusOK, gin.H{"reservation_id": id, "status": string(domain.ReservationCancelled)})
}
