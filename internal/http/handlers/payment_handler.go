// Payment session HTTP handlers.
//
// This file exposes the checkout side of the booking flow:
//   - POST /payment-sessions   (open or reuse a checkout session)
//
// Handlers are transport-thin: they validate input, call application services,
// and translate results into HTTP responses.
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/slotcast/go-booking-backend/internal/services"
)

//
// Service contracts (context-aware)
//

// PaymentService brokers checkout sessions with the payment provider.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type PaymentService interface {
	// CreateSession opens (or returns) the checkout session for a reservation.
	CreateSession(ctx context.Context, reservationID, requesterID string) (*services.CheckoutSession, error)
}

//
// DTOs
//

// CreatePaymentSessionRequest is the JSON payload for opening a checkout
// session. The amount is never part of the request; it comes from the stored
// reservation.
type CreatePaymentSessionRequest struct {
	// ReservationID identifies the reservation to pay for.
	ReservationID string `json:"reservation_id" binding:"required" example:"141add05-4415-4938-b5a1-17e0d3171aff"`
}

// CreatePaymentSession godoc
// @ID          createPaymentSession
// @Summary     Open a checkout session
// @Description Opens a payment session for a pending reservation, or returns the live session if one already exists. Safe to retry; supports Idempotency-Key.
// @Tags        Payments
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID        header  string  false "Requester ID (demo header)"  example(user123)
// @Param       Idempotency-Key  header  string  false "Client idempotency key (UUIDv4)"
// @Param       body             body    handlers.CreatePaymentSessionRequest  true  "Payment session payload"
//
// @Success     201  {object}  services.CheckoutSession
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     403  {object}  handlers.ErrorResponse  "Not the owner"
// @Failure     404  {object}  handlers.ErrorResponse  "Reservation not found"
// @Failure     409  {object}  handlers.ErrorResponse  "Reservation not payable"
// @Failure     502  {object}  handlers.ErrorResponse  "Payment provider unavailable"
// @Router      /payment-sessions [post]
func (h *Handlers) CreatePaymentSession(c *gin.Context) {
	var req CreatePaymentSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	if _, err := uuid.Parse(req.ReservationID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "reservation_id must be a UUID")
		return
	}

	cs, err := h.paymentSvc.CreateSession(c.Request.Context(), req.ReservationID, requesterID(c))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrReservationNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "reservation not found")
		case errors.Is(err, services.ErrNotOwner):
			fail(c, http.StatusForbidden, ErrCodeForbidden, "reservation belongs to another requester")
		case errors.Is(err, services.ErrInvalidState):
			fail(c, http.StatusConflict, ErrCodeInvalidState, "reservation is not payable in its current state")
		case errors.Is(err, services.ErrPaymentProvider):
			fail(c, http.StatusBadGateway, ErrCodeProviderUnavailable, "payment provider unavailable, try again")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}

	status := http.StatusCreated
	if cs.Reused {
		// The live session is handed back rather than a new one minted.
		status = http.StatusOK
	}
	ok(c, status, cs)
}
