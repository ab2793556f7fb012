// Payment webhook HTTP handler.
//
// This file exposes the endpoint the payment processor calls back:
//   - POST /webhooks/payment   (signed event delivery)
//
// The response status is the retry contract with the processor: 2xx stops
// redelivery, 4xx marks the delivery permanently bad, and 5xx asks the
// processor to try again later. Getting that mapping right matters more here
// than anywhere else in the API.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/slotcast/go-booking-backend/internal/http/middleware"
	"github.com/slotcast/go-booking-backend/internal/services"
)

// signatureHeader carries the hex HMAC-SHA256 of the raw request body.
const signatureHeader = "X-Signature"

//
// Service contracts (context-aware)
//

// WebhookService verifies and applies payment processor events.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type WebhookService interface {
	// Handle verifies, deduplicates, and applies one raw webhook delivery.
	Handle(ctx context.Context, body []byte, signature string) (services.WebhookOutcome, error)
}

// PaymentWebhook godoc
// @ID          paymentWebhook
// @Summary     Receive a payment processor event
// @Description Verifies the HMAC signature over the raw body, absorbs duplicate deliveries via the processed-event ledger, and applies the payment outcome. 2xx acknowledges; 4xx means the delivery is permanently bad; 5xx requests a retry.
// @Tags        Webhooks
// @Accept      json
// @Produce     json
//
// @Param       X-Signature  header  string  true  "Hex HMAC-SHA256 of the raw body"
// @Param       body         body    object  true  "Processor event"
//
// @Success     200  {object}  map[string]string
// @Failure     400  {object}  handlers.ErrorResponse  "Bad signature or malformed payload"
// @Failure     404  {object}  handlers.ErrorResponse  "Event correlates to nothing"
// @Failure     500  {object}  handlers.ErrorResponse  "Transient failure, retry"
// @Router      /webhooks/payment [post]
func (h *Handlers) PaymentWebhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "unreadable body")
		return
	}

	// Event type for metrics only; the service does its own strict parsing.
	var peek struct {
		Type string `json:"type"`
	}
	_ = json.Unmarshal(body, &peek)
	if peek.Type == "" {
		peek.Type = "unknown"
	}

	outcome, err := h.webhookSvc.Handle(c.Request.Context(), body, c.GetHeader(signatureHeader))
	if err != nil {
		middleware.ObserveWebhookEvent(peek.Type, "rejected")
		switch {
		case errors.Is(err, services.ErrBadSignature):
			fail(c, http.StatusBadRequest, ErrCodeBadSignature, "signature verification failed")
		case errors.Is(err, services.ErrValidation):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		case errors.Is(err, services.ErrReservationNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "event does not correlate to a known payment")
		default:
			// Transient; the processor should redeliver.
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}
	middleware.ObserveWebhookEvent(peek.Type, string(outcome))
	ok(c, http.StatusOK, gin.H{"received": "true", "outcome": string(outcome)})
}
