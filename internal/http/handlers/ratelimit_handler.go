// Rate limit HTTP handler.
//
// This file exposes the domain rate limiter as an API resource:
//   - POST /rate-limit   (check / increment / reset a window)
//
// Check is read-only, increment consumes budget and answers 429 with
// Retry-After when the window is exhausted, and reset is an admin action
// guarded by X-Admin-Token.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/slotcast/go-booking-backend/internal/http/middleware"
	"github.com/slotcast/go-booking-backend/internal/services"
)

// adminTokenHeader authorizes the reset action.
const adminTokenHeader = "X-Admin-Token"

//
// Service contracts (context-aware)
//

// RateLimitService enforces per-endpoint request budgets.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type RateLimitService interface {
	// Check reports the caller's standing without consuming budget.
	Check(ctx context.Context, identifier, endpoint string) (*services.RateLimitDecision, error)
	// Increment consumes one unit of budget; returns ErrRateLimited with the
	// decision when the window is exhausted.
	Increment(ctx context.Context, identifier, endpoint string) (*services.RateLimitDecision, error)
	// Reset clears the window for one (identifier, endpoint) pair.
	Reset(ctx context.Context, identifier, endpoint string) error
}

//
// DTOs
//

// RateLimitRequest is the JSON payload for rate limit operations.
type RateLimitRequest struct {
	// Identifier is the subject being limited (user id, API key, IP).
	Identifier string `json:"identifier" binding:"required" example:"user123"`
	// Endpoint selects the policy, e.g. "payment-sessions".
	Endpoint string `json:"endpoint" binding:"required" example:"payment-sessions"`
	// Action is one of check, increment, reset.
	Action string `json:"action" binding:"required" example:"increment"`
}

// RateLimit godoc
// @ID          rateLimit
// @Summary     Check, consume, or reset a rate limit window
// @Description check reports standing without consuming budget; increment consumes one unit and returns 429 with Retry-After when exhausted; reset clears the window and requires X-Admin-Token.
// @Tags        RateLimit
// @Accept      json
// @Produce     json
//
// @Param       X-Admin-Token  header  string  false "Admin token (required for reset)"
// @Param       body           body    handlers.RateLimitRequest  true  "Rate limit operation"
//
// @Success     200  {object}  services.RateLimitDecision
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     403  {object}  handlers.ErrorResponse  "Admin token missing or wrong"
// @Failure     429  {object}  services.RateLimitDecision "Window exhausted"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /rate-limit [post]
func (h *Handlers) RateLimit(c *gin.Context) {
	var req RateLimitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	ctx := c.Request.Context()

	switch req.Action {
	case "check":
		d, err := h.rateLimitSvc.Check(ctx, req.Identifier, req.Endpoint)
		if err != nil {
			h.rateLimitError(c, err)
			return
		}
		ok(c, http.StatusOK, d)

	case "increment":
		d, err := h.rateLimitSvc.Increment(ctx, req.Identifier, req.Endpoint)
		if errors.Is(err, services.ErrRateLimited) {
			retryAfter := int(time.Until(d.ResetAt).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", fmt.Sprintf("%d", retryAfter))
			middleware.ObserveRateLimitRejection(req.Endpoint)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, d)
			return
		}
		if err != nil {
			h.rateLimitError(c, err)
			return
		}
		ok(c, http.StatusOK, d)

	case "reset":
		if h.adminToken == "" || c.GetHeader(adminTokenHeader) != h.adminToken {
			fail(c, http.StatusForbidden, ErrCodeForbidden, "reset requires a valid admin token")
			return
		}
		if err := h.rateLimitSvc.Reset(ctx, req.Identifier, req.Endpoint); err != nil {
			h.rateLimitError(c, err)
			return
		}
		ok(c, http.StatusOK, gin.H{"reset": "true"})

	default:
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "action must be check, increment, or reset")
	}
}

func (h *Handlers) rateLimitError(c *gin.Context, err error) {
	if errors.Is(err, services.ErrValidation) {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		return
	}
	fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
}
