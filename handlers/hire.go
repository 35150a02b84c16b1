package handlers

import (
	"errors"
	"net/http"

	"taskly/middleware"
	"taskly/services/hire"
	"taskly/services/wallet"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HireHandler exposes the direct-hire wizard over HTTP.
type HireHandler struct {
	Service hire.WizardService
	Logger  *zap.Logger
}

// NewHireHandler returns a HireHandler.
func NewHireHandler(service hire.WizardService, logger *zap.Logger) *HireHandler {
	return &HireHandler{Service: service, Logger: logger}
}

// StartSession opens a new wizard session for hiring a specific provider.
func (h *HireHandler) StartSession(c *gin.Context) {
	requesterID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	var input struct {
		ProviderID string `json:"provider_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	session, err := h.Service.Start(c.Request.Context(), requesterID, input.ProviderID)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session})
}

// GetSession returns the session state plus a live fee/affordability preview.
func (h *HireHandler) GetSession(c *gin.Context) {
	requesterID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	view, err := h.Service.Get(c.Request.Context(), c.Param("sessionID"), requesterID)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// UpdateStep writes the current step's form fields into the session.
func (h *HireHandler) UpdateStep(c *gin.Context) {
	requesterID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	var input hire.StepInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	session, err := h.Service.UpdateStep(c.Request.Context(), c.Param("sessionID"), requesterID, input)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session})
}

// AdvanceStep validates the current step and moves forward.
func (h *HireHandler) AdvanceStep(c *gin.Context) {
	requesterID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	session, err := h.Service.Advance(c.Request.Context(), c.Param("sessionID"), requesterID)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session})
}

// BackStep returns to the previous step without losing collected data.
func (h *HireHandler) BackStep(c *gin.Context) {
	requesterID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	session, err := h.Service.Back(c.Request.Context(), c.Param("sessionID"), requesterID)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session})
}

// CancelSession discards the wizard. No durable records exist yet.
func (h *HireHandler) CancelSession(c *gin.Context) {
	requesterID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	if err := h.Service.Cancel(c.Request.Context(), c.Param("sessionID"), requesterID); err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cancelled": true})
}

// Submit triggers the hire transaction saga and renders its outcome.
func (h *HireHandler) Submit(c *gin.Context) {
	requesterID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	outcome, err := h.Service.Submit(c.Request.Context(), c.Param("sessionID"), requesterID)
	if err != nil {
		h.renderError(c, err)
		return
	}

	status := http.StatusOK
	if outcome.Status == hire.StatusFailed {
		status = http.StatusConflict
	}
	c.JSON(status, gin.H{"outcome": outcome})
}

// renderError maps service errors onto HTTP responses.
func (h *HireHandler) renderError(c *gin.Context, err error) {
	var vErr *hire.ValidationError
	if errors.As(err, &vErr) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "validation failed", "validation": vErr})
		return
	}
	var balErr *hire.InsufficientBalanceError
	if errors.As(err, &balErr) {
		c.JSON(http.StatusPaymentRequired, gin.H{
			"error":    "insufficient balance",
			"balance":  balErr.Balance,
			"required": balErr.Required,
			"action":   "top_up",
		})
		return
	}

	switch {
	case errors.Is(err, hire.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, hire.ErrNotSessionOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, hire.ErrSubmissionInFlight),
		errors.Is(err, hire.ErrAlreadySubmitted),
		errors.Is(err, hire.ErrNotAtReview),
		errors.Is(err, hire.ErrSessionTerminal):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, wallet.ErrServiceUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "wallet service unavailable"})
	default:
		h.Logger.Error("hire handler error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
