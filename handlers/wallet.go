package handlers

import (
	"errors"
	"net/http"

	"taskly/middleware"
	"taskly/services/wallet"
	"taskly/utils"

	"github.com/gin-gonic/gin"
)

// WalletHandler exposes balance reads and top-ups.
type WalletHandler struct {
	Wallet wallet.Client
}

// NewWalletHandler returns a WalletHandler.
func NewWalletHandler(client wallet.Client) *WalletHandler {
	return &WalletHandler{Wallet: client}
}

// GetBalance returns the caller's available balance.
func (h *WalletHandler) GetBalance(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	balance, err := h.Wallet.GetBalance(c.Request.Context(), userID)
	if err != nil {
		utils.JSONError(c, http.StatusServiceUnavailable, "wallet service unavailable", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"balance": balance})
}

// TopUp credits the caller's wallet.
func (h *WalletHandler) TopUp(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	var input struct {
		Amount float64 `json:"amount" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	balance, err := h.Wallet.Credit(c.Request.Context(), userID, input.Amount)
	if err != nil {
		if errors.Is(err, wallet.ErrInvalidAmount) {
			utils.JSONError(c, http.StatusBadRequest, "amount must be positive", "")
			return
		}
		utils.JSONError(c, http.StatusServiceUnavailable, "wallet service unavailable", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"balance": balance})
}
