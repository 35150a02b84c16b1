package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"taskly/services/wallet"
	"taskly/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubWallet struct {
	balance    float64
	balanceErr error
	creditErr  error
}

func (s *stubWallet) GetBalance(ctx context.Context, userID string) (float64, error) {
	return s.balance, s.balanceErr
}

func (s *stubWallet) PlaceHold(ctx context.Context, userID string, amount float64, ref wallet.HoldRef) (string, error) {
	return "", errors.New("not implemented")
}

func (s *stubWallet) Credit(ctx context.Context, userID string, amount float64) (float64, error) {
	if s.creditErr != nil {
		return 0, s.creditErr
	}
	s.balance += amount
	return s.balance, nil
}

func newWalletRouter(stub *stubWallet) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) { c.Set("userID", "user-1") })
	h := NewWalletHandler(stub)
	router.GET("/balance", h.GetBalance)
	router.POST("/topup", h.TopUp)
	return router
}

func TestWalletGetBalance(t *testing.T) {
	router := newWalletRouter(&stubWallet{balance: 120.5})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/balance", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"balance":120.5}`, w.Body.String())
}

func TestWalletGetBalanceUnavailable(t *testing.T) {
	router := newWalletRouter(&stubWallet{balanceErr: errors.New("connection refused")})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/balance", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var resp utils.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "wallet service unavailable", resp.Message)
}

func TestWalletTopUp(t *testing.T) {
	router := newWalletRouter(&stubWallet{balance: 10})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/topup", strings.NewReader(`{"amount": 40}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"balance":50}`, w.Body.String())
}

func TestWalletTopUpRejectsNonPositiveAmount(t *testing.T) {
	router := newWalletRouter(&stubWallet{creditErr: wallet.ErrInvalidAmount})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/topup", strings.NewReader(`{"amount": -5}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
