package routes

import (
	"taskly/handlers"
	"taskly/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires all endpoints onto the router.
func RegisterRoutes(r *gin.Engine, hireHandler *handlers.HireHandler, walletHandler *handlers.WalletHandler) {
	r.GET("/health", handlers.Health)

	api := r.Group("/api")
	api.Use(middleware.JWTAuthMiddleware())

	hire := api.Group("/hire")
	{
		hire.POST("/session", hireHandler.StartSession)
		hire.GET("/session/:sessionID", hireHandler.GetSession)
		hire.PUT("/session/:sessionID/step", hireHandler.UpdateStep)
		hire.POST("/session/:sessionID/advance", hireHandler.AdvanceStep)
		hire.POST("/session/:sessionID/back", hireHandler.BackStep)
		hire.DELETE("/session/:sessionID", hireHandler.CancelSession)
		hire.POST("/session/:sessionID/submit", hireHandler.Submit)
	}

	wallet := api.Group("/wallet")
	{
		wallet.GET("/balance", walletHandler.GetBalance)
		wallet.POST("/topup", walletHandler.TopUp)
	}
}
