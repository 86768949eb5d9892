package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/bankcore-ledger/internal/api/handler"
	"github.com/bankcore-ledger/internal/api/middleware"
	"github.com/gin-gonic/gin"
)

// setupRouter configures API routes and middleware for the application
func setupRouter(
	logger *slog.Logger,
	r *gin.Engine,
	authHandler *handler.AuthHandler,
	accountHandler *handler.AccountHandler,
	ledgerHandler *handler.LedgerHandler,
) {
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CorrelationID())

	// API v1 endpoints
	v1 := r.Group("/api/v1")
	{
		// Identity operations
		auth := v1.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
		}

		// Account operations
		accounts := v1.Group("/accounts")
		{
			accounts.POST("", accountHandler.Create)
			accounts.GET("", accountHandler.List)
			accounts.GET("/:username/balance", accountHandler.GetBalance)
			accounts.GET("/:username/history", accountHandler.GetHistory)
			accounts.POST("/:username/deposits", ledgerHandler.Deposit)
			accounts.POST("/:username/withdrawals", ledgerHandler.Withdraw)
		}

		// Transfer operations
		v1.POST("/transfers", ledgerHandler.Transfer)
	}

	// Health check endpoint for monitoring
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})
}
