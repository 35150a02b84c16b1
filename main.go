// File: taskly/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taskly/config"
	"taskly/cron"
	"taskly/database"
	auditRepoPkg "taskly/database/repository/audit"
	bookingRepoPkg "taskly/database/repository/booking"
	workorderRepoPkg "taskly/database/repository/workorder"
	"taskly/handlers"
	"taskly/middleware"
	"taskly/routes"
	"taskly/services/fees"
	"taskly/services/hire"
	"taskly/services/notification"
	"taskly/services/wallet"
	"taskly/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"github.com/stripe/stripe-go/v76"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitSessionCache()
	if config.AppConfig.FirebaseCredentialsPath != "" {
		utils.FirebaseInit()
	}
	stripe.Key = config.AppConfig.StripeKey

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(cors.Default())
	router.Use(middleware.RateLimitMiddleware(config.AppConfig.MaxRequestsPerMin))

	// repositories.
	workOrders := workorderRepoPkg.NewMongoWorkOrderRepo()
	bookings := bookingRepoPkg.NewMongoBookingRepo()
	audits := auditRepoPkg.NewMongoAuditRepo()

	// wallet backend.
	var walletClient wallet.Client
	if config.AppConfig.WalletBackend == "stripe" {
		walletClient = wallet.NewStripeGateway()
	} else {
		walletClient = wallet.NewMongoLedgerClient()
	}

	// push delivery: enqueue onto the redis worker, deliver via FCM.
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	defer asynqClient.Close()
	notifier := notification.NewAsynqDispatcher(asynqClient, logger)
	cron.InitPushWorker(&notification.FCMSender{})

	feeCalc := fees.NewCalculator(config.AppConfig.PlatformFeeRate)

	hireSaga := &hire.HireSaga{
		WorkOrders:  workOrders,
		Bookings:    bookings,
		Wallet:      walletClient,
		Notifier:    notifier,
		Audit:       audits,
		Fees:        feeCalc,
		StepTimeout: time.Duration(config.AppConfig.SagaStepTimeoutMS) * time.Millisecond,
		Logger:      logger,
	}

	wizardService := &hire.DefaultWizardService{
		Store:     hire.NewRedisSessionStore(utils.GetSessionCacheClient()),
		Wallet:    walletClient,
		Fees:      feeCalc,
		Saga:      hireSaga,
		MinBudget: config.AppConfig.MinimumBudget,
		Logger:    logger,
	}

	hireHandler := handlers.NewHireHandler(wizardService, logger)
	walletHandler := handlers.NewWalletHandler(walletClient)

	routes.RegisterRoutes(router, hireHandler, walletHandler)

	utils.StartHealthMonitor([]*redis.Client{utils.GetSessionCacheClient()}, database.MongoClient)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
