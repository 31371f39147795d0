// File: inkbook/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"inkbook/config"
	"inkbook/database"
	blockRepo "inkbook/database/repository/block"
	bookRepo "inkbook/database/repository/book"
	reservationRepo "inkbook/database/repository/reservation"
	scheduleRepo "inkbook/database/repository/schedule"
	"inkbook/handlers"
	"inkbook/middleware"
	"inkbook/routes"
	"inkbook/services/notification"
	"inkbook/services/payment"
	"inkbook/services/scheduling"
	"inkbook/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/stripe/stripe-go/v76"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	utils.InitLockClient()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())
	stripe.Key = config.AppConfig.StripeKey

	// repositories.
	books := bookRepo.NewMongoBookRepo()
	schedules := scheduleRepo.NewMongoScheduleRepo()
	blocks := blockRepo.NewMongoBlockRepo()
	reservations := reservationRepo.NewMongoReservationRepo()

	for name, ensure := range map[string]func() error{
		"books":        books.EnsureIndexes,
		"schedules":    schedules.EnsureIndexes,
		"blocks":       blocks.EnsureIndexes,
		"reservations": reservations.EnsureIndexes,
	} {
		if err := ensure(); err != nil {
			logger.Sugar().Fatalf("main: failed to ensure %s indexes: %v", name, err)
		}
	}

	// Background notification worker and its dispatcher share the queue DB.
	queueOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
	dispatcher := notification.NewAsynqDispatcher(queueOpts)
	defer dispatcher.Close()
	notification.InitNotificationWorker(queueOpts)

	// services.
	engine := &scheduling.DefaultEngine{
		Books:        books,
		Schedule:     schedules,
		Blocks:       blocks,
		Reservations: reservations,
		Locks:        scheduling.NewRedisLocker(utils.GetLockClient()),
		Clock:        scheduling.SystemClock(),
		Notifier:     dispatcher,
		LockWait:     time.Duration(config.AppConfig.AdmissionLockWaitMS) * time.Millisecond,
		Logger:       logger,
	}
	payments := payment.NewStripeProcessor(logger)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		Availability: handlers.NewAvailabilityHandler(engine),
		Reservations: handlers.NewReservationHandler(engine, books, reservations, payments, logger),
		Schedule:     handlers.NewScheduleHandler(books, schedules, blocks),
		Books:        handlers.NewBookHandler(books),
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

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
