package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"booking-backend/config"
	"booking-backend/controllers"
	"booking-backend/events"
	"booking-backend/logger"
	"booking-backend/repositories"
	"booking-backend/routes"
	"booking-backend/services"
)

func main() {
	// .env is optional, real deployments set the environment directly.
	_ = godotenv.Load()

	log := logger.New(logger.Config{
		Level:   config.EnvOrDefault("LOG_LEVEL", "info"),
		Format:  config.EnvOrDefault("LOG_FORMAT", "json"),
		Service: "booking-backend",
	})

	db, err := config.ConnectDatabase()
	if err != nil {
		log.Fatal("database connect failed", "error", err)
	}

	publisher := events.NewNoopPublisher()
	if brokers := strings.TrimSpace(os.Getenv("KAFKA_BROKERS")); brokers != "" {
		topic := config.EnvOrDefault("KAFKA_TOPIC", "booking-events")
		publisher = events.NewKafkaPublisher(strings.Split(brokers, ","), topic)
		log.Info("kafka publisher enabled", "brokers", brokers, "topic", topic)
	}
	defer publisher.Close()

	roomRepo := repositories.NewRoomRepository(db)
	bookingRepo := repositories.NewBookingRepository(db)

	roomService := services.NewRoomService(roomRepo, publisher, log)
	bookingService := services.NewBookingService(bookingRepo, roomRepo, publisher, log)
	authService := services.NewAuthService(db, log)

	roomController := controllers.NewRoomController(roomService)
	bookingController := controllers.NewBookingController(bookingService)
	authController := controllers.NewAuthController(authService)

	router := routes.SetupRouter(roomController, bookingController, authController, authService, log)

	addr := ":" + config.EnvOrDefault("PORT", "8080")
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("server starting", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("forced shutdown", "error", err)
	}

	log.Info("server stopped")
}
