package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"marketpay/internal/client"
	"marketpay/internal/config"
	"marketpay/internal/handler"
	"marketpay/internal/repository"
	"marketpay/internal/server"
	"marketpay/internal/service"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	db := client.InitSqliteClient(cfg.DatabaseURL)

	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	intentRepo := repository.NewPaymentIntentRepository(db)
	purchaseRepo := repository.NewPurchaseRepository(db)
	deliveryRepo := repository.NewDeliveryCredentialRepository(db)
	notifRepo := repository.NewNotificationRepository(db)
	settingRepo := repository.NewSettingRepository(db)

	if err := productRepo.Seed(context.Background()); err != nil {
		log.Fatal("seed products:", err)
	}

	resolveSettings := service.NewGatewaySettingsResolver(settingRepo, &cfg.Gateway)
	gatewayClient := client.NewGatewayClient(resolveSettings)

	deliveryService := service.NewDeliveryService(deliveryRepo, productRepo)
	paymentService := service.NewPaymentService(
		db, gatewayClient, resolveSettings, cfg.BaseURL,
		userRepo, productRepo, intentRepo, purchaseRepo, deliveryRepo, notifRepo,
		deliveryService,
	)
	userService := service.NewUserService(userRepo, purchaseRepo, notifRepo)

	paymentHandler := handler.NewPaymentHandler(paymentService)
	deliveryHandler := handler.NewDeliveryHandler(deliveryService)
	productHandler := handler.NewProductHandler(productRepo)
	userHandler := handler.NewUserHandler(userService)
	adminHandler := handler.NewAdminHandler(settingRepo, userService)

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port

	// Init HTTP server
	srv := server.NewServer(
		paymentHandler, deliveryHandler, productHandler, userHandler, adminHandler,
		cfg.JWTSecret,
	)

	log.Println("Starting HTTP server on", serverAddr)
	go func() {
		if err := srv.Start(serverAddr); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	log.Println("Signal received, starting graceful shutdown...")

	_, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(); err != nil {
		log.Fatal("HTTP server shutdown error")
	}
}
