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

	"github.com/joho/godotenv"

	"github.com/contest-api/internal/application/auth"
	"github.com/contest-api/internal/config"
	"github.com/contest-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/contest-api/internal/infrastructure/jwt"
	s3infra "github.com/contest-api/internal/infrastructure/s3"
	"github.com/contest-api/internal/infrastructure/smtp"
	"github.com/contest-api/internal/infrastructure/sns"
	"github.com/contest-api/internal/notifier"
	transporthttp "github.com/contest-api/internal/transport/http"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(context.Background(), dynamoClient, cfg.DynamoTables)

	// JWT provider (optional — admin routes stay closed if keys are missing).
	var jwtProvider *jwtinfra.Provider
	if p, err := jwtinfra.NewProvider(cfg); err == nil {
		jwtProvider = p
	} else {
		log.Printf("WARN: JWT provider not available: %v", err)
	}

	// S3 store for CSV exports.
	s3Client := s3infra.NewClient(cfg)
	s3Store := s3infra.NewStore(s3Client, cfg.S3BucketName)

	// SMTP mailer.
	mailer := smtp.NewMailer(cfg)

	// SNS publisher for winner announcements (optional — graceful fallback).
	var publisher sns.Publisher
	if p, err := sns.NewPublisher(cfg); err == nil {
		publisher = p
	} else {
		log.Printf("WARN: SNS publisher not available: %v", err)
	}

	contestantRepo := dynamo.NewContestantRepo(dynamoClient, cfg.DynamoTables.Contestants)
	tokenRepo := dynamo.NewTokenRepo(dynamoClient, cfg.DynamoTables.VerificationTokens)
	winnerRepo := dynamo.NewWinnerRepo(dynamoClient, cfg.DynamoTables.Winner)
	accountRepo := dynamo.NewAccountRepo(dynamoClient, cfg.DynamoTables.Accounts)
	notificationRepo := dynamo.NewNotificationRepo(dynamoClient, cfg.DynamoTables.Notifications)

	dispatcher := notifier.New(mailer, publisher, notificationRepo, cfg.FrontendURL, cfg.ContestName)
	defer dispatcher.Close()

	// Seed the administrator account on first boot.
	if cfg.AdminEmail != "" {
		authSvc := auth.NewService(auth.ServiceDeps{AccountRepo: accountRepo})
		if err := authSvc.SeedAdmin(context.Background(), cfg.AdminEmail, cfg.AdminPassword); err != nil {
			log.Printf("WARN: admin account not seeded: %v", err)
		}
	}

	deps := &transporthttp.Deps{
		ContestantRepo: contestantRepo,
		TokenRepo:      tokenRepo,
		WinnerRepo:     winnerRepo,
		AccountRepo:    accountRepo,
		S3Store:        s3Store,
		Notifier:       dispatcher,
		JWTProvider:    jwtProvider,
	}

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s)", cfg.AppPort, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
