// Package main is the entry point for the rsa-engine-rest-api server.
// It wires the key store, the application services and the signature
// algorithm adapter behind the versioned REST routes.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	v1 "rsa_engine_service/internal/api/rest/v1"
	"rsa_engine_service/internal/app"
	"rsa_engine_service/internal/domain/cryptoalg"
	"rsa_engine_service/internal/infrastructure/cryptography"
	"rsa_engine_service/internal/infrastructure/persistence"
	"rsa_engine_service/internal/pkg/config"
	"rsa_engine_service/internal/pkg/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const shutdownGrace = 5 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Application error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	loggerSettings := &config.LoggerSettings{
		LogLevel: envOr("LOG_LEVEL", config.LogLevelInfo),
		LogType:  config.LogTypeConsole,
	}
	if err := logger.InitLogger(loggerSettings); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log, err := logger.GetLogger()
	if err != nil {
		return fmt.Errorf("failed to get logger: %w", err)
	}
	log = log.WithComponent("rest-api")

	dbSettings := config.DatabaseSettings{
		Type: envOr("DB_TYPE", config.SqliteDbType),
		DSN:  os.Getenv("DB_DSN"),
		Name: os.Getenv("DB_NAME"),
	}
	db, err := persistence.NewDBConnection(dbSettings)
	if err != nil {
		return fmt.Errorf("failed to connect to the key store: %w", err)
	}
	defer func() {
		if err := persistence.CloseDB(db); err != nil {
			log.Error("closing key store: ", err)
		}
	}()

	keyRepo, err := persistence.NewGormKeyRepository(db, log)
	if err != nil {
		return fmt.Errorf("failed to create key repository: %w", err)
	}
	keyGenerationService, err := app.NewKeyGenerationService(keyRepo, 0, log)
	if err != nil {
		return fmt.Errorf("failed to create key generation service: %w", err)
	}
	keyMetadataService, err := app.NewKeyMetadataService(keyRepo, log)
	if err != nil {
		return fmt.Errorf("failed to create key metadata service: %w", err)
	}
	keyDownloadService, err := app.NewKeyDownloadService(keyRepo, log)
	if err != nil {
		return fmt.Errorf("failed to create key download service: %w", err)
	}
	signatureAlgorithm, err := cryptography.SignatureAlgorithmByName(cryptoalg.RS256, log)
	if err != nil {
		return fmt.Errorf("failed to resolve signature algorithm: %w", err)
	}

	router := gin.Default()
	router.Use(cors.Default())
	v1.SetupRoutes(router, keyGenerationService, keyMetadataService, keyDownloadService, signatureAlgorithm)

	server := &http.Server{
		Addr:              envOr("LISTEN_ADDR", ":8080"),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	log.Info("Listening on ", server.Addr)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-stop:
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	log.Info("Server stopped")
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
