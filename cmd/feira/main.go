package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/rmoliveira/feira/internal/backup"
	"github.com/rmoliveira/feira/internal/database"
	"github.com/rmoliveira/feira/internal/logging"
	"github.com/rmoliveira/feira/internal/server"
)

func main() {
	// Optional .env for local development; real deployments set the
	// environment directly.
	godotenv.Load()

	logger := logging.Setup(os.Getenv("FEIRA_LOG_LEVEL"))

	port := os.Getenv("FEIRA_PORT")
	if port == "" {
		port = "8080"
	}

	dbPath := os.Getenv("FEIRA_DB_PATH")
	if dbPath == "" {
		dbPath = "feira.db"
	}

	db, err := database.Open(dbPath)
	if err != nil {
		logger.Error("open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	backupCfg := backup.Config{
		S3: backup.S3Config{
			Endpoint:  os.Getenv("FEIRA_S3_ENDPOINT"),
			Bucket:    os.Getenv("FEIRA_S3_BUCKET"),
			Region:    os.Getenv("FEIRA_S3_REGION"),
			AccessKey: os.Getenv("FEIRA_S3_ACCESS_KEY"),
			SecretKey: os.Getenv("FEIRA_S3_SECRET_KEY"),
		},
		DBPath:     dbPath,
		Passphrase: os.Getenv("FEIRA_BACKUP_PASSPHRASE"),
	}
	if hours, err := strconv.Atoi(os.Getenv("FEIRA_BACKUP_INTERVAL_HOURS")); err == nil && hours > 0 {
		backupCfg.Interval = time.Duration(hours) * time.Hour
	}
	if days, err := strconv.Atoi(os.Getenv("FEIRA_BACKUP_RETENTION_DAYS")); err == nil && days > 0 {
		backupCfg.RetentionDays = days
	}

	srv := server.New(db, backupCfg, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	backupMgr := srv.BackupManager()
	if backupMgr.Enabled() {
		backupMgr.Start(ctx)
		defer backupMgr.Stop()
	}
	srv.StartRateLimiterCleanup(ctx.Done())

	httpServer := &http.Server{
		Addr:         ":" + port,
		Handler:      srv.Handler(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("feira listening", "port", port, "db", dbPath)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}
}
