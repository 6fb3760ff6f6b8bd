// cmd/api/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"careers-intake/internal/admin"
	"careers-intake/internal/common/config"
	"careers-intake/internal/common/database"
	"careers-intake/internal/common/logger"
	"careers-intake/internal/common/observability"
	"careers-intake/internal/filegate"
	"careers-intake/internal/intake"
	"careers-intake/internal/notifier"
	"careers-intake/internal/repository"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallback := logger.New("info", "console")
		fallback.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting careers intake service...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New("careers-intake")
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		// Test the connection with context
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	repo := repository.NewPostgresRepository(pg.GetDB(), log)

	// --- Init Redis guard with retry (optional) ---
	var guard *intake.SubmissionGuard
	if cfg.Guard.Enabled {
		var rd *database.RedisClient
		err = retryWithBackoff(func() error {
			var err error
			rd, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			return rd.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")

		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer rd.Close()
		zapLog.Info("Redis connected successfully")

		guard = intake.NewSubmissionGuard(rd.GetClient(), cfg.Guard.Window, log)
	}

	// --- Init notifier ---
	var sender notifier.Notifier
	switch cfg.Notification.Provider {
	case "ses":
		sender, err = notifier.NewSESNotifier(ctx, cfg.Notification, log)
		if err != nil {
			zapLog.Fatal("ses client init failed", zap.Error(err))
		}
	default:
		smtpSender := notifier.NewSMTPNotifier(cfg.Notification, log)
		if err := smtpSender.TestConnection(ctx); err != nil {
			// A cold SMTP relay at boot is survivable; deliveries retry on
			// each submission.
			zapLog.Warn("smtp connection test failed", zap.Error(err))
		}
		sender = smtpSender
	}
	zapLog.Info("Notifier initialized", zap.String("provider", cfg.Notification.Provider))

	// --- Build pipeline and HTTP surface ---
	gate := filegate.New(cfg.Upload.AllowedExtensions, cfg.Upload.MaxSizeBytes)

	pipeline := intake.NewPipeline(gate, repo, sender, guard, cfg.Notification, log)
	pipeline.SetObservability(obs)

	submitHandler := intake.NewHandler(pipeline, gate.MaxSizeBytes(), log)
	adminHandler := admin.NewHandler(repo, cfg.Admin.Username, cfg.Admin.Password, log)

	mux := http.NewServeMux()
	mux.Handle("/submit", submitHandler)
	mux.HandleFunc("/api/applicants", adminHandler.ServeJSON)
	mux.HandleFunc("/admin/applicants", adminHandler.ServeHTML)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		status := "ok"
		code := http.StatusOK
		if err := pg.Ping(r.Context()); err != nil {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": status})
	})

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      mux,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.String("address", cfg.Server.Address))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("http server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("server shutdown failed", zap.Error(err))
	}

	zapLog.Info("Careers intake service stopped")
}
