// cmd/assistant/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	commonaws "voice-assistant/internal/common/aws"
	"voice-assistant/internal/common/config"
	"voice-assistant/internal/common/database"
	"voice-assistant/internal/common/logger"
	"voice-assistant/internal/common/observability"
	"voice-assistant/internal/dispatch"
	"voice-assistant/internal/executors"
	"voice-assistant/internal/genai"
	"voice-assistant/internal/intent"
	"voice-assistant/internal/store"
	"voice-assistant/internal/transcribe"
	"voice-assistant/internal/transport/httpapi"

	"github.com/redis/go-redis/v9"
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
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting voice assistant...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	// Rebuild the logger with configured level and format.
	zapLog = logger.New(cfg.Logging.Level, cfg.Logging.Format)
	log = logger.NewZapAdapter(zapLog)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Record stores: postgres when configured, in-memory otherwise ---
	var stores store.Stores
	if cfg.Database.Postgres.Host != "" {
		var pg *database.PostgresClient
		err = retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			return pg.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
		if err != nil {
			zapLog.Fatal("postgres failed after retries", zap.Error(err))
		}
		defer pg.Close()
		stores = store.NewPostgresStores(pg.DB)
		zapLog.Info("PostgreSQL store connected")
	} else {
		stores = store.NewMemoryStores().Bundle()
		zapLog.Warn("No postgres host configured, using in-memory store")
	}

	// --- Classification cache: optional ---
	var cacheClient *redis.Client
	if cfg.Database.Redis.Address != "" {
		rdb, err := database.NewRedis(cfg.Database.Redis)
		if err != nil {
			zapLog.Fatal("redis init failed", zap.Error(err))
		}
		if err := rdb.Ping(ctx); err != nil {
			zapLog.Warn("redis unreachable, classification cache disabled", zap.Error(err))
		} else {
			cacheClient = rdb.Client
			defer rdb.Close()
			zapLog.Info("Redis classification cache connected")
		}
	}

	// --- Generative backend: absent API key means rule-based mode ---
	var generator genai.Generator
	if cfg.GenAI.APIKey != "" {
		generator, err = genai.New(cfg.GenAI)
		if err != nil {
			zapLog.Fatal("genai init failed", zap.Error(err))
		}
		zapLog.Info("Generative backend configured", zap.String("model", cfg.GenAI.AIModel))
	} else {
		zapLog.Warn("No API key configured, classifier running in rule-based mode")
	}

	// --- Assignment notifier: optional SNS channel ---
	var notifier executors.Notifier
	if cfg.Notifications.SNS.Enabled && cfg.Notifications.SNS.TopicARN != "" {
		snsClient, err := commonaws.NewSNSClient(ctx, cfg.Notifications.AWS.Region)
		if err != nil {
			zapLog.Fatal("sns client init failed", zap.Error(err))
		}
		notifier = executors.NewSNSNotifier(snsClient, cfg.Notifications.SNS.TopicARN)
		zapLog.Info("SNS assignment notifier enabled")
	}

	classifier := intent.New(generator, cacheClient, time.Duration(cfg.GenAI.CacheTTLSecs)*time.Second, log)
	transcriber := transcribe.New(generator, cfg.Transcription, log)

	dispatcher := dispatch.New(
		classifier,
		executors.NewTodoExecutor(stores.Todos, log),
		executors.NewNoteExecutor(stores.Notes, log),
		executors.NewAssignedExecutor(stores.Assigned, notifier, log),
		executors.NewBlockedExecutor(stores.Blocked, log),
		obs,
		log,
	)

	server := httpapi.NewServer(dispatcher, transcriber, cfg.Server.Port, cfg.Server.MaxAudioBytes, log)

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("http server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down http server", zap.Error(err))
	}

	zapLog.Info("Voice assistant stopped")
}
