package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"autoreacto/internal/bot"
	"autoreacto/internal/config"
	"autoreacto/internal/journal"
	"autoreacto/internal/settings"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, logLevel, err := config.BuildLogger(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	journalStore, err := journal.New(cfg.JournalPath)
	if err != nil {
		logger.Fatal("journal init failed", zap.Error(err))
	}
	defer journalStore.Close()
	if err := journalStore.Migrate(); err != nil {
		logger.Fatal("migrations failed", zap.Error(err))
	}

	cleanupCtx, stopCleanup := context.WithCancel(context.Background())
	defer stopCleanup()
	if cfg.RetentionDays > 0 {
		go runJournalCleanup(cleanupCtx, journalStore, cfg.RetentionDays, logger)
	}

	store := settings.NewStore(cfg.ConfigDir, logger)
	if err := store.Load(); err != nil {
		logger.Fatal("configuration load failed", zap.Error(err))
	}

	botSettings := store.Settings()
	logLevel.SetLevel(config.ParseLevel(botSettings.Settings.LogLevel))

	token := os.Getenv("AUTOREACTO_TOKEN")
	if token == "" {
		token = botSettings.Token
	}
	if token == "" || token == "YOUR_BOT_TOKEN_HERE" {
		logger.Fatal("bot token is not configured", zap.String("token", config.MaskToken(token)))
	}

	store.SetNotify(func(document string) {
		logLevel.SetLevel(config.ParseLevel(store.Settings().Settings.LogLevel))
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := journalStore.AddReload(ctx, document); err != nil {
			logger.Warn("journal write failed", zap.Error(err))
		}
	})

	watchCtx, stopWatch := context.WithCancel(context.Background())
	defer stopWatch()
	if err := store.Watch(watchCtx); err != nil {
		logger.Fatal("file watcher failed", zap.Error(err))
	}

	botSvc, err := bot.New(token, store, journalStore, logger)
	if err != nil {
		logger.Fatal("bot init failed", zap.Error(err))
	}
	if err := botSvc.Start(); err != nil {
		logger.Fatal("bot start failed", zap.Error(err))
	}
	logger.Info("bot started", zap.String("token", config.MaskToken(token)))

	var server *http.Server
	if cfg.Health.Enabled {
		server = &http.Server{Addr: cfg.Health.Addr}
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
		})
		go func() {
			logger.Info("health endpoint enabled", zap.String("addr", cfg.Health.Addr))
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("health server error", zap.Error(err))
			}
		}()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	logger.Info("shutdown requested")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	stopWatch()
	stopCleanup()
	if server != nil {
		_ = server.Shutdown(ctx)
	}
	botSvc.Close(ctx)
}

// runJournalCleanup trims journal rows older than the retention window, once
// at startup and then daily.
func runJournalCleanup(ctx context.Context, store *journal.Store, retentionDays int, logger *zap.Logger) {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()
	for {
		if err := store.Cleanup(ctx, retentionDays); err != nil {
			logger.Warn("journal cleanup failed", zap.Error(err))
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
