package main

import (
	"context"
	"log"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/maintledger/backend/api/handler"
	"github.com/maintledger/backend/internal/bot"
	"github.com/maintledger/backend/internal/config"
	"github.com/maintledger/backend/internal/infrastructure/monitor"
	"github.com/maintledger/backend/internal/infrastructure/outbox"
	pgInfra "github.com/maintledger/backend/internal/infrastructure/postgres"
	redisInfra "github.com/maintledger/backend/internal/infrastructure/redis"
	"github.com/maintledger/backend/internal/router"
	"github.com/maintledger/backend/internal/services"
	"github.com/maintledger/backend/internal/services/lifecycle"
	"github.com/maintledger/backend/pkg/httpcontext"
	"github.com/maintledger/backend/pkg/logger"
	"github.com/maintledger/backend/repository/postgres"
	redisRepo "github.com/maintledger/backend/repository/redis"
	"github.com/maintledger/backend/usecase/ledger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
		zapLogger.Fatal("migrations failed", zap.Error(err))
	}

	pool, err := pgInfra.NewPool(appCtx, cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("postgres connection failed", zap.Error(err))
	}
	manager.Register("postgres", func(ctx context.Context) error {
		pool.Close()
		return nil
	})

	redisClient, err := redisInfra.NewClient(cfg.Redis)
	if err != nil {
		zapLogger.Fatal("redis connection failed", zap.Error(err))
	}
	manager.Register("redis", func(ctx context.Context) error {
		return redisClient.Close()
	})

	outboxStore, err := outbox.Open(cfg.Outbox.Path, "notifications")
	if err != nil {
		zapLogger.Fatal("failed to open outbox store", zap.Error(err))
	}
	manager.Register("outbox", func(ctx context.Context) error {
		return outboxStore.Close()
	})

	mon := monitor.New(pool, redisClient, outboxStore, 10*time.Second, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	projectRepo := postgres.NewProjectRepository(pool)
	chatStateRepo := redisRepo.NewChatStateRepository(redisClient, cfg.Telegram.ChatStateTTL)

	engine := ledger.New(projectRepo, zapLogger)

	if cfg.Import.Path != "" {
		imported, err := engine.ImportFromFile(appCtx, cfg.Import.Path)
		if err != nil {
			zapLogger.Warn("initial import failed", zap.Error(err))
		} else if imported > 0 {
			zapLogger.Info("initial import completed", zap.Int("projects", imported))
		}
	}

	var tgBot *bot.Bot
	var sender services.MessageSender
	if cfg.BotEnabled() {
		tgBot, err = bot.New(cfg.Telegram.Token, cfg.Telegram.PollTimeout, zapLogger)
		if err != nil {
			zapLogger.Fatal("telegram bot init failed", zap.Error(err))
		}
		sender = tgBot
	} else {
		zapLogger.Warn("telegram token missing, chat transport disabled")
	}

	notifier := services.NewNotifier(sender, outboxStore, cfg.Telegram.ChatID, zapLogger)

	reminderJob := services.NewReminderJob(engine, notifier, zapLogger, services.ReminderConfig{
		Schedule:      cfg.Reminder.Schedule,
		LookAheadDays: cfg.Reminder.LookAheadDays,
	})
	reminderJob.Start()
	manager.Register("reminder_job", func(ctx context.Context) error {
		reminderJob.Stop(ctx)
		return nil
	})

	if sender != nil {
		processor := services.NewOutboxProcessor(outboxStore, sender, zapLogger, services.ProcessorConfig{
			Interval:   cfg.Outbox.SyncInterval,
			BatchSize:  50,
			MaxRetries: cfg.Outbox.MaxRetry,
			Retention:  time.Duration(cfg.Outbox.RetentionHours) * time.Hour,
		})
		processor.Start()
		manager.Register("outbox_processor", func(ctx context.Context) error {
			processor.Stop()
			return nil
		})
	}

	if tgBot != nil {
		handler := bot.NewHandler(
			tgBot,
			engine,
			chatStateRepo,
			zapLogger,
			cfg.Pagination.ProjectsPerPage,
			cfg.Pagination.StatsDetailsPerPage,
			cfg.Context.RequestTimeout,
		)
		go tgBot.Start(appCtx, handler)
		manager.Register("telegram_bot", func(ctx context.Context) error {
			tgBot.Stop()
			return nil
		})

		if err := notifier.SendSystem("Bot started", "Maintenance ledger bot is online."); err != nil {
			zapLogger.Warn("startup notification failed", zap.Error(err))
		}
	}

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)
	handlers := router.Handlers{
		Health: apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
		Ledger: apiHandler.NewLedgerHandler(engine, reminderJob, ctxAdapter, zapLogger),
	}
	r := router.New(handlers)

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("ops server started", zap.String("address", cfg.Address()))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("ops server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.Shutdown()
	})

	<-appCtx.Done()

	if tgBot != nil {
		if err := notifier.SendSystem("Bot stopping", "Maintenance ledger bot is shutting down."); err != nil {
			zapLogger.Warn("shutdown notification failed", zap.Error(err))
		}
	}

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
