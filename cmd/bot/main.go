package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-telegram/bot"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/Freeeeeet/schedule_grid/internal/app"
	"github.com/Freeeeeet/schedule_grid/internal/availability"
	"github.com/Freeeeeet/schedule_grid/internal/config"
	"github.com/Freeeeeet/schedule_grid/internal/controller"
	"github.com/Freeeeeet/schedule_grid/internal/controller/httpapi"
	"github.com/Freeeeeet/schedule_grid/internal/grid"
	"github.com/Freeeeeet/schedule_grid/internal/holiday"
	"github.com/Freeeeeet/schedule_grid/internal/orchestrator"
	"github.com/Freeeeeet/schedule_grid/internal/repository"
	"github.com/Freeeeeet/schedule_grid/internal/service"
	"github.com/Freeeeeet/schedule_grid/internal/session"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	logger.Info("Starting schedule grid",
		zap.String("environment", cfg.Environment),
		zap.String("http_addr", cfg.HTTPAddr),
		zap.Bool("bot_enabled", cfg.BotEnabled()))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("Application stopped with error", zap.Error(err))
	}
	logger.Info("Application stopped")
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	// База данных и миграции
	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return err
	}

	migrator, err := app.NewMigrator(pool, cfg.MigrationsPath, logger)
	if err != nil {
		return err
	}
	if err := migrator.Run(ctx); err != nil {
		return err
	}
	if err := migrator.Close(); err != nil {
		logger.Warn("Failed to close migrator", zap.Error(err))
	}

	// Репозитории и сервис
	schedulingService := service.NewSchedulingService(
		repository.NewEventRepository(pool),
		repository.NewSettingsRepository(pool),
		repository.NewPreferenceRepository(pool),
		repository.NewContactRepository(pool),
		logger,
	)

	// Доступность: файл настроек, поверх него - сохранённые в базе
	seed, err := config.LoadAvailability(cfg.AvailabilityFile)
	if err != nil {
		return err
	}
	settings, err := schedulingService.ResolveSettings(ctx, seed)
	if err != nil {
		return err
	}

	holidays, err := holiday.NewCalendar(cfg.HolidayCacheSize)
	if err != nil {
		return err
	}
	avail, err := availability.New(settings, holidays)
	if err != nil {
		return err
	}
	bounds := avail.Bounds()

	logger.Info("Availability loaded",
		zap.String("timezone", settings.Timezone),
		zap.String("working_hours", avail.Label()),
		zap.Bool("exclude_holidays", settings.ExcludeHolidays))

	// Сессии: один оркестратор на клиента
	sessions := session.NewManager(func(ctx context.Context, id string) (*orchestrator.Orchestrator, error) {
		targets, err := schedulingService.SyncTargets(ctx)
		if err != nil {
			logger.Warn("Failed to load sync targets", zap.String("session_id", id), zap.Error(err))
		}
		return orchestrator.New(avail, orchestrator.Options{
			Window:      grid.WorkingWindow(bounds.StartHour(), bounds.EndHour()),
			SyncTargets: targets,
			Logger:      logger.With(zap.String("session_id", id)),
		}), nil
	})

	scheduler := app.NewScheduler(sessions, logger)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	// HTTP API
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	server := httpapi.NewServer(schedulingService, sessions, avail, logger)
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           server.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 2)
	go func() {
		logger.Info("HTTP server listening", zap.String("addr", cfg.HTTPAddr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Telegram бот (необязательный)
	if cfg.BotEnabled() {
		b, err := bot.New(cfg.TelegramToken)
		if err != nil {
			return err
		}

		botController := controller.NewBotController(b, schedulingService, sessions, logger)
		if err := botController.RegisterHandlers(ctx); err != nil {
			logger.Warn("Failed to register bot commands", zap.Error(err))
		}

		go func() {
			if err := botController.Start(ctx); err != nil {
				errCh <- err
			}
		}()
	}

	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case err := <-errCh:
		logger.Error("Component failed", zap.Error(err))
		shutdown(httpServer, logger)
		return err
	}

	shutdown(httpServer, logger)
	return nil
}

func shutdown(httpServer *http.Server, logger *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("HTTP server shutdown failed", zap.Error(err))
	}
}
