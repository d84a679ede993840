package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/gym-attendance/internal/api/http"
	"github.com/spec-kit/gym-attendance/internal/api/http/handlers"
	"github.com/spec-kit/gym-attendance/internal/auth"
	"github.com/spec-kit/gym-attendance/internal/config"
	"github.com/spec-kit/gym-attendance/internal/events"
	"github.com/spec-kit/gym-attendance/internal/observability"
	"github.com/spec-kit/gym-attendance/internal/persistence"
	"github.com/spec-kit/gym-attendance/internal/repository"
	"github.com/spec-kit/gym-attendance/internal/service"
	"github.com/spec-kit/gym-attendance/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	deviceCache := persistence.NewDeviceCache(redis, cfg.Ingest.DeviceCacheTTL(), logger)

	pool := pg.PoolHandle()
	deviceRepo := repository.NewDeviceRepository(pool)
	memberRepo := repository.NewMemberRepository(pool)
	staffRepo := repository.NewStaffRepository(pool)
	attendanceRepo := repository.NewAttendanceRepository(pool)
	staffAttendanceRepo := repository.NewStaffAttendanceRepository(pool)
	accountRepo := repository.NewAccountRepository(pool)
	smsSettingsRepo := repository.NewSMSSettingsRepository(pool)

	ingestService := service.NewIngestService(cfg.Ingest, service.IngestDependencies{
		DeviceRepo:          deviceRepo,
		MemberRepo:          memberRepo,
		StaffRepo:           staffRepo,
		AttendanceRepo:      attendanceRepo,
		StaffAttendanceRepo: staffAttendanceRepo,
		DeviceCache:         deviceCache,
		Dispatcher:          dispatcher,
		Logger:              logger,
		Metrics:             metrics,
	})
	deviceService := service.NewDeviceService(deviceRepo, deviceCache)
	memberService := service.NewMemberService(memberRepo, attendanceRepo)
	authService := service.NewAuthService(*cfg, accountRepo)

	notificationService := service.NewNotificationService(
		dispatcher, smsSettingsRepo, &service.LogSender{Logger: logger}, logger)
	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), accountRepo)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Iclock:         handlers.NewIclockHandler(ingestService, logger),
		Auth:           handlers.NewAuthHandler(authService),
		Devices:        handlers.NewDevicesHandler(deviceService),
		Members:        handlers.NewMembersHandler(memberService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
