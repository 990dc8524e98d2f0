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

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	httpadp "ops-portal-backend/internal/adapter/http"
	"ops-portal-backend/internal/adapter/middleware"
	"ops-portal-backend/internal/adapter/notifier"
	"ops-portal-backend/internal/adapter/preferences"
	"ops-portal-backend/internal/adapter/repository/mysql"
	"ops-portal-backend/internal/config"
	"ops-portal-backend/internal/infrastructure/cache"
	"ops-portal-backend/internal/infrastructure/db"
	"ops-portal-backend/internal/infrastructure/logger"
	"ops-portal-backend/internal/usecase/admin"
	"ops-portal-backend/internal/usecase/approval"
	"ops-portal-backend/internal/usecase/ticket"
	"ops-portal-backend/internal/usecase/timesheet"
)

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	zl, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	gdb, err := db.OpenGorm(cfg.DBDriver, cfg.DSN(), db.GormLogLevel(cfg.LogLevel), zl)
	if err != nil {
		zl.Fatal("db open failed", zap.Error(err))
	}
	if err := db.Migrate(gdb); err != nil {
		zl.Fatal("db migrate failed", zap.Error(err))
	}

	rdb, err := cache.OpenRedis(context.Background(), cache.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
		PoolSize: cfg.RedisPoolSize,
	})
	if err != nil {
		zl.Fatal("redis open failed", zap.Error(err))
	}
	defer func() { _ = rdb.Close() }()

	// Location was already checked by Validate
	loc, _ := cfg.Location()

	tx := mysql.NewGormUoW(gdb)
	inbox := mysql.NewNotificationRepository(gdb)
	notify := notifier.NewAsync(notifier.NewStore(inbox, rdb, cfg.NotifyChannel), zl)

	sqlDB, err := gdb.DB()
	if err != nil {
		zl.Fatal("db handle", zap.Error(err))
	}
	checks := map[string]httpadp.Check{
		"db":    sqlDB.PingContext,
		"redis": func(ctx context.Context) error { return cache.Ping(ctx, rdb) },
	}

	routes := httpadp.Routes{
		Health:         httpadp.NewHandler(zl, checks),
		Timesheets:     httpadp.NewTimesheetHandler(timesheet.NewUsecase(tx, notify, zl, timesheet.WithLocation(loc)), zl),
		Approvals:      httpadp.NewApprovalHandler(approval.NewUsecase(tx, notify, zl, approval.WithConcurrency(cfg.BulkConcurrency)), zl),
		Tickets:        httpadp.NewTicketHandler(ticket.NewUsecase(tx, notify, zl), zl),
		Admin:          httpadp.NewAdminHandler(admin.NewUsecase(tx, zl), zl),
		Preferences:    httpadp.NewPreferencesHandler(preferences.NewRedisStore(rdb, cfg.PreferencesTTL(), zl), inbox, zl),
		Log:            zl,
		Tokens:         middleware.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL()),
		Redis:          rdb,
		IdempotencyTTL: cfg.IdempotencyTTL(),
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover(), middleware.RequestID(), middleware.AccessLog(zl))
	httpadp.RegisterRoutes(e, routes)

	go func() {
		addr := ":" + cfg.AppPort
		zl.Info("listening", zap.String("addr", addr))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	zl.Info("shutting down", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		zl.Error("shutdown failed", zap.Error(err))
	}
}
