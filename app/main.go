// Файл: main.go

package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"request-console/internal/controllers"
	"request-console/internal/integrations/backend"
	"request-console/internal/repositories"
	"request-console/internal/routes"
	"request-console/internal/services"
	"request-console/pkg/api"
	"request-console/pkg/config"
	apperrors "request-console/pkg/errors"
	applogger "request-console/pkg/logger"
	"request-console/pkg/validation"
)

func main() {
	// 1. Конфиг и логгер
	cfg := config.New()
	logger := applogger.NewLogger(cfg.Log.Level, cfg.Log.File)
	defer func() { _ = logger.Sync() }()

	e := echo.New()
	e.HideBanner = true

	// 2. Middleware
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		DisableStackAll: true,
		StackSize:       1 << 10,
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			logger.Error("!!! ОБНАРУЖЕНА ПАНИКА (PANIC) !!!",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Error(err),
				zap.String("stack", string(stack)),
			)
			if !c.Response().Committed {
				httpErr := apperrors.NewHttpError(http.StatusInternalServerError, "Внутренняя ошибка сервера", err, nil)
				_ = api.ErrorResponse(c, httpErr, httpErr.Message)
			}
			return err
		},
	}))
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.Server.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, "ngrok-skip-browser-warning"},
		AllowCredentials: true,
		ExposeHeaders:    []string{echo.HeaderContentDisposition},
	}))

	// 3. Валидатор
	v := validation.New()
	e.Validator = v

	// 4. Локальное хранилище сессии
	storage, closeStorage := newStorage(cfg, logger)
	defer closeStorage()

	// 5. Клиент сервера и сервисы. Каждый сервис создаётся один раз на процесс.
	client := backend.New(cfg.Backend.BaseURL, cfg.Backend.Timeout, backend.NewStorageTokenSource(storage), logger)
	session := services.NewSessionService(client, storage, v, logger)
	svc := &routes.Services{
		Session:   session,
		Directory: services.NewDirectoryService(client, v, cfg.Pagination.DirectoryPerPage, logger),
		Roster:    services.NewRosterService(client, v, cfg.Pagination.RosterPerPage, cfg.Pagination.MaxPages, logger),
		Desk:      services.NewDeskService(client, session, v, cfg.Pagination.MaxPages, logger),
		Export:    services.NewExportService(logger),
	}

	// 6. Роуты
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc.Dedup = controllers.NewRequestDeduplicator()
	go svc.Dedup.Cleanup(ctx, time.Minute)

	routes.InitRouter(e, svc, &routes.Loggers{
		Main:    logger,
		Auth:    logger.Named("auth"),
		Request: logger.Named("requests"),
		Roster:  logger.Named("roster"),
		Desk:    logger.Named("desk"),
	}, cfg)

	// 7. Запуск
	go func() {
		logger.Info("🚀 Консоль запущена", zap.String("port", cfg.Server.Port), zap.String("backend", cfg.Backend.BaseURL))
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Ошибка запуска сервера", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Ошибка остановки сервера", zap.Error(err))
	}
	logger.Info("Консоль остановлена")
}

// newStorage выбирает хранилище по STORAGE_DRIVER.
func newStorage(cfg *config.Config, logger *zap.Logger) (repositories.LocalStorageInterface, func()) {
	switch cfg.Storage.Driver {
	case "memory":
		logger.Warn("Сессия хранится в памяти и не переживёт перезапуск")
		return repositories.NewMemoryStorageRepository(), func() {}
	case "redis":
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
			logger.Fatal("не удалось подключиться к Redis", zap.Error(err), zap.String("address", cfg.Redis.Address))
		}
		return repositories.NewRedisStorageRepository(redisClient, cfg.Redis.Prefix), func() { _ = redisClient.Close() }
	default:
		storage, err := repositories.NewFileStorageRepository(cfg.Storage.Path)
		if err != nil {
			logger.Fatal("не удалось создать файловое хранилище", zap.Error(err), zap.String("path", cfg.Storage.Path))
		}
		return storage, func() {}
	}
}
