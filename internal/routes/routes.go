package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"request-console/internal/authz"
	"request-console/internal/controllers"
	"request-console/internal/services"
	"request-console/pkg/config"
	"request-console/pkg/middleware"
)

type Loggers struct {
	Main    *zap.Logger
	Auth    *zap.Logger
	Request *zap.Logger
	Roster  *zap.Logger
	Desk    *zap.Logger
}

// Services - единственные экземпляры сервисов консоли, созданные в main.
type Services struct {
	Session   *services.SessionService
	Directory *services.DirectoryService
	Roster    *services.RosterService
	Desk      *services.DeskService
	Export    *services.ExportService
	// Dedup - общий для форм создания. Если не задан, создаётся в InitRouter.
	Dedup *controllers.RequestDeduplicator
}

func InitRouter(e *echo.Echo, svc *Services, loggers *Loggers, cfg *config.Config) {
	loggers.Main.Info("InitRouter: Начало создания маршрутов")

	// --- 0. ОБЩИЕ КОМПОНЕНТЫ ---
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api", middleware.InjectLogger(loggers.Main))
	authMW := middleware.NewAuthMiddleware(svc.Session, loggers.Auth)

	// --- 1. КОНТРОЛЛЕРЫ ---
	dedup := svc.Dedup
	if dedup == nil {
		dedup = controllers.NewRequestDeduplicator()
	}
	authController := controllers.NewAuthController(svc.Session, loggers.Auth)
	requestController := controllers.NewRequestController(
		svc.Directory, svc.Roster, svc.Export, dedup, cfg.Pagination.DirectoryPerPage, loggers.Request,
	)
	rosterController := controllers.NewRosterController(svc.Roster, dedup, loggers.Roster)
	deskController := controllers.NewDeskController(svc.Desk, loggers.Desk)

	// --- 2. РОУТЕРЫ ---
	runAuthRouter(api.Group("/auth"), authController)

	operatorGroup := api.Group("/operator", authMW.RequireRoles(authz.OperatorPage...))
	runRequestRouter(operatorGroup, requestController)

	managerGroup := api.Group("/manager", authMW.RequireRoles(authz.ManagerPage...))
	runRequestRouter(managerGroup, requestController)
	runManagerRequestRouter(managerGroup, requestController)
	runRosterRouter(managerGroup, rosterController)

	engineerGroup := api.Group("/engineer", authMW.RequireRoles(authz.EngineerPage...))
	runDeskRouter(engineerGroup, deskController)

	loggers.Main.Info("INIT_ROUTER: Создание маршрутов завершено")
}
