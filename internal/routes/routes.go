package routes

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"maintenance-system/internal/controllers"
	"maintenance-system/internal/repositories"
	"maintenance-system/internal/services"
	"maintenance-system/pkg/middleware"
	"maintenance-system/pkg/service"
)

type Loggers struct {
	Main      *zap.Logger
	Auth      *zap.Logger
	Request   *zap.Logger
	Equipment *zap.Logger
}

// InitRouter собирает репозитории, сервисы и контроллеры на одном пуле соединений.
func InitRouter(e *echo.Echo, dbConn *pgxpool.Pool, jwtSvc service.JWTService, loggers *Loggers) {
	loggers.Main.Info("InitRouter: Начало создания маршрутов")

	// --- 0. ОБЩИЕ КОМПОНЕНТЫ ---
	api := e.Group("/api")
	authMW := middleware.NewAuthMiddleware(jwtSvc, loggers.Auth)
	txManager := repositories.NewTxManager(dbConn)

	// --- 1. РЕПОЗИТОРИИ ---
	requestRepo := repositories.NewRequestRepository(dbConn, loggers.Request)
	equipmentRepo := repositories.NewEquipmentRepository(dbConn, loggers.Equipment)
	userRepo := repositories.NewUserRepository(dbConn)
	logRepo := repositories.NewRequestLogRepository(dbConn)
	numberRepo := repositories.NewRequestNumberRepository(dbConn)

	// --- 2. СЕРВИСЫ ---
	numberService := services.NewRequestNumberService(numberRepo)
	requestService := services.NewRequestService(
		txManager, requestRepo, equipmentRepo, userRepo, logRepo, numberService, loggers.Request,
	)
	queryService := services.NewRequestQueryService(requestRepo, loggers.Request)
	logService := services.NewRequestLogService(requestRepo, logRepo, loggers.Request)
	equipmentService := services.NewEquipmentService(equipmentRepo, loggers.Equipment)

	// --- 3. КОНТРОЛЛЕРЫ ---
	healthCtrl := controllers.NewHealthController(dbConn, loggers.Main)
	requestCtrl := controllers.NewRequestController(requestService, queryService, logService, loggers.Request)
	equipmentCtrl := controllers.NewEquipmentController(equipmentService, loggers.Equipment)

	// --- 4. РОУТЕРЫ ---
	runHealthRouter(api, healthCtrl)

	secureGroup := api.Group("", authMW.Auth)
	runRequestRouter(secureGroup, requestCtrl)
	runEquipmentRouter(secureGroup, equipmentCtrl)

	loggers.Main.Info("INIT_ROUTER: Создание маршрутов завершено")
}
