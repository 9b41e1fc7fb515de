package routes

import (
	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"equipment-tracker/internal/authz"
	"equipment-tracker/internal/controllers"
	"equipment-tracker/internal/listeners"
	"equipment-tracker/internal/repositories"
	"equipment-tracker/internal/services"
	"equipment-tracker/pkg/config"
	"equipment-tracker/pkg/eventbus"
	"equipment-tracker/pkg/filestorage"
	"equipment-tracker/pkg/middleware"
	"equipment-tracker/pkg/service"
	"equipment-tracker/pkg/websocket"
)

type Loggers struct {
	Main         *zap.Logger
	Auth         *zap.Logger
	Equipment    *zap.Logger
	Inspection   *zap.Logger
	Notification *zap.Logger
}

// Deps - внешние ресурсы, созданные в main.
type Deps struct {
	DB        *pgxpool.Pool
	Redis     *redis.Client
	JWT       service.JWTService
	Bus       *eventbus.Bus
	Hub       *websocket.Hub
	Validator *validator.Validate
}

func InitRouter(e *echo.Echo, deps Deps, loggers *Loggers, cfg *config.Config) {
	loggers.Main.Info("InitRouter: Начало создания маршрутов")

	// --- 0. ОБЩИЕ КОМПОНЕНТЫ ---
	api := e.Group("/api")
	fileStorage, err := filestorage.NewLocalFileStorage(cfg.Upload.BaseDir, cfg.Upload.PublicPrefix)
	if err != nil {
		loggers.Main.Fatal("не удалось создать файловое хранилище", zap.Error(err))
	}
	txManager := repositories.NewTxManager(deps.DB, loggers.Main)

	// --- 1. РЕПОЗИТОРИИ ---
	profileRepo := repositories.NewProfileRepository(deps.DB)
	cacheRepo := repositories.NewRedisCacheRepository(deps.Redis)
	equipmentRepo := repositories.NewEquipmentRepository(deps.DB, loggers.Equipment)
	typeRepo := repositories.NewEquipmentTypeRepository(deps.DB, loggers.Equipment)
	inspectionRepo := repositories.NewInspectionRepository(deps.DB, loggers.Inspection)
	locationLogRepo := repositories.NewLocationLogRepository(deps.DB)
	notificationRepo := repositories.NewNotificationRepository(deps.DB)
	projectRepo := repositories.NewProjectRepository(deps.DB)
	companyRepo := repositories.NewCompanyRepository(deps.DB)

	// --- 2. СЕРВИСЫ ---
	authService := services.NewAuthService(profileRepo, cacheRepo, loggers.Auth, &cfg.Auth)
	wsService := services.NewWebSocketNotificationService(deps.Hub, loggers.Notification)
	notificationService := services.NewNotificationService(notificationRepo, profileRepo, wsService, loggers.Notification)
	equipmentService := services.NewEquipmentService(equipmentRepo, typeRepo, txManager, deps.Bus, cfg.Maintenance, loggers.Equipment)
	typeService := services.NewEquipmentTypeService(typeRepo, txManager, cfg.Maintenance, loggers.Equipment)
	locationService := services.NewLocationService(
		equipmentRepo, locationLogRepo, txManager,
		cfg.Maintenance.GeoCaptureTimeout, cfg.Maintenance.HistoryDefaultLimit, loggers.Equipment,
	)
	inspectionService := services.NewInspectionService(
		inspectionRepo, equipmentRepo, typeRepo, txManager,
		locationService, fileStorage, deps.Bus, loggers.Inspection,
	)
	importer := services.NewEquipmentImporter(equipmentService, typeRepo, projectRepo, companyRepo, deps.Validator, loggers.Equipment)
	dashboardService := services.NewDashboardService(equipmentRepo, notificationService, loggers.Main)
	projectService := services.NewProjectService(projectRepo, txManager, loggers.Main)
	companyService := services.NewCompanyService(companyRepo, loggers.Main)
	reportService := services.NewReportService(inspectionRepo, loggers.Inspection)

	// --- 3. СЛУШАТЕЛИ СОБЫТИЙ ---
	listeners.NewNotificationListener(notificationService, loggers.Notification).Register(deps.Bus)

	// --- 4. РОУТЕРЫ ---
	authMW := middleware.NewAuthMiddleware(deps.JWT, authService, loggers.Auth)
	publicGroup := api.Group("/public", authMW.OptionalAuth)
	fieldGroup := api.Group("", authMW.Auth, authMW.RequireArea(authz.AreaField))
	adminGroup := api.Group("", authMW.Auth, authMW.RequireArea(authz.AreaAdmin))

	runAuthRouter(api, fieldGroup, controllers.NewAuthController(authService, deps.JWT, loggers.Auth))
	runWebSocketRouter(api, controllers.NewWebSocketController(deps.Hub, deps.JWT, authService, loggers.Notification))

	equipmentController := controllers.NewEquipmentController(equipmentService, importer, loggers.Equipment)
	inspectionController := controllers.NewInspectionController(inspectionService, loggers.Inspection)
	locationController := controllers.NewLocationController(locationService, loggers.Equipment)

	runScannerRouter(publicGroup, equipmentController, inspectionController)
	runFieldRouter(fieldGroup, equipmentController, inspectionController, locationController)
	runEquipmentRouter(adminGroup, equipmentController, inspectionController)
	runEquipmentTypeRouter(adminGroup, controllers.NewEquipmentTypeController(typeService, loggers.Equipment))
	runDirectoryRouter(adminGroup,
		controllers.NewProjectController(projectService, loggers.Main),
		controllers.NewCompanyController(companyService, loggers.Main),
	)
	runNotificationRouter(adminGroup, controllers.NewNotificationController(notificationService, loggers.Notification))
	runDashboardRouter(adminGroup, controllers.NewDashboardController(dashboardService, loggers.Main))
	runReportRouter(adminGroup, controllers.NewReportController(reportService, loggers.Inspection))

	loggers.Main.Info("INIT_ROUTER: Создание маршрутов завершено")
}
