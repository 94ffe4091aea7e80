package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/cottontrade/marketplace-api/docs"
	"github.com/cottontrade/marketplace-api/internal/api/handler"
	"github.com/cottontrade/marketplace-api/internal/api/middleware"
	"github.com/cottontrade/marketplace-api/internal/core/domain"
	"github.com/cottontrade/marketplace-api/internal/core/service"
	"github.com/cottontrade/marketplace-api/internal/infrastructure/config"
	mongodb "github.com/cottontrade/marketplace-api/internal/infrastructure/db/mongo"
	redisdb "github.com/cottontrade/marketplace-api/internal/infrastructure/db/redis"
	"github.com/cottontrade/marketplace-api/internal/infrastructure/queue"
)

// Deps bundles the externally managed collaborators the router wires together.
type Deps struct {
	Mongo      *mongo.Database
	Redis      *redis.Client
	Dispatcher *queue.ActivityDispatcher
	Log        zerolog.Logger
}

// NewRouter builds the Echo instance with every route registered behind its
// declared access level. The route table is the single place where a path is
// bound to the roles that may enter it.
func NewRouter(cfg *config.Config, deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("marketplace"))

	// --- Collaborators ---
	sessionStore := redisdb.NewSessionStore(deps.Redis)
	eventBus := redisdb.NewAuthEventBus(deps.Redis, deps.Log)

	accountRepo := mongodb.NewAccountRepository(deps.Mongo)
	profileRepo := mongodb.NewProfileRepository(deps.Mongo)
	inventoryRepo := mongodb.NewInventoryRepository(deps.Mongo)
	activityRepo := mongodb.NewActivityRepository(deps.Mongo)

	// --- Services ---
	resolver := service.NewSessionResolver(sessionStore, cfg.JWTSecret, deps.Log)
	profileService := service.NewProfileService(profileRepo, deps.Dispatcher, eventBus, deps.Log)
	authz := service.NewAuthzService(resolver, profileService, deps.Dispatcher, deps.Log)
	accountService := service.NewAccountService(
		accountRepo, sessionStore, eventBus, deps.Dispatcher,
		cfg.JWTSecret, cfg.SessionTTL, deps.Log,
	)
	inventoryService := service.NewInventoryService(inventoryRepo, deps.Log)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(accountService, eventBus)
	profileHandler := handler.NewProfileHandler(profileService)
	adminHandler := handler.NewAdminHandler(profileService, activityRepo)
	inventoryHandler := handler.NewInventoryHandler(inventoryService)
	dashboardHandler := handler.NewDashboardHandler(profileService, inventoryService, deps.Log)

	// Gate builders, one per role set the route table uses.
	anyRole := middleware.Gate(authz)
	adminOnly := middleware.Gate(authz, domain.RoleAdmin)
	sellerOnly := middleware.Gate(authz, domain.RoleSeller)
	buyerOnly := middleware.Gate(authz, domain.RoleBuyer)
	transporterOnly := middleware.Gate(authz, domain.RoleTransporter)

	// --- Public routes ---
	e.GET(middleware.SignInPath, authHandler.SignIn)
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.GET(middleware.UnauthorizedPath, dashboardHandler.Unauthorized)

	// --- Protected: any authenticated role ---
	e.POST("/auth/logout", authHandler.Logout, anyRole)
	e.GET("/auth/session", authHandler.Session, anyRole)
	e.GET("/v1/auth/events", authHandler.Events, anyRole)
	e.GET("/dashboard", dashboardHandler.Dispatch, anyRole)
	e.GET("/v1/profile", profileHandler.Get, anyRole)
	e.PUT("/v1/profile", profileHandler.Update, anyRole)

	// --- Protected: admin subtree ---
	admin := e.Group("/v1/admin", adminOnly)
	admin.GET("/users", adminHandler.ListUsers)
	admin.PUT("/users/:id/role", adminHandler.UpdateRole)
	admin.GET("/logs", adminHandler.ListLogs)
	e.GET("/admin", dashboardHandler.Admin, adminOnly)

	// --- Protected: seller subtree ---
	inventory := e.Group("/v1/inventory", sellerOnly)
	inventory.GET("", inventoryHandler.List)
	inventory.POST("", inventoryHandler.Create)
	inventory.GET("/:id", inventoryHandler.Get)
	inventory.PUT("/:id", inventoryHandler.Update)
	inventory.DELETE("/:id", inventoryHandler.Delete)
	e.GET("/seller", dashboardHandler.Seller, sellerOnly)

	// --- Protected: buyer subtree ---
	e.GET("/v1/market", inventoryHandler.Market, buyerOnly)
	e.GET("/buyer", dashboardHandler.Buyer, buyerOnly)

	// --- Protected: transporter subtree ---
	e.GET("/transporter", dashboardHandler.Transporter, transporterOnly)

	// --- Health probes and operational endpoints (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Mongo, deps.Redis)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
