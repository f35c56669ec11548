package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/pagescope/user-service/docs"
	"github.com/pagescope/user-service/internal/api/handler"
	"github.com/pagescope/user-service/internal/api/middleware"
	"github.com/pagescope/user-service/internal/core/domain"
	"github.com/pagescope/user-service/internal/core/ports"
	"github.com/pagescope/user-service/internal/core/service"
	"github.com/pagescope/user-service/internal/infrastructure/config"
	mongodir "github.com/pagescope/user-service/internal/infrastructure/db/mongo"
	rediscache "github.com/pagescope/user-service/internal/infrastructure/db/redis"
	"github.com/pagescope/user-service/internal/infrastructure/token"
)

// Options carries the process-level dependencies the router wires together.
// Redis is optional; without it user lookups go straight to MongoDB.
type Options struct {
	Config *config.Config
	DB     *mongo.Database
	Redis  *redis.Client
	Hasher ports.PasswordHasher
	Logger zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(opts Options) *echo.Echo {
	cfg := opts.Config

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(cfg.Development())

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(opts.Logger))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.HTTP.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{
			echo.HeaderOrigin,
			echo.HeaderContentType,
			echo.HeaderAccept,
			echo.HeaderAuthorization,
			middleware.TokenHeader,
		},
	}))
	e.Use(echoprometheus.NewMiddleware("users"))

	// --- Dependencies ---
	var directory ports.UserDirectory = mongodir.NewUserDirectory(opts.DB)
	if opts.Redis != nil {
		cache := rediscache.NewUserCache(opts.Redis, cfg.Redis.CacheTTL)
		directory = rediscache.NewCachedDirectory(directory, cache, opts.Logger)
	}
	tokens := token.NewService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	accounts := service.NewAccountService(
		directory,
		opts.Hasher,
		tokens,
		cfg.Users.ItemsPerPage,
		cfg.Users.ListURL,
		opts.Logger.With().Str("component", "accounts").Logger(),
	)
	registerUserRoutes(e.Group("/api/v1/user"), accounts, tokens)

	// --- Health checks and tooling (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(opts.DB, opts.Redis)

	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "success", "message": "user service is running"})
	})
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// registerUserRoutes mounts the account API on g. Optional path segments are
// registered as two routes.
func registerUserRoutes(g *echo.Group, accounts ports.AccountService, tokens ports.TokenService) {
	accountHandler := handler.NewAccountHandler(accounts)
	userHandler := handler.NewUserHandler(accounts)

	adminOrClient := middleware.Auth(tokens, domain.RoleAdmin, domain.RoleClient)
	adminOnly := middleware.Auth(tokens, domain.RoleAdmin)
	anyone := middleware.Auth(tokens, domain.RoleAdmin, domain.RoleClient, domain.RoleOptional)

	g.POST("/register", accountHandler.Register)
	g.POST("/login", accountHandler.Login)
	g.POST("/token/renew", accountHandler.RenewToken, adminOrClient)

	g.PUT("/update", userHandler.Update, adminOrClient)
	g.PUT("/update/:id", userHandler.Update, adminOrClient)
	g.DELETE("/delete/:id", userHandler.Delete, adminOnly)
	g.GET("/list", userHandler.List, adminOnly)
	g.GET("/list/:page", userHandler.List, adminOnly)
	g.GET("/one", userHandler.One, anyone)
	g.GET("/one/:id", userHandler.One, anyone)
}
