package api

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"

	_ "github.com/aislescan/aislescan/docs"
	"github.com/aislescan/aislescan/internal/api/handler"
	"github.com/aislescan/aislescan/internal/api/middleware"
	"github.com/aislescan/aislescan/internal/core/service"
	"github.com/aislescan/aislescan/internal/infrastructure/config"
	"github.com/aislescan/aislescan/internal/infrastructure/db/postgres"
	"github.com/aislescan/aislescan/internal/infrastructure/db/redis"
	"github.com/aislescan/aislescan/internal/infrastructure/http/handlers"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg *config.Config, pool *pgxpool.Pool, rdb *goredis.Client, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	// Mobile clients historically call /api/scans/ with a trailing slash.
	e.Pre(echomiddleware.RemoveTrailingSlash())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("aislescan"))

	// --- Dependencies ---
	authRepo := postgres.NewAuthRepository(pool)
	profileRepo := postgres.NewProfileRepository(pool)
	scanRepo := postgres.NewScanRepository(pool)
	idemStore := redis.NewIdempotencyStore(rdb)

	authService := service.NewAuthService(authRepo, cfg.JWTSecret, cfg.TokenTTL)
	profileService := service.NewProfileService(profileRepo, log)
	scanService := service.NewScanService(scanRepo, idemStore, log)

	authHandler := handler.NewAuthHandler(authService)
	profileHandler := handler.NewProfileHandler(profileService)
	scanHandler := handler.NewScanHandler(scanService)
	authMiddleware := middleware.Auth(cfg.JWTSecret)

	// --- Auth routes ---
	e.POST("/api/auth/signup", authHandler.Signup)
	e.POST("/api/auth/login", authHandler.Login)
	e.GET("/api/auth/verify", authHandler.Verify, authMiddleware)

	// --- Profile routes ---
	e.GET("/api/profile", profileHandler.Get, authMiddleware)
	e.PUT("/api/profile", profileHandler.Update, authMiddleware)

	// --- Scan routes ---
	scans := e.Group("/api/scans", authMiddleware)
	scans.POST("", scanHandler.Save)
	scans.GET("", scanHandler.List)
	scans.GET("/:id", scanHandler.Get)

	// --- Health probes (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(pool, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Observability & docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
