package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/placesdir/places-api/internal/api/handler"
	"github.com/placesdir/places-api/internal/api/middleware"
	"github.com/placesdir/places-api/internal/core/ports"
	"github.com/placesdir/places-api/internal/core/service"
	"github.com/placesdir/places-api/internal/infrastructure/config"
	mongodb "github.com/placesdir/places-api/internal/infrastructure/db/mongo"
	redisdb "github.com/placesdir/places-api/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(
	client *mongo.Client,
	db *mongo.Database,
	rdb *redis.Client,
	files ports.FileStore,
	cfg *config.Config,
	log zerolog.Logger,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.CORS())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("places"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	placeRepo := mongodb.NewPlaceRepository(db)
	tx := mongodb.NewTransactor(client)
	cache := redisdb.NewPlaceCache(rdb)

	authService := service.NewAuthService(userRepo, cfg.JWTSecret, time.Hour)
	placeService := service.NewPlaceService(userRepo, placeRepo, tx, files, cache, log)

	userHandler := handler.NewUserHandler(authService, files)
	placeHandler := handler.NewPlaceHandler(placeService, files)
	authMiddleware := middleware.Auth(authService)

	// --- Static serving of uploaded images ---
	e.Static("/uploads/images", cfg.Upload.Dir)

	// --- User routes ---
	users := e.Group("/api/users")
	users.GET("", userHandler.List)
	users.POST("/signup", userHandler.Signup)
	users.POST("/login", userHandler.Login)

	// --- Place routes (reads public, mutations authenticated) ---
	places := e.Group("/api/places")
	places.GET("/:pid", placeHandler.GetByID)
	places.GET("/user/:uid", placeHandler.GetByUser)

	protected := places.Group("", authMiddleware)
	protected.POST("", placeHandler.Create)
	protected.PATCH("/:pid", placeHandler.Update)
	protected.DELETE("/:pid", placeHandler.Delete)

	// --- Health probes & metrics (no auth required) ---
	e.GET("/health", handler.NewHealthHandler().Liveness)
	e.GET("/health/ready", handler.NewReadinessHandler(db, rdb).Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
