package main

import (
	"log"
	"net/http"
	"os"

	_ "moviereview/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"moviereview/internal/auth"
	"moviereview/internal/cache"
	"moviereview/internal/config"
	"moviereview/internal/db"
	"moviereview/internal/handler"
	"moviereview/internal/model"
	"moviereview/internal/repository"
	"moviereview/internal/router"
	"moviereview/internal/service"
)

// @title Movie Review API
// @version 1.0
// @description Movie review backend with catalog browsing, user reviews, aggregate ratings, and JWT authentication.
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Drop tables if RESET_DB environment variable is set
	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, dropping all tables...")
		tables := []interface{}{
			&model.ReviewAuditLog{},
			&model.Review{},
			&model.Movie{},
			&model.User{},
		}
		for _, table := range tables {
			if err := gormDB.Migrator().DropTable(table); err != nil {
				log.Printf("Warning: Failed to drop table (may not exist): %v", err)
			}
		}
		log.Println("Tables dropped")
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Movie{},
		&model.Review{},
		&model.ReviewAuditLog{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	movieRepo := repository.NewMovieRepository(gormDB)
	reviewRepo := repository.NewReviewRepository(gormDB)
	auditRepo := repository.NewReviewAuditRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Initialize services
	userService := service.NewUserService(userRepo)
	authService := service.NewAuthService(userService, jwtService, tokenStore)
	movieService := service.NewMovieService(movieRepo, cacheClient)
	reviewService := service.NewReviewService(reviewRepo, movieRepo, userRepo, auditRepo, cacheClient)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	movieHandler := handler.NewMovieHandler(movieService, reviewService)
	reviewHandler := handler.NewReviewHandler(reviewService)
	userHandler := handler.NewUserHandler(userService)
	seedHandler := handler.NewSeedHandler(movieService)

	// Register routes
	router.Register(
		e,
		jwtService,
		authHandler,
		movieHandler,
		reviewHandler,
		userHandler,
		seedHandler,
	)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
