package main

import (
	"log"
	"net/http"
	"os"

	_ "gadgetry/docs" // swagger docs

	"github.com/labstack/echo/v4"

	"gadgetry/internal/auth"
	"gadgetry/internal/cache"
	"gadgetry/internal/codename"
	"gadgetry/internal/config"
	"gadgetry/internal/db"
	"gadgetry/internal/handler"
	"gadgetry/internal/model"
	"gadgetry/internal/repository"
	"gadgetry/internal/router"
	"gadgetry/internal/service"
)

// @title Gadget Inventory API
// @version 1.0
// @description Gadget inventory API with codename generation, lifecycle tracking, and JWT authentication.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	e := echo.New()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}
	defer func() {
		if err := db.Close(gormDB); err != nil {
			log.Printf("database close: %v", err)
		}
	}()

	// Drop tables if RESET_DB environment variable is set
	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, dropping all tables...")
		tables := []interface{}{
			&model.Gadget{},
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
		&model.Gadget{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer func() {
		if err := cacheClient.Close(); err != nil {
			log.Printf("cache close: %v", err)
		}
	}()

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	gadgetRepo := repository.NewGadgetRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	challengeStore := auth.NewChallengeStore(cacheClient)

	// Initialize services
	codenames := codename.NewGenerator(gadgetRepo.CodenameExists)
	authService := service.NewAuthService(userRepo, jwtService, cacheClient)
	gadgetService := service.NewGadgetService(gadgetRepo, codenames, challengeStore)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	gadgetHandler := handler.NewGadgetHandler(gadgetService)

	// Register routes
	router.Register(e, cfg, authService, authHandler, gadgetHandler)

	swaggerHost := cfg.SwaggerHost
	if swaggerHost == "" {
		swaggerHost = "http://localhost:" + cfg.ServerPort
	}
	log.Printf("Swagger documentation available at: %s/swagger/index.html", swaggerHost)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
