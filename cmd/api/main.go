package main

import (
	"fmt"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/school-system/results-portal/internal/config"
	"github.com/school-system/results-portal/internal/database"
	"github.com/school-system/results-portal/internal/handlers"
	"github.com/school-system/results-portal/internal/logging"
	"github.com/school-system/results-portal/internal/services"
	"github.com/school-system/results-portal/internal/storage"
)

// @title Student Results Portal API
// @version 1.0
// @description Upload semester result sheets and serve per-student results and grade cards
// @host localhost:5000
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if len(os.Args) > 1 {
		handleCommand(os.Args[1])
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger, err := logging.New(cfg.Server.Env, cfg.Server.LogLevel)
	if err != nil {
		log.Fatal("Failed to build logger:", err)
	}
	defer logger.Sync()

	store, err := storage.Open(cfg, logger)
	if err != nil {
		logger.Fatal("failed to open result store", zap.Error(err))
	}

	if cfg.Server.Env == "development" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	authService, err := services.NewAuthService(cfg)
	if err != nil {
		logger.Fatal("failed to prepare admin credentials", zap.Error(err))
	}
	resultService := services.NewResultService(store, logger)

	r := handlers.NewRouter(cfg, logger, authService, resultService)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	logger.Info("server starting", zap.String("addr", addr), zap.String("store_backend", cfg.Store.Backend))
	if err := r.Run(addr); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}

func handleCommand(cmd string) {
	cfg, err := config.Read()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger, err := logging.New(cfg.Server.Env, cfg.Server.LogLevel)
	if err != nil {
		log.Fatal("Failed to build logger:", err)
	}
	defer logger.Sync()

	switch cmd {
	case "migrate":
		db, err := database.Connect(cfg, logger)
		if err != nil {
			logger.Fatal("failed to connect to database", zap.Error(err))
		}
		if err := database.Migrate(db); err != nil {
			logger.Fatal("migration failed", zap.Error(err))
		}
		logger.Info("migration completed successfully")

	default:
		logger.Warn("unknown command", zap.String("command", cmd))
	}
}
