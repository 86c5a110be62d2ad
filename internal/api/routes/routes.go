package routes

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/p2e-inferno/rewards-service/internal/api/handlers"
	"github.com/p2e-inferno/rewards-service/internal/blockchain"
	"github.com/p2e-inferno/rewards-service/internal/config"
	"github.com/p2e-inferno/rewards-service/internal/models"
	"github.com/p2e-inferno/rewards-service/internal/providers"
	"github.com/p2e-inferno/rewards-service/internal/repository"
	"github.com/p2e-inferno/rewards-service/internal/service"
	"github.com/p2e-inferno/rewards-service/internal/verification"
	"github.com/p2e-inferno/rewards-service/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Setup(router *gin.Engine, cfg *config.Config) {
	// Initialize database
	db, err := initDatabase(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}

	// Initialize components
	repo := repository.NewRewardsRepository(db)

	profileProvider := providers.NewProfileProvider(
		cfg.AuthProviderURL,
		cfg.AuthAppID,
		cfg.AuthAppSecret,
		cfg.UseMockProfiles,
	)

	registry := verification.NewRegistry()
	registry.Register(verification.NewIdentityStrategy(profileProvider),
		verification.TaskLinkEmail,
		verification.TaskSignTOS,
		verification.TaskLinkFarcaster,
		verification.TaskLinkWallet,
		verification.TaskLinkTelegram,
	)

	var chainClient *blockchain.Client
	if cfg.EthereumRPC != "" && cfg.VendorContractAddress != "" {
		chainClient, err = blockchain.Dial(cfg.EthereumRPC, cfg.VendorContractAddress)
		if err != nil {
			logger.Error("Failed to initialize blockchain client", zap.Error(err))
		}
	}
	if chainClient == nil {
		logger.Warn("Vendor verification disabled, vendor tasks will fail until ETHEREUM_RPC_URL and VENDOR_CONTRACT_ADDRESS are set")
	} else {
		vendorStrategy, err := verification.NewVendorStrategy(
			cfg.VendorContractAddress,
			chainClient,
			chainClient,
			chainClient,
		)
		if err != nil {
			logger.Error("Failed to initialize vendor strategy", zap.Error(err))
		} else {
			registry.Register(vendorStrategy,
				verification.TaskVendorBuy,
				verification.TaskVendorSell,
				verification.TaskVendorLightUp,
				verification.TaskVendorLevelUp,
			)
		}
	}

	checkinService := service.NewCheckinService(repo, service.NewCalculatorFromConfig(cfg))

	var chainHealth service.HealthChecker
	if chainClient != nil {
		chainHealth = chainClient
	}
	var profileHealth service.HealthChecker
	if !cfg.UseMockProfiles && cfg.AuthAppID != "" {
		profileHealth = profileProvider
	}
	questService := service.NewQuestService(repo, registry, chainHealth, profileHealth)

	if err := questService.SeedDefaultTasks(context.Background()); err != nil {
		logger.Error("Failed to seed default tasks", zap.Error(err))
	}

	checkinHandler := handlers.NewCheckinHandler(checkinService)
	questHandler := handlers.NewQuestHandler(questService)

	// Health check
	router.GET("/health", questHandler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Check-in routes
		v1.POST("/checkin", checkinHandler.PerformCheckin)
		v1.GET("/checkin/:userId/streak", checkinHandler.GetStreak)
		v1.GET("/checkin/:userId/preview", checkinHandler.PreviewNextCheckin)
		v1.GET("/checkin/:userId/history", checkinHandler.GetCheckinHistory)

		// Quest routes
		v1.POST("/quests/verify", questHandler.VerifyTask)
		v1.GET("/quests/:userId/completions", questHandler.GetCompletions)

		// Admin routes
		admin := v1.Group("/admin")
		{
			admin.GET("/stats", checkinHandler.GetStats)
			admin.GET("/contexts", checkinHandler.GetContexts)
			admin.POST("/contexts", checkinHandler.AddContext)
			admin.DELETE("/contexts/:name", checkinHandler.RemoveContext)
		}
	}
}

func initDatabase(cfg *config.Config) (*gorm.DB, error) {
	var db *gorm.DB
	var err error

	if cfg.DatabaseURL == "" {
		logger.Info("No database URL configured, using in-memory SQLite")
		// Use pure Go SQLite (no CGO required)
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize in-memory database: %w", err)
		}
	} else {
		logger.Info("Connecting to PostgreSQL database")
		db, err = gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
		if err != nil {
			return nil, err
		}
	}

	// Auto-migrate models
	err = db.AutoMigrate(
		&models.CheckinStreak{},
		&models.CheckinRecord{},
		&models.QuestTask{},
		&models.TaskCompletion{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	logger.Info("Database initialized successfully")
	return db, nil
}
