package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/p2e-inferno/rewards-service/internal/api/routes"
	"github.com/p2e-inferno/rewards-service/internal/config"
	"github.com/p2e-inferno/rewards-service/pkg/logger"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	// Initialize logger
	logger.Init()

	// Load configuration
	cfg := config.Load()

	// Initialize Gin router
	router := gin.Default()

	// Setup routes
	routes.Setup(router, cfg)

	// Start server
	logger.Info("Starting rewards service on port " + cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Fatal("Failed to start server: " + err.Error())
	}
}
