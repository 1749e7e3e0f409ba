package main

import (
	"log"
	"net/http"
	"os"

	"vision-relay/internal/config"
	"vision-relay/internal/handlers"
	"vision-relay/internal/logger"
	"vision-relay/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg := config.Load()

	logger.Init(cfg.LogLevel)

	store := services.NewSupabaseStore(cfg.Storage)
	vision := services.NewOpenAIVision(cfg.OpenAI.Model, cfg.OpenAI.MaxTokens)
	analyzer := services.NewAnalyzer(store, vision)
	cleaner := services.NewCleaner(store)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	router.Use(handlers.APIKeyMiddleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	{
		analyzeHandler := handlers.NewAnalyzeHandler(analyzer)
		purgeHandler := handlers.NewPurgeHandler(cleaner)
		api.POST("/analyze", analyzeHandler.Analyze)
		api.DELETE("/uploads", purgeHandler.PurgeUploads)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}

	logger.Info("🚀 Service listening on port " + port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
