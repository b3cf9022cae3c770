package main

import (
	"Abuze/config"
	_ "Abuze/config/swagger"
	"Abuze/middleware"
	"Abuze/pkg/logger"
	"Abuze/routes"
	"Abuze/services/redis"
	"Abuze/services/socket_io"
	"Abuze/services/steam"
	"Abuze/services/storage"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

// @title Abuze API
// @version 1.0
// @description Gin-Gonic server for the Abuze community hub API
// @BasePath /
func main() {
	godotenv.Load()

	logger.Init()
	defer logger.Sync()
	logger.Info("Setting up server...")

	if os.Getenv("PROD") == "true" {
		gin.SetMode(gin.ReleaseMode)
	}

	gormDB, err := config.ConnectGORM()
	if err != nil {
		logger.Fatal("Error connecting to PostgreSQL", "error", err)
	}

	// Only migrate in development or during deployment
	if os.Getenv("MIGRATE_POSTGRES") == "true" {
		if err := config.MigrateDatabase(gormDB); err != nil {
			logger.Warn("Database migration failed", "error", err)
		}
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Error reading GORM PostgreSQL instance", "error", err)
	}
	defer sqlDB.Close()

	redisClient, err := config.Connect_redis()
	if err != nil {
		logger.Fatal("Error connecting to Redis", "error", err)
	}
	defer redis.CloseRedis(redisClient)

	storageRoot := os.Getenv("STORAGE_ROOT")
	if storageRoot == "" {
		storageRoot = "./data"
	}
	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	blobs, err := storage.New(storageRoot, baseURL)
	if err != nil {
		logger.Fatal("Error preparing blob storage", "error", err)
	}

	steamClient := steam.NewClient(os.Getenv("STEAM_API_KEY"))

	r := gin.Default()

	middleware.SetUpMiddleware(r)

	routes.SetupRoutes(r, gormDB, redisClient, blobs, steamClient)

	var sio socket_io.MySocketServer
	sio.Start(r, gormDB, redisClient)

	// Configure port
	port := os.Getenv("PORT")
	if port == "" {
		if os.Getenv("USE_HTTPS") == "true" {
			port = "443"
		} else {
			port = "8080"
		}
	}

	if os.Getenv("USE_HTTPS") == "true" {
		certFile := os.Getenv("TLS_CERT_FILE")
		keyFile := os.Getenv("TLS_KEY_FILE")

		if err := r.RunTLS(":"+port, certFile, keyFile); err != nil {
			logger.Fatal("Error starting server", "error", err)
		}
	} else {
		if err := r.Run(":" + port); err != nil {
			logger.Fatal("Error starting server", "error", err)
		}
	}
}
