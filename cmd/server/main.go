package main

import (
	"log"
	"net/http"
	"os"
	"strings"

	"mal_vip_backend/internal/database"
	"mal_vip_backend/internal/metrics"
	"mal_vip_backend/internal/middleware"
	"mal_vip_backend/internal/router"
	"mal_vip_backend/pkg/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	utils.InitLogger()

	// Load database configuration from environment variables
	dbHost := utils.Getenv("DB_HOST", "localhost")
	dbPort := utils.Getenv("DB_PORT", "5432")
	dbUser := utils.Getenv("DB_USER", "vip_user")
	dbPassword := utils.Getenv("DB_PASSWORD", "vip_password")
	dbName := utils.Getenv("DB_NAME", "vip_backend_db")
	dbSSLMode := utils.Getenv("DB_SSLMODE", "disable")
	dbSchemaPath := utils.Getenv("DB_SCHEMA_PATH", "db/schema.sql")

	// Startup sequence: connect and migrate, verify, seed, then serve.
	db, err := database.InitDB(dbHost, dbPort, dbUser, dbPassword, dbName, dbSSLMode, dbSchemaPath)
	if err != nil {
		utils.LogError(err, "Failed to initialize database")
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := database.VerifySchema(db); err != nil {
		utils.LogError(err, "Schema verification failed")
		log.Fatalf("Schema verification failed: %v", err)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(utils.GinLogger())

	reg := metrics.NewRegistry()
	engine.Use(middleware.MetricsMiddleware(reg))

	// CORS configuration
	corsAllowedOriginsEnv := os.Getenv("CORS_ALLOWED_ORIGINS")
	var allowedOrigins []string
	if corsAllowedOriginsEnv != "" {
		allowedOrigins = strings.Split(corsAllowedOriginsEnv, ",")
	} else {
		allowedOrigins = []string{"http://localhost:3000", "http://localhost:3001"}
	}

	config := cors.DefaultConfig()
	config.AllowOrigins = allowedOrigins
	config.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	config.AllowCredentials = true
	engine.Use(cors.New(config))

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	seedService := router.Setup(engine, db, reg)
	if utils.Getenv("SEED_ON_EMPTY", "true") != "false" {
		if err := seedService.SeedIfEmpty(); err != nil {
			utils.LogError(err, "Failed to seed initial data")
			log.Fatalf("Failed to seed initial data: %v", err)
		}
	}

	port := utils.Getenv("PORT", "8080")
	utils.LogInfo("Server starting", map[string]interface{}{"port": port})

	if err := engine.Run(":" + port); err != nil {
		utils.LogError(err, "Failed to start server")
		log.Fatalf("Failed to start server: %v", err)
	}
}
