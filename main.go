package main

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"rozzgari-server/config"
	"rozzgari-server/database"
	"rozzgari-server/middleware"
	"rozzgari-server/routes"
	ws "rozzgari-server/websocket"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	config.Load()

	if err := database.Initialize(); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}

	if config.AppConfig.Database.SeedOnBoot {
		if err := database.SeedServices(database.DB); err != nil {
			log.Fatal("Failed to seed service catalog:", err)
		}
	}

	if config.AppConfig.Server.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.RedirectTrailingSlash = false
	router.RedirectFixedPath = false

	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.InputValidationMiddleware())
	router.Use(middleware.RateLimitMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{config.AppConfig.Server.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	middleware.StartRateLimiterCleanup()

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "OK",
			"time":   time.Now().UTC(),
		})
	})

	// Live relay hub. Runs next to, not on top of, the persisted
	// message store.
	hub := ws.NewHub()
	go hub.Run()
	routes.RegisterChatRoutes(router, hub)

	api := router.Group("/api")
	{
		authRoutes := api.Group("/auth")
		authRoutes.Use(middleware.AuthRateLimitMiddleware())
		routes.RegisterAuthRoutes(authRoutes)

		routes.RegisterServiceRoutes(api)

		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware())

		routes.RegisterMeRoute(protected)
		routes.RegisterUserRoutes(api, protected)
		routes.RegisterJobRoutes(api, protected)
		routes.RegisterReviewRoutes(api, protected)
		routes.RegisterMessageRoutes(protected)
	}

	port := config.AppConfig.Server.Port

	log.Printf("Server starting on port %s", port)
	if err := router.Run("0.0.0.0:" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
