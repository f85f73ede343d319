package main

import (
	"net/http"
	"os"

	"socialinsecurity/backend/internal/auth"
	"socialinsecurity/backend/internal/config"
	"socialinsecurity/backend/internal/database"
	"socialinsecurity/backend/internal/handler"
	"socialinsecurity/backend/pkg/logger"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	// Swagger imports
	_ "socialinsecurity/backend/docs" // This is important for swag to find the generated docs

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func init() {
	config.LoadConfig()
}

// @title           Social Insecurity API
// @version         1.0
// @description     This is the API for the Social Insecurity service.
// @host            localhost:8080
// @BasePath        /api/v1
// @securityDefinitions.apiKey BearerAuth
// @in header
// @name Authorization
func main() {
	log := logger.Init(config.AppConfig.LogFile, config.AppConfig.LogLevel)
	defer log.Sync()

	// Connect to the database
	database.Connect(config.AppConfig.DatabaseDriver, config.AppConfig.DatabaseURL)

	// Create the uploads folder if it does not exist
	if err := os.MkdirAll(config.AppConfig.UploadsDir, 0o755); err != nil {
		logger.Fatalf("Failed to create uploads directory: %v", err)
	}

	router := gin.New()
	router.Use(logger.RequestLogger(), logger.Recovery())
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	// API v1 routes
	apiV1 := router.Group("/api/v1")
	{
		// Auth routes
		authRoutes := apiV1.Group("/auth")
		{
			authRoutes.POST("/register", handler.RegisterUser)
			authRoutes.POST("/login", handler.LoginUser)
		}

		// Everything below requires an authenticated viewer.
		protected := apiV1.Group("")
		protected.Use(auth.AuthMiddleware())
		{
			// User routes
			protected.GET("/users/me", handler.GetMe)
			protected.PUT("/users/me/profile", handler.UpdateProfile)
			protected.GET("/users/:username/profile", handler.GetProfile)

			// Friendship routes
			protected.GET("/friends", handler.ListFriends)
			protected.POST("/friends", handler.SendFriendRequest)

			// Stream, post and comment routes
			protected.GET("/stream", handler.GetStream)
			protected.POST("/posts", handler.CreatePost)
			protected.GET("/posts/:id", handler.GetPost)
			protected.GET("/posts/:id/comments", handler.ListComments)
			protected.POST("/posts/:id/comments", handler.CreateComment)

			// Upload serving
			protected.GET("/uploads/:filename", handler.ServeUpload)
		}
	}

	logger.Infof("Server is running on %s", config.AppConfig.ServerAddr)
	if err := router.Run(config.AppConfig.ServerAddr); err != nil {
		logger.Fatalf("Server stopped: %v", err)
	}
}
