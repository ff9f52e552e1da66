package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"io.wandr.triplog/internal/db"
	firebaseutil "io.wandr.triplog/internal/firebase"
	"io.wandr.triplog/internal/handlers"
	"io.wandr.triplog/internal/middleware"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	zapLogger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()
	logger := zapLogger.Sugar()

	// Initialize Firebase
	firebaseApp, err := firebaseutil.InitFirebase()
	if err != nil {
		logger.Fatalw("Failed to initialize Firebase", "error", err)
	}

	// Initialize PostgreSQL
	postgresDB, err := db.InitPostgres()
	if err != nil {
		logger.Fatalw("Failed to initialize PostgreSQL", "error", err)
	}
	defer postgresDB.Close()

	// Initialize Redis
	redisClient, err := db.InitRedis()
	if err != nil {
		logger.Fatalw("Failed to initialize Redis", "error", err)
	}
	defer redisClient.Close()

	mediaDir := os.Getenv("MEDIA_DIR")
	if mediaDir == "" {
		mediaDir = "./internal/media_files"
	}
	shareSecret := os.Getenv("SHARE_TOKEN_SECRET")
	if shareSecret == "" {
		logger.Warnw("SHARE_TOKEN_SECRET not set, share links are disabled")
	}

	// Initialize Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.RequestLoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	// Add CORS middleware for mobile app
	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(firebaseApp, postgresDB, redisClient, logger)
	milestoneHandler := handlers.NewMilestoneHandler(postgresDB, redisClient, logger)
	postHandler := handlers.NewPostHandler(postgresDB, redisClient, logger, mediaDir)
	feedHandler := handlers.NewFeedHandler(postgresDB, redisClient, logger, shareSecret)

	authn := middleware.AuthMiddleware(firebaseApp, redisClient)

	// Define routes
	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/create-account", authHandler.CreateAccount)
			auth.GET("/account", authn, authHandler.GetAccountDetails)
		}

		milestones := v1.Group("/milestones")
		milestones.Use(authn)
		{
			milestones.GET("/list-milestones", milestoneHandler.ListMilestones)
			milestones.POST("/create-milestone", milestoneHandler.CreateMilestone)
			milestones.POST("/update-milestone", milestoneHandler.UpdateMilestone)
			milestones.POST("/delete-milestone", milestoneHandler.DeleteMilestone)
			milestones.POST("/reorder-milestones", milestoneHandler.ReorderMilestones)
		}

		posts := v1.Group("/posts")
		posts.Use(authn)
		{
			posts.GET("/list-posts", postHandler.ListPosts)
			posts.POST("/create-post", postHandler.CreatePost)
			posts.POST("/get-post", postHandler.GetPost)
			posts.POST("/update-post", postHandler.UpdatePost)
			posts.POST("/delete-post", postHandler.DeletePost)
			posts.POST("/add-media", postHandler.AddMedia)
			posts.POST("/remove-media", postHandler.RemoveMedia)
			posts.POST("/reorder-media", postHandler.ReorderMedia)
		}

		feed := v1.Group("/feed")
		feed.Use(authn)
		{
			feed.GET("/journey", feedHandler.JourneyFeed)
			feed.GET("/map-markers", feedHandler.MapMarkers)
			feed.POST("/create-share-link", feedHandler.CreateShareLink)
		}
	}

	// Public share-link routes, gated by the share token instead of auth
	public := router.Group("/public")
	public.Use(middleware.ShareTokenMiddleware(shareSecret))
	{
		public.GET("/feed", feedHandler.PublicFeed)
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Serve uploaded media and thumbnails
	router.Static("/media", mediaDir)

	// Background jobs: feed cache warming and orphaned media sweep
	maintenance := handlers.NewMaintenanceHandler(postgresDB, redisClient, logger, mediaDir)
	maintenance.Start()
	defer maintenance.Stop()

	port := os.Getenv("PORT")
	if port == "" {
		port = "9091"
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		logger.Infow("Server starting", "port", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalw("Failed to start server", "error", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Infow("Shutting down server")

	// Give a 5 second timeout for graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatalw("Server forced to shutdown", "error", err)
	}

	logger.Infow("Server exited")
}
