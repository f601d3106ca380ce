package main

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/havenspace/backend/config"
	"github.com/havenspace/backend/internal/auth"
	"github.com/havenspace/backend/internal/cache"
	"github.com/havenspace/backend/internal/database"
	"github.com/havenspace/backend/internal/handlers"
	"github.com/havenspace/backend/internal/middleware"
	"github.com/havenspace/backend/internal/moderation"
	"github.com/havenspace/backend/internal/repository"
	"github.com/havenspace/backend/internal/websocket"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Connect to database
	db, err := database.NewPostgresDB(cfg.GetDSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := database.RunMigrations(db.DB); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Connect to Redis. The pipeline degrades without it: classification
	// falls back to in-process goroutines and the moderator live feed is
	// disabled.
	redisClient, err := cache.NewRedisClient(cfg.GetRedisAddr(), cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Printf("Redis unavailable, running degraded: %v", err)
		redisClient = nil
	} else {
		defer redisClient.Close()
	}

	// Initialize services
	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpiryHours)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	contentRepo := repository.NewContentRepository(db)
	behaviorRepo := repository.NewBehaviorRepository(db)
	reportRepo := repository.NewReportRepository(db)
	disputeRepo := repository.NewDisputeRepository(db)
	crisisRepo := repository.NewCrisisRepository(db)
	reputationRepo := repository.NewReputationRepository(db)

	// Moderation pipeline
	tracker := moderation.NewTracker(behaviorRepo, cfg.Moderation.HashHistorySize, cfg.Moderation.RapidPostThreshold)

	var classifier moderation.Classifier
	if cfg.Classifier.URL != "" {
		classifier = moderation.NewClassifierClient(cfg.Classifier.URL, time.Duration(cfg.Classifier.TimeoutSeconds)*time.Second)
	}

	var queue moderation.ClassifyQueue
	if classifier != nil {
		worker := moderation.NewReclassifyWorker(classifier, contentRepo, crisisRepo)
		if redisClient != nil {
			queue = redisClient
			go worker.Run(redisClient)
		} else {
			queue = &moderation.InlineQueue{Worker: worker}
		}
	} else {
		log.Println("CLASSIFIER_URL not set, async re-classification disabled")
	}

	var feed moderation.FeedPublisher
	if redisClient != nil {
		feed = redisClient
	}

	lifecycle := moderation.NewLifecycle(tracker, contentRepo, crisisRepo, reputationRepo, queue, moderation.LifecycleOptions{
		EnforceRapidPosting: cfg.Moderation.EnforceRapidPosting,
	})
	reportService := moderation.NewReportService(reportRepo, contentRepo, reputationRepo, queue, feed, cfg.Moderation.ReportDailyLimit)
	disputeService := moderation.NewDisputeService(disputeRepo, contentRepo, feed)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userRepo, jwtService)
	contentHandler := handlers.NewContentHandler(lifecycle, contentRepo)
	var reportLimiter handlers.ActionLimiter
	if redisClient != nil {
		reportLimiter = redisClient
	}
	reportHandler := handlers.NewReportHandler(reportService, reportRepo, reportLimiter)
	disputeHandler := handlers.NewDisputeHandler(disputeService, disputeRepo)
	modHandler := handlers.NewModerationHandler(contentRepo, crisisRepo)

	// Moderator live feed over WebSocket (requires Redis)
	var wsHandler *websocket.Handler
	if redisClient != nil {
		hub := websocket.NewHub(redisClient)
		go hub.Run()
		wsHandler = websocket.NewHandler(hub, jwtService, userRepo)
	}

	// Setup router
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	router.Use(middleware.CORSMiddleware(cfg.CORS.AllowedOrigins))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Public routes
	router.POST("/auth/register", authHandler.Register)
	router.POST("/auth/login", authHandler.Login)

	// Protected routes
	rateLimiter := middleware.NewRateLimiter(cfg.API.RateLimitPostsPerSec)
	api := router.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(jwtService))
	api.Use(middleware.RateLimitMiddleware(rateLimiter))
	{
		api.GET("/me", authHandler.GetMe)

		api.GET("/topics", contentHandler.ListTopics)
		api.POST("/topics", contentHandler.CreateTopic)
		api.GET("/topics/:id", contentHandler.GetTopic)
		api.POST("/topics/:id/replies", contentHandler.CreateReply)

		api.POST("/reports", reportHandler.CreateReport)

		api.POST("/disputes", disputeHandler.CreateDispute)
		api.POST("/disputes/:id/withdraw", disputeHandler.WithdrawDispute)
	}

	// Moderator routes
	mod := router.Group("/api/v1/mod")
	mod.Use(middleware.AuthMiddleware(jwtService))
	mod.Use(middleware.ModeratorOnly(userRepo))
	{
		mod.GET("/reports", reportHandler.ListReports)
		mod.PUT("/reports/:id", reportHandler.UpdateReport)

		mod.GET("/disputes", disputeHandler.ListOpenDisputes)
		mod.PUT("/disputes/:id", disputeHandler.ResolveDispute)
		mod.POST("/disputes/:id/withdraw", disputeHandler.WithdrawDispute)

		mod.DELETE("/content/:id", modHandler.RemoveContent)
		mod.PUT("/content/:id/status", modHandler.UpdateContentStatus)

		mod.GET("/crisis-logs", modHandler.ListCrisisLogs)
		mod.PUT("/crisis-logs/:id/resolve", modHandler.ResolveCrisisLog)
	}

	if wsHandler != nil {
		router.GET("/ws/mod", wsHandler.HandleFeed)
	}

	// Start server
	addr := ":" + cfg.Server.Port
	log.Printf("Server starting on %s (env: %s)", addr, cfg.Server.Env)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
