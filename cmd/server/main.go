package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"propchat/internal/config"
	"propchat/internal/handler"
	"propchat/internal/repository"
	"propchat/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	log.Printf("Property Chat Assistant")
	log.Printf("Version: %s", Version)
	log.Printf("Build Time: %s", BuildTime)
	log.Printf("Git Commit: %s", GitCommit)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set Gin mode
	gin.SetMode(cfg.Server.GinMode)

	// Connect to the property catalog
	catalog, err := repository.NewPostgresCatalog(
		cfg.GetPostgreSQLDSN(),
		cfg.PostgreSQL.MaxConnections,
		cfg.PostgreSQL.MaxIdleConnections,
	)
	if err != nil {
		log.Fatalf("Failed to connect to catalog database: %v", err)
	}
	defer catalog.Close()
	log.Println("Connected to catalog database")

	// Optional small-talk fallback
	var chatClient service.ChatClient = service.DisabledChatClient{}
	if cfg.OpenAI.Enabled {
		chatClient = service.NewOpenAIChatClient(&cfg.OpenAI)
		log.Printf("Chat fallback enabled (model %s via %s)", cfg.OpenAI.ChatModel, cfg.OpenAI.APIBase)
	} else {
		log.Println("Chat fallback disabled; off-topic turns get canned replies")
	}

	// Conversational criteria engine
	classifier := service.NewLexiconClassifier()
	extractor := service.NewRuleExtractor(cfg.Conversation.AffordabilityMultiplier)
	scorer := service.NewMatchScorer(cfg.Conversation.RelevanceThreshold, cfg.Conversation.TopN)
	planner := service.NewResponsePlanner(chatClient, time.Duration(cfg.OpenAI.Timeout)*time.Second, nil)

	store := service.NewSessionStore(func() *service.ConversationSession {
		return service.NewConversationSession(
			classifier,
			extractor,
			planner,
			scorer,
			catalog,
			time.Duration(cfg.Conversation.CatalogTimeoutSeconds)*time.Second,
			cfg.Conversation.CatalogFetchLimit,
		)
	}, time.Duration(cfg.Conversation.SessionIdleMinutes)*time.Minute)

	log.Println("Services initialized")

	// Initialize handlers
	chatHandler := handler.NewChatHandler(store)
	listingHandler := handler.NewListingHandler(catalog)

	// Setup Gin router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Server.AllowedOrigins}
	corsConfig.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Authorization"}
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":   "healthy",
			"service":  "property-chat-assistant",
			"version":  Version,
			"sessions": store.Len(),
		})
	})

	// Version endpoint
	router.GET("/version", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"version":    Version,
			"build_time": BuildTime,
			"git_commit": GitCommit,
		})
	})

	// API routes
	apiV1 := router.Group("/api/v1")
	{
		apiV1.POST("/chat", chatHandler.Chat)
		apiV1.GET("/sessions/:id", chatHandler.GetSession)
		apiV1.DELETE("/sessions/:id", chatHandler.DeleteSession)
		apiV1.GET("/listings/:id", listingHandler.GetListing)
	}

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Starting server on %s", addr)

	go func() {
		if err := router.Run(addr); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	log.Println("Server stopped")
}
