package main

import (
	"context"
	"log"
	"strconv"

	"feedbackhub/config"
	"feedbackhub/db"
	"feedbackhub/routes"
	"feedbackhub/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load(".env")

	// Load the configuration from the specified YAML file
	cfg, err := config.LoadConfig("./config/config.yml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()
	store, err := db.NewSheetStore(ctx, cfg.Spreadsheet.CredentialsFile, cfg.Spreadsheet.ID, cfg.Spreadsheet.SheetName)
	if err != nil {
		log.Fatalf("Failed to create sheet store: %v", err)
	}

	// Fail fast on bad credentials or an unreachable spreadsheet
	status, err := store.Ping(ctx)
	if err != nil {
		log.Fatalf("Failed to open spreadsheet: %v", err)
	}
	log.Printf("Connected to spreadsheet %q (%d sheets)", status.Title, len(status.Sheets))

	notifier := services.NewNotifier(services.NewSMTPMailer(cfg), cfg.Notification.Recipient, cfg.Notification.Subject)
	services.InitFeedbackService(store, notifier)

	// Set up the Gin router and configure routes
	router := setupRouter(cfg)
	port := strconv.Itoa(cfg.Server.Port)
	log.Printf("Server starting on port %s", port)

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func setupRouter(cfg *config.Config) *gin.Engine {
	router := gin.Default()

	// Set trusted proxies (adjust as needed)
	router.SetTrustedProxies([]string{"127.0.0.1", "localhost"})

	// The form may be served from anywhere, so CORS stays permissive
	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type"},
		ExposeHeaders: []string{"Content-Length"},
	}))
	router.OPTIONS("/*path", func(c *gin.Context) { c.Status(204) })

	router.GET("/", routes.FormPageRouteHandler)
	router.GET("/health", routes.HealthRouteHandler)
	router.POST("/feedback", routes.PostFeedbackRouteHandler)
	router.POST("/feedback/submit", routes.SubmitFeedbackRouteHandler)

	return router
}
