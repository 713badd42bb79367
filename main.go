package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/timfmjones/project-manager-backend/ai"
	"github.com/timfmjones/project-manager-backend/auth"
	"github.com/timfmjones/project-manager-backend/config"
	"github.com/timfmjones/project-manager-backend/database"
	"github.com/timfmjones/project-manager-backend/handlers"
	"github.com/timfmjones/project-manager-backend/metrics"
	"github.com/timfmjones/project-manager-backend/middleware"
	"github.com/timfmjones/project-manager-backend/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config: ", err)
	}
	handlers.DevMode = cfg.DevMode

	// Create context with timeout for initial connection
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}
	defer db.Close()

	store, err := buildAudioStore(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to set up audio storage: ", err)
	}

	aiClient := ai.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL)
	tokens := auth.NewTokenService(cfg.JWTSecret)

	// Keep the interface nil when the provider is disabled; a typed nil
	// would defeat the handler's availability check.
	var google auth.IdentityProvider
	if p := auth.NewGoogleProvider(cfg.GoogleClientID); p != nil {
		google = p
	}

	r := gin.Default()
	r.Use(metrics.Middleware())

	r.GET("/health", handlers.Health(cfg))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if cfg.StorageBackend == "local" {
		r.Static("/uploads", cfg.UploadDir)
	}

	authGate := middleware.AuthRequired(tokens)

	authGroup := r.Group("/api/auth", middleware.AuthRateLimit(30, 15))
	authGroup.POST("/register", handlers.Register(db, tokens))
	authGroup.POST("/login", handlers.Login(db, tokens))
	authGroup.POST("/guest", handlers.Guest(db, tokens))
	authGroup.POST("/google", handlers.GoogleSignIn(db, tokens, google))
	r.GET("/api/auth/me", authGate, handlers.Me(db))

	qaLimiter := middleware.NewFixedWindowLimiter(50, time.Hour)
	aiLimiter := middleware.NewFixedWindowLimiter(100, time.Hour)

	api := r.Group("/api", authGate)

	projects := api.Group("/projects")
	projects.GET("", handlers.ListProjects(db))
	projects.POST("", handlers.CreateProject(db))
	projects.GET("/:id", handlers.GetProject(db))
	projects.PATCH("/:id", handlers.UpdateProject(db))
	projects.GET("/:id/summary", handlers.GetProjectSummary(db))
	projects.PATCH("/:id/summary", handlers.UpdateProjectSummary(db))
	projects.POST("/:id/summary/suggest",
		middleware.RateLimit(aiLimiter, "Too many AI requests, please try again later"),
		handlers.SuggestSummary(db, aiClient))

	projects.POST("/:id/idea-dumps/text", handlers.CreateTextIdeaDump(db, aiClient))
	projects.POST("/:id/idea-dumps/audio",
		middleware.AudioUpload(store),
		handlers.CreateAudioIdeaDump(db, aiClient))
	projects.GET("/:id/insights", handlers.ListInsights(db))

	projects.GET("/:id/tasks", handlers.ListTasks(db))
	projects.POST("/:id/tasks", handlers.CreateTask(db))
	projects.PATCH("/:id/tasks/reorder", handlers.ReorderTasks(db))

	projects.GET("/:id/milestones", handlers.ListMilestones(db))
	projects.POST("/:id/milestones", handlers.CreateMilestone(db))

	projects.GET("/:id/qa/history", handlers.GetQAHistory(db))
	projects.GET("/:id/qa/suggestions", handlers.GetQASuggestions(db))
	projects.POST("/:id/qa/ask",
		middleware.RateLimit(qaLimiter, "Too many questions, please try again later"),
		handlers.AskQuestion(db, aiClient))

	api.PATCH("/tasks/:id", handlers.UpdateTask(db))
	api.DELETE("/tasks/:id", handlers.DeleteTask(db))
	api.PATCH("/milestones/:id", handlers.UpdateMilestone(db))
	api.DELETE("/milestones/:id", handlers.DeleteMilestone(db))
	api.PATCH("/insights/:id/pin", handlers.PinInsight(db))
	api.PATCH("/qa/:id/feedback", handlers.QAFeedback(db))

	log.Println("Server starting on :" + cfg.Port)
	r.Run(":" + cfg.Port)
}

// buildAudioStore picks the upload sink from config. A nil store keeps
// accepted audio in memory for transcription only.
func buildAudioStore(ctx context.Context, cfg *config.Config) (middleware.AudioStore, error) {
	switch cfg.StorageBackend {
	case "local":
		return storage.NewLocalStore(cfg.UploadDir, cfg.PublicBaseURL)
	case "s3":
		store, err := storage.NewObjectStore(storage.Config{
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKey,
			SecretAccessKey: cfg.S3SecretKey,
			Bucket:          cfg.S3Bucket,
			UseSSL:          cfg.S3UseSSL,
		})
		if err != nil {
			return nil, err
		}
		if err := store.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, nil
	}
}
