package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/openopps/openopps-api/internal/config"
	"github.com/openopps/openopps-api/internal/constants"
	"github.com/openopps/openopps-api/internal/database"
	"github.com/openopps/openopps-api/internal/handlers"
	"github.com/openopps/openopps-api/internal/middleware"
	"github.com/openopps/openopps-api/internal/repository"
	"github.com/openopps/openopps-api/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	if err := database.AddIndexes(database.GetDB()); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}

	// Initialize Gin router
	r := gin.Default()

	// Setup session middleware with Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,        // Redis pool size
		"tcp",     // network type
		redisAddr, // Redis address from config
		"",        // username (empty for default user)
		"",        // password (empty = no password)
		[]byte(cfg.SessionSecret), // authentication key
	)
	if err != nil {
		log.Fatalf("Failed to create Redis store: %v", err)
	}
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: 2, // SameSite=Lax
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	// Initialize repositories
	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	volunteerRepo := repository.NewVolunteerRepository(db)
	tagRepo := repository.NewTagRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	// Initialize services
	notifier := services.NewNotificationService(notificationRepo, &services.LogMailer{Logger: logger}, logger)
	directoryService := services.NewDirectoryService(userRepo, tagRepo, notifier, cfg)
	taskService := services.NewTaskService(taskRepo, userRepo, tagRepo, notifier, cfg)
	volunteerService := services.NewVolunteerService(volunteerRepo, taskRepo, userRepo, notifier, logger)
	workflowService := services.NewWorkflowService(directoryService, volunteerService, cfg)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(directoryService)
	userHandler := handlers.NewUserHandler(directoryService, notifier)
	taskHandler := handlers.NewTaskHandler(taskService)
	volunteerHandler := handlers.NewVolunteerHandler(volunteerService, workflowService)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "OpenOpps API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
		}

		// Tag listing (public, for profile pickers)
		api.GET("/tags", userHandler.ListTags)

		// User routes
		users := api.Group("/users")
		{
			users.GET("/:id", userHandler.GetUser)
			users.PUT("/:id", middleware.RequireAuth(), userHandler.UpdateProfile)
			users.PUT("/:id/tags", middleware.RequireAuth(), userHandler.SetTags)
			users.PUT("/:id/settings", middleware.RequireAuth(), userHandler.SaveSetting)
			users.GET("/:id/notifications", middleware.RequireAuth(), userHandler.ListNotifications)
			users.PUT("/:id/disabled", middleware.RequireAuth(), middleware.RequireAdmin(), userHandler.SetDisabled)
		}

		// Task routes. Listing and reading are public; draft tasks are
		// hidden by the task middleware for anyone who cannot
		// administer them.
		tasks := api.Group("/tasks")
		tasks.Use(middleware.LoadSessionUser())
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", middleware.RequireAuth(), taskHandler.CreateTask)
			tasks.POST("/copy", middleware.RequireAuth(), taskHandler.CopyTask)
			tasks.GET("/:id", middleware.RequireTask(), taskHandler.GetTask)
			tasks.PATCH("/:id", middleware.RequireAuth(), middleware.RequireTask(), taskHandler.UpdateTask)
			tasks.DELETE("/:id", middleware.RequireAuth(), middleware.RequireTask(), taskHandler.DeleteTask)
			tasks.POST("/:id/state", middleware.RequireAuth(), middleware.RequireTask(), taskHandler.ChangeState)
			tasks.GET("/:id/volunteers", middleware.RequireTask(), volunteerHandler.ListVolunteers)

			// Volunteer workflow. Anonymous requests are allowed on the
			// status endpoint; its first guard is the login step.
			tasks.GET("/:id/volunteer", middleware.RequireTask(), volunteerHandler.WorkflowStatus)
			tasks.POST("/:id/volunteer/name", middleware.RequireAuth(), middleware.RequireTask(), volunteerHandler.SubmitName)
			tasks.POST("/:id/volunteer/profile", middleware.RequireAuth(), middleware.RequireTask(), volunteerHandler.SubmitProfile)
			tasks.POST("/:id/volunteer/confirm", middleware.RequireAuth(), middleware.RequireTask(), volunteerHandler.Confirm)
		}

		// Volunteer records
		api.DELETE("/volunteers/:id", middleware.RequireAuth(), volunteerHandler.RemoveVolunteer)
	}

	// Start server
	log.Printf("Server starting on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
