package main

import (
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"taskhub-backend/internal/config"
	"taskhub-backend/internal/database"
	"taskhub-backend/internal/handler"
	"taskhub-backend/internal/middleware"
	"taskhub-backend/internal/models"
	"taskhub-backend/internal/repository"
	"taskhub-backend/internal/service"
	"taskhub-backend/internal/utils"
	"taskhub-backend/pkg/logger"
)

func main() {
	cfg := config.Load()
	log.Println("Config loaded successfully")

	if err := logger.Init(!cfg.IsProduction()); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	database.Connect(cfg)
	database.Migrate()

	// Initialize repositories
	userRepo := repository.NewUserRepository(database.DB)
	taskRepo := repository.NewTaskRepository(database.DB)

	// Initialize token manager and cookie options
	tokenCfg := utils.TokenConfig{
		AccessSecret:  cfg.AccessTokenSecret,
		RefreshSecret: cfg.RefreshTokenSecret,
		AccessExpiry:  cfg.AccessTokenExpiry,
		RefreshExpiry: cfg.RefreshTokenExpiry,
	}
	tokenManager := utils.NewTokenManager(tokenCfg)
	cookieOptions := utils.NewCookieOptions(cfg.IsProduction())

	// Initialize services
	authService := service.NewAuthService(userRepo, tokenManager)
	userService := service.NewUserService(userRepo)
	taskService := service.NewTaskService(taskRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, cookieOptions, tokenCfg)
	userHandler := handler.NewUserHandler(userService, cookieOptions)
	adminHandler := handler.NewAdminHandler(userService)
	taskHandler := handler.NewTaskHandler(taskService)

	// Setup Gin router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSAllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	authRequired := middleware.AuthMiddleware(userRepo, tokenManager)
	adminOnly := middleware.RequireRoles(models.RoleAdmin)

	api := router.Group("/api")

	// Auth routes
	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)
	auth.POST("/logout", authRequired, authHandler.Logout)
	auth.POST("/reset-password", authRequired, authHandler.ResetPassword)

	// Self-service routes
	users := api.Group("/users", authRequired)
	users.GET("/me", userHandler.Me)
	users.PATCH("/me", userHandler.UpdateProfile)
	users.DELETE("/me", userHandler.DeleteAccount)

	// Admin routes
	admin := api.Group("/admin/users", authRequired, adminOnly)
	admin.GET("", adminHandler.ListUsers)
	admin.GET("/:id", adminHandler.GetUser)
	admin.PATCH("/:id/role", adminHandler.UpdateRole)
	admin.DELETE("/:id", adminHandler.DeleteUser)
	admin.POST("/:id/restore", adminHandler.RestoreUser)

	// Task routes
	tasks := api.Group("/tasks", authRequired)
	tasks.POST("", taskHandler.Create)
	tasks.GET("", taskHandler.List)
	tasks.GET("/:id", taskHandler.Get)
	tasks.PATCH("/:id", taskHandler.Update)
	tasks.DELETE("/:id", taskHandler.Delete)

	// Start server
	log.Printf("Server starting on %s", cfg.ServerPort)
	if err := router.Run(cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
