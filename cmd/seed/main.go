package main

import (
	"log"
	"os"
	"strings"

	"github.com/google/uuid"

	"taskhub-backend/internal/config"
	"taskhub-backend/internal/database"
	"taskhub-backend/internal/models"
	"taskhub-backend/internal/utils"
)

func main() {
	cfg := config.Load()
	database.Connect(cfg)

	adminUsername := strings.ToLower(os.Getenv("ADMIN_USERNAME"))
	adminEmail := strings.ToLower(os.Getenv("ADMIN_EMAIL"))
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	adminFullName := os.Getenv("ADMIN_FULL_NAME")
	if adminFullName == "" {
		adminFullName = "Administrator"
	}

	if adminUsername == "" || adminEmail == "" || adminPassword == "" {
		log.Fatal("Missing environment variables: ADMIN_USERNAME, ADMIN_EMAIL, ADMIN_PASSWORD")
	}

	// Check if admin with this email already exists
	var admin models.User
	result := database.DB.Unscoped().Where("email = ?", adminEmail).First(&admin)
	if result.Error == nil {
		log.Println("Admin user already exists:", admin.Username)
		return
	}

	passwordHash, err := utils.HashPassword(adminPassword)
	if err != nil {
		log.Fatal("Failed to hash password:", err)
	}

	admin = models.User{
		ID:           uuid.NewString(),
		Username:     adminUsername,
		Email:        adminEmail,
		FullName:     adminFullName,
		PasswordHash: passwordHash,
		Role:         models.RoleAdmin,
		IsActive:     true,
	}

	if err := database.DB.Create(&admin).Error; err != nil {
		log.Fatal("Failed to create admin:", err)
	}

	log.Println("Admin user created successfully:", admin.Username)
}
