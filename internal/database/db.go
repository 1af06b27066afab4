package database

import (
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"taskhub-backend/internal/config"
	"taskhub-backend/internal/models"
)

var DB *gorm.DB

func Connect(cfg *config.Config) {
	var err error

	// TranslateError maps driver duplicate-key failures onto
	// gorm.ErrDuplicatedKey, which the services match on.
	DB, err = gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		log.Fatal("Failed to connect database:", err)
	}

	log.Println("Database connected successfully")
}

func Migrate() {
	err := DB.AutoMigrate(&models.User{}, &models.Task{})
	if err != nil {
		log.Fatal("Migration failed:", err)
	}

	log.Println("Database migration completed")
}
