package database

import (
	"log"
	"os"
	"time"

	"cmt-tasks/internal/auth"
	"cmt-tasks/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(dsn string) {
	var err error

	const maxAttempts = 10
	for i := 1; i <= maxAttempts; i++ {
		log.Printf("trying to connect to DB (attempt %d/%d)...", i, maxAttempts)

		DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err == nil {
			log.Println("connected to DB successfully")
			break
		}

		log.Printf("failed to connect to DB: %v", err)
		time.Sleep(2 * time.Second)
	}

	if err != nil {
		log.Fatalf("failed to connect to db after %d attempts: %v", maxAttempts, err)
	}

	if err := Migrate(DB); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	createDefaultTeamLeader()
	seedPriorityLevels()
}

// Migrate runs schema migration for every model. Tests call it against
// their own database handle.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Shop{},
		&models.TaskCategory{},
		&models.TaskCategoryTargetDays{},
		&models.TaskSubType{},
		&models.RequestType{},
		&models.TaskPriorityLevel{},
		&models.Task{},
		&models.TaskComment{},
		&models.TaskAttachment{},
		&models.TaskTransfer{},
		&models.Notification{},
		&models.PerformanceMetrics{},
	)
}

// team leader account only from config/env
func createDefaultTeamLeader() {
	username := os.Getenv("TL_USERNAME")
	if username == "" {
		username = "teamlead"
	}
	password := os.Getenv("TL_PASSWORD")
	if password == "" {
		password = "TeamLead123!"
	}

	var count int64
	if err := DB.Model(&models.User{}).
		Where("role = ?", models.RoleTeamLeader).
		Count(&count).Error; err != nil {
		log.Printf("failed to check team leader user: %v", err)
		return
	}
	if count > 0 {
		return
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		log.Printf("failed to hash default team leader password: %v", err)
		return
	}

	tl := models.User{
		Username:     username,
		PasswordHash: hash,
		Email:        username + "@cmt.local",
		FullName:     "Default Team Leader",
		Role:         models.RoleTeamLeader,
		Status:       models.UserActive,
	}

	if err := DB.Create(&tl).Error; err != nil {
		log.Printf("failed to create default team leader: %v", err)
		return
	}

	log.Printf("created default team leader: %s", username)
}

// baseline priority ladder so task creation works on a fresh database
func seedPriorityLevels() {
	levels := []models.TaskPriorityLevel{
		{LevelName: "Critical", OrderRank: 1},
		{LevelName: "High", OrderRank: 2},
		{LevelName: "Medium", OrderRank: 3},
		{LevelName: "Low", OrderRank: 4},
	}

	for _, lvl := range levels {
		var count int64
		if err := DB.Model(&models.TaskPriorityLevel{}).
			Where("order_rank = ?", lvl.OrderRank).
			Count(&count).Error; err != nil {
			log.Printf("failed to check priority level %s: %v", lvl.LevelName, err)
			continue
		}
		if count > 0 {
			continue
		}
		if err := DB.Create(&lvl).Error; err != nil {
			log.Printf("failed to create priority level %s: %v", lvl.LevelName, err)
		}
	}
}
