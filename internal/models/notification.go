package models

import (
	"time"

	"gorm.io/gorm"
)

// Notification is a per-user mailbox row. Persistence is the only
// delivery guarantee.
type Notification struct {
	gorm.Model
	UserID uint `gorm:"not null;index"`
	User   User

	Message string `gorm:"type:text;not null"`
	IsRead  bool
}

type PerformanceMetrics struct {
	UserID uint `gorm:"primaryKey"`
	User   User

	CompletionRate    float64
	AvgDelayDays      float64
	TasksCompleted    int
	PendingTasksCount int

	LastUpdated time.Time
}
