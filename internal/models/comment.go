package models

import (
	"time"

	"gorm.io/gorm"
)

type TaskComment struct {
	gorm.Model
	TaskID uint `gorm:"not null"`

	UserID uint `gorm:"not null"`
	User   User

	CommentText    string `gorm:"type:text;not null"`
	IsIntervention bool
}

type TaskAttachment struct {
	gorm.Model
	TaskID uint `gorm:"not null"`

	FilePath string `gorm:"size:255;not null"`
	FileName string `gorm:"size:255;not null"`
	FileType string `gorm:"size:100"`

	UploadedBy     *uint
	UploadedByUser *User `gorm:"foreignKey:UploadedBy"`

	UploadedAt time.Time
}
