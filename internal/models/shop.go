package models

import "gorm.io/gorm"

type Shop struct {
	gorm.Model
	Name        string `gorm:"size:100;not null"`
	Description string `gorm:"type:text"`

	TeamLeaderID *uint
	TeamLeader   *User

	Users []User
	Tasks []Task
}
