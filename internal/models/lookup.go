package models

import "gorm.io/gorm"

type TaskCategory struct {
	gorm.Model
	Name        string `gorm:"size:100;not null"`
	Description string `gorm:"type:text"`

	Tasks      []Task                  `gorm:"foreignKey:CategoryID"`
	SubTypes   []TaskSubType           `gorm:"foreignKey:CategoryID"`
	TargetDays *TaskCategoryTargetDays `gorm:"foreignKey:CategoryID"`
}

// TaskCategoryTargetDays is the category's SLA window used to default a
// task's target completion date.
type TaskCategoryTargetDays struct {
	gorm.Model
	CategoryID uint `gorm:"uniqueIndex;not null"`
	TargetDays int  `gorm:"not null;default:5"`
}

type TaskSubType struct {
	gorm.Model
	CategoryID uint   `gorm:"uniqueIndex:idx_subtype_category_name;not null"`
	Name       string `gorm:"uniqueIndex:idx_subtype_category_name;size:100;not null"`

	Tasks []Task `gorm:"foreignKey:SubTypeID"`
}

type RequestType struct {
	gorm.Model
	Name string `gorm:"size:100;not null"`

	Tasks []Task
}

// TaskPriorityLevel ranks priorities; OrderRank 1 is the most urgent.
type TaskPriorityLevel struct {
	gorm.Model
	LevelName string `gorm:"size:50;not null"`
	OrderRank int    `gorm:"uniqueIndex;not null"`

	Tasks []Task `gorm:"foreignKey:PriorityID"`
}
