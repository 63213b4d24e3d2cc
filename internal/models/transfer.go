package models

import (
	"time"

	"gorm.io/gorm"
)

type TransferStatus string

const (
	TransferPending   TransferStatus = "Pending"
	TransferAccepted  TransferStatus = "Accepted"
	TransferRejected  TransferStatus = "Rejected"
	TransferCancelled TransferStatus = "Cancelled"
)

// TaskTransfer records a proposed handoff of a task between shops.
// Pending is the only non-terminal state.
type TaskTransfer struct {
	gorm.Model
	TaskID uint `gorm:"not null"`
	Task   Task

	FromShopID uint `gorm:"not null"`
	FromShop   Shop `gorm:"foreignKey:FromShopID"`

	ToShopID uint `gorm:"not null"`
	ToShop   Shop `gorm:"foreignKey:ToShopID"`

	TransferredByUserID uint `gorm:"not null"`
	TransferredByUser   User `gorm:"foreignKey:TransferredByUserID"`

	Status   TransferStatus `gorm:"type:varchar(20);not null;default:'Pending'"`
	Comments string         `gorm:"type:text"`

	ActionByUserID *uint
	ActionByUser   *User `gorm:"foreignKey:ActionByUserID"`
	ActionAt       *time.Time
}
