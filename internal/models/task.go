package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

type TaskStatus string

const (
	StatusPending    TaskStatus = "Pending"
	StatusInProgress TaskStatus = "InProgress"
	StatusCompleted  TaskStatus = "Completed"
	StatusBlocked    TaskStatus = "Blocked"
	StatusOnHold     TaskStatus = "OnHold"
	StatusCancelled  TaskStatus = "Cancelled"
)

// ParseTaskStatus maps a user-facing status string onto the enum.
// Spaces are stripped first, so "In Progress" parses as InProgress.
func ParseTaskStatus(s string) (TaskStatus, bool) {
	st := TaskStatus(strings.ReplaceAll(s, " ", ""))
	switch st {
	case StatusPending, StatusInProgress, StatusCompleted,
		StatusBlocked, StatusOnHold, StatusCancelled:
		return st, true
	}
	return "", false
}

type AmendmentStatus string

const (
	AmendmentPendingTLReview     AmendmentStatus = "PendingTLReview"
	AmendmentForwardedToDirector AmendmentStatus = "ForwardedToDirector"
	AmendmentApproved            AmendmentStatus = "Approved"
	AmendmentRejected            AmendmentStatus = "Rejected"
)

// UnassignedEngineer is the sentinel value for a task with no engineers.
const UnassignedEngineer = "Unassigned"

type Task struct {
	gorm.Model

	SerialNumber string `gorm:"size:100"`
	PartNumber   string `gorm:"size:100"`
	PoNumber     string `gorm:"size:100"`
	Description  string `gorm:"type:text;not null"`

	CategoryID uint
	Category   TaskCategory

	SubTypeID *uint
	SubType   *TaskSubType

	RequestTypeID *uint
	RequestType   *RequestType

	Status   TaskStatus `gorm:"type:varchar(20);not null;default:'Pending'"`
	Comments string     `gorm:"type:text"`

	// comma-separated full names, matched by substring
	AssignedEngineer string `gorm:"size:255;not null;default:'Unassigned'"`

	PriorityID uint
	Priority   TaskPriorityLevel `gorm:"foreignKey:PriorityID"`

	EstimatedCompletionDate time.Time
	TargetCompletionDate    *time.Time
	ActualCompletionDate    *time.Time

	AttachmentPath string `gorm:"size:255"`

	AmendmentRequest        bool
	AmendmentStatus         *AmendmentStatus `gorm:"type:varchar(30)"`
	AmendmentReviewedByTlID *uint
	AmendmentReviewedByTl   *User `gorm:"foreignKey:AmendmentReviewedByTlID"`

	IsDuplicate            bool
	DuplicateJustification string `gorm:"type:text"`

	RevisionNotes     string `gorm:"type:text"`
	ShowRevisionAlert bool

	IsMandatory bool

	ShopID *uint
	Shop   *Shop

	CreatedBy uint `gorm:"not null"`
	Creator   User `gorm:"foreignKey:CreatedBy"`

	CancelledBy        *uint
	CancelledByUser    *User  `gorm:"foreignKey:CancelledBy"`
	CancellationReason string `gorm:"type:text"`
	CancelledAt        *time.Time

	TaskComments []TaskComment    `gorm:"constraint:OnDelete:CASCADE"`
	Attachments  []TaskAttachment `gorm:"constraint:OnDelete:CASCADE"`
	Transfers    []TaskTransfer   `gorm:"constraint:OnDelete:CASCADE"`
}
