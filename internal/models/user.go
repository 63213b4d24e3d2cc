package models

import "gorm.io/gorm"

type UserRole string

const (
	RoleTeamLeader        UserRole = "TeamLeader"
	RoleDirector          UserRole = "Director"
	RoleEngineer          UserRole = "Engineer"
	RoleCustomerPersonnel UserRole = "CustomerPersonnel"
	RoleCustomer          UserRole = "Customer"
	RoleShopTL            UserRole = "ShopTL"
)

type UserStatus string

const (
	UserActive    UserStatus = "Active"
	UserInactive  UserStatus = "Inactive"
	UserSuspended UserStatus = "Suspended"
)

type User struct {
	gorm.Model
	Username     string     `gorm:"uniqueIndex;size:50;not null"`
	PasswordHash string     `gorm:"size:255;not null"`
	Email        string     `gorm:"uniqueIndex;size:100;not null"`
	FullName     string     `gorm:"size:100;not null"`
	Role         UserRole   `gorm:"type:varchar(30);not null"`
	Status       UserStatus `gorm:"type:varchar(20);not null;default:'Active'"`

	ProfilePicturePath string `gorm:"size:255"`

	// supervisor chain must stay acyclic, enforced on assignment
	SupervisorID *uint
	Supervisor   *User

	ShopID *uint
	Shop   *Shop

	Subordinates []User `gorm:"foreignKey:SupervisorID"`
}
