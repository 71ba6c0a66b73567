package models

import (
	"time"

	"gorm.io/gorm"
)

// Roles a user can hold
const (
	RoleCustomer = "customer"
	RoleStaff    = "staff"
	RoleAdmin    = "admin"
)

// User represents a user in the system (customer, staff member or administrator)
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Auth0ID   string         `gorm:"uniqueIndex;not null" json:"auth0_id"` // Auth0 user ID (from 'sub' claim)
	Name      string         `gorm:"not null" json:"name"`
	Email     string         `gorm:"uniqueIndex;not null" json:"email"`
	Role      string         `gorm:"not null;default:'customer';index" json:"role"` // "customer", "staff" or "admin"
	Phone     string         `json:"phone"`
	Address   string         `json:"address"` // default pickup address offered on the order form
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// IsStaff reports whether the user may work on any order (staff or admin)
func (u User) IsStaff() bool {
	return u.Role == RoleStaff || u.Role == RoleAdmin
}

// IsCustomer reports whether the user is a customer
func (u User) IsCustomer() bool {
	return u.Role == RoleCustomer
}

// ValidRole reports whether role is one of the known roles
func ValidRole(role string) bool {
	switch role {
	case RoleCustomer, RoleStaff, RoleAdmin:
		return true
	}
	return false
}

// StaffScope restricts a user query to staff and admin accounts
func StaffScope(db *gorm.DB) *gorm.DB {
	return db.Where("role IN ?", []string{RoleStaff, RoleAdmin})
}

// CustomerScope restricts a user query to customers
func CustomerScope(db *gorm.DB) *gorm.DB {
	return db.Where("users.role = ?", RoleCustomer)
}
