package entity

import (
	"time"
)

// Role is one of a closed set of permission tiers attached to a user.
type Role string

const (
	RoleAdmin        Role = "admin"
	RoleInstructor   Role = "instructor"
	RoleStudent      Role = "student"
	RoleReceptionist Role = "receptionist"
)

// ValidRole reports whether r is a member of the closed role set.
func ValidRole(r Role) bool {
	switch r {
	case RoleAdmin, RoleInstructor, RoleStudent, RoleReceptionist:
		return true
	}
	return false
}

// User is the central credential record. Inactive users may never
// authenticate.
type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string    `gorm:"type:varchar(120);not null" json:"name"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex:uq_users_email;not null" json:"email"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	Role         Role      `gorm:"type:varchar(20);not null;index" json:"role"`
	Active       bool      `gorm:"not null" json:"active"`
	NationalID   *string   `gorm:"type:varchar(14);uniqueIndex:uq_users_national_id" json:"national_id,omitempty"`
	Phone        *string   `gorm:"type:varchar(30)" json:"phone,omitempty"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
