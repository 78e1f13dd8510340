package auth

import (
	"time"

	"gorm.io/gorm"
)

// UserRole is the fixed role catalog, seeded at boot.
type UserRole struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	RoleName    string `gorm:"size:30;uniqueIndex;not null" json:"role_name"`
	Description string `gorm:"size:255" json:"description"`
}

func (UserRole) TableName() string {
	return "user_roles"
}

// User represents a platform user: a society owner, a posted guard (staff),
// or a tenant.
type User struct {
	ID           uint     `gorm:"primaryKey" json:"id"`
	FullName     string   `gorm:"column:full_name;size:100;not null" json:"name"`
	Email        string   `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Phone        string   `gorm:"size:20" json:"phone"`
	PasswordHash string   `gorm:"column:password_hash;size:255;not null" json:"-"`
	RoleID       uint     `gorm:"column:role_id;not null" json:"-"`
	Role         UserRole `gorm:"foreignKey:RoleID" json:"role"`
	Status       string   `gorm:"size:20;default:active" json:"status"`

	// WorkingSocietyID is set only for staff: the society the guard is posted to.
	WorkingSocietyID *uint `gorm:"column:working_society_id;index" json:"working_society_id,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// UserResponse is the shape returned to the frontend for user listings.
type UserResponse struct {
	ID               uint      `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	Phone            string    `json:"phone"`
	Role             string    `json:"role"`
	Status           string    `json:"status"`
	WorkingSocietyID *uint     `json:"working_society_id,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}
