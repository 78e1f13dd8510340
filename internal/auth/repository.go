package auth

import (
	"gorm.io/gorm"
)

type Repository interface {
	Create(user *User) error
	FindByEmail(email string) (*User, error)
	FindByID(userID uint) (User, error)
	FindRoleByName(name string) (*UserRole, error)
	Update(user *User) error
	UpdateWorkingSociety(userID uint, societyID *uint) error
	ListStaffBySociety(societyID uint) ([]UserResponse, error)
	FindTenantByEmail(email string) (*User, error)
}

type repository struct{ db *gorm.DB }

func NewRepository(db *gorm.DB) Repository {
	return &repository{db}
}

func (r *repository) Create(user *User) error {
	return r.db.Create(user).Error
}

// FindByEmail is used by login and password reset.
func (r *repository) FindByEmail(email string) (*User, error) {
	var u User
	err := r.db.Preload("Role").Where("email = ?", email).First(&u).Error
	return &u, err
}

func (r *repository) FindByID(userID uint) (User, error) {
	var user User
	err := r.db.Preload("Role").First(&user, userID).Error
	return user, err
}

func (r *repository) FindRoleByName(name string) (*UserRole, error) {
	var role UserRole
	err := r.db.Where("role_name = ?", name).First(&role).Error
	return &role, err
}

func (r *repository) Update(user *User) error {
	return r.db.Save(user).Error
}

// UpdateWorkingSociety re-posts a guard, or clears the posting when nil.
func (r *repository) UpdateWorkingSociety(userID uint, societyID *uint) error {
	return r.db.Model(&User{}).
		Where("id = ?", userID).
		Update("working_society_id", societyID).Error
}

// ListStaffBySociety returns the guards posted to a society.
func (r *repository) ListStaffBySociety(societyID uint) ([]UserResponse, error) {
	var staff []UserResponse
	err := r.db.Table("users u").
		Select("u.id, u.full_name AS name, u.email, u.phone, ur.role_name AS role, u.status, u.working_society_id, u.created_at").
		Joins("JOIN user_roles ur ON ur.id = u.role_id").
		Where("u.working_society_id = ? AND ur.role_name = ? AND u.deleted_at IS NULL", societyID, "staff").
		Order("u.created_at DESC").
		Scan(&staff).Error
	if staff == nil {
		staff = []UserResponse{}
	}
	return staff, err
}

// FindTenantByEmail looks up a tenant-role user for unit allocation.
func (r *repository) FindTenantByEmail(email string) (*User, error) {
	var u User
	err := r.db.Preload("Role").
		Joins("JOIN user_roles ur ON ur.id = users.role_id").
		Where("users.email = ? AND ur.role_name = ?", email, "tenant").
		First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}
