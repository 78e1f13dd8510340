package auth

import (
	"errors"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedUserRoles inserts the fixed role catalog if missing.
func SeedUserRoles(db *gorm.DB) error {
	roles := []UserRole{
		{RoleName: "owner", Description: "Society owner: manages societies, buildings, units and staff"},
		{RoleName: "staff", Description: "Security guard posted to one society: logs visitor traffic"},
		{RoleName: "tenant", Description: "Resident allocated to a unit: views own records"},
	}

	for _, role := range roles {
		var existing UserRole
		err := db.Where("role_name = ?", role.RoleName).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := db.Create(&role).Error; err != nil {
				return err
			}
			log.Printf("✅ Seeded role: %s", role.RoleName)
		} else if err != nil {
			return err
		}
	}
	return nil
}

// SeedBootstrapOwner creates the initial owner account from env, so a fresh
// deployment has a login to start from.
func SeedBootstrapOwner(db *gorm.DB) error {
	email := os.Getenv("BOOTSTRAP_OWNER_EMAIL")
	password := os.Getenv("BOOTSTRAP_OWNER_PASSWORD")
	if email == "" || password == "" {
		log.Println("ℹ️ BOOTSTRAP_OWNER_EMAIL not set, skipping owner seed")
		return nil
	}

	var existing User
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	var role UserRole
	if err := db.Where("role_name = ?", "owner").First(&role).Error; err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	owner := User{
		FullName:     "Bootstrap Owner",
		Email:        email,
		PasswordHash: string(hash),
		RoleID:       role.ID,
		Status:       "active",
	}
	if err := db.Create(&owner).Error; err != nil {
		return err
	}

	log.Printf("✅ Seeded bootstrap owner: %s", email)
	return nil
}
