package config

import (
	"log"

	"saccolink/internal/adapters/persistence/models"
	"saccolink/internal/pkg/password"

	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// Run executes all seeders
func (s *Seeder) Run() error {
	log.Println("🌱 Running database seeders...")

	if err := s.seedAdminUser(); err != nil {
		log.Printf("⚠️ Admin seeder skipped: %v", err)
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedAdminUser seeds the default admin account with a staff profile.
// This is for development/testing only.
// In production, create the admin through a secure process.
func (s *Seeder) seedAdminUser() error {
	// Check if an admin already exists
	var count int64
	s.db.Model(&models.User{}).Where("role = ?", "ADMIN").Count(&count)
	if count > 0 {
		return nil
	}

	adminPassword := getEnv("ADMIN_PASSWORD", "admin123456")
	hashedPassword, err := password.Hash(adminPassword)
	if err != nil {
		return err
	}

	admin := &models.User{
		Username: "admin",
		Email:    getEnv("ADMIN_EMAIL", "admin@saccolink.local"),
		Password: hashedPassword,
		Role:     "ADMIN",
		IsActive: true,
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(admin).Error; err != nil {
			return err
		}

		staff := &models.Staff{
			UserID:            admin.ID,
			Position:          "Administrator",
			Department:        "Management",
			CanApproveLoans:   true,
			CanApproveSavings: true,
			IsActive:          true,
		}
		if err := tx.Create(staff).Error; err != nil {
			return err
		}

		log.Printf("✅ Admin user created: %s", admin.Username)
		return nil
	})
}
