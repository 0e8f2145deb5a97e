package storage

import (
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/VaibhavPatilDevOps/Remote-Attendence-App/internal/config"
	"github.com/VaibhavPatilDevOps/Remote-Attendence-App/internal/models"
	"github.com/VaibhavPatilDevOps/Remote-Attendence-App/internal/utils"
)

func OpenDB(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		log.Fatal("failed to connect database: ", err)
	}

	if err := Migrate(db); err != nil {
		log.Fatal("failed migrate: ", err)
	}

	if err := SeedAdmin(db, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Fatal("failed to seed admin: ", err)
	}

	return db
}

// Migrate creates the schema. The partial unique index is what makes
// session-start safe under concurrency: the "no active session" check and the
// insert collapse into one constraint, so of two racing starts exactly one
// gets a duplicate-key error.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.AttendanceSession{},
		&models.Evidence{},
		&models.Setting{},
	); err != nil {
		return err
	}

	return db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_active_session_per_user
		 ON attendance_sessions (user_id) WHERE end_time IS NULL`,
	).Error
}

// FirstEmployeeID is where badge numbers start.
const FirstEmployeeID = 25001

// NextEmployeeID allocates the next badge number. Call inside the same
// transaction that creates the user.
func NextEmployeeID(tx *gorm.DB) (int, error) {
	var max *int
	if err := tx.Model(&models.User{}).Select("MAX(employee_id)").Scan(&max).Error; err != nil {
		return 0, err
	}
	if max == nil || *max < FirstEmployeeID {
		return FirstEmployeeID, nil
	}
	return *max + 1, nil
}

// SeedAdmin creates the first admin account when the users table is empty.
func SeedAdmin(db *gorm.DB, email, password string) error {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		empID, err := NextEmployeeID(tx)
		if err != nil {
			return err
		}
		admin := models.User{
			EmployeeID:   empID,
			Name:         "Administrator",
			Email:        email,
			Role:         models.RoleAdmin,
			Status:       models.StatusActive,
			PasswordHash: hash,
		}
		if err := tx.Create(&admin).Error; err != nil {
			return err
		}
		log.Printf("seeded admin account %s (employee %d)", email, empID)
		return nil
	})
}
