package database

import (
	userRepo "github.com/vitalis-health/vitalis/internal/repository/user"
	"gorm.io/gorm"
)

func MigrateDB(db *gorm.DB) error {
	return db.AutoMigrate(
		&userRepo.UserEntity{},
	)
}
