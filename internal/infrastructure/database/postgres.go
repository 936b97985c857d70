package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Holocron-Auth/holocron-core/internal/infrastructure/repositories"
)

// Open creates a new database connection with production-ready settings
func Open(dsn string) (*gorm.DB, error) {
	config := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}

	return gorm.Open(postgres.Open(dsn), config)
}

// AutoMigrate performs database migration for all core tables
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&repositories.DBUser{},
		&repositories.DBOneTimeToken{},
		&repositories.DBRegisteredApp{},
		&repositories.DBAuthorizedDomain{},
		&repositories.DBLoginRequest{},
		&repositories.DBConnectedApp{},
		&repositories.DBAuthorizationToken{},
		&repositories.DBAccessToken{},
		&repositories.DBRefreshToken{},
	); err != nil {
		return fmt.Errorf("failed to migrate core tables: %w", err)
	}
	return nil
}
