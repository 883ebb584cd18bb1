package database

import (
	"fmt"

	"learning-app/internal/domain/explorations"
	"learning-app/internal/domain/rights"
	"learning-app/internal/domain/users"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Open connects to Postgres and migrates the schema.
func Open(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("DB_URL not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate auto-migrates every domain model. It is dialect independent.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		// accounts
		&users.User{},
		&users.VerificationToken{},

		// content
		&explorations.Exploration{},
		&rights.ExplorationRights{},
		&rights.RoleAssignment{},
	); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}
