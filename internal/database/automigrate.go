package database

import (
	"fmt"

	"gorm.io/gorm"

	"todo-hub-api/internal/domain"
)

// AutoMigrate creates or updates the schema for all persisted models.
// The board tree lives inside the projects row as a JSON document, so
// projects is the only table.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&domain.Project{}); err != nil {
		return fmt.Errorf("failed to run auto-migration: %w", err)
	}
	return nil
}
