package database

import "quorum/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models,
// ordered so referenced tables are created first.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Profile{},
		&models.Question{},
		&models.Answer{},
		&models.Like{},
	}
}
