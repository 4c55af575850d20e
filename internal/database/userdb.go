package database

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"shelterly/server/internal/models"
)

// OpenUserDB opens the gorm-managed database holding the per-user tables:
// wishlist entries, notifications and FCM tokens.
func OpenUserDB(dbPath string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open user database: %w", err)
	}

	if err := db.AutoMigrate(
		&models.WishlistEntry{},
		&models.Notification{},
		&models.FCMToken{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate user database: %w", err)
	}

	return db, nil
}
