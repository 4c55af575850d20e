package wishlist

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"shelterly/server/internal/models"
)

// GormBackend persists wishlist entries in the user database.
type GormBackend struct {
	db *gorm.DB
}

func NewGormBackend(db *gorm.DB) *GormBackend {
	return &GormBackend{db: db}
}

// Upsert writes the entry, overwriting any existing row for the same
// (user, listing) pair so a concurrent double-add cannot duplicate.
func (b *GormBackend) Upsert(entry models.WishlistEntry) error {
	err := b.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "listing_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"snapshot", "added_at"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("failed to upsert wishlist entry: %w", err)
	}
	return nil
}

func (b *GormBackend) Delete(userID, listingID string) error {
	err := b.db.
		Where("user_id = ? AND listing_id = ?", userID, listingID).
		Delete(&models.WishlistEntry{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete wishlist entry: %w", err)
	}
	return nil
}

func (b *GormBackend) ListByUser(userID string) ([]models.WishlistEntry, error) {
	var entries []models.WishlistEntry
	err := b.db.
		Where("user_id = ?", userID).
		Order("added_at DESC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list wishlist entries: %w", err)
	}
	return entries, nil
}
