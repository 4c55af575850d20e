package relay

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"shelterly/server/internal/models"
)

// Store is the persistence the relay works against.
type Store interface {
	Create(n *models.Notification) error
	Pending() ([]models.Notification, error)
	MarkStatus(id string, status models.NotificationStatus, message string) error
	TokensFor(deviceIDs []string) ([]string, error)
	DeleteOlderThan(cutoff time.Time) (int64, error)
}

// GormStore implements Store on the user database.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Create(n *models.Notification) error {
	if err := s.db.Create(n).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// Pending returns records awaiting dispatch, oldest first.
func (s *GormStore) Pending() ([]models.Notification, error) {
	var notifications []models.Notification
	err := s.db.
		Where("status = ?", models.NotificationPending).
		Order("created_at ASC").
		Find(&notifications).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load pending notifications: %w", err)
	}
	return notifications, nil
}

func (s *GormStore) MarkStatus(id string, status models.NotificationStatus, message string) error {
	err := s.db.Model(&models.Notification{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":         status,
			"status_message": message,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update notification %s: %w", id, err)
	}
	return nil
}

// TokensFor resolves device IDs to messaging tokens. Unknown devices are
// skipped silently; the caller decides what an empty result means.
func (s *GormStore) TokensFor(deviceIDs []string) ([]string, error) {
	if len(deviceIDs) == 0 {
		return nil, nil
	}

	var rows []models.FCMToken
	err := s.db.Where("device_id IN ?", deviceIDs).Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to resolve device tokens: %w", err)
	}

	tokens := make([]string, 0, len(rows))
	for _, row := range rows {
		if row.Token != "" {
			tokens = append(tokens, row.Token)
		}
	}
	return tokens, nil
}

// DeleteOlderThan removes notification records created before the cutoff.
func (s *GormStore) DeleteOlderThan(cutoff time.Time) (int64, error) {
	result := s.db.
		Where("created_at < ?", cutoff).
		Delete(&models.Notification{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete old notifications: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// RegisterToken stores or refreshes a device token.
func (s *GormStore) RegisterToken(deviceID, token, userID string) error {
	row := models.FCMToken{
		DeviceID:  deviceID,
		Token:     token,
		UserID:    userID,
		UpdatedAt: time.Now().UTC(),
	}
	if err := s.db.Save(&row).Error; err != nil {
		return fmt.Errorf("failed to register token for device %s: %w", deviceID, err)
	}
	return nil
}
