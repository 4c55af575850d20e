package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// NotificationStatus is the delivery state of a notification record.
// Only pending records are picked up by the relay.
type NotificationStatus string

const (
	NotificationPending NotificationStatus = "pending"
	NotificationSent    NotificationStatus = "sent"
	NotificationFailed  NotificationStatus = "failed"
)

// NotificationKind distinguishes plain push notifications from signup
// events, which are additionally mirrored to Telegram.
type NotificationKind string

const (
	KindNotification NotificationKind = "notification"
	KindSignup       NotificationKind = "signup"
)

// Notification is one dispatchable push-notification record. Devices is a
// JSON-encoded array of device IDs; each device ID resolves to a messaging
// token through the fcm_tokens table.
type Notification struct {
	ID            string             `json:"id" gorm:"primaryKey"`
	UserID        string             `json:"user_id" gorm:"index"`
	Kind          NotificationKind   `json:"kind"`
	Devices       string             `json:"-" gorm:"type:text"`
	Title         string             `json:"title"`
	Body          string             `json:"body"`
	Icon          string             `json:"icon,omitempty"`
	ClickAction   string             `json:"click_action,omitempty"`
	Status        NotificationStatus `json:"status" gorm:"index"`
	StatusMessage string             `json:"status_message,omitempty"`
	CreatedAt     time.Time          `json:"created_at" gorm:"index"`
}

func (Notification) TableName() string {
	return "notifications"
}

// NewNotification creates a pending record for the given devices.
func NewNotification(userID string, kind NotificationKind, devices []string, title, body, icon, clickAction string) Notification {
	n := Notification{
		ID:          uuid.NewString(),
		UserID:      userID,
		Kind:        kind,
		Title:       title,
		Body:        body,
		Icon:        icon,
		ClickAction: clickAction,
		Status:      NotificationPending,
		CreatedAt:   time.Now().UTC(),
	}
	n.SetDeviceIDs(devices)
	return n
}

// DeviceIDs decodes the stored device ID array. A corrupt column decodes
// to an empty list.
func (n *Notification) DeviceIDs() []string {
	var ids []string
	_ = json.Unmarshal([]byte(n.Devices), &ids)
	return ids
}

func (n *Notification) SetDeviceIDs(ids []string) {
	data, _ := json.Marshal(ids)
	n.Devices = string(data)
}

// FCMToken maps a registered device to its messaging token.
type FCMToken struct {
	DeviceID  string    `json:"device_id" gorm:"primaryKey"`
	Token     string    `json:"token" gorm:"not null"`
	UserID    string    `json:"user_id" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (FCMToken) TableName() string {
	return "fcm_tokens"
}
