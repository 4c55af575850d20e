package fcm

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

const defaultEndpoint = "https://fcm.googleapis.com/fcm/send"

// Message is the notification payload shown on a device.
type Message struct {
	Title       string `json:"title"`
	Body        string `json:"body"`
	Icon        string `json:"icon,omitempty"`
	ClickAction string `json:"click_action,omitempty"`
}

// Client sends push notifications through Firebase Cloud Messaging.
type Client struct {
	logger    *logrus.Logger
	client    *http.Client
	serverKey string
	endpoint  string
	enabled   bool
}

func NewClient(logger *logrus.Logger, serverKey string, enabled bool) *Client {
	return &Client{
		logger: logger,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		serverKey: serverKey,
		endpoint:  defaultEndpoint,
		enabled:   enabled,
	}
}

// SetEndpoint overrides the FCM endpoint. Tests point this at a local
// server.
func (c *Client) SetEndpoint(endpoint string) {
	c.endpoint = endpoint
}

// Send delivers the message to every registration token.
func (c *Client) Send(tokens []string, msg Message) error {
	if !c.enabled {
		return nil
	}

	if c.serverKey == "" {
		return errors.New("FCM server key is not configured")
	}

	if len(tokens) == 0 {
		return errors.New("no registration tokens to send to")
	}

	payload := map[string]interface{}{
		"registration_ids": tokens,
		"notification":     msg,
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal FCM payload: %v", err)
	}

	req, err := http.NewRequest(http.MethodPost, c.endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create FCM request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "key="+c.serverKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send message to FCM: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		switch resp.StatusCode {
		case http.StatusUnauthorized:
			return errors.New("invalid FCM server key")
		case http.StatusBadRequest:
			return fmt.Errorf("invalid FCM payload: %s", string(body))
		default:
			return fmt.Errorf("FCM API error (status %d): %s", resp.StatusCode, string(body))
		}
	}

	c.logger.WithField("tokens", len(tokens)).Debug("Sent FCM notification")
	return nil
}
