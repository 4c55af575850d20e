package relay

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"shelterly/server/internal/fcm"
	"shelterly/server/internal/models"
)

// Sender delivers a push notification to a set of registration tokens.
type Sender interface {
	Send(tokens []string, msg fcm.Message) error
}

// Messenger mirrors signup events to an operator channel.
type Messenger interface {
	NotifySignup(userID, title, body string) error
}

// Options are the retry and retention knobs.
type Options struct {
	MaxRetries    int
	RetryDelay    time.Duration
	RetentionDays int
}

// Relay dispatches pending notification records: device IDs resolve to
// messaging tokens, the message goes out via FCM, signups are mirrored to
// Telegram, and the record's status fields are updated either way.
type Relay struct {
	store     Store
	sender    Sender
	messenger Messenger
	opts      Options
	logger    *logrus.Logger
}

func NewRelay(store Store, sender Sender, messenger Messenger, opts Options, logger *logrus.Logger) *Relay {
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 3
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = 5 * time.Second
	}
	if opts.RetentionDays <= 0 {
		opts.RetentionDays = 30
	}
	return &Relay{
		store:     store,
		sender:    sender,
		messenger: messenger,
		opts:      opts,
		logger:    logger,
	}
}

// HandleBatch is the queue subscriber: it dispatches freshly created
// records without waiting for the next sweep.
func (r *Relay) HandleBatch(batch []*models.Notification) error {
	for _, n := range batch {
		r.dispatch(*n)
	}
	return nil
}

// ProcessPending sweeps every pending record once.
func (r *Relay) ProcessPending() error {
	pending, err := r.store.Pending()
	if err != nil {
		r.logger.WithError(err).Error("Failed to load pending notifications")
		return err
	}

	for _, n := range pending {
		r.dispatch(n)
	}
	return nil
}

// dispatch sends one record and records the outcome on it. Dispatch never
// returns an error; failures end up in the status fields.
func (r *Relay) dispatch(n models.Notification) {
	log := r.logger.WithFields(logrus.Fields{
		"notification_id": n.ID,
		"user_id":         n.UserID,
	})

	tokens, err := r.store.TokensFor(n.DeviceIDs())
	if err != nil {
		log.WithError(err).Error("Failed to resolve device tokens")
		r.markStatus(n.ID, models.NotificationFailed, fmt.Sprintf("token lookup failed: %v", err))
		return
	}
	if len(tokens) == 0 {
		log.Warn("No registered devices for notification")
		r.markStatus(n.ID, models.NotificationFailed, "no registered devices")
		return
	}

	msg := fcm.Message{
		Title:       n.Title,
		Body:        n.Body,
		Icon:        n.Icon,
		ClickAction: n.ClickAction,
	}

	err = r.sendWithRetry(tokens, msg)
	if err != nil {
		log.WithError(err).Error("Failed to deliver notification")
		r.markStatus(n.ID, models.NotificationFailed, err.Error())
		return
	}

	r.markStatus(n.ID, models.NotificationSent, fmt.Sprintf("delivered to %d devices", len(tokens)))
	log.WithField("devices", len(tokens)).Info("Notification delivered")

	if n.Kind == models.KindSignup && r.messenger != nil {
		if err := r.messenger.NotifySignup(n.UserID, n.Title, n.Body); err != nil {
			log.WithError(err).Error("Failed to mirror signup to Telegram")
		}
	}
}

func (r *Relay) sendWithRetry(tokens []string, msg fcm.Message) error {
	var err error
	for attempt := 0; attempt < r.opts.MaxRetries; attempt++ {
		if attempt > 0 {
			r.logger.Infof("Retrying notification send, attempt %d of %d", attempt+1, r.opts.MaxRetries)
			time.Sleep(r.opts.RetryDelay)
		}

		if err = r.sender.Send(tokens, msg); err == nil {
			return nil
		}
	}
	return fmt.Errorf("failed to send after %d attempts: %w", r.opts.MaxRetries, err)
}

func (r *Relay) markStatus(id string, status models.NotificationStatus, message string) {
	if err := r.store.MarkStatus(id, status, message); err != nil {
		r.logger.WithError(err).WithField("notification_id", id).Error("Failed to update notification status")
	}
}

// CleanupOld deletes notification records older than the retention window.
func (r *Relay) CleanupOld() {
	cutoff := time.Now().UTC().AddDate(0, 0, -r.opts.RetentionDays)
	deleted, err := r.store.DeleteOlderThan(cutoff)
	if err != nil {
		r.logger.WithError(err).Error("Failed to clean up old notifications")
		return
	}
	r.logger.WithFields(logrus.Fields{
		"deleted": deleted,
		"cutoff":  cutoff.Format(time.RFC3339),
	}).Info("Cleaned up old notifications")
}
