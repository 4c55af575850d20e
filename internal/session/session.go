package session

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// Tracker holds the current visitor identity and notifies observers on
// transitions. The anonymous-to-authenticated transition is modeled
// explicitly so the view gate reset and wishlist refresh never depend on
// incidental ordering elsewhere.
type Tracker struct {
	mu       sync.RWMutex
	userID   string
	onLogin  []func(userID string)
	onLogout []func()
	logger   *logrus.Logger
}

func NewTracker(logger *logrus.Logger) *Tracker {
	return &Tracker{logger: logger}
}

// Current returns the authenticated user ID, if any.
func (t *Tracker) Current() (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.userID, t.userID != ""
}

func (t *Tracker) Authenticated() bool {
	_, ok := t.Current()
	return ok
}

// OnLogin registers an observer for the anonymous-to-authenticated
// transition.
func (t *Tracker) OnLogin(fn func(userID string)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onLogin = append(t.onLogin, fn)
}

// OnLogout registers an observer for the authenticated-to-anonymous
// transition.
func (t *Tracker) OnLogout(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onLogout = append(t.onLogout, fn)
}

// Login records the authenticated identity. Observers fire once per
// transition; logging in again as the same user is a no-op.
func (t *Tracker) Login(userID string) {
	if userID == "" {
		return
	}

	t.mu.Lock()
	if t.userID == userID {
		t.mu.Unlock()
		return
	}
	t.userID = userID
	handlers := t.onLogin
	t.mu.Unlock()

	t.logger.WithField("user_id", userID).Info("User authenticated")
	for _, fn := range handlers {
		fn(userID)
	}
}

// Logout clears the identity and notifies logout observers.
func (t *Tracker) Logout() {
	t.mu.Lock()
	if t.userID == "" {
		t.mu.Unlock()
		return
	}
	userID := t.userID
	t.userID = ""
	handlers := t.onLogout
	t.mu.Unlock()

	t.logger.WithField("user_id", userID).Info("User logged out")
	for _, fn := range handlers {
		fn()
	}
}
