package wishlist

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"

	"shelterly/server/internal/models"
)

// ErrNotAuthenticated is returned when a wishlist operation is invoked
// without a logged-in user. The store never fabricates a user-scoped
// record for anonymous visitors.
var ErrNotAuthenticated = errors.New("wishlist requires an authenticated user")

// Backend is the remote persistence behind the wishlist.
type Backend interface {
	Upsert(entry models.WishlistEntry) error
	Delete(userID, listingID string) error
	ListByUser(userID string) ([]models.WishlistEntry, error)
}

// Store manages the authenticated user's saved listings.
//
// Update discipline: add is confirmed (the local set changes only after
// the backend write succeeds), remove is optimistic (the local set changes
// first and a failed delete is logged). Refresh is the reconciliation path
// for any divergence either way.
type Store struct {
	backend  Backend
	identity func() (string, bool)
	logger   *logrus.Logger

	mu      sync.RWMutex
	entries map[string]models.WishlistEntry // keyed by listing ID
}

func NewStore(backend Backend, identity func() (string, bool), logger *logrus.Logger) *Store {
	return &Store{
		backend:  backend,
		identity: identity,
		logger:   logger,
		entries:  make(map[string]models.WishlistEntry),
	}
}

// AddItem snapshots the listing and saves it for the current user. Adding
// a listing that is already saved is a no-op, so a double-clicked add can
// never produce two entries.
func (s *Store) AddItem(listing models.Listing) error {
	userID, ok := s.identity()
	if !ok {
		return ErrNotAuthenticated
	}

	s.mu.RLock()
	_, exists := s.entries[listing.ID]
	s.mu.RUnlock()
	if exists {
		return nil
	}

	entry := models.NewWishlistEntry(userID, listing)
	if err := s.backend.Upsert(entry); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"user_id":    userID,
			"listing_id": listing.ID,
		}).Error("Failed to add wishlist entry")
		return fmt.Errorf("failed to add wishlist entry: %w", err)
	}

	s.mu.Lock()
	s.entries[listing.ID] = entry
	s.mu.Unlock()
	return nil
}

// RemoveItem deletes the entry for the listing if present. The local set
// updates before the backend confirms; Refresh repairs a failed delete.
func (s *Store) RemoveItem(listingID string) error {
	userID, ok := s.identity()
	if !ok {
		return ErrNotAuthenticated
	}

	s.mu.Lock()
	delete(s.entries, listingID)
	s.mu.Unlock()

	if err := s.backend.Delete(userID, listingID); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"user_id":    userID,
			"listing_id": listingID,
		}).Error("Failed to remove wishlist entry")
	}
	return nil
}

// IsInWishlist checks membership against the currently loaded set.
func (s *Store) IsInWishlist(listingID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.entries[listingID]
	return ok
}

// Items returns the loaded entries, most recently added first.
func (s *Store) Items() []models.WishlistEntry {
	s.mu.RLock()
	items := make([]models.WishlistEntry, 0, len(s.entries))
	for _, entry := range s.entries {
		items = append(items, entry)
	}
	s.mu.RUnlock()

	sort.Slice(items, func(i, j int) bool {
		return items[i].AddedAt.After(items[j].AddedAt)
	})
	return items
}

// Refresh replaces the local set with the backend's view for the current
// user. Called on login and whenever local and remote state may diverge.
func (s *Store) Refresh() error {
	userID, ok := s.identity()
	if !ok {
		s.Clear()
		return nil
	}

	entries, err := s.backend.ListByUser(userID)
	if err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Error("Failed to refresh wishlist")
		return fmt.Errorf("failed to refresh wishlist: %w", err)
	}

	loaded := make(map[string]models.WishlistEntry, len(entries))
	for _, entry := range entries {
		loaded[entry.ListingID] = entry
	}

	s.mu.Lock()
	s.entries = loaded
	s.mu.Unlock()
	return nil
}

// Clear drops the local set. Called on logout.
func (s *Store) Clear() {
	s.mu.Lock()
	s.entries = make(map[string]models.WishlistEntry)
	s.mu.Unlock()
}
