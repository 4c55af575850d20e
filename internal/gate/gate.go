package gate

import (
	"sync"

	"github.com/sirupsen/logrus"

	"shelterly/server/internal/kvstore"
)

const (
	idsKey   = "viewgate/ids"
	countKey = "viewgate/count"
)

// ViewGate enforces the free-view limit: an unauthenticated visitor may
// open at most freeLimit distinct listings before being asked to log in.
// This is a soft client-scoped gate, not a security boundary.
type ViewGate struct {
	store  kvstore.Store
	limit  int
	authed func() bool
	logger *logrus.Logger
	mu     sync.Mutex
}

func NewViewGate(store kvstore.Store, limit int, authed func() bool, logger *logrus.Logger) *ViewGate {
	if limit <= 0 {
		limit = 3
	}
	return &ViewGate{
		store:  store,
		limit:  limit,
		authed: authed,
		logger: logger,
	}
}

// RecordView marks a listing as viewed. Authenticated visitors are never
// counted, and recording the same listing twice is a no-op.
func (g *ViewGate) RecordView(listingID string) {
	if listingID == "" || g.authed() {
		return
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	ids := g.load()
	for _, id := range ids {
		if id == listingID {
			return
		}
	}
	g.save(append(ids, listingID))
}

// HasViewed reports whether a listing has already been counted.
func (g *ViewGate) HasViewed(listingID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, id := range g.load() {
		if id == listingID {
			return true
		}
	}
	return false
}

// HasExceededLimit is true iff the visitor is unauthenticated and has
// viewed at least the free limit of distinct listings.
func (g *ViewGate) HasExceededLimit() bool {
	if g.authed() {
		return false
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.load()) >= g.limit
}

// ViewedCount returns the number of distinct listings viewed.
func (g *ViewGate) ViewedCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.load())
}

// Reset clears the gate. The session tracker calls this on the
// anonymous-to-authenticated transition.
func (g *ViewGate) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.store.Delete(idsKey); err != nil {
		g.logger.WithError(err).Error("Failed to clear viewed listings")
	}
	if err := g.store.Delete(countKey); err != nil {
		g.logger.WithError(err).Error("Failed to clear view count")
	}
}

// load reads the viewed ID set. Corrupt state is cleared and treated as
// empty; the count is always derived from the set, never read back, so
// the count==len(ids) invariant holds even after partial writes.
func (g *ViewGate) load() []string {
	var ids []string
	found, err := g.store.Get(idsKey, &ids)
	if err != nil {
		g.logger.WithError(err).Warn("Discarding corrupt view gate state")
		if delErr := g.store.Delete(idsKey); delErr != nil {
			g.logger.WithError(delErr).Error("Failed to clear corrupt view gate state")
		}
		return nil
	}
	if !found {
		return nil
	}
	return ids
}

func (g *ViewGate) save(ids []string) {
	if err := g.store.Set(idsKey, ids); err != nil {
		g.logger.WithError(err).WithField("count", len(ids)).Error("Failed to persist viewed listings")
		return
	}
	if err := g.store.Set(countKey, len(ids)); err != nil {
		g.logger.WithError(err).Error("Failed to persist view count")
	}
}
