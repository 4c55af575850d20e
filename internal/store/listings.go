package store

import (
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"

	"shelterly/server/internal/kvstore"
	"shelterly/server/internal/models"
)

const cacheKey = "listings/active"

// jitter keeps fallback coordinates from stacking every unknown listing
// on the exact same point (roughly ±500m).
const jitterDegrees = 0.005

// Fetcher is the remote collection read behind the listing store.
type Fetcher interface {
	FetchActive() ([]models.Listing, error)
}

type cachedListings struct {
	Entries   []models.Listing `json:"entries"`
	FetchedAt time.Time        `json:"fetched_at"`
}

// ListingStore serves the active listing set, preferring a non-expired
// local cache over a remote fetch. Fetch failures degrade to an empty set
// so callers can render a no-results state instead of crashing.
type ListingStore struct {
	fetcher  Fetcher
	cache    kvstore.Store
	ttl      time.Duration
	fallback models.Coordinates
	logger   *logrus.Logger
	now      func() time.Time
}

func NewListingStore(fetcher Fetcher, cache kvstore.Store, ttl time.Duration, fallback models.Coordinates, logger *logrus.Logger) *ListingStore {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &ListingStore{
		fetcher:  fetcher,
		cache:    cache,
		ttl:      ttl,
		fallback: fallback,
		logger:   logger,
		now:      time.Now,
	}
}

// GetListings returns the cached entries when they are fresher than the
// TTL and performs a remote fetch otherwise. The result is never nil.
func (s *ListingStore) GetListings() []models.Listing {
	var cached cachedListings
	found, err := s.cache.Get(cacheKey, &cached)
	if err != nil {
		// Corrupt cache entries are cleared and treated as a miss.
		s.logger.WithError(err).Warn("Discarding corrupt listing cache")
		if delErr := s.cache.Delete(cacheKey); delErr != nil {
			s.logger.WithError(delErr).Error("Failed to clear corrupt listing cache")
		}
	} else if found && s.now().Sub(cached.FetchedAt) < s.ttl {
		return cached.Entries
	}

	listings, err := s.fetcher.FetchActive()
	if err != nil {
		s.logger.WithError(err).Error("Failed to fetch listings")
		return []models.Listing{}
	}

	active := make([]models.Listing, 0, len(listings))
	for _, listing := range listings {
		if listing.Status != models.StatusActive {
			continue
		}
		if listing.Coordinates == nil {
			listing.Coordinates = s.fallbackCoordinates()
		}
		active = append(active, listing)
	}

	if err := s.cache.Set(cacheKey, cachedListings{Entries: active, FetchedAt: s.now()}); err != nil {
		s.logger.WithError(err).Error("Failed to cache listings")
	}
	return active
}

// Invalidate forces the next GetListings to bypass the cache.
func (s *ListingStore) Invalidate() {
	if err := s.cache.Delete(cacheKey); err != nil {
		s.logger.WithError(err).Error("Failed to invalidate listing cache")
	}
}

func (s *ListingStore) fallbackCoordinates() *models.Coordinates {
	return &models.Coordinates{
		Latitude:    s.fallback.Latitude + (rand.Float64()*2-1)*jitterDegrees,
		Longitude:   s.fallback.Longitude + (rand.Float64()*2-1)*jitterDegrees,
		Approximate: true,
	}
}
