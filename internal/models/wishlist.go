package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ListingSnapshot is the reduced projection of a listing captured when it
// is added to a wishlist. It is deliberately stale-tolerant: later edits
// to the listing do not update existing snapshots.
type ListingSnapshot struct {
	Name            string      `json:"name"`
	Address         string      `json:"address"`
	Gender          Gender      `json:"gender"`
	PhotoURL        string      `json:"photo_url,omitempty"`
	TierPrices      map[int]int `json:"tier_prices,omitempty"`
	Rating          *float64    `json:"rating,omitempty"`
	ReviewCount     int         `json:"review_count,omitempty"`
	Verified        bool        `json:"verified"`
	DiscountPercent int         `json:"discount_percent,omitempty"`
}

// WishlistEntry is one saved listing for one user. At most one entry may
// exist per (user, listing) pair.
type WishlistEntry struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"not null;uniqueIndex:idx_wishlist_user_listing"`
	ListingID string    `json:"listing_id" gorm:"not null;uniqueIndex:idx_wishlist_user_listing"`
	Snapshot  string    `json:"-" gorm:"type:text"`
	AddedAt   time.Time `json:"added_at"`
}

func (WishlistEntry) TableName() string {
	return "wishlist_entries"
}

// NewWishlistEntry captures a snapshot of the listing for the given user.
func NewWishlistEntry(userID string, listing Listing) WishlistEntry {
	prices := make(map[int]int)
	for i, tier := range listing.Tiers() {
		if tier != nil && tier.Available {
			prices[i+1] = tier.Price
		}
	}
	snap := ListingSnapshot{
		Name:            listing.Name,
		Address:         listing.Address,
		Gender:          listing.Gender,
		PhotoURL:        listing.FirstPhotoURL(),
		TierPrices:      prices,
		Rating:          listing.Rating,
		ReviewCount:     listing.ReviewCount,
		Verified:        listing.Verified,
		DiscountPercent: listing.DiscountPercent,
	}
	data, _ := json.Marshal(snap)
	return WishlistEntry{
		ID:        uuid.NewString(),
		UserID:    userID,
		ListingID: listing.ID,
		Snapshot:  string(data),
		AddedAt:   time.Now().UTC(),
	}
}

// ListingSnapshot decodes the stored snapshot. Corrupt snapshots decode to
// the zero value rather than failing the whole wishlist read.
func (e *WishlistEntry) ListingSnapshot() ListingSnapshot {
	var snap ListingSnapshot
	_ = json.Unmarshal([]byte(e.Snapshot), &snap)
	return snap
}
