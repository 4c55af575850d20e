package filter

import (
	"sort"

	"shelterly/server/internal/models"
)

// SortKey selects the ordering of a listing set.
type SortKey string

const (
	SortNone       SortKey = ""
	SortPriceAsc   SortKey = "price_asc"
	SortPriceDesc  SortKey = "price_desc"
	SortRatingDesc SortKey = "rating_desc"
)

// SortListings returns a sorted copy of the listings. Price keys use the
// minimum available-tier price; listings with no defined price sort last
// regardless of direction, as do unrated listings for the rating key.
func SortListings(listings []models.Listing, key SortKey) []models.Listing {
	if key == SortNone {
		return listings
	}

	sorted := make([]models.Listing, len(listings))
	copy(sorted, listings)

	switch key {
	case SortPriceAsc:
		sort.SliceStable(sorted, func(i, j int) bool {
			return lessByPrice(&sorted[i], &sorted[j], false)
		})
	case SortPriceDesc:
		sort.SliceStable(sorted, func(i, j int) bool {
			return lessByPrice(&sorted[i], &sorted[j], true)
		})
	case SortRatingDesc:
		sort.SliceStable(sorted, func(i, j int) bool {
			ri, rj := sorted[i].Rating, sorted[j].Rating
			if ri == nil {
				return false
			}
			if rj == nil {
				return true
			}
			return *ri > *rj
		})
	}
	return sorted
}

func lessByPrice(a, b *models.Listing, descending bool) bool {
	pa, oka := a.MinPrice()
	pb, okb := b.MinPrice()
	if !oka {
		return false
	}
	if !okb {
		return true
	}
	if descending {
		return pa > pb
	}
	return pa < pb
}
