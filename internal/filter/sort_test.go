package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"shelterly/server/internal/models"
)

func sortFixture() []models.Listing {
	return []models.Listing{
		{
			ID:         "mid",
			OneSharing: &models.SharingTier{Available: true, Price: 9000},
			Rating:     floatPtr(4.0),
		},
		{
			// No available tier, so no defined price
			ID:         "unpriced",
			OneSharing: &models.SharingTier{Available: false, Price: 100},
		},
		{
			ID:         "cheap",
			TwoSharing: &models.SharingTier{Available: true, Price: 5000},
			Rating:     floatPtr(4.8),
		},
		{
			ID:          "costly",
			ThreeSharing: &models.SharingTier{Available: true, Price: 15000},
		},
	}
}

func ids(listings []models.Listing) []string {
	out := make([]string, len(listings))
	for i, l := range listings {
		out[i] = l.ID
	}
	return out
}

func TestSortListings_PriceAscending(t *testing.T) {
	sorted := SortListings(sortFixture(), SortPriceAsc)
	assert.Equal(t, []string{"cheap", "mid", "costly", "unpriced"}, ids(sorted))
}

func TestSortListings_PriceDescending(t *testing.T) {
	sorted := SortListings(sortFixture(), SortPriceDesc)
	assert.Equal(t, []string{"costly", "mid", "cheap", "unpriced"}, ids(sorted))
}

func TestSortListings_RatingDescending(t *testing.T) {
	sorted := SortListings(sortFixture(), SortRatingDesc)
	// Unrated listings keep their relative order at the end
	assert.Equal(t, []string{"cheap", "mid", "unpriced", "costly"}, ids(sorted))
}

func TestSortListings_NoneIsIdentity(t *testing.T) {
	fixture := sortFixture()
	sorted := SortListings(fixture, SortNone)
	assert.Equal(t, ids(fixture), ids(sorted))
}

func TestSortListings_DoesNotMutateInput(t *testing.T) {
	fixture := sortFixture()
	_ = SortListings(fixture, SortPriceAsc)
	assert.Equal(t, "mid", fixture[0].ID)
}
