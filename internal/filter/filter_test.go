package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"shelterly/server/internal/models"
)

func floatPtr(v float64) *float64 { return &v }

func testListings() []models.Listing {
	return []models.Listing{
		{
			ID:       "pg-1",
			Name:     "Sunrise Comforts",
			Address:  "80 Feet Road, Koramangala 4th Block",
			Locality: "Koramangala",
			Gender:   models.GenderMale,
			Status:   models.StatusActive,
			Coordinates: &models.Coordinates{
				Latitude:  12.9352,
				Longitude: 77.6245,
			},
			NearestCollege: "St. Joseph's University",
			OneSharing:     &models.SharingTier{Available: true, Price: 12000},
			TwoSharing:     &models.SharingTier{Available: true, Price: 8500},
			Amenities: models.Amenities{
				WiFi: true, Food: true, WashingMachine: true,
				Washroom: models.WashroomAttached,
			},
			Rating:   floatPtr(4.6),
			Verified: true,
		},
		{
			ID:       "pg-2",
			Name:     "Green Nest PG",
			Address:  "27th Main, HSR Layout Sector 1",
			Locality: "HSR Layout",
			Gender:   models.GenderFemale,
			Status:   models.StatusActive,
			Coordinates: &models.Coordinates{
				Latitude:  12.9121,
				Longitude: 77.6446,
			},
			TwoSharing:   &models.SharingTier{Available: true, Price: 6500},
			ThreeSharing: &models.SharingTier{Available: true, Price: 5500},
			Amenities: models.Amenities{
				Food: true, Housekeeping: true, Parking: true,
			},
			Rating: floatPtr(4.1),
		},
		{
			// No coordinates and no available tier
			ID:          "pg-3",
			Name:        "Metro Residency",
			Address:     "Outer Ring Road, Marathahalli",
			Locality:    "Marathahalli",
			Gender:      models.GenderUnisex,
			Status:      models.StatusActive,
			OneSharing:  &models.SharingTier{Available: false, Price: 4000},
			FourSharing: &models.SharingTier{Available: false, Price: 3000},
			Amenities:   models.Amenities{WiFi: true},
		},
	}
}

func TestFilter_EmptySpecIsIdentity(t *testing.T) {
	engine := NewEngine(0, 0, 0)
	listings := testListings()

	result := engine.Filter(listings, Spec{})
	assert.Equal(t, listings, result)

	result = engine.Filter([]models.Listing{}, Spec{FreeText: "anything"})
	assert.Empty(t, result)
}

func TestFilter_FreeTextSubChecksCombineAsOR(t *testing.T) {
	engine := NewEngine(0, 0, 0)

	// "hsr" misses pg-2's name but hits its address and locality
	result := engine.Filter(testListings(), Spec{FreeText: "hsr"})
	assert.Len(t, result, 1)
	assert.Equal(t, "pg-2", result[0].ID)
}

func TestFilter_SpecFieldsCombineAsAND(t *testing.T) {
	engine := NewEngine(0, 0, 0)

	// pg-1 matches the location but its minimum price (8500) does not fit
	spec := Spec{
		LocationName: "Koramangala",
		PriceRange:   &PriceRange{Min: 5000, Max: 8000},
	}
	result := engine.Filter(testListings(), spec)
	assert.Empty(t, result)

	// Widening the range brings pg-1 back
	spec.PriceRange = &PriceRange{Min: 5000, Max: 9000}
	result = engine.Filter(testListings(), spec)
	assert.Len(t, result, 1)
	assert.Equal(t, "pg-1", result[0].ID)
}

func TestFilter_FreeTextAmenitySynonyms(t *testing.T) {
	engine := NewEngine(0, 0, 0)

	tests := []struct {
		query string
		ids   []string
	}{
		{"internet", []string{"pg-1", "pg-3"}},
		{"laundry", []string{"pg-1"}},
		{"cleaning", []string{"pg-2"}},
		{"bathroom", []string{"pg-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			result := engine.Filter(testListings(), Spec{FreeText: tt.query})
			ids := make([]string, 0, len(result))
			for _, l := range result {
				ids = append(ids, l.ID)
			}
			assert.ElementsMatch(t, tt.ids, ids)
		})
	}
}

func TestFilter_FreeTextSharingVocabulary(t *testing.T) {
	engine := NewEngine(0, 0, 0)

	result := engine.Filter(testListings(), Spec{FreeText: "single"})
	assert.Len(t, result, 1)
	assert.Equal(t, "pg-1", result[0].ID)

	// pg-3's one-sharing tier exists but is not available
	result = engine.Filter(testListings(), Spec{FreeText: "triple"})
	assert.Len(t, result, 1)
	assert.Equal(t, "pg-2", result[0].ID)
}

func TestFilter_FreeTextPriceVocabulary(t *testing.T) {
	engine := NewEngine(0, 0, 0)

	// pg-1 (8500) and pg-2 (5500) are under the budget threshold;
	// pg-3 has no defined price at all and never matches
	result := engine.Filter(testListings(), Spec{FreeText: "budget"})
	ids := make([]string, 0, len(result))
	for _, l := range result {
		ids = append(ids, l.ID)
	}
	assert.ElementsMatch(t, []string{"pg-1", "pg-2"}, ids)

	result = engine.Filter(testListings(), Spec{FreeText: "luxury"})
	assert.Len(t, result, 1)
	assert.Equal(t, "pg-1", result[0].ID)
}

func TestFilter_FreeTextInstitution(t *testing.T) {
	engine := NewEngine(0, 0, 0)

	result := engine.Filter(testListings(), Spec{FreeText: "st josephs"})
	assert.Len(t, result, 1)
	assert.Equal(t, "pg-1", result[0].ID)

	result = engine.Filter(testListings(), Spec{FreeText: "saint mary"})
	assert.Empty(t, result)
}

func TestFilter_GeoCenter(t *testing.T) {
	engine := NewEngine(5, 0, 0)

	// Koramangala center: pg-1 is on top of it, pg-2 is ~3.5km away,
	// pg-3 has no coordinates and never matches a geo filter
	result := engine.Filter(testListings(), Spec{
		GeoCenter: &GeoCenter{Lat: 12.9352, Lng: 77.6245},
	})
	ids := make([]string, 0, len(result))
	for _, l := range result {
		ids = append(ids, l.ID)
	}
	assert.ElementsMatch(t, []string{"pg-1", "pg-2"}, ids)

	// A tight radius keeps only the colocated listing
	tight := NewEngine(1, 0, 0)
	result = tight.Filter(testListings(), Spec{
		GeoCenter: &GeoCenter{Lat: 12.9352, Lng: 77.6245},
	})
	assert.Len(t, result, 1)
	assert.Equal(t, "pg-1", result[0].ID)
}

func TestFilter_Category(t *testing.T) {
	engine := NewEngine(0, 0, 0)

	tests := []struct {
		category Category
		ids      []string
	}{
		{CategoryVerified, []string{"pg-1"}},
		{CategoryPremium, []string{"pg-1"}},
		{CategoryMale, []string{"pg-1"}},
		{CategoryFemale, []string{"pg-2"}},
		{CategoryUnisex, []string{"pg-3"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			result := engine.Filter(testListings(), Spec{Category: tt.category})
			ids := make([]string, 0, len(result))
			for _, l := range result {
				ids = append(ids, l.ID)
			}
			assert.ElementsMatch(t, tt.ids, ids)
		})
	}
}

func TestFilter_PriceRangeExcludesUndefinedMinimum(t *testing.T) {
	engine := NewEngine(0, 0, 0)

	// pg-3's only tiers are unavailable, so it has no minimum price and
	// never matches a price filter, however wide
	result := engine.Filter(testListings(), Spec{
		PriceRange: &PriceRange{Min: 0, Max: 1000000},
	})
	ids := make([]string, 0, len(result))
	for _, l := range result {
		ids = append(ids, l.ID)
	}
	assert.ElementsMatch(t, []string{"pg-1", "pg-2"}, ids)
}

func TestFilter_RoomType(t *testing.T) {
	engine := NewEngine(0, 0, 0)

	result := engine.Filter(testListings(), Spec{RoomType: RoomOneSharing})
	assert.Len(t, result, 1)
	assert.Equal(t, "pg-1", result[0].ID)

	// pg-3's four-sharing tier is present but unavailable
	result = engine.Filter(testListings(), Spec{RoomType: RoomFourSharing})
	assert.Empty(t, result)
}

func TestFilter_AmenitiesAreConjunctive(t *testing.T) {
	engine := NewEngine(0, 0, 0)

	// Food alone matches two listings
	result := engine.Filter(testListings(), Spec{
		Amenities: &AmenityFilter{Food: true},
	})
	assert.Len(t, result, 2)

	// Food AND WiFi narrows to one
	result = engine.Filter(testListings(), Spec{
		Amenities: &AmenityFilter{Food: true, WiFi: true},
	})
	assert.Len(t, result, 1)
	assert.Equal(t, "pg-1", result[0].ID)
}

func TestFilter_MinRating(t *testing.T) {
	engine := NewEngine(0, 0, 0)

	result := engine.Filter(testListings(), Spec{MinRating: floatPtr(4.5)})
	assert.Len(t, result, 1)
	assert.Equal(t, "pg-1", result[0].ID)

	// Unrated listings never match a rating filter
	result = engine.Filter(testListings(), Spec{MinRating: floatPtr(0)})
	ids := make([]string, 0, len(result))
	for _, l := range result {
		ids = append(ids, l.ID)
	}
	assert.ElementsMatch(t, []string{"pg-1", "pg-2"}, ids)
}

func TestMinPrice_IgnoresUnavailableTiers(t *testing.T) {
	listing := models.Listing{
		OneSharing: &models.SharingTier{Available: true, Price: 8000},
		TwoSharing: &models.SharingTier{Available: false, Price: 5000},
	}

	price, ok := listing.MinPrice()
	assert.True(t, ok)
	assert.Equal(t, 8000, price)

	empty := models.Listing{
		OneSharing: &models.SharingTier{Available: false, Price: 4000},
	}
	_, ok = empty.MinPrice()
	assert.False(t, ok)
}
