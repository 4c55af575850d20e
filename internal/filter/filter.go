package filter

import (
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"

	"shelterly/server/internal/models"
)

// Category is a predefined browse category.
type Category string

const (
	CategoryVerified Category = "verified"
	CategoryPremium  Category = "premium"
	CategoryMale     Category = "male"
	CategoryFemale   Category = "female"
	CategoryUnisex   Category = "unisex"
)

// RoomType selects a specific sharing tier.
type RoomType string

const (
	RoomOneSharing   RoomType = "one_sharing"
	RoomTwoSharing   RoomType = "two_sharing"
	RoomThreeSharing RoomType = "three_sharing"
	RoomFourSharing  RoomType = "four_sharing"
)

var roomTypeOccupancy = map[RoomType]int{
	RoomOneSharing:   1,
	RoomTwoSharing:   2,
	RoomThreeSharing: 3,
	RoomFourSharing:  4,
}

type PriceRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

type GeoCenter struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// AmenityFilter lists required amenities. Every set flag must be present
// on a listing, unlike the OR semantics of free-text amenity matching.
type AmenityFilter struct {
	WiFi           bool `json:"wifi,omitempty"`
	Television     bool `json:"television,omitempty"`
	Food           bool `json:"food,omitempty"`
	Refrigerator   bool `json:"refrigerator,omitempty"`
	WashingMachine bool `json:"washing_machine,omitempty"`
	Housekeeping   bool `json:"housekeeping,omitempty"`
	Parking        bool `json:"parking,omitempty"`
	Security       bool `json:"security,omitempty"`
	Lift           bool `json:"lift,omitempty"`
	PowerBackup    bool `json:"power_backup,omitempty"`
}

// Spec is a filter specification. Every field is optional; a zero Spec
// matches everything. Present fields combine conjunctively, while the
// sub-checks inside FreeText combine as OR.
type Spec struct {
	FreeText     string
	LocationName string
	GeoCenter    *GeoCenter
	Category     Category
	PriceRange   *PriceRange
	RoomType     RoomType
	Amenities    *AmenityFilter
	MinRating    *float64
}

// IsZero reports whether the spec carries no constraints.
func (s Spec) IsZero() bool {
	return s.FreeText == "" && s.LocationName == "" && s.GeoCenter == nil &&
		s.Category == "" && s.PriceRange == nil && s.RoomType == "" &&
		s.Amenities == nil && s.MinRating == nil
}

// Engine filters and sorts in-memory listing sets. It performs no I/O.
type Engine struct {
	radiusKM      float64
	budgetPrice   int
	premiumRating float64
}

const (
	defaultRadiusKM      = 5
	defaultBudgetPrice   = 10000
	defaultPremiumRating = 4.5
)

func NewEngine(radiusKM float64, budgetPrice int, premiumRating float64) *Engine {
	if radiusKM <= 0 {
		radiusKM = defaultRadiusKM
	}
	if budgetPrice <= 0 {
		budgetPrice = defaultBudgetPrice
	}
	if premiumRating <= 0 {
		premiumRating = defaultPremiumRating
	}
	return &Engine{
		radiusKM:      radiusKM,
		budgetPrice:   budgetPrice,
		premiumRating: premiumRating,
	}
}

// Filter returns the listings matching every present field of the spec.
func (e *Engine) Filter(listings []models.Listing, spec Spec) []models.Listing {
	if spec.IsZero() {
		return listings
	}

	matched := make([]models.Listing, 0, len(listings))
	for i := range listings {
		if e.matches(&listings[i], spec) {
			matched = append(matched, listings[i])
		}
	}
	return matched
}

func (e *Engine) matches(l *models.Listing, spec Spec) bool {
	if spec.FreeText != "" && !e.matchesFreeText(l, spec.FreeText) {
		return false
	}
	if spec.LocationName != "" && !matchesLocation(l, spec.LocationName) {
		return false
	}
	if spec.GeoCenter != nil && !e.matchesGeo(l, *spec.GeoCenter) {
		return false
	}
	if spec.Category != "" && !e.matchesCategory(l, spec.Category) {
		return false
	}
	if spec.PriceRange != nil && !matchesPriceRange(l, *spec.PriceRange) {
		return false
	}
	if spec.RoomType != "" && !matchesRoomType(l, spec.RoomType) {
		return false
	}
	if spec.Amenities != nil && !matchesAmenities(l, *spec.Amenities) {
		return false
	}
	if spec.MinRating != nil && (l.Rating == nil || *l.Rating < *spec.MinRating) {
		return false
	}
	return true
}

// matchesFreeText is the only disjunctive check: a listing matches as soon
// as any sub-check succeeds.
func (e *Engine) matchesFreeText(l *models.Listing, query string) bool {
	q := normalizeText(query)
	if q == "" {
		return true
	}

	for _, field := range []string{l.Name, l.Address, l.Locality, string(l.Gender)} {
		if field != "" && strings.Contains(normalizeText(field), q) {
			return true
		}
	}

	if MatchesInstitution(q, l.NearestCollege) {
		return true
	}

	for _, place := range l.NearbyPlaces {
		if strings.Contains(normalizeText(place.Name), q) ||
			strings.Contains(normalizeText(place.Type), q) {
			return true
		}
	}

	for _, group := range amenitySynonyms {
		if containsAny(q, group.terms) && group.has(l.Amenities) {
			return true
		}
	}

	for occupancy, terms := range sharingVocabulary {
		if containsAny(q, terms) {
			if tier := l.Tier(occupancy); tier != nil && tier.Available {
				return true
			}
		}
	}

	if containsAny(q, budgetVocabulary) {
		if min, ok := l.MinPrice(); ok && min < e.budgetPrice {
			return true
		}
	}
	if containsAny(q, luxuryVocabulary) {
		if l.Rating != nil && *l.Rating >= e.premiumRating {
			return true
		}
	}

	return false
}

func matchesLocation(l *models.Listing, name string) bool {
	n := normalizeText(name)
	if n == "" {
		return true
	}
	if strings.Contains(normalizeText(l.Locality), n) {
		return true
	}
	if strings.Contains(normalizeText(l.Address), n) {
		return true
	}
	return MatchesInstitution(n, l.NearestCollege)
}

// matchesGeo applies the Haversine radius check. Listings without
// coordinates never match a geo filter.
func (e *Engine) matchesGeo(l *models.Listing, center GeoCenter) bool {
	if l.Coordinates == nil {
		return false
	}
	from := orb.Point{center.Lng, center.Lat}
	to := orb.Point{l.Coordinates.Longitude, l.Coordinates.Latitude}
	return geo.DistanceHaversine(from, to) <= e.radiusKM*1000
}

func (e *Engine) matchesCategory(l *models.Listing, category Category) bool {
	switch category {
	case CategoryVerified:
		return l.Verified
	case CategoryPremium:
		return l.Rating != nil && *l.Rating >= e.premiumRating
	case CategoryMale:
		return l.Gender == models.GenderMale
	case CategoryFemale:
		return l.Gender == models.GenderFemale
	case CategoryUnisex:
		return l.Gender == models.GenderUnisex
	default:
		return false
	}
}

func matchesPriceRange(l *models.Listing, r PriceRange) bool {
	min, ok := l.MinPrice()
	if !ok {
		return false
	}
	return min >= r.Min && min <= r.Max
}

func matchesRoomType(l *models.Listing, roomType RoomType) bool {
	occupancy, ok := roomTypeOccupancy[roomType]
	if !ok {
		return false
	}
	tier := l.Tier(occupancy)
	return tier != nil && tier.Available
}

func matchesAmenities(l *models.Listing, want AmenityFilter) bool {
	a := l.Amenities
	checks := []struct {
		want bool
		has  bool
	}{
		{want.WiFi, a.WiFi},
		{want.Television, a.Television},
		{want.Food, a.Food},
		{want.Refrigerator, a.Refrigerator},
		{want.WashingMachine, a.WashingMachine},
		{want.Housekeeping, a.Housekeeping},
		{want.Parking, a.Parking},
		{want.Security, a.Security},
		{want.Lift, a.Lift},
		{want.PowerBackup, a.PowerBackup},
	}
	for _, c := range checks {
		if c.want && !c.has {
			return false
		}
	}
	return true
}
