package models

// ListingStatus tracks a listing through onboarding. Only active listings
// are ever served to end users.
type ListingStatus string

const (
	StatusInitial      ListingStatus = "initial"
	StatusVerification ListingStatus = "verification"
	StatusListing      ListingStatus = "listing"
	StatusActive       ListingStatus = "active"
)

// Gender is the occupancy restriction of a PG.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderUnisex Gender = "unisex"
)

// WashroomType describes the washroom arrangement.
type WashroomType string

const (
	WashroomAttached WashroomType = "attached"
	WashroomCommon   WashroomType = "common"
	WashroomBoth     WashroomType = "both"
)

type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	// Approximate is set when the point is a jittered fallback rather than
	// a real geocoded position.
	Approximate bool `json:"approximate,omitempty"`
}

// SharingTier is one occupancy configuration (1-5 people per room).
type SharingTier struct {
	Available bool `json:"available"`
	Price     int  `json:"price"`
}

type NearbyPlace struct {
	Type     string `json:"type"`
	Name     string `json:"name"`
	Distance string `json:"distance,omitempty"`
	Time     string `json:"time,omitempty"`
}

type Photo struct {
	URL      string `json:"url"`
	Category string `json:"category,omitempty"`
	Caption  string `json:"caption,omitempty"`
}

type Amenities struct {
	WiFi           bool         `json:"wifi"`
	Television     bool         `json:"television"`
	Food           bool         `json:"food"`
	FoodType       string       `json:"food_type,omitempty"`
	Refrigerator   bool         `json:"refrigerator"`
	WashingMachine bool         `json:"washing_machine"`
	Housekeeping   bool         `json:"housekeeping"`
	Parking        bool         `json:"parking"`
	Security       bool         `json:"security"`
	Lift           bool         `json:"lift"`
	PowerBackup    bool         `json:"power_backup"`
	Washroom       WashroomType `json:"washroom,omitempty"`
}

// Listing is a single PG property. The server treats listings as immutable
// snapshots for the duration of a browsing session.
type Listing struct {
	ID             string        `json:"id"`
	Name           string        `json:"name"`
	Address        string        `json:"address"`
	Locality       string        `json:"locality"`
	Coordinates    *Coordinates  `json:"coordinates,omitempty"`
	NearestCollege string        `json:"nearest_college,omitempty"`
	NearbyPlaces   []NearbyPlace `json:"nearby_places,omitempty"`

	Gender Gender        `json:"gender"`
	Status ListingStatus `json:"status"`

	OneSharing      *SharingTier `json:"one_sharing,omitempty"`
	TwoSharing      *SharingTier `json:"two_sharing,omitempty"`
	ThreeSharing    *SharingTier `json:"three_sharing,omitempty"`
	FourSharing     *SharingTier `json:"four_sharing,omitempty"`
	FiveSharing     *SharingTier `json:"five_sharing,omitempty"`
	SecurityDeposit int          `json:"security_deposit,omitempty"`

	Amenities Amenities `json:"amenities"`

	Photos []Photo  `json:"photos,omitempty"`
	Videos []string `json:"videos,omitempty"`

	Rating          *float64 `json:"rating,omitempty"`
	ReviewCount     int      `json:"review_count,omitempty"`
	Verified        bool     `json:"verified"`
	DiscountPercent int      `json:"discount_percent,omitempty"`
	Description     string   `json:"description,omitempty"`
}

// Tiers returns the sharing tiers indexed by occupancy (1-5). Missing
// tiers are nil entries.
func (l *Listing) Tiers() [5]*SharingTier {
	return [5]*SharingTier{l.OneSharing, l.TwoSharing, l.ThreeSharing, l.FourSharing, l.FiveSharing}
}

// Tier returns the sharing tier for the given occupancy, or nil.
func (l *Listing) Tier(occupancy int) *SharingTier {
	if occupancy < 1 || occupancy > 5 {
		return nil
	}
	return l.Tiers()[occupancy-1]
}

// MinPrice returns the lowest price across available sharing tiers.
// A listing with no available tier has no defined minimum price and
// returns ok=false; such listings are excluded from price-based
// filtering and sorted last.
func (l *Listing) MinPrice() (int, bool) {
	min := 0
	found := false
	for _, tier := range l.Tiers() {
		if tier == nil || !tier.Available {
			continue
		}
		if !found || tier.Price < min {
			min = tier.Price
			found = true
		}
	}
	return min, found
}

// FirstPhotoURL returns the URL of the first photo, or "".
func (l *Listing) FirstPhotoURL() string {
	if len(l.Photos) == 0 {
		return ""
	}
	return l.Photos[0].URL
}
