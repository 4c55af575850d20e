package config

// Locality represents a supported locality configuration
type Locality struct {
	Name      string    `json:"name"`
	Center    []float64 `json:"center"`
	ZoomLevel int       `json:"zoom_level"`
}

// SupportedLocalities is the list of localities served by the application
var SupportedLocalities = []Locality{
	{
		Name:      "koramangala",
		Center:    []float64{12.9352, 77.6245},
		ZoomLevel: 14,
	},
	{
		Name:      "hsr layout",
		Center:    []float64{12.9121, 77.6446},
		ZoomLevel: 14,
	},
	{
		Name:      "btm layout",
		Center:    []float64{12.9166, 77.6101},
		ZoomLevel: 14,
	},
	{
		Name:      "electronic city",
		Center:    []float64{12.8399, 77.6770},
		ZoomLevel: 13,
	},
	{
		Name:      "marathahalli",
		Center:    []float64{12.9591, 77.6974},
		ZoomLevel: 14,
	},
	{
		Name:      "indiranagar",
		Center:    []float64{12.9719, 77.6412},
		ZoomLevel: 14,
	},
	// Add more localities here as needed
}

// FallbackCenter is the reference point assigned (with jitter) to listings
// that were onboarded without coordinates.
var FallbackCenter = []float64{12.9716, 77.5946}

// GetLocalityNames returns the names of all supported localities
func GetLocalityNames() []string {
	names := make([]string, len(SupportedLocalities))
	for i, locality := range SupportedLocalities {
		names[i] = locality.Name
	}
	return names
}

// GetLocalityByName returns a locality configuration by name
func GetLocalityByName(name string) *Locality {
	for _, locality := range SupportedLocalities {
		if locality.Name == name {
			return &locality
		}
	}
	return nil
}
