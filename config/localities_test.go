package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetLocalityNames(t *testing.T) {
	names := GetLocalityNames()

	assert.Len(t, names, len(SupportedLocalities))
	assert.Contains(t, names, "koramangala")
	assert.Contains(t, names, "hsr layout")
}

func TestGetLocalityByName(t *testing.T) {
	tests := []struct {
		name     string
		locality string
		found    bool
	}{
		{
			name:     "Known locality",
			locality: "koramangala",
			found:    true,
		},
		{
			name:     "Locality with space in name",
			locality: "electronic city",
			found:    true,
		},
		{
			name:     "Unknown locality",
			locality: "whitefield",
			found:    false,
		},
		{
			name:     "Empty name",
			locality: "",
			found:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			locality := GetLocalityByName(tt.locality)
			if tt.found {
				assert.NotNil(t, locality)
				assert.Equal(t, tt.locality, locality.Name)
				assert.Len(t, locality.Center, 2)
			} else {
				assert.Nil(t, locality)
			}
		})
	}
}

func TestFallbackCenterIsWellFormed(t *testing.T) {
	assert.Len(t, FallbackCenter, 2)
	assert.InDelta(t, 12.97, FallbackCenter[0], 0.1)
	assert.InDelta(t, 77.59, FallbackCenter[1], 0.1)
}
