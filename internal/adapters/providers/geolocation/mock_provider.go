package geolocation

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/docify/docify/internal/domain/entities"
	"github.com/docify/docify/internal/domain/providers"
)

// 1x1 transparent PNG
const mockPhotoPNG = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAQAAAC1HAwCAAAAC0lEQVR42mNkYAAAAAYAAjCB0C8AAAAASUVORK5CYII="

// MockGeolocationProvider implements a mock geolocation provider for offline runs and tests
type MockGeolocationProvider struct{}

// NewMockGeolocationProvider creates a new mock geolocation provider
func NewMockGeolocationProvider() providers.GeolocationProvider {
	return &MockGeolocationProvider{}
}

var mockCities = []struct {
	name        string
	coordinates providers.Coordinates
}{
	{"Bengaluru", providers.Coordinates{Latitude: 12.9716, Longitude: 77.5946}},
	{"Mumbai", providers.Coordinates{Latitude: 19.0760, Longitude: 72.8777}},
	{"Delhi", providers.Coordinates{Latitude: 28.7041, Longitude: 77.1025}},
	{"Lagos", providers.Coordinates{Latitude: 6.5244, Longitude: 3.3792}},
	{"New York", providers.Coordinates{Latitude: 40.7128, Longitude: -74.0060}},
}

// Geocode converts an address to coordinates (mock implementation)
func (m *MockGeolocationProvider) Geocode(ctx context.Context, address string) (*providers.GeocodedAddress, error) {
	trimmed := strings.TrimSpace(address)
	if trimmed == "" {
		return nil, fmt.Errorf("address is required")
	}

	lowered := strings.ToLower(trimmed)
	for _, city := range mockCities {
		if strings.Contains(lowered, strings.ToLower(city.name)) {
			return &providers.GeocodedAddress{
				FormattedAddress: trimmed,
				City:             city.name,
				Coordinates:      city.coordinates,
			}, nil
		}
	}

	return &providers.GeocodedAddress{
		FormattedAddress: trimmed,
		Coordinates:      mockCities[0].coordinates,
	}, nil
}

// NearbySearch returns a fixed set of doctors around the center (mock implementation)
func (m *MockGeolocationProvider) NearbySearch(ctx context.Context, req providers.NearbySearchRequest) ([]byte, error) {
	rating := 4.6
	response := entities.PlacesSearchResponse{
		Status: "OK",
		Results: []entities.PlaceResult{
			{
				PlaceID:  "mock-1",
				Name:     "Mock Clinic 1",
				Vicinity: "123 Healthcare Blvd",
				Rating:   &rating,
				Photos:   []entities.PlacePhoto{{PhotoReference: "mock-photo-1", Width: 400, Height: 400}},
				Geometry: &entities.PlaceGeometry{Location: entities.PlaceLocation{
					Latitude:  req.Center.Latitude + 0.01,
					Longitude: req.Center.Longitude + 0.01,
				}},
			},
			{
				PlaceID:  "mock-2",
				Name:     "Mock Family Practice 2",
				Vicinity: "456 Medical Ave",
				Geometry: &entities.PlaceGeometry{Location: entities.PlaceLocation{
					Latitude:  req.Center.Latitude - 0.01,
					Longitude: req.Center.Longitude - 0.01,
				}},
			},
		},
	}
	return json.Marshal(response)
}

// PlacePhoto returns a placeholder image (mock implementation)
func (m *MockGeolocationProvider) PlacePhoto(ctx context.Context, photoReference string, maxWidth int) (*providers.PhotoData, error) {
	if strings.TrimSpace(photoReference) == "" {
		return nil, fmt.Errorf("photo reference is required")
	}
	data, err := base64.StdEncoding.DecodeString(mockPhotoPNG)
	if err != nil {
		return nil, err
	}
	return &providers.PhotoData{ContentType: "image/png", Data: data}, nil
}
