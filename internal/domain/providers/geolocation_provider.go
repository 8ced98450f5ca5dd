package providers

import (
	"context"
	"math"
)

// GeolocationProvider defines the interface for geocoding and places lookups
type GeolocationProvider interface {
	// Geocode converts an address to coordinates
	Geocode(ctx context.Context, address string) (*GeocodedAddress, error)

	// NearbySearch runs a places nearby search and returns the upstream body verbatim
	NearbySearch(ctx context.Context, req NearbySearchRequest) ([]byte, error)

	// PlacePhoto fetches a place photo
	PlacePhoto(ctx context.Context, photoReference string, maxWidth int) (*PhotoData, error)
}

// Coordinates represents geographical coordinates
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// GeocodedAddress represents a geocoded address
type GeocodedAddress struct {
	FormattedAddress string      `json:"formatted_address"`
	City             string      `json:"city,omitempty"`
	State            string      `json:"state,omitempty"`
	Country          string      `json:"country,omitempty"`
	Coordinates      Coordinates `json:"coordinates"`
}

// NearbySearchRequest is a keyword search around a point
type NearbySearchRequest struct {
	Center       Coordinates
	RadiusMeters int
	Keyword      string
}

// PhotoData is a fetched place photo
type PhotoData struct {
	ContentType string `json:"content_type"`
	Data        []byte `json:"data"`
}

const earthRadiusKm = 6371.0

// DistanceKm returns the great-circle distance to another point using the Haversine formula
func (c Coordinates) DistanceKm(to Coordinates) float64 {
	lat1Rad := toRadians(c.Latitude)
	lat2Rad := toRadians(to.Latitude)
	deltaLat := toRadians(to.Latitude - c.Latitude)
	deltaLon := toRadians(to.Longitude - c.Longitude)

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)

	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// Valid reports whether the coordinates are within WGS84 bounds
func (c Coordinates) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 && c.Longitude >= -180 && c.Longitude <= 180
}

func toRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}
