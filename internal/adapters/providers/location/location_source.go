package location

import (
	"context"
	"fmt"
	"strings"

	"github.com/docify/docify/internal/domain/providers"
	apperrors "github.com/docify/docify/pkg/errors"
)

// FixedSource returns coordinates supplied with the request, such as the
// browser's device position.
type FixedSource struct {
	coordinates providers.Coordinates
}

// NewFixedSource creates a location source for known coordinates.
func NewFixedSource(coordinates providers.Coordinates) providers.LocationSource {
	return &FixedSource{coordinates: coordinates}
}

// CurrentLocation returns the fixed coordinates
func (s *FixedSource) CurrentLocation(ctx context.Context) (providers.Coordinates, error) {
	if !s.coordinates.Valid() {
		return providers.Coordinates{}, apperrors.NewUnavailableError("location coordinates are out of range", nil)
	}
	return s.coordinates, nil
}

// AddressSource resolves a typed address through a geocoder.
type AddressSource struct {
	address  string
	geocoder providers.GeolocationProvider
}

// NewAddressSource creates a location source that geocodes address on demand.
func NewAddressSource(address string, geocoder providers.GeolocationProvider) providers.LocationSource {
	return &AddressSource{address: strings.TrimSpace(address), geocoder: geocoder}
}

// CurrentLocation geocodes the address
func (s *AddressSource) CurrentLocation(ctx context.Context) (providers.Coordinates, error) {
	if s.address == "" || s.geocoder == nil {
		return providers.Coordinates{}, apperrors.NewUnavailableError("no address to resolve", nil)
	}
	addr, err := s.geocoder.Geocode(ctx, s.address)
	if err != nil {
		return providers.Coordinates{}, apperrors.NewUnavailableError(fmt.Sprintf("could not resolve address %q", s.address), err)
	}
	return addr.Coordinates, nil
}

// UnavailableSource stands in when the client shared no position.
type UnavailableSource struct{}

// NewUnavailableSource creates a location source that always fails.
func NewUnavailableSource() providers.LocationSource {
	return UnavailableSource{}
}

// CurrentLocation always reports the location as unavailable
func (UnavailableSource) CurrentLocation(ctx context.Context) (providers.Coordinates, error) {
	return providers.Coordinates{}, apperrors.NewUnavailableError("location unavailable", nil)
}
