package services

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/docify/docify/internal/domain/entities"
	"github.com/docify/docify/internal/domain/providers"
	"github.com/docify/docify/internal/infrastructure/observability"
	apperrors "github.com/docify/docify/pkg/errors"
)

const defaultPhotoMaxWidth = 400

// DoctorSearchConfig tunes how nearby places are turned into listings.
type DoctorSearchConfig struct {
	// Limit caps the listings returned, never above entities.MaxDoctorListings.
	Limit int
	// PhotoURL is the place photo endpoint listing images point at.
	PhotoURL      string
	PhotoMaxWidth int
}

// DoctorSearchService finds doctors of a specialty near the user.
type DoctorSearchService struct {
	directory providers.DoctorDirectory
	cfg       DoctorSearchConfig
}

// NewDoctorSearchService creates a new doctor search service
func NewDoctorSearchService(directory providers.DoctorDirectory, cfg DoctorSearchConfig) *DoctorSearchService {
	if cfg.Limit <= 0 || cfg.Limit > entities.MaxDoctorListings {
		cfg.Limit = entities.MaxDoctorListings
	}
	if cfg.PhotoMaxWidth <= 0 {
		cfg.PhotoMaxWidth = defaultPhotoMaxWidth
	}
	return &DoctorSearchService{directory: directory, cfg: cfg}
}

// FindNearbyDoctors resolves the user's position and lists nearby doctors.
// A missing position is an UNAVAILABLE error and the directory is not called.
// A directory failure returns an empty list together with an EXTERNAL error.
func (s *DoctorSearchService) FindNearbyDoctors(ctx context.Context, location providers.LocationSource, specialty entities.Specialty) ([]entities.DoctorListing, error) {
	ctx, span := observability.StartSpan(ctx, "DoctorSearchService.FindNearbyDoctors")
	defer span.End()

	logger := observability.LoggerFromContext(ctx)

	if location == nil {
		return []entities.DoctorListing{}, apperrors.NewUnavailableError("location is not available", nil)
	}
	center, err := location.CurrentLocation(ctx)
	if err != nil {
		logger.Warn().Err(err).Str("specialty", string(specialty)).Msg("Doctor search skipped: location unavailable")
		if apperrors.IsType(err, apperrors.ErrorTypeUnavailable) {
			return []entities.DoctorListing{}, err
		}
		return []entities.DoctorListing{}, apperrors.NewUnavailableError("location is not available", err)
	}

	start := time.Now()
	response, err := s.directory.NearbyDoctors(ctx, center, specialty)
	if err != nil {
		observability.RecordError(span, err)
		logger.Error().Err(err).Str("specialty", string(specialty)).Dur("duration", time.Since(start)).Msg("Nearby doctors request failed")
		return []entities.DoctorListing{}, apperrors.NewExternalError("error fetching doctors", err)
	}
	if response == nil {
		return []entities.DoctorListing{}, nil
	}

	return s.toListings(center, response.Results), nil
}

func (s *DoctorSearchService) toListings(center providers.Coordinates, results []entities.PlaceResult) []entities.DoctorListing {
	if len(results) > s.cfg.Limit {
		results = results[:s.cfg.Limit]
	}

	listings := make([]entities.DoctorListing, 0, len(results))
	for _, place := range results {
		listing := entities.DoctorListing{
			Name:     place.Name,
			Address:  place.Vicinity,
			ImageURL: entities.PlaceholderImageURL,
			PlaceID:  place.PlaceID,
		}
		// A zero rating means the place is unrated.
		if place.Rating != nil && *place.Rating != 0 {
			listing.Rating = entities.NewRating(*place.Rating)
		}
		if len(place.Photos) > 0 && place.Photos[0].PhotoReference != "" {
			listing.ImageURL = s.photoURL(place.Photos[0].PhotoReference)
		}
		if place.Geometry != nil {
			to := providers.Coordinates{
				Latitude:  place.Geometry.Location.Latitude,
				Longitude: place.Geometry.Location.Longitude,
			}
			distance := center.DistanceKm(to)
			listing.DistanceKm = &distance
		}
		listings = append(listings, listing)
	}
	return listings
}

func (s *DoctorSearchService) photoURL(reference string) string {
	u, err := url.Parse(s.cfg.PhotoURL)
	if err != nil || s.cfg.PhotoURL == "" {
		return fmt.Sprintf("%s?maxwidth=%d&photoreference=%s", s.cfg.PhotoURL, s.cfg.PhotoMaxWidth, url.QueryEscape(reference))
	}
	query := u.Query()
	query.Set("maxwidth", strconv.Itoa(s.cfg.PhotoMaxWidth))
	query.Set("photoreference", reference)
	u.RawQuery = query.Encode()
	return u.String()
}

// SearchStatus maps a search outcome to the status shown to the user.
func SearchStatus(doctors []entities.DoctorListing, err error) entities.DoctorSearchStatus {
	switch {
	case err != nil && apperrors.IsType(err, apperrors.ErrorTypeUnavailable):
		return entities.DoctorSearchStatusLocationUnavailable
	case err != nil:
		return entities.DoctorSearchStatusFailed
	case len(doctors) == 0:
		return entities.DoctorSearchStatusNoResults
	default:
		return entities.DoctorSearchStatusFound
	}
}
