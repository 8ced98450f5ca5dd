package providers

import (
	"context"

	"github.com/docify/docify/internal/domain/entities"
)

// DoctorDirectory lists doctors near a point.
type DoctorDirectory interface {
	NearbyDoctors(ctx context.Context, center Coordinates, specialty entities.Specialty) (*entities.PlacesSearchResponse, error)
}
