package providers

import "context"

// LocationSource yields the user's current position for one request.
type LocationSource interface {
	// CurrentLocation returns an UNAVAILABLE error when no position can be determined.
	CurrentLocation(ctx context.Context) (Coordinates, error)
}
