package entities

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

const (
	// MaxDoctorListings caps the number of listings kept per search.
	MaxDoctorListings = 5

	// RatingNotAvailable is rendered when a place carries no rating.
	RatingNotAvailable = "N/A"

	// PlaceholderImageURL is used when a place has no photo reference.
	PlaceholderImageURL = "https://via.placeholder.com/150"
)

// Rating is a place rating that serialises as a number, or as "N/A" when unknown.
type Rating struct {
	Value float64
	Known bool
}

// NewRating returns a known rating.
func NewRating(value float64) Rating {
	return Rating{Value: value, Known: true}
}

// String renders the rating for display.
func (r Rating) String() string {
	if !r.Known {
		return RatingNotAvailable
	}
	return fmt.Sprintf("%g", r.Value)
}

// MarshalJSON implements json.Marshaler.
func (r Rating) MarshalJSON() ([]byte, error) {
	if !r.Known {
		return json.Marshal(RatingNotAvailable)
	}
	return json.Marshal(r.Value)
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *Rating) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] == '"' || bytes.Equal(data, []byte("null")) {
		*r = Rating{}
		return nil
	}
	var value float64
	if err := json.Unmarshal(data, &value); err != nil {
		return fmt.Errorf("invalid rating: %w", err)
	}
	*r = NewRating(value)
	return nil
}

// DoctorListing is a display-ready nearby doctor.
type DoctorListing struct {
	Name       string   `json:"name"`
	Address    string   `json:"address"`
	Rating     Rating   `json:"rating"`
	ImageURL   string   `json:"imageUrl"`
	PlaceID    string   `json:"placeId,omitempty"`
	DistanceKm *float64 `json:"distanceKm,omitempty"`
}

// DoctorSearchStatus describes the state of a session's doctor search.
type DoctorSearchStatus string

const (
	DoctorSearchStatusPending             DoctorSearchStatus = "pending"
	DoctorSearchStatusFound               DoctorSearchStatus = "found"
	DoctorSearchStatusNoResults           DoctorSearchStatus = "no_results"
	DoctorSearchStatusFailed              DoctorSearchStatus = "failed"
	DoctorSearchStatusLocationUnavailable DoctorSearchStatus = "location_unavailable"
)

// IsTerminal reports whether the search has finished.
func (s DoctorSearchStatus) IsTerminal() bool {
	return s != DoctorSearchStatusPending && s != ""
}

// DoctorSearch is one doctor search triggered for a session.
type DoctorSearch struct {
	ID          string             `json:"id"`
	Category    DiseaseCategory    `json:"category"`
	Specialty   Specialty          `json:"specialty"`
	Status      DoctorSearchStatus `json:"status"`
	Doctors     []DoctorListing    `json:"doctors"`
	Error       string             `json:"error,omitempty"`
	StartedAt   time.Time          `json:"started_at"`
	CompletedAt *time.Time         `json:"completed_at,omitempty"`
}

// Complete records the outcome of the search.
func (s *DoctorSearch) Complete(status DoctorSearchStatus, doctors []DoctorListing, errMessage string, at time.Time) {
	if len(doctors) > MaxDoctorListings {
		doctors = doctors[:MaxDoctorListings]
	}
	if doctors == nil {
		doctors = []DoctorListing{}
	}
	s.Status = status
	s.Doctors = doctors
	s.Error = errMessage
	s.CompletedAt = &at
}
