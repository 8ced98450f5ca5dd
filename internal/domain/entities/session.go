package entities

import "time"

// Session is the transient state of one report-analysis session. It is never
// persisted beyond its TTL.
type Session struct {
	ID string `json:"id"`
	// LastCategory is the last category a doctor search was triggered for.
	// Empty until the first analysis.
	LastCategory DiseaseCategory `json:"last_category,omitempty"`
	Search       *DoctorSearch   `json:"doctor_search,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// NewSession creates an empty session.
func NewSession(id string, now time.Time) *Session {
	return &Session{
		ID:        id,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NeedsSearch reports whether category differs from the memoised one.
func (s *Session) NeedsSearch(category DiseaseCategory) bool {
	return s.LastCategory != category
}

// StartSearch memoises the category and replaces any held search with a
// pending one. Listings from the previous search are discarded.
func (s *Session) StartSearch(searchID string, category DiseaseCategory, specialty Specialty, now time.Time) *DoctorSearch {
	s.LastCategory = category
	s.Search = &DoctorSearch{
		ID:        searchID,
		Category:  category,
		Specialty: specialty,
		Status:    DoctorSearchStatusPending,
		Doctors:   []DoctorListing{},
		StartedAt: now,
	}
	s.UpdatedAt = now
	return s.Search
}

// OwnsSearch reports whether searchID is still the session's current search.
func (s *Session) OwnsSearch(searchID string) bool {
	return s.Search != nil && s.Search.ID == searchID
}
