package entities

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRating_MarshalJSON(t *testing.T) {
	known, err := json.Marshal(NewRating(4.5))
	require.NoError(t, err)
	assert.Equal(t, "4.5", string(known))

	unknown, err := json.Marshal(Rating{})
	require.NoError(t, err)
	assert.Equal(t, `"N/A"`, string(unknown))
}

func TestRating_UnmarshalJSON(t *testing.T) {
	var listing DoctorListing
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Dr A","rating":3.9}`), &listing))
	assert.Equal(t, NewRating(3.9), listing.Rating)

	require.NoError(t, json.Unmarshal([]byte(`{"name":"Dr B","rating":"N/A"}`), &listing))
	assert.False(t, listing.Rating.Known)
	assert.Equal(t, "N/A", listing.Rating.String())
}

func TestDoctorSearch_CompleteCapsListings(t *testing.T) {
	search := &DoctorSearch{ID: "s1", Status: DoctorSearchStatusPending}
	doctors := make([]DoctorListing, 8)

	search.Complete(DoctorSearchStatusFound, doctors, "", time.Now())

	assert.Len(t, search.Doctors, MaxDoctorListings)
	assert.True(t, search.Status.IsTerminal())
	require.NotNil(t, search.CompletedAt)
}

func TestDoctorSearch_CompleteWithoutDoctorsKeepsEmptyList(t *testing.T) {
	search := &DoctorSearch{ID: "s1", Status: DoctorSearchStatusPending}
	assert.False(t, search.Status.IsTerminal())

	search.Complete(DoctorSearchStatusFailed, nil, "error fetching doctors", time.Now())

	assert.NotNil(t, search.Doctors)
	assert.Empty(t, search.Doctors)
	assert.Equal(t, "error fetching doctors", search.Error)
}
