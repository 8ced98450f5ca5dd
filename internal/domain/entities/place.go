package entities

// PlacesSearchResponse is the subset of a places nearby search body the
// doctor search relies on. The proxy forwards the full body untouched.
type PlacesSearchResponse struct {
	Status       string        `json:"status,omitempty"`
	ErrorMessage string        `json:"error_message,omitempty"`
	Results      []PlaceResult `json:"results"`
}

// PlaceResult is one place record from a nearby search.
type PlaceResult struct {
	PlaceID  string         `json:"place_id,omitempty"`
	Name     string         `json:"name"`
	Vicinity string         `json:"vicinity"`
	Rating   *float64       `json:"rating,omitempty"`
	Photos   []PlacePhoto   `json:"photos,omitempty"`
	Geometry *PlaceGeometry `json:"geometry,omitempty"`
}

// PlacePhoto references a place photo.
type PlacePhoto struct {
	PhotoReference string `json:"photo_reference"`
	Width          int    `json:"width,omitempty"`
	Height         int    `json:"height,omitempty"`
}

// PlaceGeometry holds the place location.
type PlaceGeometry struct {
	Location PlaceLocation `json:"location"`
}

// PlaceLocation represents geographical coordinates in places wire format.
type PlaceLocation struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}
