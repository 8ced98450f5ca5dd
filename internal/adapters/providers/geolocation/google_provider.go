package geolocation

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/docify/docify/internal/domain/providers"
	"github.com/docify/docify/internal/infrastructure/observability"
)

const (
	googleMapsBaseURL      = "https://maps.googleapis.com/maps/api"
	defaultGeocodeCacheTTL = 60 * 60 * 24 * 30
	defaultPhotoCacheTTL   = 60 * 60 * 24
	defaultHTTPTimeout     = 8 * time.Second
	maxPhotoBytes          = 5 << 20
)

// GoogleGeolocationProvider implements the GeolocationProvider using Google Maps APIs.
type GoogleGeolocationProvider struct {
	apiKey     string
	httpClient *http.Client
	cache      providers.CacheProvider
	baseURL    string
}

// NewGoogleGeolocationProvider creates a new Google geolocation provider.
func NewGoogleGeolocationProvider(apiKey string, cache providers.CacheProvider) providers.GeolocationProvider {
	return NewGoogleGeolocationProviderWithOptions(apiKey, cache, googleMapsBaseURL, nil)
}

// NewGoogleGeolocationProviderWithOptions allows overriding base URL and HTTP client (used for tests).
// baseURL is the Maps API root; geocode, nearby search and photo paths are appended to it.
func NewGoogleGeolocationProviderWithOptions(apiKey string, cache providers.CacheProvider, baseURL string, httpClient *http.Client) providers.GeolocationProvider {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = googleMapsBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &GoogleGeolocationProvider{
		apiKey:     apiKey,
		httpClient: httpClient,
		cache:      cache,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// Geocode converts an address to a full geocoded address.
func (g *GoogleGeolocationProvider) Geocode(ctx context.Context, address string) (*providers.GeocodedAddress, error) {
	trimmed := strings.TrimSpace(address)
	if trimmed == "" {
		return nil, fmt.Errorf("address is required")
	}

	cacheKey := "geo:geocode:" + hashKey(strings.ToLower(trimmed))
	if g.cache != nil {
		if cached, err := g.cache.Get(ctx, cacheKey); err == nil && len(cached) > 0 {
			var addr providers.GeocodedAddress
			if err := json.Unmarshal(cached, &addr); err == nil && (addr.Coordinates.Latitude != 0 || addr.Coordinates.Longitude != 0) {
				return &addr, nil
			}
		}
	}

	resp, err := g.doGeocodeRequest(ctx, url.Values{"address": []string{trimmed}})
	if err != nil {
		return nil, err
	}

	if len(resp.Results) == 0 {
		return nil, fmt.Errorf("no results for address")
	}

	result := resp.Results[0]
	addr := providers.GeocodedAddress{
		FormattedAddress: result.FormattedAddress,
		City:             component(result.AddressComponents, "locality", "administrative_area_level_2"),
		State:            component(result.AddressComponents, "administrative_area_level_1"),
		Country:          component(result.AddressComponents, "country"),
		Coordinates: providers.Coordinates{
			Latitude:  result.Geometry.Location.Lat,
			Longitude: result.Geometry.Location.Lng,
		},
	}

	if g.cache != nil {
		if payload, err := json.Marshal(addr); err == nil {
			_ = g.cache.Set(ctx, cacheKey, payload, defaultGeocodeCacheTTL)
		}
	}

	return &addr, nil
}

// NearbySearch runs a keyword nearby search and returns the response body untouched.
// Results are never cached.
func (g *GoogleGeolocationProvider) NearbySearch(ctx context.Context, req providers.NearbySearchRequest) ([]byte, error) {
	if g.apiKey == "" {
		return nil, fmt.Errorf("google maps api key is required")
	}

	params := url.Values{}
	params.Set("location", fmt.Sprintf("%s,%s",
		strconv.FormatFloat(req.Center.Latitude, 'f', -1, 64),
		strconv.FormatFloat(req.Center.Longitude, 'f', -1, 64)))
	params.Set("radius", strconv.Itoa(req.RadiusMeters))
	params.Set("keyword", req.Keyword)
	params.Set("key", g.apiKey)

	start := time.Now()
	body, _, err := g.get(ctx, g.baseURL+"/place/nearbysearch/json", params, 0)
	observability.RecordUpstreamCall(ctx, "places", "nearby_search", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("places nearby search failed: %w", err)
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("places nearby search returned invalid JSON")
	}
	return body, nil
}

// PlacePhoto fetches a place photo, following the upstream redirect to the image.
func (g *GoogleGeolocationProvider) PlacePhoto(ctx context.Context, photoReference string, maxWidth int) (*providers.PhotoData, error) {
	reference := strings.TrimSpace(photoReference)
	if reference == "" {
		return nil, fmt.Errorf("photo reference is required")
	}
	if g.apiKey == "" {
		return nil, fmt.Errorf("google maps api key is required")
	}

	cacheKey := "geo:photo:" + hashKey(fmt.Sprintf("%s:%d", reference, maxWidth))
	if g.cache != nil {
		if cached, err := g.cache.Get(ctx, cacheKey); err == nil && len(cached) > 0 {
			var photo providers.PhotoData
			if err := json.Unmarshal(cached, &photo); err == nil && len(photo.Data) > 0 {
				return &photo, nil
			}
		}
	}

	params := url.Values{}
	params.Set("maxwidth", strconv.Itoa(maxWidth))
	params.Set("photoreference", reference)
	params.Set("key", g.apiKey)

	start := time.Now()
	body, contentType, err := g.get(ctx, g.baseURL+"/place/photo", params, maxPhotoBytes)
	observability.RecordUpstreamCall(ctx, "places", "photo", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("place photo request failed: %w", err)
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, fmt.Errorf("place photo returned unexpected content type %q", contentType)
	}

	photo := providers.PhotoData{ContentType: contentType, Data: body}
	if g.cache != nil {
		if payload, err := json.Marshal(photo); err == nil {
			_ = g.cache.Set(ctx, cacheKey, payload, defaultPhotoCacheTTL)
		}
	}
	return &photo, nil
}

func (g *GoogleGeolocationProvider) doGeocodeRequest(ctx context.Context, params url.Values) (*googleGeocodeResponse, error) {
	if g.apiKey == "" {
		return nil, fmt.Errorf("google maps api key is required")
	}
	params.Set("key", g.apiKey)

	start := time.Now()
	body, _, err := g.get(ctx, g.baseURL+"/geocode/json", params, 0)
	observability.RecordUpstreamCall(ctx, "places", "geocode", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("geocode request failed: %w", err)
	}

	var payload googleGeocodeResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode geocode response: %w", err)
	}

	if payload.Status != "OK" {
		if payload.ErrorMessage != "" {
			return nil, fmt.Errorf("geocode request failed: %s - %s", payload.Status, payload.ErrorMessage)
		}
		return nil, fmt.Errorf("geocode request failed: %s", payload.Status)
	}

	return &payload, nil
}

// get issues a GET and returns the body and content type of a 2xx response.
// A positive limit caps the body size.
func (g *GoogleGeolocationProvider) get(ctx context.Context, endpoint string, params url.Values, limit int64) ([]byte, string, error) {
	reqURL := fmt.Sprintf("%s?%s", endpoint, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, "", fmt.Errorf("upstream returned status %d", resp.StatusCode)
	}

	var reader io.Reader = resp.Body
	if limit > 0 {
		reader = io.LimitReader(resp.Body, limit+1)
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read response: %w", err)
	}
	if limit > 0 && int64(len(body)) > limit {
		return nil, "", fmt.Errorf("response exceeds %d bytes", limit)
	}
	return body, resp.Header.Get("Content-Type"), nil
}

func hashKey(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}

func component(components []googleAddressComponent, primary string, fallback ...string) string {
	for _, comp := range components {
		if containsType(comp.Types, primary) {
			return comp.LongName
		}
	}
	for _, alt := range fallback {
		for _, comp := range components {
			if containsType(comp.Types, alt) {
				return comp.LongName
			}
		}
	}
	return ""
}

func containsType(types []string, target string) bool {
	for _, t := range types {
		if t == target {
			return true
		}
	}
	return false
}

type googleGeocodeResponse struct {
	Status       string                `json:"status"`
	ErrorMessage string                `json:"error_message,omitempty"`
	Results      []googleGeocodeResult `json:"results"`
}

type googleGeocodeResult struct {
	FormattedAddress  string                   `json:"formatted_address"`
	AddressComponents []googleAddressComponent `json:"address_components"`
	Geometry          googleGeometry           `json:"geometry"`
}

type googleAddressComponent struct {
	LongName string   `json:"long_name"`
	Types    []string `json:"types"`
}

type googleGeometry struct {
	Location googleLocation `json:"location"`
}

type googleLocation struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}
