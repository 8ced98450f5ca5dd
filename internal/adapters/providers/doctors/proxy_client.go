package doctors

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/docify/docify/internal/domain/entities"
	"github.com/docify/docify/internal/domain/providers"
	"github.com/docify/docify/internal/infrastructure/observability"
)

const (
	nearbyDoctorsPath  = "/api/nearby-doctors"
	defaultHTTPTimeout = 10 * time.Second
	maxResponseBytes   = 2 << 20
)

// ProxyClient implements DoctorDirectory by calling the nearby-doctors proxy,
// which holds the places credential.
type ProxyClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewProxyClient creates a client for the proxy at baseURL.
func NewProxyClient(baseURL string, httpClient *http.Client) providers.DoctorDirectory {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &ProxyClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// NearbyDoctors queries the proxy and decodes the places body it forwards.
func (c *ProxyClient) NearbyDoctors(ctx context.Context, center providers.Coordinates, specialty entities.Specialty) (*entities.PlacesSearchResponse, error) {
	params := url.Values{}
	params.Set("latitude", strconv.FormatFloat(center.Latitude, 'f', -1, 64))
	params.Set("longitude", strconv.FormatFloat(center.Longitude, 'f', -1, 64))
	if specialty != "" {
		params.Set("specialty", string(specialty))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+nearbyDoctorsPath+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build proxy request: %w", err)
	}
	observability.InjectTraceContext(ctx, req.Header)

	start := time.Now()
	result, err := c.do(req)
	observability.RecordUpstreamCall(ctx, "proxy", "nearby_doctors", time.Since(start), err)
	return result, err
}

func (c *ProxyClient) do(req *http.Request) (*entities.PlacesSearchResponse, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("proxy request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("proxy returned status %d", resp.StatusCode)
	}

	var payload entities.PlacesSearchResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode proxy response: %w", err)
	}
	return &payload, nil
}
