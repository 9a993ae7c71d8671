package overpass

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/medassist/clinic-discovery/internal/domain/providers"
)

const (
	defaultOverpassURL = "https://overpass-api.de/api/interpreter"
	defaultHTTPTimeout = 25 * time.Second
)

// Adapter implements the FacilitySource interface against an Overpass-style
// endpoint: it translates the declarative facility query to Overpass QL and
// decodes the element list, treating every tag as optional.
type Adapter struct {
	endpoint   string
	httpClient *http.Client
}

// NewAdapter creates a new Overpass facility source adapter.
func NewAdapter() providers.FacilitySource {
	return NewAdapterWithOptions(defaultOverpassURL, nil)
}

// NewAdapterWithOptions allows overriding endpoint and HTTP client (used for
// tests and self-hosted mirrors).
func NewAdapterWithOptions(endpoint string, httpClient *http.Client) providers.FacilitySource {
	if strings.TrimSpace(endpoint) == "" {
		endpoint = defaultOverpassURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &Adapter{
		endpoint:   endpoint,
		httpClient: httpClient,
	}
}

// FetchFacilities executes the query and returns the raw element list.
func (a *Adapter) FetchFacilities(ctx context.Context, query providers.FacilityQuery) ([]providers.RawFacility, error) {
	if len(query.FacilityTypes) == 0 {
		return nil, fmt.Errorf("facility query needs at least one facility type")
	}

	form := url.Values{}
	form.Set("data", translate(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to build facility request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("facility request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("facility request returned status %d", resp.StatusCode)
	}

	var payload overpassResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode facility response: %w", err)
	}

	facilities := make([]providers.RawFacility, 0, len(payload.Elements))
	for _, el := range payload.Elements {
		facilities = append(facilities, toRawFacility(el))
	}
	return facilities, nil
}

// translate renders the declarative query as Overpass QL. Both nodes and ways
// are requested; "out center" gives ways a representative point.
func translate(query providers.FacilityQuery) string {
	predicate := fmt.Sprintf(`["amenity"~"^(%s)$"]`, strings.Join(query.FacilityTypes, "|"))
	if query.EmergencyOnly {
		predicate += `["emergency"~"^(yes|24/7|designated)$"]`
	}

	bbox := fmt.Sprintf("(%f,%f,%f,%f)", query.Box.South, query.Box.West, query.Box.North, query.Box.East)

	var b strings.Builder
	b.WriteString("[out:json][timeout:25];\n(\n")
	b.WriteString(fmt.Sprintf("  node%s%s;\n", predicate, bbox))
	b.WriteString(fmt.Sprintf("  way%s%s;\n", predicate, bbox))
	b.WriteString(");\nout center;")
	return b.String()
}

func toRawFacility(el overpassElement) providers.RawFacility {
	raw := providers.RawFacility{
		Type: el.Type,
		ID:   el.ID,
		Tags: el.Tags,
	}
	if raw.Tags == nil {
		raw.Tags = map[string]string{}
	}

	switch {
	case el.Lat != nil && el.Lon != nil:
		raw.Latitude = el.Lat
		raw.Longitude = el.Lon
	case el.Center != nil:
		raw.Latitude = &el.Center.Lat
		raw.Longitude = &el.Center.Lon
	}
	return raw
}

type overpassResponse struct {
	Elements []overpassElement `json:"elements"`
}

type overpassElement struct {
	Type   string            `json:"type"`
	ID     int64             `json:"id"`
	Lat    *float64          `json:"lat,omitempty"`
	Lon    *float64          `json:"lon,omitempty"`
	Center *overpassCenter   `json:"center,omitempty"`
	Tags   map[string]string `json:"tags,omitempty"`
}

type overpassCenter struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}
