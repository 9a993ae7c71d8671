package overpass

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medassist/clinic-discovery/internal/domain/providers"
	"github.com/medassist/clinic-discovery/pkg/geo"
)

func testQuery() providers.FacilityQuery {
	return providers.FacilityQuery{
		Box: geo.Box{
			North: 13.1277,
			South: 13.0377,
			East:  80.3169,
			West:  80.2245,
		},
		FacilityTypes: []string{"hospital", "clinic", "doctors", "pharmacy"},
	}
}

func TestFetchFacilities_DecodesNodesAndWays(t *testing.T) {
	var captured string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		captured = string(body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"elements": [
				{"type":"node","id":101,"lat":13.08,"lon":80.27,"tags":{"amenity":"hospital","name":"Apollo Hospital"}},
				{"type":"way","id":202,"center":{"lat":13.09,"lon":80.28},"tags":{"amenity":"clinic"}},
				{"type":"node","id":303,"tags":{"amenity":"doctors","name":"Floating Practice"}},
				{"type":"node","id":404,"lat":13.10,"lon":80.29}
			]
		}`))
	}))
	defer srv.Close()

	adapter := NewAdapterWithOptions(srv.URL, srv.Client())
	raw, err := adapter.FetchFacilities(context.Background(), testQuery())
	require.NoError(t, err)
	require.Len(t, raw, 4)

	assert.Equal(t, int64(101), raw[0].ID)
	require.NotNil(t, raw[0].Latitude)
	assert.Equal(t, 13.08, *raw[0].Latitude)
	assert.Equal(t, "Apollo Hospital", raw[0].Tags["name"])

	// Way coordinates come from the center point.
	require.NotNil(t, raw[1].Latitude)
	assert.Equal(t, 13.09, *raw[1].Latitude)

	// Missing coordinates survive as nil; normalization rejects them later.
	assert.Nil(t, raw[2].Latitude)

	// A record without tags still decodes with an empty tag map.
	assert.NotNil(t, raw[3].Tags)
	assert.Empty(t, raw[3].Tags)

	// The rendered query carries the bbox and the amenity predicate.
	assert.Contains(t, captured, "amenity")
	assert.Contains(t, captured, "hospital%7Cclinic%7Cdoctors%7Cpharmacy")
}

func TestFetchFacilities_EmergencyPredicate(t *testing.T) {
	query := testQuery()
	query.FacilityTypes = []string{"hospital"}
	query.EmergencyOnly = true

	ql := translate(query)
	assert.Contains(t, ql, `["amenity"~"^(hospital)$"]`)
	assert.Contains(t, ql, `["emergency"~`)
	assert.Contains(t, ql, "out center;")
}

func TestFetchFacilities_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too busy", http.StatusGatewayTimeout)
	}))
	defer srv.Close()

	adapter := NewAdapterWithOptions(srv.URL, srv.Client())
	_, err := adapter.FetchFacilities(context.Background(), testQuery())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 504")
}

func TestFetchFacilities_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	adapter := NewAdapterWithOptions(srv.URL, srv.Client())
	_, err := adapter.FetchFacilities(context.Background(), testQuery())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode")
}

func TestFetchFacilities_RejectsEmptyTypeList(t *testing.T) {
	adapter := NewAdapterWithOptions("http://unused", nil)
	_, err := adapter.FetchFacilities(context.Background(), providers.FacilityQuery{})
	require.Error(t, err)
}
