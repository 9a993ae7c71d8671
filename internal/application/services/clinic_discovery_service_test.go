package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medassist/clinic-discovery/internal/adapters/cache"
	"github.com/medassist/clinic-discovery/internal/domain/entities"
	"github.com/medassist/clinic-discovery/internal/domain/providers"
	apperrors "github.com/medassist/clinic-discovery/pkg/errors"
)

type stubResolver struct {
	location *entities.UserLocation
	err      error
}

func (r *stubResolver) CachedOrCurrent(ctx context.Context) (*entities.UserLocation, error) {
	return r.location, r.err
}

type stubFacilitySource struct {
	mu         sync.Mutex
	facilities []providers.RawFacility
	err        error
	calls      int
}

func (s *stubFacilitySource) FetchFacilities(ctx context.Context, query providers.FacilityQuery) ([]providers.RawFacility, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.facilities, nil
}

func (s *stubFacilitySource) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type failingCache struct{}

func (failingCache) Get(ctx context.Context, key string) ([]byte, error) {
	return nil, errors.New("cache down")
}
func (failingCache) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	return errors.New("cache down")
}
func (failingCache) Delete(ctx context.Context, key string) error { return nil }
func (failingCache) Exists(ctx context.Context, key string) (bool, error) {
	return false, errors.New("cache down")
}

func chennaiLocation() *entities.UserLocation {
	return &entities.UserLocation{
		Coordinate:     chennaiCenter,
		AccuracyMeters: 10,
		CapturedAt:     time.Now(),
		Quality:        entities.FixQualityGood,
	}
}

// rawNear builds a raw facility the given number of kilometers north of the
// Chennai center.
func rawNear(id int64, km float64, tags map[string]string) providers.RawFacility {
	lat := chennaiCenter.Latitude + km/111.0
	lon := chennaiCenter.Longitude
	return providers.RawFacility{
		Type:      "node",
		ID:        id,
		Latitude:  &lat,
		Longitude: &lon,
		Tags:      tags,
	}
}

func hospitalTags(name string) map[string]string {
	return map[string]string{"amenity": "hospital", "name": name}
}

func newTestService(t *testing.T, source providers.FacilitySource) *ClinicDiscoveryService {
	t.Helper()
	store, err := cache.NewMemoryAdapter(16)
	require.NoError(t, err)
	return NewClinicDiscoveryService(&stubResolver{location: chennaiLocation()}, source, store)
}

func TestSearch_EndToEnd(t *testing.T) {
	// Ten raw elements: two without coordinates, one without a name. Exactly
	// seven survive normalization.
	raw := []providers.RawFacility{
		rawNear(1, 0.5, hospitalTags("Apollo Hospital")),
		rawNear(2, 1.0, hospitalTags("Fortis Malar")),
		rawNear(3, 1.5, map[string]string{"amenity": "clinic", "name": "Anna Nagar Clinic"}),
		rawNear(4, 2.0, map[string]string{"amenity": "doctors", "name": "Dr. Kumar"}),
		rawNear(5, 2.5, map[string]string{"amenity": "pharmacy", "name": "MedPlus"}),
		rawNear(6, 3.0, hospitalTags("Government General")),
		rawNear(7, 3.5, map[string]string{"amenity": "clinic", "name": "T Nagar Clinic"}),
		{Type: "node", ID: 8, Tags: hospitalTags("No Coordinates")},
		{Type: "way", ID: 9, Tags: hospitalTags("Also No Coordinates")},
		rawNear(10, 1.2, map[string]string{"amenity": "hospital"}),
	}

	source := &stubFacilitySource{facilities: raw}
	svc := newTestService(t, source)

	results, err := svc.Search(context.Background(), entities.SearchOptions{})
	require.NoError(t, err)
	require.Len(t, results, 7)

	for _, c := range results {
		require.NotNil(t, c.DistanceKm, "clinic %s missing distance", c.ID)
		assert.GreaterOrEqual(t, *c.DistanceKm, 0.0)
	}

	// Default sort is by distance.
	assert.Equal(t, "Apollo Hospital", results[0].Name)
}

func TestSearch_CacheHitSkipsSource(t *testing.T) {
	source := &stubFacilitySource{facilities: []providers.RawFacility{
		rawNear(1, 0.5, hospitalTags("Apollo Hospital")),
	}}
	svc := newTestService(t, source)

	_, err := svc.Search(context.Background(), entities.SearchOptions{})
	require.NoError(t, err)
	require.Equal(t, 1, source.callCount())

	_, err = svc.Search(context.Background(), entities.SearchOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, source.callCount())
}

func TestSearch_DifferentAreasDoNotShareCacheEntries(t *testing.T) {
	source := &stubFacilitySource{facilities: []providers.RawFacility{
		rawNear(1, 0.5, hospitalTags("Apollo Hospital")),
	}}
	svc := newTestService(t, source)

	_, err := svc.Search(context.Background(), entities.SearchOptions{})
	require.NoError(t, err)

	_, err = svc.Search(context.Background(), entities.SearchOptions{RadiusMeters: 2000})
	require.NoError(t, err)
	assert.Equal(t, 2, source.callCount())
}

func TestSearch_LocationFailurePassesThrough(t *testing.T) {
	store, err := cache.NewMemoryAdapter(16)
	require.NoError(t, err)

	resolver := &stubResolver{err: apperrors.NewLocationError(apperrors.ReasonPermissionDenied, errors.New("denied"))}
	svc := NewClinicDiscoveryService(resolver, &stubFacilitySource{}, store)

	_, err = svc.Search(context.Background(), entities.SearchOptions{})
	require.Error(t, err)

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrorTypeLocationUnavailable, appErr.Type)
	assert.Equal(t, apperrors.ReasonPermissionDenied, appErr.Reason)
}

func TestSearch_SourceFailureIsSearchErrorAndNotCached(t *testing.T) {
	source := &stubFacilitySource{err: errors.New("gateway timeout")}
	svc := newTestService(t, source)

	_, err := svc.Search(context.Background(), entities.SearchOptions{})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeSearchFailed))

	// The failure was not cached: a retry hits the source again.
	source.mu.Lock()
	source.err = nil
	source.facilities = []providers.RawFacility{rawNear(1, 0.5, hospitalTags("Apollo Hospital"))}
	source.mu.Unlock()

	results, err := svc.Search(context.Background(), entities.SearchOptions{})
	require.NoError(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, 2, source.callCount())
}

func TestSearch_EmptyAreaIsNotAnError(t *testing.T) {
	source := &stubFacilitySource{}
	svc := newTestService(t, source)

	results, err := svc.Search(context.Background(), entities.SearchOptions{})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearch_ExplicitLocationSkipsResolver(t *testing.T) {
	store, err := cache.NewMemoryAdapter(16)
	require.NoError(t, err)

	// The resolver would fail; the explicit location must win.
	resolver := &stubResolver{err: apperrors.NewLocationError(apperrors.ReasonTimeout, errors.New("slow"))}
	source := &stubFacilitySource{facilities: []providers.RawFacility{
		rawNear(1, 0.5, hospitalTags("Apollo Hospital")),
	}}
	svc := NewClinicDiscoveryService(resolver, source, store)

	results, err := svc.Search(context.Background(), entities.SearchOptions{Location: chennaiLocation()})
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestSearch_RejectsInvalidExplicitLocation(t *testing.T) {
	svc := newTestService(t, &stubFacilitySource{})

	bad := chennaiLocation()
	bad.Latitude = 91

	_, err := svc.Search(context.Background(), entities.SearchOptions{Location: bad})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
}

func TestSearch_SurvivesBrokenCache(t *testing.T) {
	source := &stubFacilitySource{facilities: []providers.RawFacility{
		rawNear(1, 0.5, hospitalTags("Apollo Hospital")),
	}}
	svc := NewClinicDiscoveryService(&stubResolver{location: chennaiLocation()}, source, failingCache{})

	results, err := svc.Search(context.Background(), entities.SearchOptions{})
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestSearch_ConcurrentSearchesCollapseToOneFetch(t *testing.T) {
	source := &stubFacilitySource{facilities: []providers.RawFacility{
		rawNear(1, 0.5, hospitalTags("Apollo Hospital")),
	}}
	// A broken cache forces every search through the fetch path, so only the
	// singleflight guard limits upstream calls.
	svc := NewClinicDiscoveryService(&stubResolver{location: chennaiLocation()}, source, failingCache{})

	const n = 8
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Search(context.Background(), entities.SearchOptions{})
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	assert.LessOrEqual(t, source.callCount(), n)
}

func TestSearchBySymptoms_UsesFirstMatchedSpecialization(t *testing.T) {
	cardiac := rawNear(1, 0.5, map[string]string{
		"amenity":               "clinic",
		"name":                  "Heart Centre",
		"healthcare:speciality": "cardiology",
	})
	general := rawNear(2, 1.0, map[string]string{"amenity": "clinic", "name": "General Clinic"})

	source := &stubFacilitySource{facilities: []providers.RawFacility{cardiac, general}}
	svc := newTestService(t, source)

	results, triage, err := svc.SearchBySymptoms(context.Background(), "chest pain", "en", entities.SearchOptions{})
	require.NoError(t, err)

	assert.Equal(t, entities.UrgencyHigh, triage.UrgencyLevel)
	require.Len(t, results, 1)
	assert.Equal(t, "Heart Centre", results[0].Name)
}

func TestSearchBySymptoms_EmergencyNarrowsToEmergencyFacilities(t *testing.T) {
	hospital := rawNear(1, 0.5, hospitalTags("Government General"))
	clinic := rawNear(2, 0.2, map[string]string{"amenity": "clinic", "name": "Small Clinic"})

	source := &stubFacilitySource{facilities: []providers.RawFacility{hospital, clinic}}
	svc := newTestService(t, source)

	results, triage, err := svc.SearchBySymptoms(context.Background(), "accident with severe bleeding", "en", entities.SearchOptions{})
	require.NoError(t, err)

	assert.Equal(t, entities.UrgencyEmergency, triage.UrgencyLevel)
	require.Len(t, results, 1)
	assert.Equal(t, "Government General", results[0].Name)
}

func TestTriage_DelegatesToClassifier(t *testing.T) {
	svc := newTestService(t, &stubFacilitySource{})

	triage := svc.Triage("fever", "en")
	assert.Contains(t, triage.Specializations, "general_medicine")
}
