package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"github.com/medassist/clinic-discovery/internal/domain/entities"
	"github.com/medassist/clinic-discovery/internal/domain/providers"
	"github.com/medassist/clinic-discovery/internal/infrastructure/observability"
	apperrors "github.com/medassist/clinic-discovery/pkg/errors"
)

const defaultSearchCacheTTL = 10 * time.Minute

// LocationResolver resolves the caller's position, reusing a recent fix when
// one is fresh enough.
type LocationResolver interface {
	CachedOrCurrent(ctx context.Context) (*entities.UserLocation, error)
}

// ClinicDiscoveryService orchestrates a clinic search end to end: resolve the
// caller's location, fetch the raw facility set for the area (through the
// cache), normalize, then rank against the search options.
type ClinicDiscoveryService struct {
	location   LocationResolver
	source     providers.FacilitySource
	cache      providers.CacheProvider
	normalizer *FacilityNormalizer
	ranker     *ResultRanker
	classifier *SymptomClassifier
	ttlSeconds int
	tracer     trace.Tracer

	// flight collapses concurrent searches for the same area into one
	// upstream fetch.
	flight singleflight.Group
}

// NewClinicDiscoveryService creates a new clinic discovery service.
func NewClinicDiscoveryService(
	location LocationResolver,
	source providers.FacilitySource,
	cache providers.CacheProvider,
) *ClinicDiscoveryService {
	return NewClinicDiscoveryServiceWithTTL(location, source, cache, defaultSearchCacheTTL)
}

// NewClinicDiscoveryServiceWithTTL allows overriding the search cache TTL.
func NewClinicDiscoveryServiceWithTTL(
	location LocationResolver,
	source providers.FacilitySource,
	cache providers.CacheProvider,
	cacheTTL time.Duration,
) *ClinicDiscoveryService {
	return &ClinicDiscoveryService{
		location:   location,
		source:     source,
		cache:      cache,
		normalizer: NewFacilityNormalizer(),
		ranker:     NewResultRanker(),
		classifier: NewSymptomClassifier(),
		ttlSeconds: int(cacheTTL.Seconds()),
		tracer:     otel.Tracer("clinic-discovery"),
	}
}

// Search returns the ranked clinic list for the given options. An empty area
// is a valid result, not an error.
func (s *ClinicDiscoveryService) Search(ctx context.Context, opts entities.SearchOptions) ([]*entities.Clinic, error) {
	ctx, span := s.tracer.Start(ctx, "clinic_discovery.search")
	defer span.End()

	opts = opts.WithDefaults()
	logger := observability.LoggerFromContext(ctx)

	location, err := s.resolveLocation(ctx, opts)
	if err != nil {
		return nil, err
	}
	center := location.Coordinate

	span.SetAttributes(
		attribute.Int("search.radius_meters", opts.RadiusMeters),
		attribute.String("search.specialization", opts.Specialization),
	)

	clinics, cacheHit, err := s.areaClinics(ctx, center, opts)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Bool("search.cache_hit", cacheHit))

	results := s.ranker.Rank(clinics, center, opts)
	span.SetAttributes(attribute.Int("search.result_count", len(results)))

	logger.Debug().
		Bool("cache_hit", cacheHit).
		Int("candidates", len(clinics)).
		Int("results", len(results)).
		Msg("clinic search completed")

	return results, nil
}

// Triage classifies free-text symptoms without touching location or the
// facility source.
func (s *ClinicDiscoveryService) Triage(text, lang string) entities.TriageResult {
	return s.classifier.Classify(text, lang)
}

// SearchBySymptoms triages the symptom text and searches using the first
// matched specialization, carrying the triage result alongside the clinics.
func (s *ClinicDiscoveryService) SearchBySymptoms(ctx context.Context, symptoms, lang string, opts entities.SearchOptions) ([]*entities.Clinic, entities.TriageResult, error) {
	triage := s.classifier.Classify(symptoms, lang)
	if len(triage.Specializations) > 0 {
		opts.Specialization = triage.Specializations[0]
	}
	if triage.UrgencyLevel == entities.UrgencyEmergency {
		opts.Specialization = entities.SpecializationEmergency
	}

	clinics, err := s.Search(ctx, opts)
	if err != nil {
		return nil, triage, err
	}
	return clinics, triage, nil
}

func (s *ClinicDiscoveryService) resolveLocation(ctx context.Context, opts entities.SearchOptions) (*entities.UserLocation, error) {
	if opts.Location != nil {
		if err := opts.Location.Coordinate.Validate(); err != nil {
			return nil, apperrors.NewValidationError(err.Error())
		}
		return opts.Location, nil
	}
	return s.location.CachedOrCurrent(ctx)
}

// areaClinics returns the normalized clinic set for the search area,
// cache-aside with a singleflight guard so one area is fetched at most once
// concurrently.
func (s *ClinicDiscoveryService) areaClinics(ctx context.Context, center entities.Coordinate, opts entities.SearchOptions) ([]*entities.Clinic, bool, error) {
	key := searchCacheKey(center, opts)
	logger := observability.LoggerFromContext(ctx)

	if cached, err := s.cache.Get(ctx, key); err == nil {
		var clinics []*entities.Clinic
		if err := json.Unmarshal(cached, &clinics); err == nil {
			return clinics, true, nil
		}
		// A corrupt entry is dropped and refetched.
		logger.Warn().Str("key", key).Msg("discarding undecodable cache entry")
		_ = s.cache.Delete(ctx, key)
	} else if !errors.Is(err, providers.ErrCacheMiss) {
		logger.Warn().Err(err).Str("key", key).Msg("cache read failed, falling through to source")
	}

	fetched, err, _ := s.flight.Do(key, func() (interface{}, error) {
		return s.fetchAndCache(ctx, key, center, opts)
	})
	if err != nil {
		return nil, false, err
	}
	return fetched.([]*entities.Clinic), false, nil
}

func (s *ClinicDiscoveryService) fetchAndCache(ctx context.Context, key string, center entities.Coordinate, opts entities.SearchOptions) ([]*entities.Clinic, error) {
	query, err := BuildFacilityQuery(center, opts.RadiusMeters, opts.Specialization)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	raw, err := s.source.FetchFacilities(ctx, query)
	if err != nil {
		return nil, apperrors.NewSearchError("facility source query failed", err)
	}

	clinics := s.normalizer.NormalizeAll(raw)

	// Cache write failures only cost the next caller a refetch; failed
	// searches are never cached.
	if payload, err := json.Marshal(clinics); err == nil {
		if err := s.cache.Set(ctx, key, payload, s.ttlSeconds); err != nil {
			observability.LoggerFromContext(ctx).Warn().Err(err).Str("key", key).Msg("cache write failed")
		}
	}
	return clinics, nil
}

// searchCacheKey identifies a search area. Coordinates are rounded to four
// decimal places (about 11 m) so nearby callers share entries; ranking-only
// options stay out of the key.
func searchCacheKey(center entities.Coordinate, opts entities.SearchOptions) string {
	spec := opts.Specialization
	if spec == "" {
		spec = "all"
	}
	return fmt.Sprintf("clinics:%.4f_%.4f_%d_%s", center.Latitude, center.Longitude, opts.RadiusMeters, spec)
}
