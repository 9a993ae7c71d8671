package services

import (
	"sort"
	"strings"

	"github.com/medassist/clinic-discovery/internal/domain/entities"
	"github.com/medassist/clinic-discovery/pkg/geo"
)

// ResultRanker annotates clinics with their distance from the search center,
// applies the option filters, sorts, and truncates. It never mutates its
// input: cached result slices are shared between concurrent searches, so each
// ranked clinic is a per-search copy.
type ResultRanker struct{}

// NewResultRanker creates a new result ranker.
func NewResultRanker() *ResultRanker {
	return &ResultRanker{}
}

type rankedClinic struct {
	clinic *entities.Clinic
	// distanceKm keeps full precision for ordering and radius checks; the
	// clinic field carries the rounded presentation value.
	distanceKm float64
}

// Rank produces the final result list for one search.
func (r *ResultRanker) Rank(clinics []*entities.Clinic, center entities.Coordinate, opts entities.SearchOptions) []*entities.Clinic {
	radiusKm := float64(opts.RadiusMeters) / 1000.0

	ranked := make([]rankedClinic, 0, len(clinics))
	for _, c := range clinics {
		distance := geo.HaversineKm(center.Latitude, center.Longitude, c.Location.Latitude, c.Location.Longitude)
		if distance > radiusKm {
			continue
		}
		if !matchesFilters(c, opts) {
			continue
		}

		copied := *c
		rounded := geo.RoundKm(distance)
		copied.DistanceKm = &rounded
		ranked = append(ranked, rankedClinic{clinic: &copied, distanceKm: distance})
	}

	sortRanked(ranked, opts.SortBy)

	if len(ranked) > opts.Limit {
		ranked = ranked[:opts.Limit]
	}

	results := make([]*entities.Clinic, len(ranked))
	for i, rc := range ranked {
		results[i] = rc.clinic
	}
	return results
}

func matchesFilters(c *entities.Clinic, opts entities.SearchOptions) bool {
	if opts.MinRating > 0 && c.Rating < opts.MinRating {
		return false
	}
	if opts.EmergencyOnly && !c.EmergencyServices {
		return false
	}
	if opts.Specialization != "" && !c.HasSpecialization(opts.Specialization) {
		return false
	}
	if opts.Language != "" && !speaksLanguage(c, opts.Language) {
		return false
	}
	return true
}

func speaksLanguage(c *entities.Clinic, language string) bool {
	want := strings.ToLower(language)
	for _, l := range c.Languages {
		if strings.Contains(strings.ToLower(l), want) {
			return true
		}
	}
	return false
}

// sortRanked orders results by the requested key. Stable sort keeps the
// incoming order for ties, so identical inputs always rank identically.
func sortRanked(ranked []rankedClinic, key entities.SortKey) {
	switch key {
	case entities.SortByRating:
		sort.SliceStable(ranked, func(i, j int) bool {
			return ranked[i].clinic.Rating > ranked[j].clinic.Rating
		})
	case entities.SortByName:
		sort.SliceStable(ranked, func(i, j int) bool {
			return ranked[i].clinic.Name < ranked[j].clinic.Name
		})
	default:
		sort.SliceStable(ranked, func(i, j int) bool {
			return ranked[i].distanceKm < ranked[j].distanceKm
		})
	}
}
