package services

import (
	"fmt"
	"math"
	"strings"

	"github.com/medassist/clinic-discovery/internal/domain/entities"
	"github.com/medassist/clinic-discovery/internal/domain/providers"
)

// Free-form specialty strings mapped to canonical specialization ids. Spelling
// variants share one id; unrecognized strings are dropped, never errored.
var specialtySynonyms = map[string]string{
	"general":          "general_medicine",
	"general medicine": "general_medicine",
	"gp":               "general_medicine",
	"family medicine":  "general_medicine",
	"internal":         "general_medicine",
	"cardiology":       "cardiology",
	"cardiac":          "cardiology",
	"heart":            "cardiology",
	"neurology":        "neurology",
	"neuro":            "neurology",
	"orthopedics":      "orthopedics",
	"orthopaedics":     "orthopedics",
	"orthopedic":       "orthopedics",
	"orthopaedic":      "orthopedics",
	"pediatrics":       "pediatrics",
	"paediatrics":      "pediatrics",
	"pediatric":        "pediatrics",
	"paediatric":       "pediatrics",
	"gynecology":       "gynecology",
	"gynaecology":      "gynecology",
	"obstetrics":       "gynecology",
	"dermatology":      "dermatology",
	"skin":             "dermatology",
	"ent":              "ent",
	"otolaryngology":   "ent",
	"ophthalmology":    "ophthalmology",
	"eye":              "ophthalmology",
	"dentistry":        "dentistry",
	"dental":           "dentistry",
	"dentist":          "dentistry",
	"gastroenterology": "gastroenterology",
	"pulmonology":      "pulmonology",
	"chest":            "pulmonology",
	"psychiatry":       "psychiatry",
	"emergency":        "emergency",
}

// addressTagOrder is the assembly order for the postal address string.
var addressTagOrder = []string{
	"addr:housenumber",
	"addr:street",
	"addr:suburb",
	"addr:city",
	"addr:state",
	"addr:postcode",
}

// FacilityNormalizer converts raw, heterogeneous external records into
// canonical Clinic entities. Records without a resolvable name or coordinate
// are unusable for a user-facing list and are dropped, never errored.
type FacilityNormalizer struct {
	defaultLanguages []string
}

// NewFacilityNormalizer creates a new facility normalizer.
func NewFacilityNormalizer() *FacilityNormalizer {
	return &FacilityNormalizer{
		defaultLanguages: []string{"English", "Tamil"},
	}
}

// NormalizeAll normalizes a batch, silently dropping unusable records. A
// partially-unusable external dataset never fails a whole search.
func (n *FacilityNormalizer) NormalizeAll(raw []providers.RawFacility) []*entities.Clinic {
	clinics := make([]*entities.Clinic, 0, len(raw))
	for _, r := range raw {
		if clinic := n.Normalize(r); clinic != nil {
			clinics = append(clinics, clinic)
		}
	}
	return clinics
}

// Normalize converts one raw record, returning nil when the record is
// unusable.
func (n *FacilityNormalizer) Normalize(raw providers.RawFacility) *entities.Clinic {
	if raw.Latitude == nil || raw.Longitude == nil {
		return nil
	}
	coord := entities.Coordinate{Latitude: *raw.Latitude, Longitude: *raw.Longitude}
	if err := coord.Validate(); err != nil {
		return nil
	}

	name := resolveName(raw.Tags)
	if name == "" {
		// The normalizer never synthesizes a name, even for major facility
		// types.
		return nil
	}

	facilityType := strings.ToLower(strings.TrimSpace(raw.Tags["amenity"]))
	specialtyTag := raw.Tags["healthcare:speciality"]

	clinic := &entities.Clinic{
		ID:               fmt.Sprintf("osm:%s:%d", raw.Type, raw.ID),
		Name:             name,
		Address:          assembleAddress(raw.Tags, coord),
		City:             strings.TrimSpace(raw.Tags["addr:city"]),
		State:            strings.TrimSpace(raw.Tags["addr:state"]),
		PostalCode:       strings.TrimSpace(raw.Tags["addr:postcode"]),
		Location:         coord,
		PhoneNumber:      firstTag(raw.Tags, "phone", "contact:phone"),
		Email:            firstTag(raw.Tags, "email", "contact:email"),
		Website:          firstTag(raw.Tags, "website", "contact:website"),
		FacilityType:     facilityType,
		ExternalSourceID: fmt.Sprintf("%s/%d", raw.Type, raw.ID),
	}

	clinic.Specializations = inferSpecializations(facilityType, specialtyTag)
	clinic.EmergencyServices = inferEmergency(raw.Tags, facilityType, specialtyTag)
	if clinic.EmergencyServices && !containsString(clinic.Specializations, entities.SpecializationEmergency) {
		clinic.Specializations = append(clinic.Specializations, entities.SpecializationEmergency)
	}

	clinic.OpeningHours, clinic.HoursEstimated = parseOpeningHours(raw.Tags["opening_hours"])
	clinic.Rating = estimateRating(clinic, specialtyTag)
	clinic.RatingEstimated = true

	clinic.Languages = n.inferLanguages(raw.Tags)
	clinic.Facilities = inferFacilities(raw.Tags)
	clinic.Services = inferServices(facilityType, raw.Tags)

	return clinic
}

// resolveName applies the name fallback chain: primary, localized, brand.
func resolveName(tags map[string]string) string {
	for _, key := range []string{"name", "name:ta", "name:en", "brand"} {
		if v := strings.TrimSpace(tags[key]); v != "" {
			return v
		}
	}
	return ""
}

// assembleAddress joins the available structured parts in order, falling back
// to a coordinate string when no part is present.
func assembleAddress(tags map[string]string, coord entities.Coordinate) string {
	parts := make([]string, 0, len(addressTagOrder))
	for _, key := range addressTagOrder {
		if v := strings.TrimSpace(tags[key]); v != "" {
			parts = append(parts, v)
		}
	}
	if len(parts) == 0 {
		return fmt.Sprintf("%.5f, %.5f", coord.Latitude, coord.Longitude)
	}
	return strings.Join(parts, ", ")
}

// inferSpecializations derives specializations from the facility type and the
// free-form specialty tag, deduplicated, in derivation order.
func inferSpecializations(facilityType, specialtyTag string) []string {
	var result []string
	add := func(id string) {
		if id != "" && !containsString(result, id) {
			result = append(result, id)
		}
	}

	switch facilityType {
	case "hospital":
		add("general_medicine")
		add(entities.SpecializationEmergency)
	case "clinic", "doctors":
		add("general_medicine")
	}

	for _, part := range strings.Split(specialtyTag, ";") {
		key := strings.ToLower(strings.TrimSpace(part))
		if key == "" {
			continue
		}
		add(specialtySynonyms[key])
	}

	return result
}

func inferEmergency(tags map[string]string, facilityType, specialtyTag string) bool {
	if isAffirmative(tags["emergency"]) {
		return true
	}
	if facilityType == "hospital" {
		return true
	}
	return strings.Contains(strings.ToLower(specialtyTag), "emergency")
}

func isAffirmative(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "yes", "24/7", "designated":
		return true
	}
	return false
}

// parseOpeningHours recognizes the 24/7 marker; any other value falls back to
// the default weekly schedule and is flagged as estimated. The full opening
// hours grammar is not parsed.
func parseOpeningHours(value string) (entities.WeekSchedule, bool) {
	if strings.TrimSpace(value) == "24/7" {
		week := make(entities.WeekSchedule, len(entities.Weekdays))
		for _, day := range entities.Weekdays {
			week[day] = entities.DaySchedule{Open24Hours: true}
		}
		return week, false
	}

	week := entities.WeekSchedule{
		"monday":    {Open: "08:00", Close: "18:00"},
		"tuesday":   {Open: "08:00", Close: "18:00"},
		"wednesday": {Open: "08:00", Close: "18:00"},
		"thursday":  {Open: "08:00", Close: "18:00"},
		"friday":    {Open: "08:00", Close: "18:00"},
		"saturday":  {Open: "09:00", Close: "14:00"},
		"sunday":    {Closed: true},
	}
	return week, true
}

// estimateRating fabricates a score from tag presence. It is an estimate, not
// a review aggregate; Clinic.RatingEstimated records that.
func estimateRating(clinic *entities.Clinic, specialtyTag string) float64 {
	rating := 3.5
	if clinic.FacilityType == "hospital" {
		rating += 0.5
	}
	if clinic.EmergencyServices {
		rating += 0.3
	}
	if clinic.Website != "" {
		rating += 0.2
	}
	if clinic.PhoneNumber != "" {
		rating += 0.2
	}
	if strings.TrimSpace(specialtyTag) != "" {
		rating += 0.3
	}
	if rating > 5.0 {
		rating = 5.0
	}
	return math.Round(rating*10) / 10
}

func (n *FacilityNormalizer) inferLanguages(tags map[string]string) []string {
	languages := append([]string(nil), n.defaultLanguages...)
	if _, ok := tags["name:hi"]; ok {
		languages = append(languages, "Hindi")
	}
	return languages
}

func inferFacilities(tags map[string]string) []string {
	var facilities []string
	if isAffirmative(tags["wheelchair"]) {
		facilities = append(facilities, "Wheelchair Access")
	}
	if v := strings.ToLower(tags["parking"]); v != "" && v != "no" {
		facilities = append(facilities, "Parking")
	}
	if v := strings.ToLower(tags["internet_access"]); v == "wlan" || v == "yes" || v == "wifi" {
		facilities = append(facilities, "WiFi")
	}
	return facilities
}

func inferServices(facilityType string, tags map[string]string) []string {
	var services []string
	switch facilityType {
	case "hospital":
		services = append(services, "Inpatient Care", "Outpatient Care")
	case "clinic", "doctors":
		services = append(services, "Outpatient Care")
	case "pharmacy":
		services = append(services, "Medicines")
	}
	if v := strings.ToLower(tags["dispensing"]); v == "yes" {
		services = append(services, "Dispensing")
	}
	return services
}

// firstTag returns the first non-empty tag among the given keys.
func firstTag(tags map[string]string, keys ...string) string {
	for _, key := range keys {
		if v := strings.TrimSpace(tags[key]); v != "" {
			return v
		}
	}
	return ""
}

func containsString(list []string, target string) bool {
	for _, s := range list {
		if s == target {
			return true
		}
	}
	return false
}
