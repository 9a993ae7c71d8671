package entities

// TriageResult is the output contract of the symptom classifier, consumed by
// the calling chat layer to prefix responses and pre-filter a clinic search.
type TriageResult struct {
	Specializations []string     `json:"specializations"`
	UrgencyLevel    UrgencyLevel `json:"urgency_level"`
	Recommendations []string     `json:"recommendations"`
}
