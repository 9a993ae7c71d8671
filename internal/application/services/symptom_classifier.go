package services

import (
	"fmt"
	"strings"

	"github.com/medassist/clinic-discovery/internal/domain/entities"
)

const emergencyDialCode = "108"

// Recommendation templates per supported language; unsupported languages fall
// back to English.
var recommendationText = map[string]struct {
	emergency  string
	visit      string
	promptCare string
	noMatch    string
}{
	"en": {
		emergency:  "This may be a medical emergency. Call " + emergencyDialCode + " or go to the nearest emergency department immediately.",
		visit:      "Consider visiting a %s specialist.",
		promptCare: "These symptoms may need prompt medical attention. Please seek care soon.",
		noMatch:    "Consider visiting a general practitioner for an initial assessment.",
	},
	"ta": {
		emergency:  "இது மருத்துவ அவசரநிலையாக இருக்கலாம். உடனடியாக " + emergencyDialCode + " ஐ அழைக்கவும் அல்லது அருகிலுள்ள அவசர சிகிச்சைப் பிரிவுக்குச் செல்லவும்.",
		visit:      "%s நிபுணரை அணுகவும்.",
		promptCare: "இந்த அறிகுறிகளுக்கு விரைவில் மருத்துவ கவனிப்பு தேவைப்படலாம்.",
		noMatch:    "முதல் பரிசோதனைக்கு பொது மருத்துவரை அணுகவும்.",
	},
}

// SymptomClassifier maps free-text symptom descriptions to medical
// specializations with an aggregate urgency level. Matching is keyword-based
// against the static specialization registry; it is deliberately simple and
// deterministic, not a diagnostic model.
type SymptomClassifier struct{}

// NewSymptomClassifier creates a new symptom classifier.
func NewSymptomClassifier() *SymptomClassifier {
	return &SymptomClassifier{}
}

// Classify scans the registry in declaration order and returns every
// specialization whose keywords appear in the text, the most severe urgency
// among the matches, and recommendation strings in the requested language.
func (c *SymptomClassifier) Classify(text, lang string) entities.TriageResult {
	normalized := strings.ToLower(strings.TrimSpace(text))

	result := entities.TriageResult{
		Specializations: []string{},
		UrgencyLevel:    entities.UrgencyLow,
		Recommendations: []string{},
	}
	if normalized == "" {
		result.Recommendations = append(result.Recommendations, textFor(lang).noMatch)
		return result
	}

	var matched []entities.MedicalSpecialization
	for _, spec := range entities.Specializations() {
		if matchesAny(normalized, keywordsFor(spec, lang)) {
			matched = append(matched, spec)
			result.Specializations = append(result.Specializations, spec.ID)
			result.UrgencyLevel = entities.MaxUrgency(result.UrgencyLevel, spec.Urgency)
		}
	}

	result.Recommendations = buildRecommendations(matched, result.UrgencyLevel, lang)
	return result
}

// keywordsFor returns the keyword list for the language, falling back to
// English so an unsupported language code still classifies.
func keywordsFor(spec entities.MedicalSpecialization, lang string) []string {
	if kw, ok := spec.Keywords[lang]; ok {
		return kw
	}
	return spec.Keywords["en"]
}

func matchesAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

func buildRecommendations(matched []entities.MedicalSpecialization, urgency entities.UrgencyLevel, lang string) []string {
	msgs := textFor(lang)
	recs := []string{}

	if urgency == entities.UrgencyEmergency {
		recs = append(recs, msgs.emergency)
	}

	for _, spec := range matched {
		if spec.ID == entities.SpecializationEmergency {
			continue
		}
		name := spec.Name
		if lang == "ta" {
			name = spec.LocalName
		}
		recs = append(recs, fmt.Sprintf(msgs.visit, name))
	}

	if urgency == entities.UrgencyHigh {
		recs = append(recs, msgs.promptCare)
	}

	if len(matched) == 0 {
		recs = append(recs, msgs.noMatch)
	}
	return recs
}

func textFor(lang string) struct {
	emergency  string
	visit      string
	promptCare string
	noMatch    string
} {
	if msgs, ok := recommendationText[lang]; ok {
		return msgs
	}
	return recommendationText["en"]
}
