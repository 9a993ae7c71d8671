package entities

// UrgencyLevel is a coarse triage classification driving recommendation text
// and result filtering.
type UrgencyLevel string

const (
	UrgencyLow       UrgencyLevel = "low"
	UrgencyMedium    UrgencyLevel = "medium"
	UrgencyHigh      UrgencyLevel = "high"
	UrgencyEmergency UrgencyLevel = "emergency"
)

var urgencyRank = map[UrgencyLevel]int{
	UrgencyLow:       0,
	UrgencyMedium:    1,
	UrgencyHigh:      2,
	UrgencyEmergency: 3,
}

// Rank returns the ordering position of the urgency level.
func (u UrgencyLevel) Rank() int {
	return urgencyRank[u]
}

// MaxUrgency returns the more severe of the two levels.
func MaxUrgency(a, b UrgencyLevel) UrgencyLevel {
	if b.Rank() > a.Rank() {
		return b
	}
	return a
}

// MedicalSpecialization represents a medical practice area used both to
// classify symptoms and to filter clinics. The set is static reference data,
// loaded once and immutable thereafter.
type MedicalSpecialization struct {
	ID        string
	Name      string
	LocalName string
	Urgency   UrgencyLevel
	Keywords  map[string][]string
}

// SpecializationEmergency is the reserved filter id that narrows facility
// queries to emergency-capable facilities.
const SpecializationEmergency = "emergency"

// specializations is scanned in declaration order by the symptom classifier so
// results are reproducible for the same input.
var specializations = []MedicalSpecialization{
	{
		ID:        "general_medicine",
		Name:      "General Medicine",
		LocalName: "பொது மருத்துவம்",
		Urgency:   UrgencyLow,
		Keywords: map[string][]string{
			"en": {"fever", "cold", "cough", "headache", "fatigue", "weakness", "body ache", "flu"},
			"ta": {"காய்ச்சல்", "சளி", "இருமல்", "தலைவலி", "சோர்வு", "உடல் வலி"},
		},
	},
	{
		ID:        "cardiology",
		Name:      "Cardiology",
		LocalName: "இதயவியல்",
		Urgency:   UrgencyHigh,
		Keywords: map[string][]string{
			"en": {"chest pain", "palpitations", "heart", "shortness of breath", "high blood pressure"},
			"ta": {"மார்பு வலி", "இதயம்", "படபடப்பு", "மூச்சுத் திணறல்"},
		},
	},
	{
		ID:        "neurology",
		Name:      "Neurology",
		LocalName: "நரம்பியல்",
		Urgency:   UrgencyHigh,
		Keywords: map[string][]string{
			"en": {"seizure", "stroke", "numbness", "paralysis", "migraine", "dizziness", "memory loss"},
			"ta": {"வலிப்பு", "பக்கவாதம்", "மயக்கம்", "ஒற்றைத் தலைவலி"},
		},
	},
	{
		ID:        "pulmonology",
		Name:      "Pulmonology",
		LocalName: "நுரையீரல் மருத்துவம்",
		Urgency:   UrgencyHigh,
		Keywords: map[string][]string{
			"en": {"breathing difficulty", "asthma", "wheezing", "persistent cough"},
			"ta": {"மூச்சு திணறல்", "ஆஸ்துமா", "இழுப்பு"},
		},
	},
	{
		ID:        "orthopedics",
		Name:      "Orthopedics",
		LocalName: "எலும்பியல்",
		Urgency:   UrgencyMedium,
		Keywords: map[string][]string{
			"en": {"fracture", "joint pain", "back pain", "sprain", "knee pain", "shoulder pain"},
			"ta": {"எலும்பு முறிவு", "மூட்டு வலி", "முதுகு வலி", "சுளுக்கு"},
		},
	},
	{
		ID:        "gastroenterology",
		Name:      "Gastroenterology",
		LocalName: "இரைப்பை குடலியல்",
		Urgency:   UrgencyMedium,
		Keywords: map[string][]string{
			"en": {"stomach pain", "vomiting", "diarrhea", "acidity", "constipation", "indigestion"},
			"ta": {"வயிற்று வலி", "வாந்தி", "வயிற்றுப்போக்கு", "அமிலத்தன்மை"},
		},
	},
	{
		ID:        "gynecology",
		Name:      "Gynecology",
		LocalName: "மகப்பேறியல்",
		Urgency:   UrgencyMedium,
		Keywords: map[string][]string{
			"en": {"pregnancy", "period pain", "menstrual", "irregular periods"},
			"ta": {"கர்ப்பம்", "மாதவிடாய் வலி", "மாதவிடாய்"},
		},
	},
	{
		ID:        "pediatrics",
		Name:      "Pediatrics",
		LocalName: "குழந்தை மருத்துவம்",
		Urgency:   UrgencyMedium,
		Keywords: map[string][]string{
			"en": {"child fever", "baby", "infant", "vaccination", "child"},
			"ta": {"குழந்தை", "தடுப்பூசி"},
		},
	},
	{
		ID:        "ophthalmology",
		Name:      "Ophthalmology",
		LocalName: "கண் மருத்துவம்",
		Urgency:   UrgencyMedium,
		Keywords: map[string][]string{
			"en": {"eye pain", "blurred vision", "red eye", "vision loss"},
			"ta": {"கண் வலி", "பார்வை மங்கல்", "கண் சிவப்பு"},
		},
	},
	{
		ID:        "psychiatry",
		Name:      "Psychiatry",
		LocalName: "மனநல மருத்துவம்",
		Urgency:   UrgencyMedium,
		Keywords: map[string][]string{
			"en": {"anxiety", "depression", "sleep problems", "panic", "stress"},
			"ta": {"மன அழுத்தம்", "பதட்டம்", "தூக்கமின்மை"},
		},
	},
	{
		ID:        "dermatology",
		Name:      "Dermatology",
		LocalName: "தோல் மருத்துவம்",
		Urgency:   UrgencyLow,
		Keywords: map[string][]string{
			"en": {"rash", "itching", "acne", "skin", "hair loss"},
			"ta": {"தோல்", "அரிப்பு", "பரு", "முடி உதிர்வு"},
		},
	},
	{
		ID:        "ent",
		Name:      "ENT",
		LocalName: "காது மூக்கு தொண்டை",
		Urgency:   UrgencyLow,
		Keywords: map[string][]string{
			"en": {"ear pain", "sore throat", "sinus", "hearing", "nose bleed"},
			"ta": {"காது வலி", "தொண்டை வலி", "மூக்கடைப்பு"},
		},
	},
	{
		ID:        "dentistry",
		Name:      "Dentistry",
		LocalName: "பல் மருத்துவம்",
		Urgency:   UrgencyLow,
		Keywords: map[string][]string{
			"en": {"toothache", "tooth", "gum", "cavity"},
			"ta": {"பல் வலி", "ஈறு"},
		},
	},
	{
		ID:        SpecializationEmergency,
		Name:      "Emergency Medicine",
		LocalName: "அவசர மருத்துவம்",
		Urgency:   UrgencyEmergency,
		Keywords: map[string][]string{
			"en": {"accident", "unconscious", "severe bleeding", "severe pain", "poisoning", "severe burn", "snake bite", "not breathing"},
			"ta": {"விபத்து", "மயக்கமடைந்த", "கடுமையான இரத்தப்போக்கு", "கடுமையான வலி", "விஷம்", "பாம்பு கடி"},
		},
	},
}

// Specializations returns the static specialization registry in declaration
// order. Callers must not modify the returned slice.
func Specializations() []MedicalSpecialization {
	return specializations
}

// SpecializationByID looks up a specialization by its canonical id.
func SpecializationByID(id string) (MedicalSpecialization, bool) {
	for _, s := range specializations {
		if s.ID == id {
			return s, true
		}
	}
	return MedicalSpecialization{}, false
}
