package errors

// User-facing messages per language. Raw external error text is never exposed
// to end users; only these catalog strings are.

type messageKey struct {
	errType ErrorType
	reason  LocationReason
}

var userMessages = map[messageKey]map[string]string{
	{ErrorTypeLocationUnavailable, ReasonPermissionDenied}: {
		"en": "Location permission was denied. Please allow location access or enter your location manually.",
		"ta": "இருப்பிட அனுமதி மறுக்கப்பட்டது. இருப்பிட அணுகலை அனுமதிக்கவும் அல்லது உங்கள் இருப்பிடத்தை நேரடியாக உள்ளிடவும்.",
	},
	{ErrorTypeLocationUnavailable, ReasonPositionUnavailable}: {
		"en": "We could not determine your location. Please try again.",
		"ta": "உங்கள் இருப்பிடத்தை கண்டறிய முடியவில்லை. மீண்டும் முயற்சிக்கவும்.",
	},
	{ErrorTypeLocationUnavailable, ReasonTimeout}: {
		"en": "Locating you took too long. Please try again.",
		"ta": "உங்கள் இருப்பிடத்தை கண்டறிய அதிக நேரம் ஆனது. மீண்டும் முயற்சிக்கவும்.",
	},
	{ErrorTypeLocationUnavailable, ReasonUnsupported}: {
		"en": "Location services are not available on this device. Please enter your location manually.",
		"ta": "இந்த சாதனத்தில் இருப்பிட சேவைகள் இல்லை. உங்கள் இருப்பிடத்தை நேரடியாக உள்ளிடவும்.",
	},
	{ErrorTypeSearchFailed, ""}: {
		"en": "Clinic search is temporarily unavailable. Please try again.",
		"ta": "மருத்துவமனை தேடல் தற்காலிகமாக கிடைக்கவில்லை. மீண்டும் முயற்சிக்கவும்.",
	},
	{ErrorTypeValidation, ""}: {
		"en": "The search request was invalid.",
		"ta": "தேடல் கோரிக்கை தவறானது.",
	},
}

var genericMessages = map[string]string{
	"en": "Something went wrong. Please try again.",
	"ta": "ஏதோ தவறு நடந்துவிட்டது. மீண்டும் முயற்சிக்கவும்.",
}

// UserMessage returns a localized, user-safe message for err. Unknown
// languages fall back to English; unknown errors fall back to a generic
// message.
func UserMessage(err error, lang string) string {
	appErr, ok := AsAppError(err)
	if !ok {
		return pick(genericMessages, lang)
	}

	if msgs, ok := userMessages[messageKey{appErr.Type, appErr.Reason}]; ok {
		return pick(msgs, lang)
	}
	if msgs, ok := userMessages[messageKey{appErr.Type, ""}]; ok {
		return pick(msgs, lang)
	}
	return pick(genericMessages, lang)
}

func pick(msgs map[string]string, lang string) string {
	if msg, ok := msgs[lang]; ok {
		return msg
	}
	return msgs["en"]
}
