package locale

import "strings"

const (
	LanguageIndonesian = "id"
	LanguageEnglish    = "en"

	// DefaultLanguage is used when neither a cookie nor the browser states a preference.
	DefaultLanguage = LanguageIndonesian
	// CookieName stores the visitor's toggle choice.
	CookieName = "app_lang"
)

type Preference struct {
	Language string
	Locale   string
	HTMLLang string
}

func NormalizeLanguage(raw string) string {
	trimmed := strings.ToLower(strings.TrimSpace(raw))
	if trimmed == "" {
		return ""
	}
	// "in" is the legacy ISO 639 code still sent by some Android browsers.
	if trimmed == "id" || trimmed == "in" || strings.HasPrefix(trimmed, "id-") || strings.HasPrefix(trimmed, "id_") {
		return LanguageIndonesian
	}
	if strings.HasPrefix(trimmed, "en") {
		return LanguageEnglish
	}
	return ""
}

// LanguageFromAcceptLanguage returns the first supported language in the header.
func LanguageFromAcceptLanguage(header string) string {
	for _, part := range strings.Split(header, ",") {
		tag := part
		if idx := strings.Index(tag, ";"); idx >= 0 {
			tag = tag[:idx]
		}
		if lang := NormalizeLanguage(tag); lang != "" {
			return lang
		}
	}
	return ""
}

// Resolve picks the language for a request: explicit cookie, then browser header, then default.
func Resolve(cookieValue, acceptLanguage string) string {
	if lang := NormalizeLanguage(cookieValue); lang != "" {
		return lang
	}
	if lang := LanguageFromAcceptLanguage(acceptLanguage); lang != "" {
		return lang
	}
	return DefaultLanguage
}

// Toggle flips between the two supported languages.
func Toggle(language string) string {
	if NormalizeLanguage(language) == LanguageEnglish {
		return LanguageIndonesian
	}
	return LanguageEnglish
}

func PreferenceForLanguage(language string) Preference {
	if NormalizeLanguage(language) == LanguageEnglish {
		return Preference{Language: LanguageEnglish, Locale: "en_US", HTMLLang: "en-US"}
	}
	return Preference{Language: LanguageIndonesian, Locale: "id_ID", HTMLLang: "id-ID"}
}
